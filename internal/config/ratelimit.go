package config

import "time"

// RateLimitConfig configures the Redis token bucket. Separate limits apply
// to the auth endpoints, which are the usual brute-force target.
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads the general RATE_LIMIT_* settings.
func LoadRateLimitConfig() RateLimitConfig {
    return loadRateLimit("RATE_LIMIT", 60, "ip_user_route", "umrah:rl")
}

// LoadAuthRateLimitConfig reads AUTH_RATE_LIMIT_* for /v1/auth.
func LoadAuthRateLimitConfig() RateLimitConfig {
    return loadRateLimit("AUTH_RATE_LIMIT", 10, "ip_route", "umrah:rl:auth")
}

func loadRateLimit(prefix string, capacity int, strategy, keyPrefix string) RateLimitConfig {
    c := RateLimitConfig{
        Enabled:        envBool(prefix+"_ENABLED", true),
        Capacity:       envInt(prefix+"_CAPACITY", capacity),
        RefillTokens:   envInt(prefix+"_REFILL_TOKENS", 1),
        RefillInterval: envDur(prefix+"_REFILL_INTERVAL", time.Second),
        TTL:            envDur(prefix+"_TTL", 10*time.Minute),
        KeyStrategy:    envStr(prefix+"_KEY_STRATEGY", strategy),
        Prefix:         envStr(prefix+"_PREFIX", keyPrefix),
        Debug:          envBool(prefix+"_DEBUG", false),
    }
    if c.Capacity < 1 {
        c.Capacity = 1
    }
    if c.RefillTokens < 1 {
        c.RefillTokens = 1
    }
    if c.RefillInterval <= 0 {
        c.RefillInterval = time.Second
    }
    if minTTL := 5 * c.RefillInterval; c.TTL < minTTL {
        c.TTL = minTTL
    }
    return c
}
