package config

import (
    "testing"
    "time"
)

func TestLoadRateLimitConfigClampsValues(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")

    c := LoadRateLimitConfig()
    if c.Capacity != 1 {
        t.Fatalf("capacity = %d, want 1", c.Capacity)
    }
    if c.TTL != 10*time.Second {
        t.Fatalf("ttl = %s, want 10s", c.TTL)
    }
    if c.Prefix != "umrah:rl" {
        t.Fatalf("prefix = %q", c.Prefix)
    }
}

func TestLoadAuthRateLimitConfigDefaults(t *testing.T) {
    c := LoadAuthRateLimitConfig()
    if c.Capacity != 10 || c.KeyStrategy != "ip_route" {
        t.Fatalf("unexpected auth limits %+v", c)
    }
}

func TestLoadCacheConfig(t *testing.T) {
    t.Setenv("CACHE_METHODS", "get, head")
    t.Setenv("CACHE_ENABLED", "off")
    c := LoadCacheConfig()
    if c.Enabled {
        t.Fatalf("cache should be disabled")
    }
    if !c.Methods["GET"] || !c.Methods["HEAD"] || len(c.Methods) != 2 {
        t.Fatalf("methods = %v", c.Methods)
    }
}

func TestLoadRedisConfigPrefersHostPort(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:6380")
    t.Setenv("REDIS_HOST", "redis")
    t.Setenv("REDIS_PORT", "6379")
    if got := LoadRedisConfig().Addr; got != "redis:6379" {
        t.Fatalf("addr = %q", got)
    }
}
