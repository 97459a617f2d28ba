package middleware

import (
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/umrah-booking/internal/config"
)

// tokenBucket spends one token per call and tops the bucket up by whole
// refill intervals. KEYS[1] is the bucket; ARGV is now, capacity, refill
// amount, interval and ttl, all in milliseconds where relevant.
// Reply: {allowed, tokens left, retry after ms}.
var tokenBucket = redis.NewScript(`
local now, cap, step, every, ttl = tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])
local b = redis.call('HMGET', KEYS[1], 't', 'at')
local t, at = tonumber(b[1]) or cap, tonumber(b[2]) or now

if every > 0 and step > 0 and now > at then
    local n = math.floor((now - at) / every)
    if n > 0 then
        t = math.min(cap, t + n * step)
        at = at + n * every
    end
end

local ok, wait = 0, 0
if t >= 1 then
    ok, t = 1, t - 1
else
    wait = math.max(0, every - (now - at))
end

redis.call('HSET', KEYS[1], 't', t, 'at', at)
redis.call('PEXPIRE', KEYS[1], ttl)
return {ok, t, wait}
`)

type bucketResult struct {
    allowed   bool
    remaining int64
    retryMs   int64
}

// NewTokenBucket answers 429 once a caller's bucket is empty. Without Redis,
// or when disabled, it passes everything through; a failing script call
// lets the request through as well.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passThrough
    }
    limit := strconv.Itoa(cfg.Capacity)
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            key := buildRateKey(cfg, c)
            reply, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key},
                time.Now().UnixMilli(), cfg.Capacity, cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(), cfg.TTL.Milliseconds()).Result()
            res, ok := parseBucketResult(reply)
            if err != nil || !ok {
                if cfg.Debug {
                    c.Logger().Warnf("ratelimit: key=%s reply=%v err=%v", key, reply, err)
                }
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", limit)
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }
            if res.allowed {
                return next(c)
            }
            secs := retryAfterSeconds(res.retryMs)
            h.Set("Retry-After", strconv.Itoa(secs))
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "error":       "too many requests",
                "retry_after": secs,
            })
        }
    }
}

func passThrough(next echo.HandlerFunc) echo.HandlerFunc { return next }

func parseBucketResult(v interface{}) (bucketResult, bool) {
    arr, ok := v.([]interface{})
    if !ok || len(arr) != 3 {
        return bucketResult{}, false
    }
    var n [3]int64
    for i, x := range arr {
        // go-redis hands Lua integers back as int64
        if n[i], ok = x.(int64); !ok {
            return bucketResult{}, false
        }
    }
    return bucketResult{allowed: n[0] == 1, remaining: n[1], retryMs: n[2]}, true
}

func retryAfterSeconds(ms int64) int {
    if ms <= 0 {
        return 0
    }
    return int(math.Ceil(float64(ms) / 1000))
}

// keyParts lists, per KeyStrategy, which request attributes go into the
// bucket key. Unknown strategies use all three.
var keyParts = map[string][]string{
    "ip":         {"ip"},
    "user":       {"user"},
    "route":      {"route"},
    "ip_user":    {"ip", "user"},
    "ip_route":   {"ip", "route"},
    "user_route": {"user", "route"},
}

// buildRateKey joins the configured key parts, e.g.
// "umrah:rl:ip:1.2.3.4:user:anon:route:GET /v1/packages".
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts, ok := keyParts[strings.ToLower(cfg.KeyStrategy)]
    if !ok {
        parts = []string{"ip", "user", "route"}
    }
    out := []string{cfg.Prefix}
    for _, p := range parts {
        var v string
        switch p {
        case "ip":
            if v = c.RealIP(); v == "" {
                v = "unknown"
            }
        case "user":
            v = rateIdentity(c)
        case "route":
            v = c.Request().Method + " " + c.Path()
        }
        out = append(out, p, v)
    }
    return strings.Join(out, ":")
}
