package handler

import (
    "context"
    "database/sql"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"
)

// HealthHandler reports liveness and, when asked, dependency status.
type HealthHandler struct {
    DB    *sql.DB
    Redis *redis.Client
}

// Health answers "ok" for load balancers. With ?deep=1 it also pings
// MySQL and Redis and returns 503 when MySQL is down.
func (h *HealthHandler) Health(c echo.Context) error {
    if c.QueryParam("deep") == "" {
        return c.String(http.StatusOK, "ok")
    }
    ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
    defer cancel()

    status := http.StatusOK
    out := echo.Map{"db": "ok", "redis": "disabled"}
    if h.DB == nil || h.DB.PingContext(ctx) != nil {
        status = http.StatusServiceUnavailable
        out["db"] = "down"
    }
    if h.Redis != nil {
        out["redis"] = "ok"
        if err := h.Redis.Ping(ctx).Err(); err != nil {
            out["redis"] = "down"
        }
    }
    return c.JSON(status, out)
}
