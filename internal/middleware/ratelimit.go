package middleware

import (
    "log"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-frontdesk/internal/config"
)

// FixedWindow limits each user to cfg.Limit requests per route per window.
// Counters live in Redis so the limit holds across server instances.
type FixedWindow struct {
    cfg config.RateLimitConfig
    rdb *redis.Client
    now func() time.Time
}

func NewFixedWindow(cfg config.RateLimitConfig, rdb *redis.Client) *FixedWindow {
    return &FixedWindow{cfg: cfg, rdb: rdb, now: time.Now}
}

// Middleware passes everything through when disabled or when Redis is not
// configured.  Redis errors also fail open: payments must not be blocked
// by the limiter's own storage.
func (f *FixedWindow) Middleware() echo.MiddlewareFunc {
    if !f.cfg.Enabled || f.rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            now := f.now()
            window := now.UnixNano() / int64(f.cfg.Window)
            key := f.key(c, window)
            ctx := c.Request().Context()

            n, err := f.rdb.Incr(ctx, key).Result()
            if err != nil {
                log.Printf("ratelimit: redis error for key=%s: %v", key, err)
                return next(c)
            }
            if n == 1 {
                if err := f.rdb.Expire(ctx, key, f.cfg.Window).Err(); err != nil {
                    log.Printf("ratelimit: expire %s: %v", key, err)
                }
            }

            remaining := int64(f.cfg.Limit) - n
            if remaining < 0 {
                remaining = 0
            }
            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(f.cfg.Limit))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

            if n > int64(f.cfg.Limit) {
                reset := time.Unix(0, (window+1)*int64(f.cfg.Window))
                secs := int(reset.Sub(now).Seconds() + 0.999)
                h.Set("Retry-After", strconv.Itoa(secs))
                return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "rate limit exceeded, retry later"})
            }
            return next(c)
        }
    }
}

func (f *FixedWindow) key(c echo.Context, window int64) string {
    route := c.Request().Method + " " + c.Path()
    return strings.Join([]string{f.cfg.Prefix, "user", Actor(c), "route", route, strconv.FormatInt(window, 10)}, ":")
}
