package config

import "time"

// RateLimitConfig configures the fixed-window limiter guarding
// money-affecting routes (payment, deposit).  Limit requests are allowed
// per Window for each acting user and route.
type RateLimitConfig struct {
    Enabled bool
    Limit   int
    Window  time.Duration
    Prefix  string
}

func LoadRateLimitConfig() RateLimitConfig {
    c := RateLimitConfig{
        Enabled: envBool("RATE_LIMIT_ENABLED", true),
        Limit:   envInt("RATE_LIMIT_LIMIT", 30),
        Window:  envDur("RATE_LIMIT_WINDOW", time.Minute),
        Prefix:  getenv("RATE_LIMIT_PREFIX", "frontdesk:rl"),
    }
    if c.Limit < 1 {
        c.Limit = 1
    }
    return c
}
