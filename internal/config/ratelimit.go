package config

import "time"

// RateLimitConfig configures the Redis token bucket.  Two buckets are built
// from it: the general API bucket (Capacity) and a tighter one for the
// login endpoint (LoginCapacity) to slow down password guessing.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	LoginCapacity  int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	KeyStrategy    string // ip, user, route or an underscore-joined mix such as ip_user_route
	Prefix         string
	Debug          bool
}

func LoadRateLimitConfig() RateLimitConfig {
	c := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		LoginCapacity:  envInt("RATE_LIMIT_LOGIN_CAPACITY", 5),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		KeyStrategy:    envStr("RATE_LIMIT_KEY_STRATEGY", "ip_user_route"),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "hotel:rl"),
		Debug:          envBool("RATE_LIMIT_DEBUG", false),
	}
	return c.normalized()
}

// normalized clamps the numbers to usable values.  The key TTL must cover
// several refill intervals or idle buckets would reset to full too early.
func (c RateLimitConfig) normalized() RateLimitConfig {
	c.Capacity = max(c.Capacity, 1)
	c.LoginCapacity = max(c.LoginCapacity, 1)
	c.RefillTokens = max(c.RefillTokens, 1)
	if c.RefillInterval <= 0 {
		c.RefillInterval = time.Second
	}
	c.TTL = max(c.TTL, 5*c.RefillInterval)
	return c
}

// ForLogin derives the login bucket: same refill rate, smaller capacity,
// keyed by client IP and a separate prefix.
func (c RateLimitConfig) ForLogin() RateLimitConfig {
	out := c
	out.Capacity = c.LoginCapacity
	out.KeyStrategy = "ip_route"
	out.Prefix = c.Prefix + ":login"
	return out
}
