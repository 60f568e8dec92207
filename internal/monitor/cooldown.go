package monitor

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Cooldown suppresses repeated events per key for a fixed interval. Ready
// only inspects the limiter; Mark consumes, so a failed delivery does not
// start the cooldown.
type Cooldown struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// NewCooldown creates a keyed cooldown with the given interval
func NewCooldown(interval time.Duration) *Cooldown {
	return &Cooldown{
		limiters: make(map[string]*rate.Limiter),
		interval: interval,
	}
}

func (c *Cooldown) limiter(key string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.limiters[key]
	if !ok {
		l = rate.NewLimiter(rate.Every(c.interval), 1)
		c.limiters[key] = l
	}
	return l
}

// Ready reports whether the key is outside its cooldown window
func (c *Cooldown) Ready(key string) bool {
	return c.limiter(key).Tokens() >= 1
}

// Mark starts the cooldown window for the key
func (c *Cooldown) Mark(key string) {
	c.limiter(key).Allow()
}
