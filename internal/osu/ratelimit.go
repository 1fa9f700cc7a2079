package osu

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles outbound fetches per external platform. Each platform
// gets a window budget; callers wait when the budget is exhausted. An explicit
// upstream rate-limit signal forces an extended cooldown on top.
type RateLimiter struct {
	mu            sync.Mutex
	limiters      map[string]*rate.Limiter
	cooldownUntil map[string]time.Time

	budget   int
	window   time.Duration
	cooldown time.Duration

	now func() time.Time
}

func NewRateLimiter(budget int, window, cooldown time.Duration) *RateLimiter {
	if budget <= 0 {
		budget = 1
	}
	return &RateLimiter{
		limiters:      make(map[string]*rate.Limiter),
		cooldownUntil: make(map[string]time.Time),
		budget:        budget,
		window:        window,
		cooldown:      cooldown,
		now:           time.Now,
	}
}

// Wait blocks until the platform has budget and any active cooldown has
// elapsed, or the context is cancelled.
func (r *RateLimiter) Wait(ctx context.Context, platform string) error {
	r.mu.Lock()
	until, cooling := r.cooldownUntil[platform]
	limiter, ok := r.limiters[platform]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(r.window/time.Duration(r.budget)), r.budget)
		r.limiters[platform] = limiter
	}
	r.mu.Unlock()

	if cooling {
		if wait := until.Sub(r.now()); wait > 0 {
			timer := time.NewTimer(wait)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return limiter.Wait(ctx)
}

// Throttled reports whether a Wait call right now would block.
func (r *RateLimiter) Throttled(platform string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if until, ok := r.cooldownUntil[platform]; ok && r.now().Before(until) {
		return true
	}
	if limiter, ok := r.limiters[platform]; ok {
		return limiter.Tokens() < 1
	}
	return false
}

// ForceCooldown reacts to an explicit upstream rate-limit signal by pushing
// the platform's earliest next attempt out by the cooldown duration.
func (r *RateLimiter) ForceCooldown(platform string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cooldownUntil[platform] = r.now().Add(r.cooldown)
}
