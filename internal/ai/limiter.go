package ai

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRequestsPerMinute is the per-identifier request budget
const DefaultRequestsPerMinute = 10

var ErrRateLimited = errors.New("rate limit exceeded, please try again later")

// Limiter hands out an independent token bucket per identifier.
// Each bucket holds perMinute tokens and refills over one minute.
type Limiter struct {
	mu        sync.Mutex
	perMinute int
	buckets   map[string]*rate.Limiter
}

// NewLimiter creates a limiter allowing perMinute requests per identifier
func NewLimiter(perMinute int) *Limiter {
	if perMinute <= 0 {
		perMinute = DefaultRequestsPerMinute
	}
	return &Limiter{
		perMinute: perMinute,
		buckets:   make(map[string]*rate.Limiter),
	}
}

// Allow reports whether identifier may make a request now
func (l *Limiter) Allow(identifier string) bool {
	return l.AllowAt(identifier, time.Now())
}

// AllowAt reports whether identifier may make a request at t
func (l *Limiter) AllowAt(identifier string, t time.Time) bool {
	return l.bucket(identifier).AllowN(t, 1)
}

func (l *Limiter) bucket(identifier string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[identifier]
	if !ok {
		b = rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)
		l.buckets[identifier] = b
	}
	return b
}

// RateLimited wraps a Completer so that every call spends a token of one
// identifier
type RateLimited struct {
	Completer  Completer
	Limiter    *Limiter
	Identifier string
}

// Complete forwards to the wrapped Completer or fails with ErrRateLimited
func (r *RateLimited) Complete(ctx context.Context, prompt, systemPrompt string) (string, error) {
	if !r.Limiter.Allow(r.Identifier) {
		return "", ErrRateLimited
	}
	return r.Completer.Complete(ctx, prompt, systemPrompt)
}
