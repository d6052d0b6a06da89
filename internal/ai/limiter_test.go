package ai

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBlocksEleventhRequest(t *testing.T) {
	l := NewLimiter(10)
	now := time.Now()

	for i := 0; i < 10; i++ {
		assert.True(t, l.AllowAt("client", now), "request %d", i+1)
	}
	assert.False(t, l.AllowAt("client", now), "11th request within the minute")

	// Other identifiers have their own budget
	assert.True(t, l.AllowAt("other", now))

	// The bucket refills over the minute
	assert.True(t, l.AllowAt("client", now.Add(time.Minute)))
}

func TestNewLimiterDefaultsBudget(t *testing.T) {
	l := NewLimiter(0)
	assert.Equal(t, DefaultRequestsPerMinute, l.perMinute)
}

type countingCompleter struct {
	calls int
}

func (c *countingCompleter) Complete(context.Context, string, string) (string, error) {
	c.calls++
	return "# ok", nil
}

func TestRateLimitedCompleter(t *testing.T) {
	inner := &countingCompleter{}
	limited := &RateLimited{Completer: inner, Limiter: NewLimiter(2), Identifier: "cli"}

	for i := 0; i < 2; i++ {
		_, err := limited.Complete(context.Background(), "p", "")
		require.NoError(t, err)
	}

	_, err := limited.Complete(context.Background(), "p", "")
	assert.ErrorIs(t, err, ErrRateLimited)
	assert.Equal(t, 2, inner.calls)
}
