package themeapi

import (
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy decides how many times and how far apart a call is attempted.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	// Retryable reports whether a response status may be retried.
	Retryable func(status int) bool
}

// DefaultPolicy tries three times, 500ms then 1s apart, and only retries
// rate-limited responses.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		Multiplier:  2,
		Retryable:   RetryOnRateLimit,
	}
}

// RetryOnRateLimit retries HTTP 429 only.
func RetryOnRateLimit(status int) bool {
	return status == http.StatusTooManyRequests
}

func (p Policy) retryable(status int) bool {
	if p.Retryable == nil {
		return false
	}
	return p.Retryable(status)
}

// backoff returns a fresh go-retry backoff for one call.
func (p Policy) backoff() retry.Backoff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}

	delay := p.BaseDelay
	next := retry.BackoffFunc(func() (time.Duration, bool) {
		current := delay
		delay = time.Duration(float64(delay) * multiplier)
		return current, false
	})
	return retry.WithMaxRetries(uint64(attempts-1), next)
}

// Delays lists the waits between attempts.
func (p Policy) Delays() []time.Duration {
	b := p.backoff()
	var out []time.Duration
	for {
		d, stop := b.Next()
		if stop {
			return out
		}
		out = append(out, d)
	}
}
