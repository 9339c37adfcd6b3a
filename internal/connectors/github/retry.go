package github

import (
	"context"
	"time"
)

// RetryPolicy is an explicit backoff policy: bounded attempts with a
// multiplicative delay between them. Sleep is injectable so tests can
// run against a fake clock.
type RetryPolicy struct {
	// MaxAttempts bounds the total number of tries, including the first.
	MaxAttempts int

	// BaseDelay is the wait before the second attempt.
	BaseDelay time.Duration

	// Factor multiplies the delay after each failed attempt.
	Factor float64

	// Retryable decides whether a failure is worth another attempt.
	// Defaults to IsRetryable.
	Retryable func(error) bool

	// Sleep waits for the given duration, honouring ctx cancellation.
	// Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy is the budget for replication requests.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 7,
		BaseDelay:   time.Second,
		Factor:      3,
	}
}

// AccessCheckRetryPolicy is the tighter budget for the initial
// credential check.
func AccessCheckRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 5,
		BaseDelay:   time.Second,
		Factor:      2,
	}
}

// Do runs fn under the policy, returning the last error when every
// attempt fails or the first non-retryable error immediately.
func (p RetryPolicy) Do(ctx context.Context, fn func() error) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsRetryable
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	delay := p.BaseDelay
	var err error
	for attempt := 1; ; attempt++ {
		err = fn()
		if err == nil || !retryable(err) || attempt >= p.MaxAttempts {
			return err
		}
		if serr := sleep(ctx, delay); serr != nil {
			return serr
		}
		delay = time.Duration(float64(delay) * p.Factor)
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
