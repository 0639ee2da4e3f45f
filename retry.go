package cloudsync

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-cloud-sync/config"
	"github.com/MKhiriev/go-cloud-sync/store"
)

// RetryPolicy bounds how the engine retries transient store failures.
// Non-transient errors (invalid identity, serialization, configuration,
// permission, revision mismatch) are deterministic and never retried.
type RetryPolicy struct {
	// MaxAttempts is the total number of tries per store operation,
	// including the first one.
	MaxAttempts uint64

	// BaseDelay is the initial backoff delay; it doubles per attempt.
	BaseDelay time.Duration

	// MaxElapsed bounds the total time spent on one operation including
	// all backoff sleeps.
	MaxElapsed time.Duration

	// JitterPercent randomizes each delay by ±percent.
	JitterPercent uint64
}

func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   4,
		BaseDelay:     100 * time.Millisecond,
		MaxElapsed:    30 * time.Second,
		JitterPercent: 20,
	}
}

// RetryPolicyFromConfig lifts the retry settings of a loaded configuration
// into a RetryPolicy.
func RetryPolicyFromConfig(cfg *config.Config) RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   cfg.Retry.MaxAttempts,
		BaseDelay:     cfg.Retry.BaseDelay,
		MaxElapsed:    cfg.Retry.MaxElapsed,
		JitterPercent: cfg.Retry.JitterPercent,
	}
}

func (p RetryPolicy) backoff() retry.Backoff {
	b := retry.NewExponential(p.BaseDelay)
	if p.JitterPercent > 0 {
		b = retry.WithJitterPercent(p.JitterPercent, b)
	}
	if p.MaxAttempts > 0 {
		b = retry.WithMaxRetries(p.MaxAttempts-1, b)
	}
	if p.MaxElapsed > 0 {
		b = retry.WithMaxDuration(p.MaxElapsed, b)
	}
	return b
}

// withRetry runs op, retrying with exponential backoff and jitter as long
// as op keeps failing transiently and the policy's attempt and elapsed-time
// budgets hold. Cancellation of ctx is honored between attempts; a
// cancellation mid-attempt leaves store state exactly as the last completed
// attempt left it.
func (e *Engine) withRetry(ctx context.Context, verb string, op func(ctx context.Context) error) error {
	attempt := 0

	err := retry.Do(ctx, e.retry.backoff(), func(ctx context.Context) error {
		attempt++

		opErr := op(ctx)
		if store.IsTransient(opErr) {
			e.log.Warn().
				Str("verb", verb).
				Int("attempt", attempt).
				Err(opErr).
				Msg("transient store failure, backing off")
			return retry.RetryableError(opErr)
		}

		return opErr
	})
	if store.IsTransient(err) {
		// retry.Do only hands back a transient error once the budget is gone.
		return fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
	}

	return err
}
