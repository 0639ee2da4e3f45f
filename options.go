package cloudsync

import (
	"github.com/MKhiriev/go-cloud-sync/config"
	"github.com/MKhiriev/go-cloud-sync/internal/logger"
)

// Option customizes an [Engine] at construction time.
type Option func(*Engine)

// WithLogger attaches a structured logger to the engine. The default
// engine discards all log output.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithRetryPolicy replaces the default transient-failure retry policy
// (4 attempts, 100ms exponential base, 20% jitter, 30s elapsed bound).
func WithRetryPolicy(p RetryPolicy) Option {
	return func(e *Engine) {
		e.retry = p
	}
}

// WithConflictRetries bounds how many additional read-merge-write cycles
// [Engine.Update] runs after a revision mismatch before reporting a
// Conflict outcome. Zero means a single cycle: the first mismatch is
// surfaced immediately. Default is 3.
func WithConflictRetries(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.conflictRetries = n
		}
	}
}

// WithoutCache disables the change-detection cache. Without it, saving an
// unmodified object writes again and reports Updated instead of Unchanged,
// and optimistic saves have no revision to present.
func WithoutCache() Option {
	return func(e *Engine) {
		e.cache = nil
	}
}

// WithOptimisticSave makes Save present the object's last-known revision
// to the store, turning last-writer-wins saves into checked writes that
// report Conflict when the remote moved. Requires the cache; a save with
// no cached revision is unconditional.
func WithOptimisticSave() Option {
	return func(e *Engine) {
		e.optimisticSave = true
	}
}

// FromConfig applies the engine-relevant settings of a loaded
// configuration (retry policy and conflict retries).
func FromConfig(cfg *config.Config) Option {
	return func(e *Engine) {
		e.retry = RetryPolicyFromConfig(cfg)
		if cfg.Retry.ConflictRetries >= 0 {
			e.conflictRetries = cfg.Retry.ConflictRetries
		}
	}
}
