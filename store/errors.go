package store

import "errors"

// Sentinel errors returned by [Client] implementations to signal well-known
// failure conditions. Callers should use [errors.Is] to match against these
// values.
var (
	// ErrNotFound is returned by Get and Delete when no document exists at
	// the requested key. The engine maps it to a not-found outcome for Get
	// and treats it as success for Delete.
	ErrNotFound = errors.New("document was not found")

	// ErrRevisionMismatch is returned by Put and Delete when an expected
	// revision was supplied and does not match the store's current revision
	// for the document, meaning another writer modified it since it was
	// last observed.
	ErrRevisionMismatch = errors.New("document revision conflict occurred")

	// ErrPermissionDenied is returned when the store rejects the operation
	// for authorization reasons. Deterministic: never retried.
	ErrPermissionDenied = errors.New("store denied permission")
)

// TransientError marks a store failure that is expected to resolve itself
// on retry: a timeout, temporary unavailability, or rate limiting. The
// engine retries transient failures with backoff; everything else
// propagates immediately.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return "transient store error: " + e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a [TransientError]. Returns nil when err is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Err: err}
}

// IsTransient reports whether any error in err's chain is a [TransientError].
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
