package config

import "errors"

var (
	// ErrMissingConfiguration is returned by [Resolver.DestinationFor] when
	// a type requests sync without a registered destination. This is a
	// programmer error: the engine fails the verb immediately and never
	// retries it.
	ErrMissingConfiguration = errors.New("no destination configured for type")

	// ErrDuplicateRegistration is returned by [Resolver.Register] when a
	// type tag already has a destination. Destinations are constant for the
	// process lifetime; re-routing a type mid-sync is not allowed.
	ErrDuplicateRegistration = errors.New("destination already registered for type")

	// ErrInvalidDestination is returned by [Resolver.Register] when the
	// type tag or the destination collection is empty.
	ErrInvalidDestination = errors.New("invalid destination")

	// ErrInvalidRetryConfigs indicates invalid retry settings (for example,
	// zero max attempts or a negative base delay).
	ErrInvalidRetryConfigs = errors.New("invalid retry configuration")
)
