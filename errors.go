package cloudsync

import "errors"

// ErrRetriesExhausted is returned when a store operation kept failing with
// transient errors until the bounded attempt count or the total elapsed
// time ran out. The last transient failure is wrapped and available via
// [errors.Is]/[errors.As]. Callers should treat this as "retry later";
// deterministic failures (identity, serialization, configuration,
// permission) are never wrapped in it.
var ErrRetriesExhausted = errors.New("retry budget exhausted by transient store failures")
