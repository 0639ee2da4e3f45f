package document

import "errors"

// Sentinel errors returned by the codec. Callers should use [errors.Is] to
// match against these values; the underlying encoding/json error is always
// wrapped and available via [errors.As] for diagnostics.
var (
	// ErrUnsupportedField is returned by [Marshal] when a field cannot be
	// represented in the document alphabet (channels, functions, complex
	// numbers, cyclic values) or when the value does not serialize to a
	// top-level object.
	ErrUnsupportedField = errors.New("field cannot be represented as a document value")

	// ErrSchemaMismatch is returned by [Unmarshal] when a stored document
	// cannot reconstruct the target type: a field holds an incompatible
	// type, or the decoded value fails the target's own validation.
	// Distinct from store-access failures so callers can tell
	// "data is corrupt or stale-schema" from "store unreachable".
	ErrSchemaMismatch = errors.New("document does not match the target schema")
)
