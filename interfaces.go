package cloudsync

import "github.com/MKhiriev/go-cloud-sync/identity"

// Syncable is the only integration surface an application type must
// satisfy to be passed to the [Engine]:
//
//	(a) produce a stable unique key (identity.Keyed);
//	(b) be representable as a document (any json-serializable value is);
//	(c) resolve to a destination via the type tag.
//
// The key must be unique within the type's configured collection and never
// change once assigned. The type tag groups all objects of one type under
// one destination; it is typically a constant string per Go type.
type Syncable interface {
	identity.Keyed

	// TypeTag names the object's type for destination resolution.
	TypeTag() string
}
