package store

import (
	"context"

	"github.com/MKhiriev/go-cloud-sync/models"
)

// PutResult reports the outcome of a successful write: the revision the
// store assigned to the new document state, and whether the write created
// the document (no prior document existed at the key).
type PutResult struct {
	Revision models.Revision
	Created  bool
}

// KeyedDocument pairs a document with the key and revision it was listed
// under. Returned by [Client.List].
type KeyedDocument struct {
	Key      string
	Document models.Document
	Revision models.Revision
}

// Client is the abstract capability set a remote document store must
// provide. Implementations are responsible for wire serialization,
// credential handling, and mapping transport-level failures to the
// sentinel values in this package. Every operation is atomic from the
// caller's perspective: a document is either fully written or untouched.
//
// Implementations must be safe for concurrent use.
type Client interface {
	// Get fetches the document at key together with its current revision.
	// Returns ErrNotFound when no document exists — absence is a normal
	// condition, not a transport failure.
	Get(ctx context.Context, dst models.Destination, key string) (models.Document, models.Revision, error)

	// Put writes doc at key. When expected is not RevisionNone the write
	// only succeeds if the store's current revision matches; otherwise it
	// fails with ErrRevisionMismatch rather than silently overwriting.
	// With RevisionNone the write is unconditional (last-writer-wins).
	//
	// A revision only identifies a state of the current document: the
	// SQL-backed stores restart the counter when a key is recreated after
	// a delete, so callers must discard revisions observed before a
	// delete rather than present them to a CAS check (the engine's cache
	// drops its entry on Delete for exactly this reason).
	Put(ctx context.Context, dst models.Destination, key string, doc models.Document, expected models.Revision) (PutResult, error)

	// Delete removes the document at key, subject to the same revision
	// check as Put. Returns ErrNotFound when the document is already
	// absent; callers that tolerate the race treat that as success.
	Delete(ctx context.Context, dst models.Destination, key string, expected models.Revision) error

	// List returns every live document in the destination's collection.
	// Intended for bounded collections; this is a plain scan, not a query
	// interface.
	List(ctx context.Context, dst models.Destination) ([]KeyedDocument, error)
}
