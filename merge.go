package cloudsync

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/MKhiriev/go-cloud-sync/models"
)

// MergePolicy decides how a local document is reconciled against the
// current remote document during [Engine.Update]. The policy receives
// defensive copies; it may mutate or return either argument.
type MergePolicy interface {
	Merge(remote, local models.Document) (models.Document, error)
}

// Overwrite discards the remote document and writes the local one as-is.
// Combined with the revision check this is "replace what I last saw".
type Overwrite struct{}

func (Overwrite) Merge(_, local models.Document) (models.Document, error) {
	return local, nil
}

// FieldUnion keeps every local field and fills in fields that exist only
// remotely, so concurrent writers extending disjoint parts of a document
// do not clobber each other. On a field present on both sides the local
// value wins. Nested documents are merged recursively.
type FieldUnion struct{}

func (FieldUnion) Merge(remote, local models.Document) (models.Document, error) {
	merged := local.Clone()
	if merged == nil {
		merged = models.Document{}
	}

	if err := mergo.Merge(&merged, remote.Clone()); err != nil {
		return nil, fmt.Errorf("field-union merge: %w", err)
	}

	return merged, nil
}

// MergeFunc adapts a caller-supplied function into a [MergePolicy].
type MergeFunc func(remote, local models.Document) (models.Document, error)

func (f MergeFunc) Merge(remote, local models.Document) (models.Document, error) {
	return f(remote, local)
}
