package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-cloud-sync/models"
)

// Validator is an optional hook a target type may implement to verify that
// a decoded document carries everything the type requires. [Unmarshal]
// calls it after decoding and wraps any returned error in
// [ErrSchemaMismatch], which is how missing-required-field detection is
// expressed for types that need it.
type Validator interface {
	Validate() error
}

// Marshal converts v into its document representation.
//
// Numbers survive as [json.Number] so that integer fields round-trip without
// float precision loss. Returns [ErrUnsupportedField] (wrapping the
// underlying encoding error) when v contains a field outside the document
// alphabet, or when v does not serialize to a JSON object at the top level
// (a document is always a field mapping, never a bare scalar or array).
func Marshal(v any) (models.Document, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		var typeErr *json.UnsupportedTypeError
		var valErr *json.UnsupportedValueError
		if errors.As(err, &typeErr) || errors.As(err, &valErr) {
			return nil, fmt.Errorf("%w: %w", ErrUnsupportedField, err)
		}
		return nil, fmt.Errorf("marshal object: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var doc models.Document
	if err = dec.Decode(&doc); err != nil {
		// A non-object top level (string, number, array) fails to decode
		// into the map type.
		return nil, fmt.Errorf("%w: object must serialize to a top-level document: %w", ErrUnsupportedField, err)
	}
	if doc == nil {
		// Typed-nil pointers and nil maps encode to JSON null, which
		// decodes into a nil map without error.
		return nil, fmt.Errorf("%w: object serializes to null, not a document", ErrUnsupportedField)
	}

	return doc, nil
}

// Unmarshal decodes doc into the value pointed to by into.
//
// Fields present in the document but unknown to the target type are ignored:
// documents written by newer schema revisions stay loadable. A field whose
// stored type is incompatible with the target field yields
// [ErrSchemaMismatch], as does a post-decode [Validator] failure.
func Unmarshal(doc models.Document, into any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err = json.Unmarshal(payload, into); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: field %q holds %s, target wants %s: %w",
				ErrSchemaMismatch, typeErr.Field, typeErr.Value, typeErr.Type, err)
		}
		return fmt.Errorf("decode document: %w", err)
	}

	if v, ok := into.(Validator); ok {
		if err = v.Validate(); err != nil {
			return fmt.Errorf("%w: %w", ErrSchemaMismatch, err)
		}
	}

	return nil
}
