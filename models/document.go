package models

// Document is the schema-less representation exchanged with a document
// store: a mapping from field name to value. Values are restricted to the
// JSON alphabet — nil, bool, number (json.Number or a Go numeric type),
// string, nested Document (as map[string]any) and ordered sequences
// ([]any). The document codec enforces the alphabet on the way in.
type Document map[string]any

// Clone returns a deep copy of the document. Nested maps and slices are
// copied recursively; scalar values are shared (they are immutable).
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case Document:
		return map[string]any(val.Clone())
	case map[string]any:
		return map[string]any(Document(val).Clone())
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
