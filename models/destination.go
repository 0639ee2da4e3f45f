package models

// Credentials is an opaque handle identifying the store credentials for a
// destination. The sync core never inspects it; only the concrete store
// client knows how to interpret its own credential type (for example a
// bearer token for the HTTP store). Loading and parsing credential files
// is entirely the caller's concern.
type Credentials any

// Destination is the resolved (collection, credentials) pair for an object
// type. It is constant for a given type for the process lifetime: the
// configuration resolver rejects re-registration so no object can be
// re-routed mid-sync.
type Destination struct {
	// Collection is the namespace within the store that holds documents of
	// one object type, e.g. a Firestore collection or a table partition.
	Collection string `json:"collection"`

	// Credentials is the opaque credentials handle passed through to the
	// store client. May be nil when the client authenticates at
	// construction time (SQL-backed stores).
	Credentials Credentials `json:"-"`
}
