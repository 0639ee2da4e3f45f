package models

// Outcome is the discriminated result of a sync verb. Expected outcomes
// (NotFound, Conflict, Unchanged) are reported as values with a nil error;
// only programmer errors and resource exhaustion surface as Go errors.
type Outcome int

const (
	// OutcomeFailed means the verb surfaced a hard error; the accompanying
	// error value carries the specific kind.
	OutcomeFailed Outcome = iota

	// OutcomeCreated means the document did not exist remotely and was written.
	OutcomeCreated

	// OutcomeUpdated means an existing remote document was overwritten.
	OutcomeUpdated

	// OutcomeDeleted means the document was removed, or was already absent
	// (deleting an already-deleted document is success, not an error).
	OutcomeDeleted

	// OutcomeUnchanged means change detection found the local document
	// identical to the last written state, so the write was skipped.
	OutcomeUnchanged

	// OutcomeLoaded means a document was fetched and decoded into the target.
	OutcomeLoaded

	// OutcomeNotFound means no document exists at the key. Not an error.
	OutcomeNotFound

	// OutcomeConflict means an optimistic-concurrency check failed and the
	// bounded conflict-retry budget is exhausted; the caller must reconcile.
	OutcomeConflict
)

var outcomeNames = map[Outcome]string{
	OutcomeFailed:    "failed",
	OutcomeCreated:   "created",
	OutcomeUpdated:   "updated",
	OutcomeDeleted:   "deleted",
	OutcomeUnchanged: "unchanged",
	OutcomeLoaded:    "loaded",
	OutcomeNotFound:  "not_found",
	OutcomeConflict:  "conflict",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return "unknown"
}

// Result is returned by every sync verb: the outcome plus the revision of
// the document as the store left it (empty when no write happened or the
// verb failed before reaching the store).
type Result struct {
	Outcome  Outcome  `json:"outcome"`
	Revision Revision `json:"revision,omitempty"`
}
