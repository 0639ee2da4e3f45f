package models

// Revision is an opaque token capturing the last-observed remote version of
// a document. Store clients mint revisions on every successful write; the
// engine presents them back on Put/Delete for optimistic-concurrency checks.
// Callers must not interpret the contents — SQL stores render counters,
// the HTTP store uses ETags.
type Revision string

// RevisionNone means "no expectation": a Put or Delete carrying it skips
// the optimistic-concurrency check (last-writer-wins).
const RevisionNone Revision = ""

// IsNone reports whether the revision carries no expectation.
func (r Revision) IsNone() bool { return r == RevisionNone }
