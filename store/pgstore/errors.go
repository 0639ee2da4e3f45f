package pgstore

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MKhiriev/go-cloud-sync/store"
)

// classify maps a PostgreSQL driver error onto the store error taxonomy.
// See https://www.postgresql.org/docs/current/errcodes-appendix.html for
// the full list of PostgreSQL error codes.
//
// Transient codes (the operation may succeed if attempted again):
//   - Class 08 — connection exceptions (08000, 08003, 08006)
//   - Class 40 — transaction rollback, serialization failure, deadlock
//   - 57P03   — cannot connect now
//   - 53xxx   — insufficient resources (too many connections, out of memory)
//   - 23505   — unique violation: FOR UPDATE on an absent row locks
//     nothing, so two writers creating the same key can both take the
//     insert path; the loser's retry lands on the update path
//
// Permission codes map to [store.ErrPermissionDenied]; anything else is
// returned as-is and treated as deterministic.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, driver.ErrBadConn) {
		return store.Transient(err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	// Class 08 — connection exceptions
	case pgerrcode.ConnectionException,
		pgerrcode.ConnectionDoesNotExist,
		pgerrcode.ConnectionFailure:
		return store.Transient(err)

	// Class 40 — transaction rollback
	case pgerrcode.TransactionRollback, // 40000
		pgerrcode.SerializationFailure, // 40001
		pgerrcode.DeadlockDetected:     // 40P01
		return store.Transient(err)

	// Class 53 — insufficient resources
	case pgerrcode.InsufficientResources,
		pgerrcode.TooManyConnections,
		pgerrcode.OutOfMemory:
		return store.Transient(err)

	// Class 57 — operator intervention
	case pgerrcode.CannotConnectNow: // 57P03
		return store.Transient(err)

	// Concurrent creates of one key race on the primary key; the document
	// exists once the loser retries, so the write is not lost.
	case pgerrcode.UniqueViolation: // 23505
		return store.Transient(err)

	case pgerrcode.InsufficientPrivilege: // 42501
		return fmt.Errorf("%w: %s", store.ErrPermissionDenied, pgErr.Message)
	}

	return err
}
