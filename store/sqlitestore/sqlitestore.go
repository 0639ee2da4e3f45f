// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package sqlitestore implements [store.Client] on SQLite. It shares the
// table shape of pgstore (one "documents" table, per-row revision counter)
// with the body stored as TEXT, and is the natural backend for
// offline-first applications that sync a local file against a remote
// store later. SQLITE_BUSY and SQLITE_LOCKED map to the transient error
// class so the engine retries lock contention.
package sqlitestore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-cloud-sync/internal/logger"
	"github.com/MKhiriev/go-cloud-sync/models"
	"github.com/MKhiriev/go-cloud-sync/store"
)

// Store is a SQLite-backed document store client.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

var _ store.Client = (*Store)(nil)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Open opens (or creates) the database file at path and applies the
// embedded schema migrations. Use ":memory:" for an ephemeral store.
func Open(path string, log *logger.Logger) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	if log == nil {
		log = logger.Nop()
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// SQLite tolerates exactly one writer; a second connection would turn
	// every concurrent write into SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err = Migrate(db); err != nil {
		return nil, err
	}

	return &Store{db: db, log: log}, nil
}

// NewFromDB wraps an existing connection without migrating. Intended for
// tests.
func NewFromDB(db *sql.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func formatRevision(rev int64) models.Revision {
	return models.Revision(strconv.FormatInt(rev, 10))
}

func decodeBody(body []byte) (models.Document, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc models.Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode document body: %w", err)
	}
	return doc, nil
}

// Get implements [store.Client].
func (s *Store) Get(ctx context.Context, dst models.Destination, key string) (models.Document, models.Revision, error) {
	query, args, err := builder.
		Select("body", "revision").
		From("documents").
		Where(sq.Eq{"collection": dst.Collection, "doc_key": key}).
		ToSql()
	if err != nil {
		return nil, models.RevisionNone, fmt.Errorf("build get query: %w", err)
	}

	var (
		body []byte
		rev  int64
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&body, &rev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, models.RevisionNone, store.ErrNotFound
	case err != nil:
		return nil, models.RevisionNone, classify(err)
	}

	doc, err := decodeBody(body)
	if err != nil {
		return nil, models.RevisionNone, err
	}

	return doc, formatRevision(rev), nil
}

// Put implements [store.Client].
func (s *Store) Put(ctx context.Context, dst models.Destination, key string, doc models.Document, expected models.Revision) (store.PutResult, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return store.PutResult{}, fmt.Errorf("encode document body: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.PutResult{}, classify(err)
	}
	defer tx.Rollback()

	current, exists, err := currentRevision(ctx, tx, dst.Collection, key)
	if err != nil {
		return store.PutResult{}, classify(err)
	}

	if !expected.IsNone() {
		observed := models.RevisionNone
		if exists {
			observed = formatRevision(current)
		}
		if observed != expected {
			return store.PutResult{}, store.ErrRevisionMismatch
		}
	}

	var result store.PutResult
	if exists {
		next := current + 1
		query, args, buildErr := builder.
			Update("documents").
			Set("body", body).
			Set("revision", next).
			Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
			Where(sq.Eq{"collection": dst.Collection, "doc_key": key}).
			ToSql()
		if buildErr != nil {
			return store.PutResult{}, fmt.Errorf("build update query: %w", buildErr)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return store.PutResult{}, classify(err)
		}
		result = store.PutResult{Revision: formatRevision(next)}
	} else {
		query, args, buildErr := builder.
			Insert("documents").
			Columns("collection", "doc_key", "body", "revision").
			Values(dst.Collection, key, body, 1).
			ToSql()
		if buildErr != nil {
			return store.PutResult{}, fmt.Errorf("build insert query: %w", buildErr)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			return store.PutResult{}, classify(err)
		}
		result = store.PutResult{Revision: formatRevision(1), Created: true}
	}

	if err = tx.Commit(); err != nil {
		return store.PutResult{}, classify(err)
	}

	return result, nil
}

// Delete implements [store.Client].
func (s *Store) Delete(ctx context.Context, dst models.Destination, key string, expected models.Revision) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback()

	current, exists, err := currentRevision(ctx, tx, dst.Collection, key)
	if err != nil {
		return classify(err)
	}
	if !exists {
		return store.ErrNotFound
	}
	if !expected.IsNone() && formatRevision(current) != expected {
		return store.ErrRevisionMismatch
	}

	query, args, err := builder.
		Delete("documents").
		Where(sq.Eq{"collection": dst.Collection, "doc_key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, query, args...); err != nil {
		return classify(err)
	}

	return classify(tx.Commit())
}

// List implements [store.Client].
func (s *Store) List(ctx context.Context, dst models.Destination) ([]store.KeyedDocument, error) {
	query, args, err := builder.
		Select("doc_key", "body", "revision").
		From("documents").
		Where(sq.Eq{"collection": dst.Collection}).
		OrderBy("doc_key").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	var out []store.KeyedDocument
	for rows.Next() {
		var (
			key  string
			body []byte
			rev  int64
		)
		if err = rows.Scan(&key, &body, &rev); err != nil {
			return nil, classify(err)
		}

		doc, decodeErr := decodeBody(body)
		if decodeErr != nil {
			return nil, decodeErr
		}

		out = append(out, store.KeyedDocument{Key: key, Document: doc, Revision: formatRevision(rev)})
	}
	if err = rows.Err(); err != nil {
		return nil, classify(err)
	}

	return out, nil
}

func currentRevision(ctx context.Context, tx *sql.Tx, collection, key string) (int64, bool, error) {
	query, args, err := builder.
		Select("revision").
		From("documents").
		Where(sq.Eq{"collection": collection, "doc_key": key}).
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build revision query: %w", err)
	}

	var rev int64
	err = tx.QueryRowContext(ctx, query, args...).Scan(&rev)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return 0, false, nil
	case err != nil:
		return 0, false, err
	}

	return rev, true, nil
}

// classify maps SQLite driver errors onto the store error taxonomy:
// SQLITE_BUSY and SQLITE_LOCKED are lock contention that clears on retry;
// SQLITE_AUTH and SQLITE_PERM are authorization failures.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return err
	}

	switch sqliteErr.Code {
	case sqlite3.ErrBusy, sqlite3.ErrLocked:
		return store.Transient(err)
	case sqlite3.ErrAuth, sqlite3.ErrPerm:
		return fmt.Errorf("%w: %s", store.ErrPermissionDenied, sqliteErr.Error())
	case sqlite3.ErrConstraint:
		// On a multi-connection pool two writers can race to create the
		// same key; the loser's primary-key violation clears on retry
		// because the row exists by then.
		if sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return store.Transient(err)
		}
	}

	return err
}
