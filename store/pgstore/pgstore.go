// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package pgstore implements [store.Client] on PostgreSQL. Documents live
// in a single "documents" table as JSONB rows keyed by (collection, key),
// with a bigint revision counter providing the optimistic-concurrency
// token. Writes run in a transaction that locks the row, so a Put or
// Delete is atomic and its revision check races with nothing.
//
// Credentials are resolved at connection time through the DSN; the
// per-destination credentials handle is ignored.
package pgstore

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/MKhiriev/go-cloud-sync/internal/logger"
	"github.com/MKhiriev/go-cloud-sync/models"
	"github.com/MKhiriev/go-cloud-sync/store"
)

// Store is a PostgreSQL-backed document store client. Safe for concurrent
// use; the embedded *sql.DB pools connections.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

var _ store.Client = (*Store)(nil)

var builder = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// NewConnect opens a connection pool for dsn, pings it, and applies the
// embedded schema migrations.
func NewConnect(ctx context.Context, dsn string, log *logger.Logger) (*Store, error) {
	if log == nil {
		log = logger.Nop()
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database connection: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(4)

	if err = db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = Migrate(db); err != nil {
		return nil, err
	}

	log.Info().Msg("connected to document database")
	return &Store{db: db, log: log}, nil
}

// NewFromDB wraps an existing connection without pinging or migrating.
// Intended for tests and callers that manage the pool themselves.
func NewFromDB(db *sql.DB, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{db: db, log: log}
}

// Close releases the connection pool.
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

// Put implements [store.Client]. The row is locked for the duration of the
// revision check and write.
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

	current, exists, err := lockRevision(ctx, tx, dst.Collection, key)
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
			Set("updated_at", sq.Expr("NOW()")).
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

	current, exists, err := lockRevision(ctx, tx, dst.Collection, key)
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

// lockRevision reads the current revision of a row under FOR UPDATE.
// Reports exists=false when the document is absent.
func lockRevision(ctx context.Context, tx *sql.Tx, collection, key string) (int64, bool, error) {
	query, args, err := builder.
		Select("revision").
		From("documents").
		Where(sq.Eq{"collection": collection, "doc_key": key}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return 0, false, fmt.Errorf("build lock query: %w", err)
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
