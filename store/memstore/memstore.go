// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package memstore provides an in-memory [store.Client] with full
// optimistic-concurrency support. It is the reference implementation of the
// store contract and the backend of choice for tests and prototypes: no
// network, no cgo, safe for concurrent use.
package memstore

import (
	"context"
	"strconv"
	"sync"

	"github.com/MKhiriev/go-cloud-sync/models"
	"github.com/MKhiriev/go-cloud-sync/store"
)

type record struct {
	doc      models.Document
	revision int64
}

// Store is an in-memory document store keyed by (collection, key). The
// zero value is not usable; construct with [New].
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]record

	// revisions outlives the records: the counter for a key keeps
	// increasing across delete and recreate, so a revision cached before
	// a delete can never pass a CAS check against the recreated document.
	revisions map[string]map[string]int64
}

var _ store.Client = (*Store)(nil)

func New() *Store {
	return &Store{
		collections: make(map[string]map[string]record),
		revisions:   make(map[string]map[string]int64),
	}
}

func formatRevision(rev int64) models.Revision {
	return models.Revision(strconv.FormatInt(rev, 10))
}

// Get implements [store.Client].
func (s *Store) Get(ctx context.Context, dst models.Destination, key string) (models.Document, models.Revision, error) {
	if err := ctx.Err(); err != nil {
		return nil, models.RevisionNone, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.collections[dst.Collection][key]
	if !ok {
		return nil, models.RevisionNone, store.ErrNotFound
	}

	return rec.doc.Clone(), formatRevision(rec.revision), nil
}

// Put implements [store.Client]. Revisions are per-key counters starting
// at 1 that keep increasing across delete and recreate.
func (s *Store) Put(ctx context.Context, dst models.Destination, key string, doc models.Document, expected models.Revision) (store.PutResult, error) {
	if err := ctx.Err(); err != nil {
		return store.PutResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[dst.Collection]
	if coll == nil {
		coll = make(map[string]record)
		s.collections[dst.Collection] = coll
	}
	revs := s.revisions[dst.Collection]
	if revs == nil {
		revs = make(map[string]int64)
		s.revisions[dst.Collection] = revs
	}

	rec, exists := coll[key]
	if !expected.IsNone() {
		current := models.RevisionNone
		if exists {
			current = formatRevision(rec.revision)
		}
		if current != expected {
			return store.PutResult{}, store.ErrRevisionMismatch
		}
	}

	next := revs[key] + 1
	coll[key] = record{doc: doc.Clone(), revision: next}
	revs[key] = next

	return store.PutResult{Revision: formatRevision(next), Created: !exists}, nil
}

// Delete implements [store.Client].
func (s *Store) Delete(ctx context.Context, dst models.Destination, key string, expected models.Revision) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[dst.Collection]
	rec, exists := coll[key]
	if !exists {
		return store.ErrNotFound
	}

	if !expected.IsNone() && formatRevision(rec.revision) != expected {
		return store.ErrRevisionMismatch
	}

	delete(coll, key)
	return nil
}

// List implements [store.Client].
func (s *Store) List(ctx context.Context, dst models.Destination) ([]store.KeyedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	coll := s.collections[dst.Collection]
	out := make([]store.KeyedDocument, 0, len(coll))
	for key, rec := range coll {
		out = append(out, store.KeyedDocument{
			Key:      key,
			Document: rec.doc.Clone(),
			Revision: formatRevision(rec.revision),
		})
	}

	return out, nil
}

// Len reports the number of documents currently held in the collection.
// Intended for assertions in tests.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}
