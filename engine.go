// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cloudsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-cloud-sync/config"
	"github.com/MKhiriev/go-cloud-sync/document"
	"github.com/MKhiriev/go-cloud-sync/identity"
	"github.com/MKhiriev/go-cloud-sync/internal/logger"
	"github.com/MKhiriev/go-cloud-sync/models"
	"github.com/MKhiriev/go-cloud-sync/store"
)

// Engine orchestrates identity, serialization and store operations into
// the sync verbs. It holds no mutable state beyond the optional
// change-detection cache, so a single Engine is safe to share across
// goroutines; each verb call completes or fails atomically from the
// caller's perspective.
type Engine struct {
	client   store.Client
	resolver *config.Resolver
	log      *logger.Logger

	retry           RetryPolicy
	conflictRetries int
	cache           *revisionCache
	optimisticSave  bool
}

// New constructs an Engine over the given store client and destination
// resolver. The change-detection cache is on by default; see the Option
// constructors for the available knobs.
func New(client store.Client, resolver *config.Resolver, opts ...Option) (*Engine, error) {
	if client == nil {
		return nil, errors.New("cloudsync: store client must not be nil")
	}
	if resolver == nil {
		return nil, errors.New("cloudsync: resolver must not be nil")
	}

	e := &Engine{
		client:          client,
		resolver:        resolver,
		log:             logger.Nop(),
		retry:           defaultRetryPolicy(),
		conflictRetries: 3,
		cache:           newRevisionCache(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

func failed(err error) (models.Result, error) {
	return models.Result{Outcome: models.OutcomeFailed}, err
}

// resolve computes the object's validated key and destination. Both error
// kinds here are deterministic programmer errors and are never retried.
func (e *Engine) resolve(obj Syncable) (string, models.Destination, error) {
	key, err := identity.KeyOf(obj)
	if err != nil {
		return "", models.Destination{}, err
	}

	dst, err := e.resolver.DestinationFor(obj.TypeTag())
	if err != nil {
		return "", models.Destination{}, err
	}

	return key, dst, nil
}

// Save serializes obj and writes it to its destination.
//
// With the cache enabled (the default), a save whose document fingerprint
// matches the last written state skips the store round-trip and reports
// Unchanged; without the cache, an identical save writes again and reports
// Updated. With [WithOptimisticSave] the write presents the last-known
// revision and reports Conflict (nil error) when the remote has moved;
// otherwise the write is last-writer-wins. Reports Created when no prior
// document existed.
func (e *Engine) Save(ctx context.Context, obj Syncable) (models.Result, error) {
	key, dst, err := e.resolve(obj)
	if err != nil {
		return failed(err)
	}

	doc, err := document.Marshal(obj)
	if err != nil {
		return failed(err)
	}
	fingerprint := document.Fingerprint(doc)

	var entry *cacheEntry
	if e.cache != nil {
		entry = e.cache.entry(dst.Collection, key)
		entry.mu.Lock()
		defer entry.mu.Unlock()

		if fingerprint != "" && entry.fingerprint == fingerprint && !entry.revision.IsNone() {
			e.log.Debug().Str("verb", "save").Str("collection", dst.Collection).Str("key", key).
				Msg("document unchanged, skipping write")
			return models.Result{Outcome: models.OutcomeUnchanged, Revision: entry.revision}, nil
		}
	}

	expected := models.RevisionNone
	if e.optimisticSave && entry != nil {
		expected = entry.revision
	}

	var put store.PutResult
	err = e.withRetry(ctx, "save", func(ctx context.Context) error {
		var putErr error
		put, putErr = e.client.Put(ctx, dst, key, doc, expected)
		return putErr
	})
	switch {
	case errors.Is(err, store.ErrRevisionMismatch):
		if entry != nil {
			// The cached revision is stale; forget it so the next
			// optimistic save starts from a fresh read.
			entry.set("", models.RevisionNone)
		}
		return models.Result{Outcome: models.OutcomeConflict}, nil
	case err != nil:
		return failed(fmt.Errorf("save %s/%s: %w", dst.Collection, key, err))
	}

	if entry != nil {
		entry.set(fingerprint, put.Revision)
	}

	outcome := models.OutcomeUpdated
	if put.Created {
		outcome = models.OutcomeCreated
	}
	e.log.Debug().Str("verb", "save").Str("collection", dst.Collection).Str("key", key).
		Stringer("outcome", outcome).Msg("document saved")

	return models.Result{Outcome: outcome, Revision: put.Revision}, nil
}

// Load fetches the document at key and decodes it into into, whose type
// tag selects the destination. An absent document is a NotFound outcome
// with a nil error, distinct from a decode failure
// (document.ErrSchemaMismatch) and from store-access failures.
func (e *Engine) Load(ctx context.Context, key string, into Syncable) (models.Result, error) {
	if err := identity.Validate(key); err != nil {
		return failed(err)
	}

	dst, err := e.resolver.DestinationFor(into.TypeTag())
	if err != nil {
		return failed(err)
	}

	var (
		doc models.Document
		rev models.Revision
	)
	err = e.withRetry(ctx, "load", func(ctx context.Context) error {
		var getErr error
		doc, rev, getErr = e.client.Get(ctx, dst, key)
		return getErr
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		return models.Result{Outcome: models.OutcomeNotFound}, nil
	case err != nil:
		return failed(fmt.Errorf("load %s/%s: %w", dst.Collection, key, err))
	}

	if err = document.Unmarshal(doc, into); err != nil {
		return failed(err)
	}

	if e.cache != nil {
		entry := e.cache.entry(dst.Collection, key)
		entry.mu.Lock()
		entry.set(document.Fingerprint(doc), rev)
		entry.mu.Unlock()
	}

	return models.Result{Outcome: models.OutcomeLoaded, Revision: rev}, nil
}

// LoadAll streams every live document in the collection registered for
// typeTag through visit. Iteration stops at the first visit error, which
// is returned as-is. Intended for bounded collections — this is a plain
// scan, not a query interface.
func (e *Engine) LoadAll(ctx context.Context, typeTag string, visit func(key string, doc models.Document) error) error {
	dst, err := e.resolver.DestinationFor(typeTag)
	if err != nil {
		return err
	}

	var items []store.KeyedDocument
	err = e.withRetry(ctx, "load_all", func(ctx context.Context) error {
		var listErr error
		items, listErr = e.client.List(ctx, dst)
		return listErr
	})
	if err != nil {
		return fmt.Errorf("list %s: %w", dst.Collection, err)
	}

	for _, item := range items {
		if err = visit(item.Key, item.Document); err != nil {
			return err
		}
	}

	return nil
}

// Update reconciles obj against the current remote document: it reads the
// remote state, applies policy against the local document, and writes the
// merged result with a revision check against the just-read revision. On a
// revision mismatch the read-merge-write cycle repeats up to the
// configured conflict-retry bound, after which the verb reports Conflict
// with a nil error. A nil policy defaults to [Overwrite]. When no remote
// document exists the merge runs against an empty document and the write
// creates it.
func (e *Engine) Update(ctx context.Context, obj Syncable, policy MergePolicy) (models.Result, error) {
	key, dst, err := e.resolve(obj)
	if err != nil {
		return failed(err)
	}

	local, err := document.Marshal(obj)
	if err != nil {
		return failed(err)
	}

	if policy == nil {
		policy = Overwrite{}
	}

	for cycle := 0; cycle <= e.conflictRetries; cycle++ {
		var (
			remote models.Document
			rev    models.Revision
		)
		err = e.withRetry(ctx, "update.read", func(ctx context.Context) error {
			var getErr error
			remote, rev, getErr = e.client.Get(ctx, dst, key)
			return getErr
		})
		switch {
		case errors.Is(err, store.ErrNotFound):
			remote, rev = models.Document{}, models.RevisionNone
		case err != nil:
			return failed(fmt.Errorf("update read %s/%s: %w", dst.Collection, key, err))
		}

		merged, mergeErr := policy.Merge(remote.Clone(), local.Clone())
		if mergeErr != nil {
			return failed(fmt.Errorf("merge %s/%s: %w", dst.Collection, key, mergeErr))
		}

		var put store.PutResult
		err = e.withRetry(ctx, "update.write", func(ctx context.Context) error {
			var putErr error
			put, putErr = e.client.Put(ctx, dst, key, merged, rev)
			return putErr
		})
		switch {
		case errors.Is(err, store.ErrRevisionMismatch):
			e.log.Debug().Str("verb", "update").Str("collection", dst.Collection).Str("key", key).
				Int("cycle", cycle+1).Msg("revision moved underneath update, re-reading")
			continue
		case err != nil:
			return failed(fmt.Errorf("update write %s/%s: %w", dst.Collection, key, err))
		}

		if e.cache != nil {
			entry := e.cache.entry(dst.Collection, key)
			entry.mu.Lock()
			entry.set(document.Fingerprint(merged), put.Revision)
			entry.mu.Unlock()
		}

		outcome := models.OutcomeUpdated
		if put.Created {
			outcome = models.OutcomeCreated
		}
		return models.Result{Outcome: outcome, Revision: put.Revision}, nil
	}

	return models.Result{Outcome: models.OutcomeConflict}, nil
}

// Delete removes the document at key from the collection registered for
// typeTag. A document that is already absent counts as success — deletes
// are allowed to race. When expected carries a revision and the remote has
// moved, the verb reports Conflict with a nil error.
func (e *Engine) Delete(ctx context.Context, typeTag, key string, expected models.Revision) (models.Result, error) {
	if err := identity.Validate(key); err != nil {
		return failed(err)
	}

	dst, err := e.resolver.DestinationFor(typeTag)
	if err != nil {
		return failed(err)
	}

	err = e.withRetry(ctx, "delete", func(ctx context.Context) error {
		return e.client.Delete(ctx, dst, key, expected)
	})
	switch {
	case errors.Is(err, store.ErrNotFound):
		// Already gone: the effect the caller wanted holds.
	case errors.Is(err, store.ErrRevisionMismatch):
		return models.Result{Outcome: models.OutcomeConflict}, nil
	case err != nil:
		return failed(fmt.Errorf("delete %s/%s: %w", dst.Collection, key, err))
	}

	if e.cache != nil {
		e.cache.drop(dst.Collection, key)
	}

	e.log.Debug().Str("verb", "delete").Str("collection", dst.Collection).Str("key", key).
		Msg("document deleted")

	return models.Result{Outcome: models.OutcomeDeleted}, nil
}
