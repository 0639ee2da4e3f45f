package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-cloud-sync/models"
	"github.com/MKhiriev/go-cloud-sync/store"
)

var testDst = models.Destination{Collection: "users"}

func TestGet_NotFound(t *testing.T) {
	s := New()

	_, _, err := s.Get(context.Background(), testDst, "missing")

	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestPut_CreateThenUpdate(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.Put(ctx, testDst, "user-42", models.Document{"name": "Ava"}, models.RevisionNone)
	require.NoError(t, err)
	assert.True(t, created.Created)
	assert.Equal(t, models.Revision("1"), created.Revision)

	updated, err := s.Put(ctx, testDst, "user-42", models.Document{"name": "Ava", "age": 31}, models.RevisionNone)
	require.NoError(t, err)
	assert.False(t, updated.Created)
	assert.Equal(t, models.Revision("2"), updated.Revision)

	doc, rev, err := s.Get(ctx, testDst, "user-42")
	require.NoError(t, err)
	assert.Equal(t, models.Revision("2"), rev)
	assert.Equal(t, models.Document{"name": "Ava", "age": 31}, doc)
}

func TestPut_RevisionCheck(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Put(ctx, testDst, "user-42", models.Document{"v": 1}, models.RevisionNone)
	require.NoError(t, err)

	// Matching expectation succeeds.
	second, err := s.Put(ctx, testDst, "user-42", models.Document{"v": 2}, first.Revision)
	require.NoError(t, err)

	// Stale expectation is rejected, nothing is overwritten.
	_, err = s.Put(ctx, testDst, "user-42", models.Document{"v": 3}, first.Revision)
	assert.ErrorIs(t, err, store.ErrRevisionMismatch)

	doc, rev, err := s.Get(ctx, testDst, "user-42")
	require.NoError(t, err)
	assert.Equal(t, second.Revision, rev)
	assert.Equal(t, models.Document{"v": 2}, doc)
}

// Optimistic concurrency: two writers presenting the same observed
// revision — exactly one wins.
func TestPut_ConcurrentWritersOneWins(t *testing.T) {
	s := New()
	ctx := context.Background()

	base, err := s.Put(ctx, testDst, "user-42", models.Document{"v": 0}, models.RevisionNone)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.Put(ctx, testDst, "user-42", models.Document{"writer": i}, base.Revision)
		}(i)
	}
	wg.Wait()

	mismatches := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, store.ErrRevisionMismatch)
			mismatches++
		}
	}
	assert.Equal(t, 1, mismatches, "exactly one writer must lose")
}

func TestDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	put, err := s.Put(ctx, testDst, "user-42", models.Document{"name": "Ava"}, models.RevisionNone)
	require.NoError(t, err)

	t.Run("StaleRevision → RevisionMismatch", func(t *testing.T) {
		err := s.Delete(ctx, testDst, "user-42", models.Revision("999"))
		assert.ErrorIs(t, err, store.ErrRevisionMismatch)
	})

	t.Run("MatchingRevision → Deleted", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, testDst, "user-42", put.Revision))
		_, _, err := s.Get(ctx, testDst, "user-42")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("AlreadyAbsent → NotFound", func(t *testing.T) {
		err := s.Delete(ctx, testDst, "user-42", models.RevisionNone)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})
}

// Revision counters survive delete and recreate, so a revision cached
// before the delete can never CAS-succeed against the logically different
// recreated document.
func TestPut_RevisionContinuesAfterRecreate(t *testing.T) {
	s := New()
	ctx := context.Background()

	first, err := s.Put(ctx, testDst, "user-42", models.Document{"v": 1}, models.RevisionNone)
	require.NoError(t, err)
	require.NoError(t, s.Delete(ctx, testDst, "user-42", models.RevisionNone))

	recreated, err := s.Put(ctx, testDst, "user-42", models.Document{"v": 2}, models.RevisionNone)
	require.NoError(t, err)
	assert.True(t, recreated.Created)
	assert.NotEqual(t, first.Revision, recreated.Revision)

	_, err = s.Put(ctx, testDst, "user-42", models.Document{"v": 3}, first.Revision)
	assert.ErrorIs(t, err, store.ErrRevisionMismatch)
}

func TestList(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Put(ctx, testDst, "a", models.Document{"n": 1}, models.RevisionNone)
	require.NoError(t, err)
	_, err = s.Put(ctx, testDst, "b", models.Document{"n": 2}, models.RevisionNone)
	require.NoError(t, err)
	_, err = s.Put(ctx, models.Destination{Collection: "other"}, "c", models.Document{"n": 3}, models.RevisionNone)
	require.NoError(t, err)

	items, err := s.List(ctx, testDst)
	require.NoError(t, err)
	require.Len(t, items, 2, "list must not leak other collections")

	keys := []string{items[0].Key, items[1].Key}
	assert.ElementsMatch(t, []string{"a", "b"}, keys)
}

// Documents handed out by Get are copies: mutating them must not corrupt
// the stored state.
func TestGet_ReturnsIsolatedCopy(t *testing.T) {
	s := New()
	ctx := context.Background()

	_, err := s.Put(ctx, testDst, "user-42", models.Document{"nested": map[string]any{"a": 1}}, models.RevisionNone)
	require.NoError(t, err)

	doc, _, err := s.Get(ctx, testDst, "user-42")
	require.NoError(t, err)
	doc["nested"].(map[string]any)["a"] = 99

	fresh, _, err := s.Get(ctx, testDst, "user-42")
	require.NoError(t, err)
	assert.Equal(t, 1, fresh["nested"].(map[string]any)["a"])
}
