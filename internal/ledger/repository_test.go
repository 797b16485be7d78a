package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"core-banking-ledger/pkg/apperror"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
}

func TestRepository_CreateAllocatesID(t *testing.T) {
	repo := newNoteRepo()

	created, err := repo.Create(note{Text: "first"}, noteCreate, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	second, err := repo.Create(note{Text: "second"}, noteCreate, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.ID)

	assert.Equal(t, 2, repo.Count())
}

func TestRepository_CreateKeepsSuppliedID(t *testing.T) {
	repo := newNoteRepo()

	created, err := repo.Create(note{ID: 10, Text: "pinned"}, noteCreate, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)

	// The allocator must never reissue an id at or below a supplied one.
	next, err := repo.Create(note{Text: "auto"}, noteCreate, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(11), next.ID)
}

func TestRepository_CreateRejectsDuplicateID(t *testing.T) {
	repo := newNoteRepo()

	_, err := repo.Create(note{ID: 1}, noteCreate, "a")
	require.NoError(t, err)

	_, err = repo.Create(note{ID: 1}, noteCreate, "a")
	assertCode(t, err, "REPO_001")

	// Also rejected when the id sits in the deleted partition.
	_, err = repo.SoftDelete(1, noteDelete, "a")
	require.NoError(t, err)
	_, err = repo.Create(note{ID: 1}, noteCreate, "a")
	assertCode(t, err, "REPO_001")

	// Failed creates insert nothing.
	assert.Equal(t, 0, repo.Count())
	assert.Len(t, repo.ListDeleted(), 1)
}

func TestRepository_Update(t *testing.T) {
	repo := newNoteRepo()
	created, err := repo.Create(note{Text: "v1"}, noteCreate, "a")
	require.NoError(t, err)

	created.Text = "v2"
	updated, err := repo.Update(created, noteUpdate, "b")
	require.NoError(t, err)
	assert.Equal(t, "v2", updated.Text)

	got, ok := repo.FindByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, "v2", got.Text)
}

func TestRepository_UpdateMissingOrDeleted(t *testing.T) {
	repo := newNoteRepo()

	_, err := repo.Update(note{ID: 99}, noteUpdate, "a")
	assertCode(t, err, "REPO_002")

	created, err := repo.Create(note{Text: "x"}, noteCreate, "a")
	require.NoError(t, err)
	_, err = repo.SoftDelete(created.ID, noteDelete, "a")
	require.NoError(t, err)

	// Soft-deleted entities must be restored before updating.
	_, err = repo.Update(created, noteUpdate, "a")
	assertCode(t, err, "REPO_002")
}

func TestRepository_FindByID_ActiveSetOnly(t *testing.T) {
	repo := newNoteRepo()
	created, err := repo.Create(note{Text: "x"}, noteCreate, "a")
	require.NoError(t, err)

	_, ok := repo.FindByID(created.ID)
	assert.True(t, ok)

	_, err = repo.SoftDelete(created.ID, noteDelete, "a")
	require.NoError(t, err)

	_, ok = repo.FindByID(created.ID)
	assert.False(t, ok)
}

func TestRepository_FindByPredicate(t *testing.T) {
	repo := newNoteRepo()
	_, err := repo.Create(note{Text: "alpha"}, noteCreate, "a")
	require.NoError(t, err)
	_, err = repo.Create(note{Text: "beta"}, noteCreate, "a")
	require.NoError(t, err)

	got, ok := repo.FindByPredicate(func(n note) bool { return n.Text == "beta" })
	require.True(t, ok)
	assert.Equal(t, "beta", got.Text)

	_, ok = repo.FindByPredicate(func(n note) bool { return n.Text == "gamma" })
	assert.False(t, ok)
}

func TestRepository_SoftDeleteRestoreRoundTrip(t *testing.T) {
	repo := newNoteRepo()
	created, err := repo.Create(note{Text: "keep me", Tags: []string{"t"}}, noteCreate, "a")
	require.NoError(t, err)

	removed, err := repo.SoftDelete(created.ID, noteDelete, "a")
	require.NoError(t, err)
	assert.Equal(t, created, removed)
	assert.Equal(t, 0, repo.Count())
	assert.Len(t, repo.ListDeleted(), 1)

	restored, err := repo.Restore(created.ID, noteRestore, "a")
	require.NoError(t, err)
	assert.Equal(t, created, restored)

	got, ok := repo.FindByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)
	assert.Empty(t, repo.ListDeleted())
}

func TestRepository_SoftDeleteMissing(t *testing.T) {
	repo := newNoteRepo()
	_, err := repo.SoftDelete(42, noteDelete, "a")
	assertCode(t, err, "REPO_002")
}

func TestRepository_RestoreOnlyFromDeletedSet(t *testing.T) {
	repo := newNoteRepo()
	created, err := repo.Create(note{Text: "x"}, noteCreate, "a")
	require.NoError(t, err)

	// Active entities cannot be "restored".
	_, err = repo.Restore(created.ID, noteRestore, "a")
	assertCode(t, err, "REPO_002")

	_, err = repo.Restore(999, noteRestore, "a")
	assertCode(t, err, "REPO_002")
}

func TestRepository_EveryMutationEmitsExactlyOneAuditRecord(t *testing.T) {
	repo := newNoteRepo()

	created, err := repo.Create(note{Text: "v1"}, noteCreate, "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.Trail().Len())

	created.Text = "v2"
	_, err = repo.Update(created, noteUpdate, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, repo.Trail().Len())

	_, err = repo.SoftDelete(created.ID, noteDelete, "alice")
	require.NoError(t, err)
	_, err = repo.Restore(created.ID, noteRestore, "alice")
	require.NoError(t, err)
	assert.Equal(t, 4, repo.Trail().Len())

	history := repo.Trail().History(created.ID)
	require.Len(t, history, 4)
	assert.Equal(t, noteCreate, history[0].Operation)
	assert.Equal(t, noteUpdate, history[1].Operation)
	assert.Equal(t, noteDelete, history[2].Operation)
	assert.Equal(t, noteRestore, history[3].Operation)

	// Failed mutations emit nothing.
	_, err = repo.Update(note{ID: 77}, noteUpdate, "alice")
	require.Error(t, err)
	assert.Equal(t, 4, repo.Trail().Len())
}

func TestRepository_NoIDReuseAcrossDeleteRestoreCycles(t *testing.T) {
	repo := newNoteRepo()

	seen := make(map[int64]bool)
	for i := 0; i < 10; i++ {
		created, err := repo.Create(note{Text: "cycle"}, noteCreate, "a")
		require.NoError(t, err)
		require.False(t, seen[created.ID], "id %d reused", created.ID)
		seen[created.ID] = true

		_, err = repo.SoftDelete(created.ID, noteDelete, "a")
		require.NoError(t, err)
		if i%2 == 0 {
			_, err = repo.Restore(created.ID, noteRestore, "a")
			require.NoError(t, err)
			_, err = repo.SoftDelete(created.ID, noteDelete, "a")
			require.NoError(t, err)
		}
	}
}

func TestRepository_ReturnsIndependentCopies(t *testing.T) {
	repo := newNoteRepo()
	created, err := repo.Create(note{Text: "stored", Tags: []string{"a"}}, noteCreate, "a")
	require.NoError(t, err)

	// Mutating a returned entity must not leak into the store.
	created.Tags[0] = "mutated"
	got, ok := repo.FindByID(created.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, got.Tags)

	all := repo.FindAll()
	require.Len(t, all, 1)
	all[0].Tags[0] = "mutated again"
	got, _ = repo.FindByID(created.ID)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestRepository_HydrateAndExport(t *testing.T) {
	repo := newNoteRepo()

	active := []note{{ID: 1, Text: "a"}, {ID: 3, Text: "c"}}
	deleted := []note{{ID: 2, Text: "b"}}
	require.NoError(t, repo.Hydrate(active, deleted))

	assert.Equal(t, 2, repo.Count())
	assert.Len(t, repo.ListDeleted(), 1)
	// Hydration emits no audit records.
	assert.Equal(t, 0, repo.Trail().Len())

	// Allocator advanced past the highest hydrated id.
	created, err := repo.Create(note{Text: "new"}, noteCreate, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(4), created.ID)

	gotActive, gotDeleted := repo.Export()
	assert.Len(t, gotActive, 3)
	assert.Len(t, gotDeleted, 1)
}

func TestRepository_HydrateRejectsCollisions(t *testing.T) {
	repo := newNoteRepo()
	err := repo.Hydrate([]note{{ID: 1}}, []note{{ID: 1}})
	assertCode(t, err, "REPO_001")
}
