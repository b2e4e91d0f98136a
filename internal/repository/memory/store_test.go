package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"catalog/internal/domain"
	"catalog/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryRepository(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	empty, err := repos.Categories.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	winds := &models.Category{Name: "Winds", Slug: "winds"}
	stringsCat := &models.Category{Name: "Strings", Slug: "strings"}
	require.NoError(t, repos.Categories.Upsert(ctx, winds))
	require.NoError(t, repos.Categories.Upsert(ctx, stringsCat))
	assert.Equal(t, int64(1), winds.ID)
	assert.Equal(t, int64(2), stringsCat.ID)

	list, err := repos.Categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Strings", list[0].Name)

	got, err := repos.Categories.GetBySlug(ctx, "WINDS")
	require.NoError(t, err)
	assert.Equal(t, winds.ID, got.ID)

	_, err = repos.Categories.GetBySlug(ctx, "brass")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	ok, err := repos.Categories.Exists(ctx, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repos.Categories.Exists(ctx, 3)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInstrumentRepository(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()

	inst := &models.Instrument{CategoryID: 1, UserID: "user|1", Name: "Flute"}
	err := repos.Instruments.Create(ctx, inst)
	require.Error(t, err, "owner row must exist")

	require.NoError(t, repos.Users.EnsureExists(ctx, "user|1"))
	require.NoError(t, repos.Instruments.Create(ctx, inst))
	assert.Equal(t, int64(1), inst.ID)

	update := &models.Instrument{ID: inst.ID, CategoryID: 2, UserID: "someone-else", Name: "Piccolo"}
	require.NoError(t, repos.Instruments.Update(ctx, update))
	assert.Equal(t, "user|1", update.UserID)

	got, err := repos.Instruments.GetByID(ctx, inst.ID)
	require.NoError(t, err)
	assert.Equal(t, "Piccolo", got.Name)
	assert.Equal(t, int64(2), got.CategoryID)

	byCategory, err := repos.Instruments.ListByCategory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, byCategory)

	require.NoError(t, repos.Instruments.Delete(ctx, inst.ID))
	require.NoError(t, repos.Instruments.Delete(ctx, inst.ID))
	_, err = repos.Instruments.GetByID(ctx, inst.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = repos.Instruments.Update(ctx, update)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransactionManager_RollsBack(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()
	boom := errors.New("boom")

	err := repos.TxManager.ExecTx(ctx, func(ctx context.Context) error {
		require.NoError(t, repos.Users.EnsureExists(ctx, "user|1"))
		require.NoError(t, repos.Instruments.Create(ctx, &models.Instrument{UserID: "user|1", Name: "Flute"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := repos.Instruments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.False(t, hasUser(store, "user|1"))

	// Like a Postgres sequence, the id consumed by the failed insert is not reused
	require.NoError(t, repos.Users.EnsureExists(ctx, "user|1"))
	inst := &models.Instrument{UserID: "user|1", Name: "Flute"}
	require.NoError(t, repos.Instruments.Create(ctx, inst))
	assert.Equal(t, int64(2), inst.ID)
}

func TestTransactionManager_RollbackRestoresTouchedRows(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	require.NoError(t, repos.Users.EnsureExists(ctx, "user|1"))

	flute := &models.Instrument{CategoryID: 1, UserID: "user|1", Name: "Flute"}
	require.NoError(t, repos.Instruments.Create(ctx, flute))

	err := repos.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		update := &models.Instrument{ID: flute.ID, CategoryID: 2, Name: "Piccolo"}
		require.NoError(t, repos.Instruments.Update(txCtx, update))
		require.NoError(t, repos.Instruments.Delete(txCtx, flute.ID))
		return errors.New("boom")
	})
	require.Error(t, err)

	got, err := repos.Instruments.GetByID(ctx, flute.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flute", got.Name)
	assert.Equal(t, int64(1), got.CategoryID)
}

func TestTransactionManager_RollbackKeepsWritesOutsideTx(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	require.NoError(t, repos.Users.EnsureExists(ctx, "user|1"))

	bass := &models.Instrument{CategoryID: 1, UserID: "user|1", Name: "Double Bass"}
	require.NoError(t, repos.Instruments.Create(ctx, bass))

	inTx := make(chan struct{})
	outsideDone := make(chan struct{})
	go func() {
		<-inTx
		// Plain write while the transaction is open
		assert.NoError(t, repos.Instruments.Delete(ctx, bass.ID))
		close(outsideDone)
	}()

	err := repos.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, repos.Instruments.Create(txCtx, &models.Instrument{UserID: "user|1", Name: "Flute"}))
		close(inTx)
		<-outsideDone
		return errors.New("boom")
	})
	require.Error(t, err)

	_, err = repos.Instruments.GetByID(ctx, bass.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound, "rollback must not resurrect rows deleted outside the transaction")

	list, err := repos.Instruments.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTransactionManager_NestedJoinsOuter(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repos := store.Repositories()

	err := repos.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		err := repos.TxManager.ExecTx(txCtx, func(inner context.Context) error {
			return repos.Users.EnsureExists(inner, "user|1")
		})
		require.NoError(t, err)
		return errors.New("boom")
	})
	require.Error(t, err)

	assert.False(t, hasUser(store, "user|1"))
}

func TestMaintenanceRepository_TruncateInTxRollsBack(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	require.NoError(t, repos.Categories.Upsert(ctx, &models.Category{Name: "Winds", Slug: "winds"}))

	err := repos.TxManager.ExecTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, repos.Maintenance.TruncateAll(txCtx))
		return errors.New("boom")
	})
	require.Error(t, err)

	got, err := repos.Categories.GetBySlug(ctx, "winds")
	require.NoError(t, err)
	assert.Equal(t, "Winds", got.Name)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	ctx := context.Background()
	repos := NewStore().Repositories()
	require.NoError(t, repos.Users.EnsureExists(ctx, "user|1"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = repos.Instruments.Create(ctx, &models.Instrument{UserID: "user|1", Name: fmt.Sprintf("inst-%02d", i)})
		}(i)
	}
	wg.Wait()

	list, err := repos.Instruments.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 50)
	seen := make(map[int64]bool)
	for _, inst := range list {
		assert.False(t, seen[inst.ID], "duplicate id %d", inst.ID)
		seen[inst.ID] = true
	}
}

func hasUser(s *Store, id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[id]
	return ok
}
