package favorites

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/fjod/go_storefront/storefront/domain"
	"github.com/fjod/go_storefront/storefront/internal/storage"
)

var (
	jacket = domain.Product{ID: 3, Title: "Jacket", Price: 55.99}
	ring   = domain.Product{ID: 5, Title: "Ring", Price: 695}
)

type brokenStore struct{ *storage.MemoryStore }

func (brokenStore) Save(context.Context, string, []byte) error { return errors.New("read-only") }

func TestToggleFavorite_IsItsOwnInverse(t *testing.T) {
	s := NewStore(storage.NewMemoryStore(), logger.Discard())
	ctx := context.Background()
	require.NoError(t, s.AddFavorite(ctx, ring))
	before := s.Items()

	require.NoError(t, s.ToggleFavorite(ctx, jacket))
	assert.True(t, s.IsFavorite(jacket.ID))
	require.NoError(t, s.ToggleFavorite(ctx, jacket))

	assert.False(t, s.IsFavorite(jacket.ID))
	assert.Equal(t, before, s.Items())

	require.NoError(t, s.ToggleFavorite(ctx, ring))
	require.NoError(t, s.ToggleFavorite(ctx, ring))
	assert.Equal(t, before, s.Items())
}

func TestAddFavorite_UniqueByID(t *testing.T) {
	s := NewStore(storage.NewMemoryStore(), logger.Discard())
	ctx := context.Background()

	require.NoError(t, s.AddFavorite(ctx, jacket))
	require.NoError(t, s.AddFavorite(ctx, jacket))

	assert.Len(t, s.Items(), 1)
}

func TestRemoveAndReset(t *testing.T) {
	s := NewStore(storage.NewMemoryStore(), logger.Discard())
	ctx := context.Background()
	require.NoError(t, s.AddFavorite(ctx, jacket))
	require.NoError(t, s.AddFavorite(ctx, ring))

	require.NoError(t, s.RemoveFavorite(ctx, jacket.ID))
	require.NoError(t, s.RemoveFavorite(ctx, jacket.ID))
	assert.Equal(t, []domain.Product{ring}, s.Items())

	require.NoError(t, s.ResetFavorite(ctx))
	assert.Empty(t, s.Items())
}

func TestPersistedAcrossRestart(t *testing.T) {
	state := storage.NewMemoryStore()
	ctx := context.Background()
	first := NewStore(state, logger.Discard())
	require.NoError(t, first.AddFavorite(ctx, jacket))

	second := NewStore(state, logger.Discard())
	require.NoError(t, second.Load(ctx))

	assert.True(t, second.IsFavorite(jacket.ID))
}

func TestPersistFailure(t *testing.T) {
	s := NewStore(brokenStore{storage.NewMemoryStore()}, logger.Discard())

	err := s.AddFavorite(context.Background(), jacket)

	assert.ErrorIs(t, err, ErrPersist)
	assert.True(t, s.IsFavorite(jacket.ID))
}
