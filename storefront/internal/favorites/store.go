package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/fjod/go_storefront/storefront/domain"
	"github.com/fjod/go_storefront/storefront/internal/storage"
)

var ErrPersist = errors.New("failed to persist favorites")

type persistedFavorites struct {
	FavoriteItems []domain.Product `json:"favoriteItems"`
}

// Store is the user's favorite products, unique by id, persisted under
// storage.KeyFavorites.
type Store struct {
	mu    sync.RWMutex
	items []domain.Product
	state storage.StateStore
	log   *slog.Logger
}

func NewStore(state storage.StateStore, log *slog.Logger) *Store {
	return &Store{state: state, log: log}
}

func (s *Store) Load(ctx context.Context) error {
	var p persistedFavorites
	if _, err := storage.LoadJSON(ctx, s.state, storage.KeyFavorites, &p); err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}

	items := make([]domain.Product, 0, len(p.FavoriteItems))
	for _, product := range p.FavoriteItems {
		if indexOf(items, product.ID) < 0 {
			items = append(items, product)
		}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *Store) IsFavorite(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return indexOf(s.items, productID) >= 0
}

// AddFavorite is a no-op when the product is already a favorite.
func (s *Store) AddFavorite(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addLocked(ctx, product)
}

func (s *Store) RemoveFavorite(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(ctx, productID)
}

// ToggleFavorite adds the product if absent and removes it otherwise; two
// toggles restore the original set.
func (s *Store) ToggleFavorite(ctx context.Context, product domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOf(s.items, product.ID) >= 0 {
		return s.removeLocked(ctx, product.ID)
	}
	return s.addLocked(ctx, product)
}

func (s *Store) ResetFavorite(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistLocked(ctx)
}

func (s *Store) Items() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store) addLocked(ctx context.Context, product domain.Product) error {
	if indexOf(s.items, product.ID) >= 0 {
		return nil
	}
	s.items = append(s.items, product)
	return s.persistLocked(ctx)
}

func (s *Store) removeLocked(ctx context.Context, productID int64) error {
	i := indexOf(s.items, productID)
	if i < 0 {
		return nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	return s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []domain.Product{}
	}
	if err := storage.SaveJSON(ctx, s.state, storage.KeyFavorites, persistedFavorites{FavoriteItems: items}); err != nil {
		s.log.ErrorContext(ctx, "favorites persist failed", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func indexOf(items []domain.Product, productID int64) int {
	return slices.IndexFunc(items, func(p domain.Product) bool {
		return p.ID == productID
	})
}
