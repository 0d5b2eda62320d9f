package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/storefront/domain"
	"github.com/fjod/go_storefront/storefront/internal/storage"
)

var ErrPersist = errors.New("failed to persist cart")

type persistedCart struct {
	Items []domain.CartLine `json:"items"`
}

// Store holds the cart lines. Every mutation is applied in memory first and
// then written to the state store under storage.KeyCart; a failed write is
// returned wrapped in ErrPersist while the in-memory change is kept.
type Store struct {
	mu    sync.RWMutex
	items []domain.CartLine
	state storage.StateStore
	log   *slog.Logger
}

func NewStore(state storage.StateStore, log *slog.Logger) *Store {
	return &Store{state: state, log: log}
}

// Load replaces the in-memory cart with the persisted one. Lines with a
// non-positive quantity are dropped and duplicate product ids are merged.
func (s *Store) Load(ctx context.Context) error {
	var p persistedCart
	if _, err := storage.LoadJSON(ctx, s.state, storage.KeyCart, &p); err != nil {
		return fmt.Errorf("load cart: %w", err)
	}

	items := make([]domain.CartLine, 0, len(p.Items))
	for _, line := range p.Items {
		if line.Quantity < 1 {
			continue
		}
		if i := indexOf(items, line.Product.ID); i >= 0 {
			items[i].Quantity += line.Quantity
			continue
		}
		items = append(items, line)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// AddItem adds quantity units of product, merging into an existing line.
// A quantity below 1 adds a single unit.
func (s *Store) AddItem(ctx context.Context, product domain.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexOf(s.items, product.ID); i >= 0 {
		s.items[i].Quantity += quantity
	} else {
		s.items = append(s.items, domain.CartLine{Product: product, Quantity: quantity})
	}
	return s.persistLocked(ctx)
}

// UpdateItemQuantity sets the absolute quantity of a line. Zero or a negative
// quantity removes the line.
func (s *Store) UpdateItemQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, productID)
	if i < 0 {
		return nil
	}
	s.items[i].Quantity = quantity
	return s.persistLocked(ctx)
}

func (s *Store) RemoveItem(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexOf(s.items, productID)
	if i < 0 {
		return nil
	}
	s.items = slices.Delete(s.items, i, i+1)
	return s.persistLocked(ctx)
}

func (s *Store) ClearCart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persistLocked(ctx)
}

func (s *Store) Items() []domain.CartLine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := 0
	for _, line := range s.items {
		total += line.Quantity
	}
	return total
}

// TotalPrice is recomputed from the current lines on every call.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, line := range s.items {
		total = total.Add(decimal.NewFromFloat(line.Product.Price).Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total.Round(2)
}

func (s *Store) persistLocked(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []domain.CartLine{}
	}
	if err := storage.SaveJSON(ctx, s.state, storage.KeyCart, persistedCart{Items: items}); err != nil {
		s.log.ErrorContext(ctx, "cart persist failed", "error", err)
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

func indexOf(items []domain.CartLine, productID int64) int {
	return slices.IndexFunc(items, func(l domain.CartLine) bool {
		return l.Product.ID == productID
	})
}
