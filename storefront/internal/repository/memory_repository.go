package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/fjod/go_storefront/storefront/domain"
)

// MemoryRepository implements OrderRepository with in-memory storage. It is
// used for local runs without Postgres.
type MemoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	orders map[int64]*domain.Order
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		nextID: 1,
		orders: make(map[int64]*domain.Order),
		now:    time.Now,
	}
}

func (r *MemoryRepository) CreateOrder(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order.UserEmail == "" {
		return nil, ErrMissingOwner
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneOrder(order)
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	stored.TotalPrice = stored.TotalPrice.Round(2)
	if stored.PaymentStatus == "" {
		stored.PaymentStatus = domain.PaymentStatusPending
	}
	r.nextID++
	r.orders[stored.ID] = stored
	return cloneOrder(stored), nil
}

func (r *MemoryRepository) GetOrder(_ context.Context, id int64, owner string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok || o.UserEmail != owner {
		return nil, ErrOrderNotFound
	}
	return cloneOrder(o), nil
}

func (r *MemoryRepository) ListOrdersByOwner(_ context.Context, owner string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := []*domain.Order{}
	for _, o := range r.orders {
		if o.UserEmail == owner {
			orders = append(orders, cloneOrder(o))
		}
	}
	slices.SortFunc(orders, func(a, b *domain.Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return orders, nil
}

func (r *MemoryRepository) UpdatePaymentStatus(_ context.Context, id int64, owner string, status domain.PaymentStatus) (int64, error) {
	if owner == "" {
		return 0, ErrMissingOwner
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.UserEmail != owner {
		return 0, nil
	}
	o.PaymentStatus = status
	return 1, nil
}

func (r *MemoryRepository) DeleteOrder(_ context.Context, id int64, owner string) (int64, error) {
	if owner == "" {
		return 0, ErrMissingOwner
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok || o.UserEmail != owner {
		return 0, nil
	}
	delete(r.orders, id)
	return 1, nil
}

func (r *MemoryRepository) RunMigrations(*Credentials) error { return nil }

func (r *MemoryRepository) Close() error { return nil }

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = slices.Clone(o.Items)
	return &c
}
