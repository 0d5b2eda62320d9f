package repository

import (
	"context"
	"errors"

	"github.com/fjod/go_storefront/storefront/domain"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrMissingOwner  = errors.New("order owner is required")
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OrderRepository is the remote order store. Every mutation is scoped by both
// order id and owner email; a row owned by someone else is indistinguishable
// from a missing one. Mutations report the number of rows matched.
type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64, owner string) (*domain.Order, error)
	ListOrdersByOwner(ctx context.Context, owner string) ([]*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id int64, owner string, status domain.PaymentStatus) (int64, error)
	DeleteOrder(ctx context.Context, id int64, owner string) (int64, error)
	RunMigrations(*Credentials) error
	Close() error
}
