package orders

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/storefront/domain"
	"github.com/fjod/go_storefront/storefront/internal/events"
	"github.com/fjod/go_storefront/storefront/internal/repository"
)

var errBackend = errors.New("backend unavailable")

type MockIdentity struct {
	EmailValue string
}

func (m *MockIdentity) Email() string { return m.EmailValue }

type MockCart struct {
	Lines    []domain.CartLine
	Cleared  bool
	ClearErr error
}

func (m *MockCart) Items() []domain.CartLine { return m.Lines }

func (m *MockCart) UpdateItemQuantity(_ context.Context, productID int64, quantity int) error {
	for i, l := range m.Lines {
		if l.Product.ID != productID {
			continue
		}
		if quantity <= 0 {
			m.Lines = append(m.Lines[:i:i], m.Lines[i+1:]...)
		} else {
			m.Lines[i].Quantity = quantity
		}
		return nil
	}
	return nil
}

func (m *MockCart) ClearCart(context.Context) error {
	m.Cleared = true
	m.Lines = nil
	return m.ClearErr
}

// MockRepository wraps the in-memory repository and can be told to fail or to
// report zero rows on update.
type MockRepository struct {
	*repository.MemoryRepository
	CreateErr     error
	UpdateErr     error
	DeleteErr     error
	ListErr       error
	UpdateNoMatch bool
	UpdateCalls   int
	CreateCalls   int
}

func NewMockRepository() *MockRepository {
	return &MockRepository{MemoryRepository: repository.NewMemoryRepository()}
}

func (m *MockRepository) CreateOrder(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	m.CreateCalls++
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	return m.MemoryRepository.CreateOrder(ctx, order)
}

func (m *MockRepository) UpdatePaymentStatus(ctx context.Context, id int64, owner string, status domain.PaymentStatus) (int64, error) {
	m.UpdateCalls++
	if m.UpdateErr != nil {
		return 0, m.UpdateErr
	}
	if m.UpdateNoMatch {
		return 0, nil
	}
	return m.MemoryRepository.UpdatePaymentStatus(ctx, id, owner, status)
}

func (m *MockRepository) DeleteOrder(ctx context.Context, id int64, owner string) (int64, error) {
	if m.DeleteErr != nil {
		return 0, m.DeleteErr
	}
	return m.MemoryRepository.DeleteOrder(ctx, id, owner)
}

func (m *MockRepository) ListOrdersByOwner(ctx context.Context, owner string) ([]*domain.Order, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.MemoryRepository.ListOrdersByOwner(ctx, owner)
}

type MockIntents struct {
	Err    error
	Prices []decimal.Decimal
	Emails []string
}

func (m *MockIntents) RequestIntent(_ context.Context, price decimal.Decimal, email string) (*IntentResponse, error) {
	m.Prices = append(m.Prices, price)
	m.Emails = append(m.Emails, email)
	if m.Err != nil {
		return nil, m.Err
	}
	return &IntentResponse{
		Success:       true,
		PaymentIntent: "pi_secret",
		EphemeralKey:  "ek_secret",
		Customer:      "cus_1",
	}, nil
}

type MockSheet struct {
	Result PaymentResult
	Err    error
	Params []PaymentSheetParams
}

func (m *MockSheet) Present(_ context.Context, params PaymentSheetParams) (PaymentResult, error) {
	m.Params = append(m.Params, params)
	return m.Result, m.Err
}

type MockPublisher struct {
	mu     sync.Mutex
	Events []events.OrderEvent
	Err    error
}

func (m *MockPublisher) Publish(_ context.Context, ev events.OrderEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, ev)
	return m.Err
}

func (m *MockPublisher) Close() error { return nil }

func (m *MockPublisher) Types() []events.EventType {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]events.EventType, 0, len(m.Events))
	for _, ev := range m.Events {
		out = append(out, ev.Type)
	}
	return out
}
