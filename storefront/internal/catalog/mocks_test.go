package catalog

import (
	"context"
	"sync"

	"github.com/fjod/go_storefront/storefront/domain"
)

// MockClient implements Client for testing
type MockClient struct {
	mu         sync.Mutex
	products   []domain.Product
	byCategory map[string][]domain.Product
	categories []string
	err        error

	productCalls  int
	categoryCalls []string
}

func (m *MockClient) GetProducts(_ context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.productCalls++
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *MockClient) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrFetchProduct
}

func (m *MockClient) GetCategories(_ context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.categories, nil
}

func (m *MockClient) GetProductsByCategory(_ context.Context, category string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categoryCalls = append(m.categoryCalls, category)
	if m.err != nil {
		return nil, m.err
	}
	return m.byCategory[category], nil
}

var testProducts = []domain.Product{
	{ID: 1, Title: "Fjallraven Backpack", Price: 109.95, Category: "men's clothing", Description: "Your perfect pack for everyday use", Rating: domain.Rating{Rate: 3.9, Count: 120}},
	{ID: 2, Title: "Mens Casual T-Shirt", Price: 22.3, Category: "men's clothing", Description: "Slim-fitting style", Rating: domain.Rating{Rate: 4.1, Count: 259}},
	{ID: 5, Title: "Dragon Bracelet", Price: 695, Category: "jewelery", Description: "Inspired by the mythical water dragon", Rating: domain.Rating{Rate: 4.6, Count: 400}},
	{ID: 9, Title: "Portable External Hard Drive", Price: 64, Category: "electronics", Description: "USB 3.0 and USB 2.0 compatibility", Rating: domain.Rating{Rate: 3.3, Count: 203}},
	{ID: 12, Title: "Gaming Drive", Price: 114, Category: "electronics", Description: "Expand your PS4 gaming experience", Rating: domain.Rating{Rate: 4.8, Count: 400}},
}

func ids(products []domain.Product) []int64 {
	out := make([]int64, 0, len(products))
	for _, p := range products {
		out = append(out, p.ID)
	}
	return out
}
