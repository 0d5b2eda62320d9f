package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fjod/go_storefront/storefront/domain"
	"github.com/fjod/go_storefront/storefront/internal/auth"
	"github.com/fjod/go_storefront/storefront/internal/orders"
)

var testProducts = []domain.Product{
	{ID: 1, Title: "Fjallraven Backpack", Price: 109.95, Category: "men's clothing", Rating: domain.Rating{Rate: 3.9, Count: 120}},
	{ID: 5, Title: "Dragon Bracelet", Price: 695, Category: "jewelery", Rating: domain.Rating{Rate: 4.6, Count: 400}},
	{ID: 9, Title: "WD 2TB Drive", Price: 64, Category: "electronics", Rating: domain.Rating{Rate: 3.3, Count: 203}},
}

type MockCatalog struct{}

func (MockCatalog) GetProducts(context.Context) ([]domain.Product, error) {
	return testProducts, nil
}

func (MockCatalog) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	for _, p := range testProducts {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, context.DeadlineExceeded
}

func (MockCatalog) GetCategories(context.Context) ([]string, error) {
	return []string{"electronics", "jewelery", "men's clothing"}, nil
}

func (MockCatalog) GetProductsByCategory(_ context.Context, category string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range testProducts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

type MockProvider struct{}

func (MockProvider) SignInWithPassword(_ context.Context, email, _ string) (*auth.Grant, error) {
	return &auth.Grant{User: auth.User{ID: "u1", Email: email}, AccessToken: "token-" + email}, nil
}

func (p MockProvider) SignUp(ctx context.Context, email, password string) (*auth.Grant, error) {
	return p.SignInWithPassword(ctx, email, password)
}

func (MockProvider) SignOut(context.Context, string) error { return nil }

func (MockProvider) GetUser(_ context.Context, token string) (*auth.User, error) {
	return &auth.User{ID: "u1", Email: token[len("token-"):]}, nil
}

type MockIntents struct {
	Prices []decimal.Decimal
}

func (m *MockIntents) RequestIntent(_ context.Context, price decimal.Decimal, _ string) (*orders.IntentResponse, error) {
	m.Prices = append(m.Prices, price)
	return &orders.IntentResponse{Success: true, PaymentIntent: "pi", EphemeralKey: "ek", Customer: "cus"}, nil
}

type MockSheet struct{}

func (MockSheet) Present(context.Context, orders.PaymentSheetParams) (orders.PaymentResult, error) {
	return orders.ResultSuccess, nil
}
