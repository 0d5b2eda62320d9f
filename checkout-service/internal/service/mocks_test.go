package service

import (
	"context"

	p "github.com/fjod/go_storefront/checkout-service/internal/processor"
)

// MockProcessor implements p.Processor for testing
type MockProcessor struct {
	customerErr error
	keyErr      error
	intentErr   error

	calls        int
	customerArgs []string
	intent       p.IntentParams
}

func (m *MockProcessor) CreateCustomer(_ context.Context, email string) (string, error) {
	m.calls++
	m.customerArgs = append(m.customerArgs, email)
	if m.customerErr != nil {
		return "", m.customerErr
	}
	return "cus_123", nil
}

func (m *MockProcessor) CreateEphemeralKey(_ context.Context, customerID string) (string, error) {
	m.calls++
	if m.keyErr != nil {
		return "", m.keyErr
	}
	return "ek_for_" + customerID, nil
}

func (m *MockProcessor) CreatePaymentIntent(_ context.Context, params p.IntentParams) (string, error) {
	m.calls++
	m.intent = params
	if m.intentErr != nil {
		return "", m.intentErr
	}
	return "pi_123_secret_abc", nil
}
