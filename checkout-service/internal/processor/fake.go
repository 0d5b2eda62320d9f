package processor

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// FakeProcessor issues processor-shaped identifiers without any network calls.
// It is selected with PROCESSOR=fake for local development.
type FakeProcessor struct {
	mu      sync.Mutex
	intents map[string]IntentParams
}

func NewFakeProcessor() *FakeProcessor {
	return &FakeProcessor{intents: make(map[string]IntentParams)}
}

func (f *FakeProcessor) CreateCustomer(_ context.Context, _ string) (string, error) {
	return "cus_" + shortID(), nil
}

func (f *FakeProcessor) CreateEphemeralKey(_ context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", fmt.Errorf("%w: missing customer", ErrProcessor)
	}
	return "ek_test_" + shortID(), nil
}

func (f *FakeProcessor) CreatePaymentIntent(_ context.Context, p IntentParams) (string, error) {
	if p.AmountMinor <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrProcessor)
	}
	id := "pi_" + shortID()
	f.mu.Lock()
	f.intents[id] = p
	f.mu.Unlock()
	return id + "_secret_" + shortID(), nil
}

// Intent returns the parameters recorded for a payment intent id.
func (f *FakeProcessor) Intent(id string) (IntentParams, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.intents[id]
	return p, ok
}

func shortID() string {
	return uuid.NewString()[:8]
}
