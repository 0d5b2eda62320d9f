package service

import (
	"context"
	"fmt"

	d "github.com/fjod/go_storefront/checkout-service/domain"
	p "github.com/fjod/go_storefront/checkout-service/internal/processor"
)

// CreatePaymentSheet creates a processor customer, an ephemeral key scoped to
// it and a payment intent for the requested price. Processor failures are
// logged with their detail and returned as ErrPaymentFailed.
func (s *CheckoutServiceImpl) CreatePaymentSheet(ctx context.Context, request *d.CheckoutRequest) (*d.PaymentSheet, error) {
	amount, err := p.ToMinorUnits(request.Price)
	if err != nil {
		return nil, ErrInvalidPrice
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	customer, err := s.processor.CreateCustomer(ctx, request.Email)
	if err != nil {
		return nil, s.failed(ctx, "create customer", err)
	}

	ephemeralKey, err := s.processor.CreateEphemeralKey(ctx, customer)
	if err != nil {
		return nil, s.failed(ctx, "create ephemeral key", err)
	}

	clientSecret, err := s.processor.CreatePaymentIntent(ctx, p.IntentParams{
		AmountMinor: amount,
		Currency:    s.currency,
		CustomerID:  customer,
		Email:       request.Email,
	})
	if err != nil {
		return nil, s.failed(ctx, "create payment intent", err)
	}

	s.log.InfoContext(ctx, "payment intent created",
		"customer", customer,
		"amount_minor", amount,
		"currency", s.currency)

	return &d.PaymentSheet{
		PaymentIntent: clientSecret,
		EphemeralKey:  ephemeralKey,
		Customer:      customer,
	}, nil
}

func (s *CheckoutServiceImpl) failed(ctx context.Context, step string, err error) error {
	s.log.ErrorContext(ctx, "payment processing failed", "step", step, "error", err)
	return fmt.Errorf("%w: %s", ErrPaymentFailed, step)
}

// ValidPrice reports whether price is a positive amount that converts to a
// chargeable number of cents.
func ValidPrice(price float64) bool {
	_, err := p.ToMinorUnits(price)
	return err == nil
}
