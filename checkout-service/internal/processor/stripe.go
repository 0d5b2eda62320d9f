package processor

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

type StripeProcessor struct {
	api        *client.API
	apiVersion string
}

func NewStripeProcessor(secretKey, apiVersion string) *StripeProcessor {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProcessor{
		api:        api,
		apiVersion: apiVersion,
	}
}

func (s *StripeProcessor) CreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	if email != "" {
		params.Email = stripe.String(email)
	}
	c, err := s.api.Customers.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: create customer: %w", ErrProcessor, err)
	}
	return c.ID, nil
}

func (s *StripeProcessor) CreateEphemeralKey(ctx context.Context, customerID string) (string, error) {
	params := &stripe.EphemeralKeyParams{
		Customer:      stripe.String(customerID),
		StripeVersion: stripe.String(s.apiVersion),
	}
	params.Context = ctx
	key, err := s.api.EphemeralKeys.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: create ephemeral key: %w", ErrProcessor, err)
	}
	return key.Secret, nil
}

func (s *StripeProcessor) CreatePaymentIntent(ctx context.Context, p IntentParams) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(p.AmountMinor),
		Currency: stripe.String(p.Currency),
		Customer: stripe.String(p.CustomerID),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Description: stripe.String("Order from " + displayEmail(p.Email)),
	}
	if p.Email != "" {
		params.ReceiptEmail = stripe.String(p.Email)
	}
	params.Context = ctx
	params.AddMetadata("email", displayEmail(p.Email))

	pi, err := s.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("%w: create payment intent: %w", ErrProcessor, err)
	}
	return pi.ClientSecret, nil
}
