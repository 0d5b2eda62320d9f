package service

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/fjod/go_storefront/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	d "github.com/fjod/go_storefront/checkout-service/domain"
)

func newService(m *MockProcessor) *CheckoutServiceImpl {
	return NewCheckoutService(m, "usd", 5*time.Second, logger.Discard())
}

func TestCreatePaymentSheet_Success(t *testing.T) {
	mock := &MockProcessor{}
	svc := newService(mock)

	sheet, err := svc.CreatePaymentSheet(context.Background(), &d.CheckoutRequest{
		Email: "ann@example.com",
		Price: 105.99,
	})

	require.NoError(t, err)
	assert.Equal(t, "pi_123_secret_abc", sheet.PaymentIntent)
	assert.Equal(t, "ek_for_cus_123", sheet.EphemeralKey)
	assert.Equal(t, "cus_123", sheet.Customer)
	assert.Equal(t, int64(10599), mock.intent.AmountMinor)
	assert.Equal(t, "usd", mock.intent.Currency)
	assert.Equal(t, "cus_123", mock.intent.CustomerID)
	assert.Equal(t, "ann@example.com", mock.intent.Email)
}

func TestCreatePaymentSheet_GuestCheckout(t *testing.T) {
	mock := &MockProcessor{}
	svc := newService(mock)

	_, err := svc.CreatePaymentSheet(context.Background(), &d.CheckoutRequest{Price: 10})

	require.NoError(t, err)
	assert.Equal(t, []string{""}, mock.customerArgs)
}

func TestCreatePaymentSheet_InvalidPriceSkipsProcessor(t *testing.T) {
	for _, price := range []float64{0, -1, 0.001, 1e17, 1e19, 1e300, math.NaN(), math.Inf(1)} {
		mock := &MockProcessor{}
		svc := newService(mock)

		_, err := svc.CreatePaymentSheet(context.Background(), &d.CheckoutRequest{Price: price})

		assert.ErrorIs(t, err, ErrInvalidPrice)
		assert.Zero(t, mock.calls)
	}
}

func TestCreatePaymentSheet_ProcessorFailure(t *testing.T) {
	boom := errors.New("card_declined: secret detail")
	tests := []struct {
		name  string
		mock  *MockProcessor
		calls int
	}{
		{"customer", &MockProcessor{customerErr: boom}, 1},
		{"ephemeral key", &MockProcessor{keyErr: boom}, 2},
		{"payment intent", &MockProcessor{intentErr: boom}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(tt.mock)

			sheet, err := svc.CreatePaymentSheet(context.Background(), &d.CheckoutRequest{Price: 20})

			assert.Nil(t, sheet)
			assert.ErrorIs(t, err, ErrPaymentFailed)
			assert.NotContains(t, err.Error(), "secret detail")
			assert.Equal(t, tt.calls, tt.mock.calls)
		})
	}
}
