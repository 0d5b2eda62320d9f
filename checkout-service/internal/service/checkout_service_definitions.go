package service

import (
	"context"
	"log/slog"
	"time"

	d "github.com/fjod/go_storefront/checkout-service/domain"
	p "github.com/fjod/go_storefront/checkout-service/internal/processor"
)

type CheckoutService interface {
	CreatePaymentSheet(ctx context.Context, request *d.CheckoutRequest) (*d.PaymentSheet, error)
}

type CheckoutServiceImpl struct {
	processor p.Processor
	currency  string
	timeout   time.Duration
	log       *slog.Logger
}

func NewCheckoutService(processor p.Processor, currency string, timeout time.Duration, log *slog.Logger) *CheckoutServiceImpl {
	return &CheckoutServiceImpl{
		processor: processor,
		currency:  currency,
		timeout:   timeout,
		log:       log,
	}
}
