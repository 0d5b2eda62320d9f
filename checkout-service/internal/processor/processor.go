package processor

import (
	"context"
	"errors"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrProcessor        = errors.New("payment processor request failed")
	ErrAmountOutOfRange = errors.New("amount out of range")
)

const GuestUser = "Guest User"

// MaxAmountMinor is the largest charge the processor accepts, in cents.
const MaxAmountMinor int64 = 99999999

// IntentParams describes a card payment in minor currency units.
type IntentParams struct {
	AmountMinor int64
	Currency    string
	CustomerID  string
	Email       string
}

// Processor is the subset of the payment processor API used to prepare a
// mobile payment sheet.
type Processor interface {
	CreateCustomer(ctx context.Context, email string) (string, error)
	CreateEphemeralKey(ctx context.Context, customerID string) (string, error)
	CreatePaymentIntent(ctx context.Context, p IntentParams) (string, error)
}

// ToMinorUnits converts a major-unit amount to cents, rounding half away from
// zero on the decimal value of amount. Amounts that round below one cent or
// above MaxAmountMinor are rejected with ErrAmountOutOfRange.
func ToMinorUnits(amount float64) (int64, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0, ErrAmountOutOfRange
	}
	minor := decimal.NewFromFloat(amount).Shift(2).Round(0)
	if minor.LessThan(decimal.NewFromInt(1)) || minor.GreaterThan(decimal.NewFromInt(MaxAmountMinor)) {
		return 0, ErrAmountOutOfRange
	}
	return minor.IntPart(), nil
}

func displayEmail(email string) string {
	if email == "" {
		return GuestUser
	}
	return email
}
