package orders

import "context"

type PaymentResult string

const (
	ResultSuccess  PaymentResult = "success"
	ResultCanceled PaymentResult = "canceled"
	ResultFailed   PaymentResult = "failed"
)

type PaymentSheetParams struct {
	CustomerID                 string
	CustomerEphemeralKeySecret string
	PaymentIntentClientSecret  string
	MerchantDisplayName        string
	ReturnURL                  string
}

// PaymentSheet is the processor's payment confirmation UI. Present blocks
// until the shopper completes, cancels or fails the payment. A returned error
// means the sheet could not be shown at all.
type PaymentSheet interface {
	Present(ctx context.Context, params PaymentSheetParams) (PaymentResult, error)
}
