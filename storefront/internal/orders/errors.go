package orders

import "errors"

var (
	ErrAuthRequired     = errors.New("authentication required")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrNetwork          = errors.New("remote call failed")
	ErrOrderPersist     = errors.New("failed to save order")
	ErrPaymentIntent    = errors.New("failed to obtain payment intent")
	ErrInvalidIntent    = errors.New("invalid payment data received from server")
	ErrReconciliation   = errors.New("payment captured but order status not updated")
	ErrPaymentAbandoned = errors.New("payment canceled")
	ErrPaymentFailed    = errors.New("payment failed")
	ErrAlreadyPaid      = errors.New("order already paid")
	ErrOrderDelete      = errors.New("failed to delete order")
	ErrOrderNotFound    = errors.New("order not found")
)

// UserMessage turns a coordinator error into the text shown to the shopper.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthRequired):
		return "Please log in to place an order."
	case errors.Is(err, ErrEmptyCart):
		return "Your cart is empty."
	case errors.Is(err, ErrOrderPersist):
		return "There was an issue placing your order. Please try again."
	case errors.Is(err, ErrPaymentIntent):
		return "There was an error processing your payment. Please try again."
	case errors.Is(err, ErrReconciliation):
		return "Order not found or you do not have permission to update it"
	case errors.Is(err, ErrPaymentAbandoned):
		return "Payment was canceled."
	case errors.Is(err, ErrPaymentFailed):
		return "An error occurred during payment processing."
	case errors.Is(err, ErrAlreadyPaid):
		return "This order has already been paid."
	case errors.Is(err, ErrOrderDelete):
		return "Failed to delete order. Please try again."
	case errors.Is(err, ErrOrderNotFound):
		return "Order not found."
	case errors.Is(err, ErrNetwork):
		return "Network error. Please check your connection and try again."
	default:
		return "Something went wrong. Please try again."
	}
}
