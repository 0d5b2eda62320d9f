package domain

import "encoding/json"

// CheckoutRequestDTO is the body of POST /api/checkout. Price is kept raw so the
// handler can tell a JSON number from a string or null.
type CheckoutRequestDTO struct {
	Email string          `json:"email"`
	Price json.RawMessage `json:"price"`
}

type CheckoutResponseDTO struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	PaymentIntent string `json:"paymentIntent,omitempty"`
	EphemeralKey  string `json:"ephemeralKey,omitempty"`
	Customer      string `json:"customer,omitempty"`
}

// PaymentSheet holds the three secrets a client needs to present the
// processor's payment confirmation UI.
type PaymentSheet struct {
	PaymentIntent string
	EphemeralKey  string
	Customer      string
}

type CheckoutRequest struct {
	Email string
	Price float64
}
