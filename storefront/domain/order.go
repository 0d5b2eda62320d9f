package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusSuccess
}

// String representation (for logging)
func (s PaymentStatus) String() string {
	return string(s)
}

// OrderItem is the snapshot of a cart line taken when the order is placed.
// It is decoupled from Product so later catalog changes do not alter history.
type OrderItem struct {
	ProductID int64   `json:"product_id" bson:"product_id"`
	Title     string  `json:"title" bson:"title"`
	Price     float64 `json:"price" bson:"price"`
	Image     string  `json:"image" bson:"image"`
	Quantity  int     `json:"quantity" bson:"quantity"`
}

type Order struct {
	ID            int64           `json:"id"`
	UserEmail     string          `json:"user_email"`
	Items         []OrderItem     `json:"items"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	PaymentStatus PaymentStatus   `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// PaymentIntentBundle carries the secrets returned by the checkout backend
// together with the order they pay for. It is never persisted.
type PaymentIntentBundle struct {
	PaymentIntent string
	EphemeralKey  string
	Customer      string
	OrderID       int64
	Total         decimal.Decimal
}

// Snapshot converts cart lines into order items.
func Snapshot(lines []CartLine) []OrderItem {
	items := make([]OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, OrderItem{
			ProductID: l.Product.ID,
			Title:     l.Product.Title,
			Price:     l.Product.Price,
			Image:     l.Product.Image,
			Quantity:  l.Quantity,
		})
	}
	return items
}

// Subtotal is the sum of price times quantity over items, rounded to cents.
func Subtotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total.Round(2)
}
