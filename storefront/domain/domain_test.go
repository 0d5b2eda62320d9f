package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRating_Stars(t *testing.T) {
	tests := []struct {
		rate     float64
		stars    float64
		full     int
		halfStar bool
	}{
		{3.9, 4, 4, false},
		{4.1, 4, 4, false},
		{4.3, 4.5, 4, true},
		{2.7, 2.5, 2, true},
		{0, 0, 0, false},
		{7, 5, 5, false},
		{-1, 0, 0, false},
	}
	for _, tt := range tests {
		r := Rating{Rate: tt.rate}
		assert.Equal(t, tt.stars, r.Stars(), "rate %v", tt.rate)
		assert.Equal(t, tt.full, r.FullStars(), "rate %v", tt.rate)
		assert.Equal(t, tt.halfStar, r.HasHalfStar(), "rate %v", tt.rate)
	}
}

func TestSnapshotAndSubtotal(t *testing.T) {
	lines := []CartLine{
		{Product: Product{ID: 1, Title: "Backpack", Price: 109.95, Image: "a.png"}, Quantity: 1},
		{Product: Product{ID: 2, Title: "T-Shirt", Price: 22.3}, Quantity: 3},
	}

	items := Snapshot(lines)

	assert.Equal(t, []OrderItem{
		{ProductID: 1, Title: "Backpack", Price: 109.95, Image: "a.png", Quantity: 1},
		{ProductID: 2, Title: "T-Shirt", Price: 22.3, Quantity: 3},
	}, items)
	assert.True(t, decimal.RequireFromString("176.85").Equal(Subtotal(items)))
}

func TestPaymentStatus_IsTerminal(t *testing.T) {
	assert.False(t, PaymentStatusPending.IsTerminal())
	assert.True(t, PaymentStatusSuccess.IsTerminal())
	assert.Equal(t, "success", PaymentStatusSuccess.String())
}
