package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fjod/go_storefront/storefront/internal/orders"
)

// terminalSheet stands in for the processor's payment UI: it shows the
// intent and asks the shopper to pay, cancel or fail it.
type terminalSheet struct {
	in  *bufio.Scanner
	out io.Writer
}

func (s *terminalSheet) Present(ctx context.Context, p orders.PaymentSheetParams) (orders.PaymentResult, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprintf(s.out, "\n--- %s ---\n", p.MerchantDisplayName)
	fmt.Fprintf(s.out, "customer %s, intent %s\n", p.CustomerID, redact(p.PaymentIntentClientSecret))
	fmt.Fprint(s.out, "confirm payment? [pay/cancel/fail]: ")

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return orders.ResultCanceled, nil
	}
	switch strings.ToLower(strings.TrimSpace(s.in.Text())) {
	case "pay", "p", "y", "yes":
		return orders.ResultSuccess, nil
	case "fail", "f":
		return orders.ResultFailed, nil
	default:
		return orders.ResultCanceled, nil
	}
}

func redact(secret string) string {
	if len(secret) <= 8 {
		return "****"
	}
	return secret[:8] + "****"
}
