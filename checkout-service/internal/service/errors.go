package service

import "errors"

var (
	ErrInvalidPrice  = errors.New("invalid price value")
	ErrPaymentFailed = errors.New("payment processing failed")
)
