package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrPaymentRequired = errors.New("payment required")
	ErrUnauthorized    = errors.New("unauthorized")
)
