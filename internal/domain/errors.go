package domain

import "errors"

var (
	ErrAmountInvalid      = errors.New("amount is not a valid number")
	ErrAmountBelowMinimum = errors.New("amount below minimum donation")
	ErrAmountAboveMaximum = errors.New("amount above maximum donation")
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotPending    = errors.New("order is not pending")
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrNotOperator        = errors.New("caller is not the operator")
)
