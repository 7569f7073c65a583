package domain

import "errors"

var (
	// Account errors
	ErrAccountConflict = errors.New("account already exists")
	ErrAccountNotFound = errors.New("account not found")

	// Movement errors
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("amount must be positive with at most two decimal places")

	// Transfer errors
	ErrInvalidTransfer = errors.New("invalid transfer")

	// Currency errors
	ErrCurrencyNotFound = errors.New("unsupported currency")
)
