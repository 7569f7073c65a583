package dto

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
	"github.com/iho/paymaster/internal/usecase"
)

var validate = validator.New()

// Validate checks a request against its struct tags.
func Validate(req any) error {
	return validate.Struct(req)
}

// ChangeBalanceRequest asks for a single-sided balance change. The wire format
// keeps the credit/debit verb for compatibility; it collapses into the sign of
// the movement amount at this boundary.
type ChangeBalanceRequest struct {
	Operation   string          `json:"operation" validate:"required,oneof=credit debit"`
	Description string          `json:"description"`
	UserID      int64           `json:"user_id" validate:"required,gt=0"`
	Total       decimal.Decimal `json:"total" validate:"required"`
}

// ToMovementInput converts to the signed movement primitive.
func (r *ChangeBalanceRequest) ToMovementInput() (usecase.ApplyMovementInput, error) {
	if r.Total.LessThanOrEqual(decimal.Zero) {
		return usecase.ApplyMovementInput{}, fmt.Errorf("%w: total must be positive", domain.ErrInvalidAmount)
	}

	amount := r.Total
	if r.Operation == "debit" {
		amount = amount.Neg()
	}

	return usecase.ApplyMovementInput{
		UserID:      r.UserID,
		Amount:      amount,
		Description: r.Description,
	}, nil
}

// TransferRequest asks for an atomic transfer between two users.
type TransferRequest struct {
	Description string          `json:"description"`
	SenderID    int64           `json:"sender_id" validate:"required,gt=0"`
	RecipientID int64           `json:"recipient_id" validate:"required,gt=0"`
	Total       decimal.Decimal `json:"total" validate:"required"`
}

// ToTransferInput converts to use case input.
func (r *TransferRequest) ToTransferInput() usecase.TransferInput {
	return usecase.TransferInput{
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Amount:      r.Total,
		Description: r.Description,
	}
}
