package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/adapter/http/dto"
	"github.com/iho/paymaster/internal/usecase"
)

// BalanceService defines the behavior needed by BalanceHandler.
type BalanceService interface {
	GetBalance(ctx context.Context, userID int64, currency string) (decimal.Decimal, error)
	ApplyMovement(ctx context.Context, input usecase.ApplyMovementInput) error
}

// BalanceHandler handles balance reads and single-sided changes.
type BalanceHandler struct {
	balances     BalanceService
	baseCurrency string
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balances BalanceService, baseCurrency string) *BalanceHandler {
	return &BalanceHandler{balances: balances, baseCurrency: baseCurrency}
}

// Change applies a credit or debit to a user's balance.
func (h *BalanceHandler) Change(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangeBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := dto.Validate(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	input, err := req.ToMovementInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount", err.Error())
		return
	}

	if err := h.balances.ApplyMovement(r.Context(), input); err != nil {
		writeError(w, mapDomainError(err), "failed to change balance", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"status": "created"})
}

// Get returns a user's balance, optionally converted to another currency.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", err.Error())
		return
	}

	currency := r.URL.Query().Get("currency")

	balance, err := h.balances.GetBalance(r.Context(), userID, currency)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get balance", err.Error())
		return
	}

	label := strings.ToUpper(currency)
	if label == "" {
		label = h.baseCurrency
	}

	writeJSON(w, http.StatusOK, dto.BalanceResponse{
		UserID:   userID,
		Balance:  balance,
		Currency: label,
	})
}
