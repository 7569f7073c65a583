package handler

import (
	"context"
	"net/http"

	"github.com/iho/paymaster/internal/adapter/http/dto"
	"github.com/iho/paymaster/internal/domain"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, userID int64) (*domain.Account, error)
	DeleteAccount(ctx context.Context, userID int64) error
}

// AccountHandler handles account lifecycle requests.
type AccountHandler struct {
	accounts AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accounts AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// Create registers an account for a user id.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", err.Error())
		return
	}

	account, err := h.accounts.CreateAccount(r.Context(), userID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create account", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Delete marks a user's account deleted.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", err.Error())
		return
	}

	if err := h.accounts.DeleteAccount(r.Context(), userID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete account", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
