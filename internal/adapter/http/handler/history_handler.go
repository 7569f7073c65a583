package handler

import (
	"context"
	"net/http"

	"github.com/iho/paymaster/internal/adapter/http/dto"
	"github.com/iho/paymaster/internal/domain"
	"github.com/iho/paymaster/internal/usecase"
)

// HistoryService defines the behavior needed by HistoryHandler.
type HistoryService interface {
	FetchHistory(ctx context.Context, input usecase.FetchHistoryInput) ([]domain.HistoryRecord, error)
}

// HistoryHandler handles paginated account history reads.
type HistoryHandler struct {
	history HistoryService
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// List returns one page of a user's movement history.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id", err.Error())
		return
	}

	byDate, err := parseSortQuery(r, "order_by_date")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sort order", err.Error())
		return
	}

	byTotal, err := parseSortQuery(r, "order_by_total")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid sort order", err.Error())
		return
	}

	input := usecase.FetchHistoryInput{
		UserID:     userID,
		PageNumber: parseIntQuery(r, "page_number", 1),
		PageSize:   parseIntQuery(r, "page_size", usecase.DefaultPageSize),
		Order:      domain.HistoryOrder{ByDate: byDate, ByTotal: byTotal},
	}

	records, err := h.history.FetchHistory(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to fetch history", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.HistoryPageFromDomain(records, input.PageNumber))
}
