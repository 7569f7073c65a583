package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/paymaster/internal/domain"
)

// ErrorResponse is the error body for all endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AccountResponse represents an account in responses.
type AccountResponse struct {
	Status string `json:"status"`
	UserID int64  `json:"user_id"`
}

// AccountFromDomain converts a domain account.
func AccountFromDomain(account *domain.Account) AccountResponse {
	return AccountResponse{
		UserID: account.UserID,
		Status: string(account.Status),
	}
}

// BalanceResponse carries a (possibly converted) balance.
type BalanceResponse struct {
	Currency string          `json:"currency"`
	UserID   int64           `json:"user_id"`
	Balance  decimal.Decimal `json:"balance"`
}

// HistoryRecordResponse is one movement in a history page.
type HistoryRecordResponse struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	DealWith    int64           `json:"deal_with"`
	Total       decimal.Decimal `json:"total"`
}

// HistoryPageResponse is one page of account history.
type HistoryPageResponse struct {
	Content    []HistoryRecordResponse `json:"content"`
	PageNumber int                     `json:"page_number"`
}

// HistoryPageFromDomain converts one page of history records.
func HistoryPageFromDomain(records []domain.HistoryRecord, pageNumber int) HistoryPageResponse {
	content := make([]HistoryRecordResponse, 0, len(records))
	for _, rec := range records {
		content = append(content, HistoryRecordResponse{
			Date:        rec.Date.Format("2006-01-02"),
			DealWith:    rec.CounterpartyUserID,
			Description: rec.Description,
			Total:       rec.Total(),
		})
	}

	return HistoryPageResponse{
		PageNumber: pageNumber,
		Content:    content,
	}
}
