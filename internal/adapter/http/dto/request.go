package dto

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// TransferRequest represents a request to submit a transfer.
type TransferRequest struct {
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Description string          `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input for the identified user.
func (r *TransferRequest) ToUseCaseInput(userID string) usecase.SubmitTransferInput {
	return usecase.SubmitTransferInput{
		UserID:      userID,
		FromAccount: r.FromAccount,
		ToAccount:   r.ToAccount,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
	}
}

// UpdateProfileRequest carries the caller-editable profile fields. Absent
// fields are left untouched.
type UpdateProfileRequest struct {
	FirstName            *string                     `json:"first_name,omitempty"`
	LastName             *string                     `json:"last_name,omitempty"`
	Email                *string                     `json:"email,omitempty"`
	PhoneNumber          *string                     `json:"phone_number,omitempty"`
	Address              *domain.Address             `json:"address,omitempty"`
	Preferences          map[string]any              `json:"preferences,omitempty"`
	NotificationSettings domain.NotificationSettings `json:"notification_settings,omitempty"`
}

// ToUseCaseInput converts to use case input for the identified user.
func (r *UpdateProfileRequest) ToUseCaseInput(userID string) usecase.UpdateProfileInput {
	return usecase.UpdateProfileInput{
		UserID:               userID,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		Email:                r.Email,
		PhoneNumber:          r.PhoneNumber,
		Address:              r.Address,
		Preferences:          r.Preferences,
		NotificationSettings: r.NotificationSettings,
	}
}

// ParseTransactionFilter reads history filter parameters from the query
// string. Malformed values fall back to the zero filter field; pagination is
// clamped downstream.
func ParseTransactionFilter(r *http.Request) domain.TransactionFilter {
	q := r.URL.Query()

	var filter domain.TransactionFilter
	filter.Limit = intQuery(q.Get("limit"))
	filter.Offset = intQuery(q.Get("offset"))
	filter.Type = domain.TransactionType(q.Get("transaction_type"))

	if ts, err := time.Parse(time.RFC3339, q.Get("start_date")); err == nil {
		filter.StartDate = &ts
	}
	if ts, err := time.Parse(time.RFC3339, q.Get("end_date")); err == nil {
		filter.EndDate = &ts
	}
	if d, err := decimal.NewFromString(q.Get("min_amount")); err == nil {
		filter.MinAmount = &d
	}
	if d, err := decimal.NewFromString(q.Get("max_amount")); err == nil {
		filter.MaxAmount = &d
	}

	return filter
}

func intQuery(val string) int {
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
