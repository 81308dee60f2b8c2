package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/gobank/internal/domain"
	"github.com/iho/gobank/internal/usecase"
)

// Envelope is the uniform response wrapper for all API endpoints.
type Envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
	Timestamp int64      `json:"timestamp"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// NewEnvelope wraps data in a success envelope.
func NewEnvelope(data any) Envelope {
	return Envelope{Success: true, Data: data, Timestamp: time.Now().Unix()}
}

// NewErrorEnvelope wraps an error message in a failure envelope.
func NewErrorEnvelope(message, details string) Envelope {
	return Envelope{
		Success:   false,
		Error:     &ErrorBody{Message: message, Details: details},
		Timestamp: time.Now().Unix(),
	}
}

// BalanceResponse represents a balance read in API responses.
type BalanceResponse struct {
	AccountID        string          `json:"account_id"`
	Balance          decimal.Decimal `json:"balance"`
	AvailableBalance decimal.Decimal `json:"available_balance"`
	Currency         string          `json:"currency"`
	AccountType      string          `json:"account_type"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Source           string          `json:"source"`
}

// BalanceFromResult converts a use case balance result to a response.
func BalanceFromResult(res *usecase.BalanceResult) *BalanceResponse {
	return &BalanceResponse{
		AccountID:        res.AccountID,
		Balance:          res.Balance,
		AvailableBalance: res.AvailableBalance,
		Currency:         res.Currency,
		AccountType:      string(res.AccountType),
		UpdatedAt:        res.UpdatedAt,
		Source:           res.Source,
	}
}

// TransactionResponse represents a transaction in API responses.
type TransactionResponse struct {
	ID            string          `json:"transaction_id"`
	Type          string          `json:"transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	FromAccount   string          `json:"from_account,omitempty"`
	ToAccount     string          `json:"to_account,omitempty"`
	Description   string          `json:"description,omitempty"`
	Status        string          `json:"status"`
	Timestamp     int64           `json:"timestamp"`
	CoreReference string          `json:"core_reference,omitempty"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(tx *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            tx.ID,
		Type:          string(tx.Type),
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		FromAccount:   tx.FromAccount,
		ToAccount:     tx.ToAccount,
		Description:   tx.Description,
		Status:        string(tx.Status),
		Timestamp:     tx.Timestamp,
		CoreReference: tx.CoreReference,
	}
}

// TransactionListResponse is a page of transaction history.
type TransactionListResponse struct {
	AccountID    string                 `json:"account_id"`
	Transactions []*TransactionResponse `json:"transactions"`
	Count        int                    `json:"count"`
	Source       string                 `json:"source"`
}

// TransactionListFromResult converts a use case history page to a response.
func TransactionListFromResult(list *usecase.TransactionList) *TransactionListResponse {
	txs := make([]*TransactionResponse, len(list.Transactions))
	for i, tx := range list.Transactions {
		txs[i] = TransactionFromDomain(tx)
	}
	return &TransactionListResponse{
		AccountID:    list.AccountID,
		Transactions: txs,
		Count:        len(txs),
		Source:       list.Source,
	}
}

// FraudAdvisoryResponse reports the advisory fraud assessment attached to an
// accepted transfer.
type FraudAdvisoryResponse struct {
	RiskLevel              string   `json:"risk_level"`
	Flags                  []string `json:"flags,omitempty"`
	RequiresAdditionalAuth bool     `json:"requires_additional_auth"`
}

// TransferResponse represents an accepted transfer in API responses.
type TransferResponse struct {
	Transaction *TransactionResponse  `json:"transaction"`
	Fraud       FraudAdvisoryResponse `json:"fraud_assessment"`
}

// TransferFromResult converts a use case transfer result to a response.
func TransferFromResult(res *usecase.TransferResult) *TransferResponse {
	return &TransferResponse{
		Transaction: TransactionFromDomain(res.Transaction),
		Fraud: FraudAdvisoryResponse{
			RiskLevel:              string(res.Fraud.RiskLevel),
			Flags:                  res.Fraud.Flags,
			RequiresAdditionalAuth: res.Fraud.RequiresAdditionalAuth,
		},
	}
}

// ProfileResponse represents a user profile in API responses. Account
// numbers are masked; the full numbers never leave the profile store via
// this endpoint.
type ProfileResponse struct {
	UserID               string                      `json:"user_id"`
	FirstName            string                      `json:"first_name"`
	LastName             string                      `json:"last_name"`
	Email                string                      `json:"email"`
	PhoneNumber          string                      `json:"phone_number,omitempty"`
	Address              domain.Address              `json:"address,omitempty"`
	Accounts             []string                    `json:"accounts"`
	Tier                 string                      `json:"tier"`
	Preferences          map[string]any              `json:"preferences,omitempty"`
	NotificationSettings domain.NotificationSettings `json:"notification_settings"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// ProfileFromDomain converts a domain profile to a response.
func ProfileFromDomain(p *domain.UserProfile) *ProfileResponse {
	accounts := make([]string, len(p.Accounts))
	for i, id := range p.Accounts {
		accounts[i] = domain.MaskAccountNumber(id)
	}
	return &ProfileResponse{
		UserID:               p.UserID,
		FirstName:            p.FirstName,
		LastName:             p.LastName,
		Email:                p.Email,
		PhoneNumber:          p.PhoneNumber,
		Address:              p.Address,
		Accounts:             accounts,
		Tier:                 string(p.Tier),
		Preferences:          p.Preferences,
		NotificationSettings: p.NotificationSettings,
		UpdatedAt:            p.UpdatedAt,
	}
}
