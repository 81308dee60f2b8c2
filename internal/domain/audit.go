package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Audit event types emitted by the transfer service and the transaction
// processor.
const (
	AuditTransactionAttempt  = "transaction_attempt"
	AuditTransferProcessed   = "transfer_processed"
	AuditDepositProcessed    = "deposit_processed"
	AuditWithdrawalProcessed = "withdrawal_processed"
)

// AuditRecord is an append-only audit trail entry. Account numbers are
// masked before the record leaves the process.
type AuditRecord struct {
	ID            string
	EventType     string
	TransactionID string
	UserID        string
	Amount        decimal.Decimal
	FromAccount   string
	ToAccount     string
	CoreReference string
	Payload       map[string]any
	CreatedAt     time.Time
}

// NewAuditRecord builds an audit record for a transaction, masking both
// account references.
func NewAuditRecord(eventType string, tx *Transaction, result *ProcessingResult, now time.Time) *AuditRecord {
	rec := &AuditRecord{
		EventType:     eventType,
		TransactionID: tx.ID,
		UserID:        tx.UserID,
		Amount:        tx.Amount,
		FromAccount:   MaskAccountNumber(tx.FromAccount),
		ToAccount:     MaskAccountNumber(tx.ToAccount),
		CreatedAt:     now,
	}
	if result != nil {
		rec.CoreReference = result.Reference
	}
	return rec
}
