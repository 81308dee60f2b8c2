package domain

import "github.com/shopspring/decimal"

// ProcessingResult is the core banking system's verdict on a submitted
// transaction.
type ProcessingResult struct {
	Success   bool   `json:"success"`
	Reference string `json:"core_reference,omitempty"`
	Reason    string `json:"reason,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// QueueMessage is the work item published per accepted transaction and
// consumed by the transaction processor. Exactly one message is produced per
// transaction; delivery is at least once.
type QueueMessage struct {
	TransactionType TransactionType   `json:"transaction_type"`
	Transaction     *Transaction      `json:"transaction_data"`
	Result          *ProcessingResult `json:"processing_result"`
	Timestamp       int64             `json:"timestamp"`
}

// NotificationType routes a notification event through the dispatcher.
type NotificationType string

const (
	NotificationTransferCompleted NotificationType = "transfer_completed"
	NotificationSecurityAlert     NotificationType = "security_alert"
	NotificationAccountUpdate     NotificationType = "account_update"
	NotificationPromotional       NotificationType = "promotional"
)

// NotificationEvent is a single notification to be fanned out across the
// user's enabled channels.
type NotificationEvent struct {
	Type          NotificationType `json:"notification_type"`
	UserID        string           `json:"user_id"`
	TransactionID string           `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal  `json:"amount,omitempty"`
	FromAccount   string           `json:"from_account,omitempty"`
	ToAccount     string           `json:"to_account,omitempty"`
	AlertType     string           `json:"alert_type,omitempty"`
	UpdateType    string           `json:"update_type,omitempty"`
	CampaignID    string           `json:"campaign_id,omitempty"`
	Title         string           `json:"title,omitempty"`
	Content       string           `json:"content,omitempty"`
	Timestamp     int64            `json:"timestamp"`
}

// Account roles recorded on transaction cache entries.
const (
	RoleOutgoingTransfer = "outgoing_transfer"
	RoleIncomingTransfer = "incoming_transfer"
	RoleDeposit          = "deposit"
	RoleWithdrawal       = "withdrawal"
)
