package domain

import "time"

// TransactionType categorizes a financial transaction.
type TransactionType string

const (
	TxSubscription TransactionType = "subscription"
	TxPurchase     TransactionType = "purchase"
	TxPayout       TransactionType = "payout"
	TxRefund       TransactionType = "refund"
)

// TransactionStatus tracks a transaction's settlement lifecycle.
type TransactionStatus string

const (
	TxStatusPending   TransactionStatus = "pending"
	TxStatusCompleted TransactionStatus = "completed"
	TxStatusFailed    TransactionStatus = "failed"
	TxStatusRefunded  TransactionStatus = "refunded"
)

// SimulatedTransaction is a financial event generated by a payment_event,
// payout cycle, or refund (§3 Lifecycle).
type SimulatedTransaction struct {
	ID          string
	UserID      string
	Type        TransactionType
	Amount      float64
	Currency    string
	Status      TransactionStatus
	CreatedAt   time.Time
	ProcessedAt time.Time
}
