package domain

import (
	"strings"
	"time"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusApproved  TransactionStatus = "approved"
	TransactionStatusPaid      TransactionStatus = "paid"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

type TransactionType string

const (
	TransactionTypeSale       TransactionType = "sale"
	TransactionTypeReturn     TransactionType = "return"
	TransactionTypeAdjustment TransactionType = "adjustment"
)

// CommissionTransaction is the ledger's unit of record: exactly one per
// attributed order, immutable once paid.
type CommissionTransaction struct {
	TransactionID    string            `json:"transaction_id"`
	CreatorID        string            `json:"creator_id"`
	LinkID           string            `json:"link_id"`
	ClickID          string            `json:"click_id"`
	OrderID          string            `json:"order_id"`
	Type             TransactionType   `json:"type"`
	Status           TransactionStatus `json:"status"`
	OrderAmount      float64           `json:"order_amount"`
	CommissionRate   float64           `json:"commission_rate"`
	CommissionAmount float64           `json:"commission_amount"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
}

// CanTransition enforces forward-only settlement. Cancellation is terminal
// from any non-paid state.
func CanTransition(from, to TransactionStatus) bool {
	if from == to {
		return false
	}
	switch to {
	case TransactionStatusApproved:
		return from == TransactionStatusPending
	case TransactionStatusPaid:
		return from == TransactionStatusApproved
	case TransactionStatusCancelled:
		return from == TransactionStatusPending || from == TransactionStatusApproved
	default:
		return false
	}
}

// SettledStatuses are the statuses that count toward tier volume and
// creator sales metrics.
var SettledStatuses = []TransactionStatus{TransactionStatusApproved, TransactionStatusPaid}

func IsValidTransactionStatus(s TransactionStatus) bool {
	switch s {
	case TransactionStatusPending, TransactionStatusApproved, TransactionStatusPaid, TransactionStatusCancelled:
		return true
	default:
		return false
	}
}

func ValidateConversionInput(orderID string, orderAmount float64) error {
	if strings.TrimSpace(orderID) == "" {
		return ErrInvalidInput
	}
	if orderAmount <= 0 {
		return ErrInvalidInput
	}
	return nil
}
