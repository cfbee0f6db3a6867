package domain

import (
	"strings"
	"time"
)

type CreatorStatus string

const (
	CreatorStatusPending   CreatorStatus = "pending"
	CreatorStatusApproved  CreatorStatus = "approved"
	CreatorStatusSuspended CreatorStatus = "suspended"
	CreatorStatusInactive  CreatorStatus = "inactive"
)

func IsValidCreatorStatus(s CreatorStatus) bool {
	switch s {
	case CreatorStatusPending, CreatorStatusApproved, CreatorStatusSuspended, CreatorStatusInactive:
		return true
	default:
		return false
	}
}

// CreatorMetrics is a derived view over clicks and transactions. It is
// recomputed wholesale by the ledger after every successful write and is
// never patched incrementally by other components.
type CreatorMetrics struct {
	TotalClicks     int64      `json:"total_clicks"`
	TotalSales      int64      `json:"total_sales"`
	TotalCommission float64    `json:"total_commission"`
	ConversionRate  float64    `json:"conversion_rate"`
	LastSaleAt      *time.Time `json:"last_sale_at,omitempty"`
	RefreshedAt     time.Time  `json:"refreshed_at"`
}

type Creator struct {
	CreatorID      string         `json:"creator_id"`
	UserID         string         `json:"user_id"`
	Code           string         `json:"code"`
	Status         CreatorStatus  `json:"status"`
	CommissionRate float64        `json:"commission_rate"`
	RateOverridden bool           `json:"rate_overridden"`
	MinimumPayout  float64        `json:"minimum_payout"`
	Metrics        CreatorMetrics `json:"metrics"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

func ValidateCommissionRate(rate float64) error {
	if rate < 0 || rate > 50 {
		return ErrInvalidInput
	}
	return nil
}

func ValidateCreatorApplication(userID string, minimumPayout float64) error {
	if strings.TrimSpace(userID) == "" {
		return ErrInvalidInput
	}
	if minimumPayout < 0 {
		return ErrInvalidInput
	}
	return nil
}
