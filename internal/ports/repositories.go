package ports

import (
	"context"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
)

type CreatorRepository interface {
	Create(ctx context.Context, row domain.Creator) error
	GetByID(ctx context.Context, creatorID string) (domain.Creator, error)
	GetByCode(ctx context.Context, code string) (domain.Creator, error)
	UpdateStatus(ctx context.Context, creatorID string, status domain.CreatorStatus, at time.Time) error
	UpdateCommissionRate(ctx context.Context, creatorID string, rate float64, overridden bool, at time.Time) error
	ReplaceMetrics(ctx context.Context, creatorID string, metrics domain.CreatorMetrics, at time.Time) error
}

type ReferralLinkRepository interface {
	// Create fails with domain.ErrConflict when the code or alias collides
	// with any existing code or alias (one combined namespace).
	Create(ctx context.Context, row domain.ReferralLink) error
	GetByID(ctx context.Context, linkID string) (domain.ReferralLink, error)
	// GetByKey resolves a normalized link code or custom alias.
	GetByKey(ctx context.Context, key string) (domain.ReferralLink, error)
	ListByCreatorID(ctx context.Context, creatorID string) ([]domain.ReferralLink, error)
	SetActive(ctx context.Context, linkID string, active bool, at time.Time) error
	// RegisterClick atomically increments click_count (and unique_click_count
	// when unique) and stamps last_clicked_at.
	RegisterClick(ctx context.Context, linkID string, unique bool, at time.Time) error
}

type ReferralClickRepository interface {
	Create(ctx context.Context, row domain.ReferralClick) error
	GetBySessionID(ctx context.Context, sessionID string) (domain.ReferralClick, error)
	// MostRecentUnconverted returns the newest unconverted click for a link,
	// ordered by clicked_at descending.
	MostRecentUnconverted(ctx context.Context, linkID string) (domain.ReferralClick, error)
	// MostRecentByFingerprint finds the newest click for the link with the
	// same visitor fingerprint at or after the cutoff. Used for duplicate
	// suppression when the cache has no answer.
	MostRecentByFingerprint(ctx context.Context, linkID, fingerprint string, since time.Time) (domain.ReferralClick, error)
	CountByCreatorID(ctx context.Context, creatorID string) (int64, error)
}

// SettledStats is the ledger aggregate backing creator metrics.
type SettledStats struct {
	Sales           int64
	TotalCommission float64
	LastSaleAt      *time.Time
}

type CommissionTransactionRepository interface {
	// CreateAttributed persists the transaction, marks the click converted
	// (only if still unconverted) and increments the link's conversion count
	// as one atomic operation. Fails with domain.ErrConflict on a duplicate
	// order ID and domain.ErrClickAlreadyConverted when the click lost a
	// concurrent attribution race.
	CreateAttributed(ctx context.Context, row domain.CommissionTransaction) error
	GetByID(ctx context.Context, transactionID string) (domain.CommissionTransaction, error)
	GetByOrderID(ctx context.Context, orderID string) (domain.CommissionTransaction, error)
	List(ctx context.Context, creatorID string, statuses []domain.TransactionStatus, from, to *time.Time, limit, offset int) ([]domain.CommissionTransaction, int64, error)
	// AdvanceStatus performs a conditional transition; the update applies
	// only while the row still holds the expected current status.
	AdvanceStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, at time.Time) error
	// SumSettledSalesVolume sums order_amount across approved/paid sale
	// transactions created at or after the cutoff.
	SumSettledSalesVolume(ctx context.Context, creatorID string, since time.Time) (float64, error)
	SettledStats(ctx context.Context, creatorID string) (SettledStats, error)
}

type AuditEntry struct {
	AuditID   string
	CreatorID string
	Action    string
	ActorID   string
	Reason    string
	Metadata  map[string]string
	CreatedAt time.Time
}

type AuditLogRepository interface {
	Append(ctx context.Context, row AuditEntry) error
	ListByCreatorID(ctx context.Context, creatorID string) ([]AuditEntry, error)
}
