package application

import (
	"log/slog"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"github.com/viralforge/affiliate-engine/internal/ports"
)

type Config struct {
	ServiceName           string
	PublicBaseURL         string
	DefaultCommissionRate float64
	DefaultMinimumPayout  float64
	AttributionWindow     time.Duration
	DedupWindow           time.Duration
	TierVolumeWindow      time.Duration
}

type Actor struct {
	SubjectID string
	Role      string
	RequestID string
}

type CreateLinkInput struct {
	CreatorID   string
	OriginalURL string
	CustomAlias string
	Title       string
	ExpiresAt   *time.Time
}

type RecordClickInput struct {
	CodeOrAlias string
	IPAddress   string
	UserAgent   string
	Referrer    string
}

type RecordClickResult struct {
	SessionID string
	TargetURL string
	Unique    bool
	LinkID    string
	CreatorID string
}

type AttributeConversionInput struct {
	OrderID     string
	OrderAmount float64
	SessionID   string
	LinkID      string
}

type AttributionOutcome string

const (
	OutcomeAttributed     AttributionOutcome = "attributed"
	OutcomeAlreadyTracked AttributionOutcome = "already_tracked"
	OutcomeNoAttribution  AttributionOutcome = "no_attribution"
)

// AttributionResult carries the three expected outcomes of a conversion
// attempt. NoAttribution and AlreadyTracked are ordinary results, not
// errors; callers must not retry them.
type AttributionResult struct {
	Outcome     AttributionOutcome
	Transaction *domain.CommissionTransaction
}

type TierResult struct {
	CreatorID string
	Tier      string
	Rate      float64
	Volume30d float64
	Changed   bool
}

type ListTransactionsInput struct {
	CreatorID string
	Statuses  []domain.TransactionStatus
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type Service struct {
	cfg    Config
	logger *slog.Logger

	creators     ports.CreatorRepository
	links        ports.ReferralLinkRepository
	clicks       ports.ReferralClickRepository
	transactions ports.CommissionTransactionRepository
	auditLogs    ports.AuditLogRepository
	outbox       ports.OutboxRepository
	dedup        ports.ClickDedupStore

	nowFn func() time.Time
}

type Dependencies struct {
	Config Config
	Logger *slog.Logger

	Creators     ports.CreatorRepository
	Links        ports.ReferralLinkRepository
	Clicks       ports.ReferralClickRepository
	Transactions ports.CommissionTransactionRepository
	AuditLogs    ports.AuditLogRepository
	Outbox       ports.OutboxRepository
	Dedup        ports.ClickDedupStore

	Now func() time.Time
}

// PublicBaseURL is the origin short links are served from.
func (s *Service) PublicBaseURL() string { return s.cfg.PublicBaseURL }

func NewService(deps Dependencies) *Service {
	cfg := deps.Config
	if cfg.ServiceName == "" {
		cfg.ServiceName = "Affiliate-Engine"
	}
	if cfg.PublicBaseURL == "" {
		cfg.PublicBaseURL = "https://links.platform.com"
	}
	if cfg.DefaultCommissionRate <= 0 {
		cfg.DefaultCommissionRate = domain.TierByName(domain.TierBronze).Rate
	}
	if cfg.DefaultMinimumPayout <= 0 {
		cfg.DefaultMinimumPayout = 50
	}
	if cfg.AttributionWindow <= 0 {
		cfg.AttributionWindow = domain.AttributionWindow
	}
	if cfg.DedupWindow <= 0 {
		cfg.DedupWindow = domain.DuplicateClickWindow
	}
	if cfg.TierVolumeWindow <= 0 {
		cfg.TierVolumeWindow = 30 * 24 * time.Hour
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nowFn := deps.Now
	if nowFn == nil {
		nowFn = func() time.Time { return time.Now().UTC() }
	}
	return &Service{
		cfg:          cfg,
		logger:       logger,
		creators:     deps.Creators,
		links:        deps.Links,
		clicks:       deps.Clicks,
		transactions: deps.Transactions,
		auditLogs:    deps.AuditLogs,
		outbox:       deps.Outbox,
		dedup:        deps.Dedup,
		nowFn:        nowFn,
	}
}
