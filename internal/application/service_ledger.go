package application

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

// AdvanceTransactionStatus applies a settlement transition. Transitions are
// forward-only, cancellation is terminal from any non-paid state, and a paid
// transaction is immutable. Settling into approved/paid triggers a tier
// recompute and a metrics refresh.
func (s *Service) AdvanceTransactionStatus(ctx context.Context, actor Actor, transactionID string, to domain.TransactionStatus, reason string) (domain.CommissionTransaction, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.CommissionTransaction{}, domain.ErrUnauthorized
	}
	if !isAdmin(actor) {
		return domain.CommissionTransaction{}, domain.ErrForbidden
	}
	transactionID = strings.TrimSpace(transactionID)
	if !domain.IsValidTransactionStatus(to) {
		return domain.CommissionTransaction{}, domain.ErrInvalidInput
	}
	txn, err := s.transactions.GetByID(ctx, transactionID)
	if err != nil {
		return domain.CommissionTransaction{}, err
	}
	if txn.Status == domain.TransactionStatusPaid {
		return domain.CommissionTransaction{}, domain.ErrTransactionImmutable
	}
	if !domain.CanTransition(txn.Status, to) {
		return domain.CommissionTransaction{}, domain.ErrInvalidTransition
	}
	now := s.nowFn()
	if err := s.transactions.AdvanceStatus(ctx, transactionID, txn.Status, to, now); err != nil {
		return domain.CommissionTransaction{}, err
	}
	_ = s.appendAudit(ctx, txn.CreatorID, "transaction.status_changed", actor.SubjectID, reason, map[string]string{
		"transaction_id": transactionID, "from": string(txn.Status), "to": string(to),
	})
	s.enqueueTransactionStatusChanged(ctx, txn, to, now)

	if to == domain.TransactionStatusApproved || to == domain.TransactionStatusPaid {
		if _, err := s.RecomputeTier(ctx, txn.CreatorID); err != nil {
			s.logger.WarnContext(ctx, "tier recompute failed after settlement",
				"module", "ledger", "operation", "recompute_tier", "creator_id", txn.CreatorID, "error", err)
		}
		if _, err := s.RecordMetrics(ctx, txn.CreatorID); err != nil {
			s.logger.WarnContext(ctx, "metrics refresh failed after settlement",
				"module", "ledger", "operation", "record_metrics", "creator_id", txn.CreatorID, "error", err)
		}
	}
	return s.transactions.GetByID(ctx, transactionID)
}

func (s *Service) GetTransaction(ctx context.Context, transactionID string) (domain.CommissionTransaction, error) {
	return s.transactions.GetByID(ctx, strings.TrimSpace(transactionID))
}

func (s *Service) ListTransactions(ctx context.Context, in ListTransactionsInput) ([]domain.CommissionTransaction, int64, error) {
	in.CreatorID = strings.TrimSpace(in.CreatorID)
	if in.CreatorID == "" {
		return nil, 0, domain.ErrInvalidInput
	}
	for _, st := range in.Statuses {
		if !domain.IsValidTransactionStatus(st) {
			return nil, 0, domain.ErrInvalidInput
		}
	}
	if in.Limit <= 0 {
		in.Limit = 20
	}
	if in.Limit > 200 {
		in.Limit = 200
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	return s.transactions.List(ctx, in.CreatorID, in.Statuses, in.From, in.To, in.Limit, in.Offset)
}

// RecordMetrics overwrites the creator's cached metrics block from an
// authoritative aggregation of the click and transaction collections. The
// output is a pure function of ledger state, so repeated recomputation can
// never accumulate drift.
func (s *Service) RecordMetrics(ctx context.Context, creatorID string) (domain.CreatorMetrics, error) {
	creatorID = strings.TrimSpace(creatorID)
	if _, err := s.creators.GetByID(ctx, creatorID); err != nil {
		return domain.CreatorMetrics{}, err
	}
	totalClicks, err := s.clicks.CountByCreatorID(ctx, creatorID)
	if err != nil {
		return domain.CreatorMetrics{}, err
	}
	stats, err := s.transactions.SettledStats(ctx, creatorID)
	if err != nil {
		return domain.CreatorMetrics{}, err
	}
	now := s.nowFn()
	metrics := domain.CreatorMetrics{
		TotalClicks:     totalClicks,
		TotalSales:      stats.Sales,
		TotalCommission: domain.Round2(stats.TotalCommission),
		LastSaleAt:      stats.LastSaleAt,
		RefreshedAt:     now,
	}
	if totalClicks > 0 {
		metrics.ConversionRate = domain.Round2(float64(stats.Sales) / float64(totalClicks) * 100)
	}
	if err := s.creators.ReplaceMetrics(ctx, creatorID, metrics, now); err != nil {
		return domain.CreatorMetrics{}, err
	}
	return metrics, nil
}

// GetCreatorMetrics serves the cached metrics block plus the creator's
// current tier standing for dashboard consumption.
func (s *Service) GetCreatorMetrics(ctx context.Context, creatorID string) (domain.Creator, TierResult, error) {
	creatorID = strings.TrimSpace(creatorID)
	creator, err := s.creators.GetByID(ctx, creatorID)
	if err != nil {
		return domain.Creator{}, TierResult{}, err
	}
	tier, err := s.currentTierStanding(ctx, creator)
	if err != nil {
		return domain.Creator{}, TierResult{}, err
	}
	return creator, tier, nil
}

func (s *Service) currentTierStanding(ctx context.Context, creator domain.Creator) (TierResult, error) {
	volume, err := s.transactions.SumSettledSalesVolume(ctx, creator.CreatorID, s.nowFn().Add(-s.cfg.TierVolumeWindow))
	if err != nil {
		return TierResult{}, err
	}
	tier := domain.TierForVolume(decimal.NewFromFloat(volume))
	return TierResult{CreatorID: creator.CreatorID, Tier: tier.Name, Rate: creator.CommissionRate, Volume30d: volume}, nil
}
