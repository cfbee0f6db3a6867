package application

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

// RecomputeTier derives the creator's commission rate from trailing 30-day
// settled sales volume. The operation is idempotent: transaction-settlement
// hooks and periodic sweeps may both call it and converge on the same rate.
// Returns never subtract from the volume; only settled sale transactions
// count.
func (s *Service) RecomputeTier(ctx context.Context, creatorID string) (TierResult, error) {
	creatorID = strings.TrimSpace(creatorID)
	creator, err := s.creators.GetByID(ctx, creatorID)
	if err != nil {
		return TierResult{}, err
	}
	now := s.nowFn()
	volume, err := s.transactions.SumSettledSalesVolume(ctx, creatorID, now.Add(-s.cfg.TierVolumeWindow))
	if err != nil {
		return TierResult{}, err
	}
	tier := domain.TierForVolume(decimal.NewFromFloat(volume))
	result := TierResult{CreatorID: creatorID, Tier: tier.Name, Rate: tier.Rate, Volume30d: volume}

	if tier.Rate == creator.CommissionRate {
		return result, nil
	}
	if creator.RateOverridden {
		// The rate is pinned by an admin. Record that an automatic change
		// would have applied instead of silently mutating it.
		_ = s.appendAudit(ctx, creatorID, "tier.change_suppressed", "tier-engine", "rate overridden by admin", map[string]string{
			"tier": tier.Name, "tier_rate": formatRate(tier.Rate), "held_rate": formatRate(creator.CommissionRate),
		})
		result.Rate = creator.CommissionRate
		return result, nil
	}
	if err := s.creators.UpdateCommissionRate(ctx, creatorID, tier.Rate, false, now); err != nil {
		return TierResult{}, err
	}
	result.Changed = true
	_ = s.appendAudit(ctx, creatorID, "tier.changed", "tier-engine", "", map[string]string{
		"tier": tier.Name, "previous_rate": formatRate(creator.CommissionRate), "new_rate": formatRate(tier.Rate),
	})
	s.enqueueTierChanged(ctx, creatorID, tier, creator.CommissionRate, volume, now)
	return result, nil
}
