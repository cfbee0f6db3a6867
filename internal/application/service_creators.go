package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

const creatorCodeLength = 8

// ApplyCreator registers a pending creator. Links and attribution stay
// unavailable until an admin approves the application.
func (s *Service) ApplyCreator(ctx context.Context, actor Actor, userID string, minimumPayout float64) (domain.Creator, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Creator{}, domain.ErrUnauthorized
	}
	userID = strings.TrimSpace(userID)
	if minimumPayout <= 0 {
		minimumPayout = s.cfg.DefaultMinimumPayout
	}
	if err := domain.ValidateCreatorApplication(userID, minimumPayout); err != nil {
		return domain.Creator{}, err
	}
	now := s.nowFn()
	row := domain.Creator{
		CreatorID:      "crt_" + uuid.NewString(),
		UserID:         userID,
		Status:         domain.CreatorStatusPending,
		CommissionRate: s.cfg.DefaultCommissionRate,
		MinimumPayout:  minimumPayout,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for attempt := 0; attempt < domain.LinkCodeMaxAttempts; attempt++ {
		row.Code = randomCode(creatorCodeLength)
		err := s.creators.Create(ctx, row)
		if err == nil {
			_ = s.appendAudit(ctx, row.CreatorID, "creator.applied", actor.SubjectID, "", map[string]string{"user_id": userID})
			return row, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.Creator{}, err
		}
	}
	return domain.Creator{}, domain.ErrCodeGenerationExhausted
}

func (s *Service) GetCreator(ctx context.Context, creatorID string) (domain.Creator, error) {
	return s.creators.GetByID(ctx, strings.TrimSpace(creatorID))
}

// SetCreatorStatus applies an admin lifecycle transition. Suspension is
// forward-looking only: clicks recorded before it remain attributable.
func (s *Service) SetCreatorStatus(ctx context.Context, actor Actor, creatorID string, status domain.CreatorStatus, reason string) (domain.Creator, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Creator{}, domain.ErrUnauthorized
	}
	if !isAdmin(actor) {
		return domain.Creator{}, domain.ErrForbidden
	}
	creatorID = strings.TrimSpace(creatorID)
	if !domain.IsValidCreatorStatus(status) {
		return domain.Creator{}, domain.ErrInvalidInput
	}
	if _, err := s.creators.GetByID(ctx, creatorID); err != nil {
		return domain.Creator{}, err
	}
	now := s.nowFn()
	if err := s.creators.UpdateStatus(ctx, creatorID, status, now); err != nil {
		return domain.Creator{}, err
	}
	_ = s.appendAudit(ctx, creatorID, "creator.status_changed", actor.SubjectID, reason, map[string]string{"status": string(status)})
	return s.creators.GetByID(ctx, creatorID)
}

// OverrideCommissionRate pins a creator's rate by admin decision. The tier
// engine stops mutating an overridden rate and instead audits suppressed
// automatic changes.
func (s *Service) OverrideCommissionRate(ctx context.Context, actor Actor, creatorID string, rate float64, reason string) (domain.Creator, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.Creator{}, domain.ErrUnauthorized
	}
	if !isAdmin(actor) {
		return domain.Creator{}, domain.ErrForbidden
	}
	creatorID = strings.TrimSpace(creatorID)
	if err := domain.ValidateCommissionRate(rate); err != nil {
		return domain.Creator{}, err
	}
	if _, err := s.creators.GetByID(ctx, creatorID); err != nil {
		return domain.Creator{}, err
	}
	now := s.nowFn()
	if err := s.creators.UpdateCommissionRate(ctx, creatorID, rate, true, now); err != nil {
		return domain.Creator{}, err
	}
	_ = s.appendAudit(ctx, creatorID, "creator.rate_overridden", actor.SubjectID, reason, map[string]string{"rate": formatRate(rate)})
	return s.creators.GetByID(ctx, creatorID)
}
