package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"gorm.io/gorm"
)

type clickRepository struct {
	db *gorm.DB
}

func (r *clickRepository) Create(ctx context.Context, row domain.ReferralClick) error {
	rec := toClickModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *clickRepository) GetBySessionID(ctx context.Context, sessionID string) (domain.ReferralClick, error) {
	var rec clickModel
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReferralClick{}, domain.ErrNotFound
		}
		return domain.ReferralClick{}, err
	}
	return toDomainClick(rec), nil
}

func (r *clickRepository) MostRecentUnconverted(ctx context.Context, linkID string) (domain.ReferralClick, error) {
	var rec clickModel
	err := r.db.WithContext(ctx).
		Where("link_id = ? AND converted = false", linkID).
		Order("clicked_at desc").
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReferralClick{}, domain.ErrNotFound
		}
		return domain.ReferralClick{}, err
	}
	return toDomainClick(rec), nil
}

func (r *clickRepository) MostRecentByFingerprint(ctx context.Context, linkID, fingerprint string, since time.Time) (domain.ReferralClick, error) {
	var rec clickModel
	err := r.db.WithContext(ctx).
		Where("link_id = ? AND fingerprint = ? AND clicked_at >= ?", linkID, fingerprint, since).
		Order("clicked_at desc").
		Take(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReferralClick{}, domain.ErrNotFound
		}
		return domain.ReferralClick{}, err
	}
	return toDomainClick(rec), nil
}

func (r *clickRepository) CountByCreatorID(ctx context.Context, creatorID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&clickModel{}).Where("creator_id = ?", creatorID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
