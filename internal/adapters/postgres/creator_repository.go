package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"gorm.io/gorm"
)

type creatorRepository struct {
	db *gorm.DB
}

func (r *creatorRepository) Create(ctx context.Context, row domain.Creator) error {
	rec := toCreatorModel(row)
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *creatorRepository) GetByID(ctx context.Context, creatorID string) (domain.Creator, error) {
	var rec creatorModel
	if err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Creator{}, domain.ErrNotFound
		}
		return domain.Creator{}, err
	}
	return toDomainCreator(rec), nil
}

func (r *creatorRepository) GetByCode(ctx context.Context, code string) (domain.Creator, error) {
	var rec creatorModel
	if err := r.db.WithContext(ctx).Where("LOWER(code) = ?", domain.NormalizeLookupKey(code)).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Creator{}, domain.ErrNotFound
		}
		return domain.Creator{}, err
	}
	return toDomainCreator(rec), nil
}

func (r *creatorRepository) UpdateStatus(ctx context.Context, creatorID string, status domain.CreatorStatus, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&creatorModel{}).
		Where("creator_id = ?", creatorID).
		Updates(map[string]any{
			"status":     string(status),
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *creatorRepository) UpdateCommissionRate(ctx context.Context, creatorID string, rate float64, overridden bool, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&creatorModel{}).
		Where("creator_id = ?", creatorID).
		Updates(map[string]any{
			"commission_rate": rate,
			"rate_overridden": overridden,
			"updated_at":      at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *creatorRepository) ReplaceMetrics(ctx context.Context, creatorID string, metrics domain.CreatorMetrics, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&creatorModel{}).
		Where("creator_id = ?", creatorID).
		Updates(map[string]any{
			"total_clicks":         metrics.TotalClicks,
			"total_sales":          metrics.TotalSales,
			"total_commission":     metrics.TotalCommission,
			"conversion_rate":      metrics.ConversionRate,
			"last_sale_at":         metrics.LastSaleAt,
			"metrics_refreshed_at": metrics.RefreshedAt,
			"updated_at":           at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
