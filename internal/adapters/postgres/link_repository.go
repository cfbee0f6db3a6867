package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"gorm.io/gorm"
)

type linkRepository struct {
	db *gorm.DB
}

// Create inserts the link and claims its lookup keys in one transaction.
// The key table holds normalized codes and aliases together, so uniqueness
// spans both kinds of key.
func (r *linkRepository) Create(ctx context.Context, row domain.ReferralLink) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := toLinkModel(row)
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		keys := []string{domain.NormalizeLookupKey(row.LinkCode)}
		if row.CustomAlias != "" {
			keys = append(keys, domain.NormalizeLookupKey(row.CustomAlias))
		}
		for _, key := range keys {
			keyRec := linkKeyModel{LookupKey: key, LinkID: row.LinkID, CreatedAt: row.CreatedAt}
			if err := tx.Create(&keyRec).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *linkRepository) GetByID(ctx context.Context, linkID string) (domain.ReferralLink, error) {
	var rec linkModel
	if err := r.db.WithContext(ctx).Where("link_id = ?", linkID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReferralLink{}, domain.ErrNotFound
		}
		return domain.ReferralLink{}, err
	}
	return toDomainLink(rec), nil
}

func (r *linkRepository) GetByKey(ctx context.Context, key string) (domain.ReferralLink, error) {
	var keyRec linkKeyModel
	if err := r.db.WithContext(ctx).Where("lookup_key = ?", domain.NormalizeLookupKey(key)).Take(&keyRec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ReferralLink{}, domain.ErrNotFound
		}
		return domain.ReferralLink{}, err
	}
	return r.GetByID(ctx, keyRec.LinkID)
}

func (r *linkRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]domain.ReferralLink, error) {
	var rows []linkModel
	if err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.ReferralLink, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainLink(rec))
	}
	return out, nil
}

func (r *linkRepository) SetActive(ctx context.Context, linkID string, active bool, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&linkModel{}).
		Where("link_id = ?", linkID).
		Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *linkRepository) RegisterClick(ctx context.Context, linkID string, unique bool, at time.Time) error {
	updates := map[string]any{
		"click_count":     gorm.Expr("click_count + 1"),
		"last_clicked_at": at,
	}
	if unique {
		updates["unique_click_count"] = gorm.Expr("unique_click_count + 1")
	}
	res := r.db.WithContext(ctx).
		Model(&linkModel{}).
		Where("link_id = ?", linkID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
