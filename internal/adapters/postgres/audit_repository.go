package postgres

import (
	"context"

	"github.com/viralforge/affiliate-engine/internal/ports"
	"gorm.io/gorm"
)

type auditRepository struct {
	db *gorm.DB
}

func (r *auditRepository) Append(ctx context.Context, row ports.AuditEntry) error {
	rec := toAuditModel(row)
	return r.db.WithContext(ctx).Create(&rec).Error
}

func (r *auditRepository) ListByCreatorID(ctx context.Context, creatorID string) ([]ports.AuditEntry, error) {
	var rows []auditModel
	if err := r.db.WithContext(ctx).Where("creator_id = ?", creatorID).Order("created_at asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ports.AuditEntry, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainAudit(rec))
	}
	return out, nil
}
