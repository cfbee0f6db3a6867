package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"github.com/viralforge/affiliate-engine/internal/ports"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// CreateAttributed performs the attribution write set in one database
// transaction. The unique index on order_id settles duplicate-order races;
// the conditional click update settles two orders racing for one click.
func (r *transactionRepository) CreateAttributed(ctx context.Context, row domain.CommissionTransaction) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := toTransactionModel(row)
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}

		res := tx.Model(&clickModel{}).
			Where("click_id = ? AND converted = false", row.ClickID).
			Updates(map[string]any{
				"converted":        true,
				"order_id":         row.OrderID,
				"conversion_value": row.OrderAmount,
				"converted_at":     row.CreatedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrClickAlreadyConverted
		}

		return tx.Model(&linkModel{}).
			Where("link_id = ?", row.LinkID).
			Update("conversion_count", gorm.Expr("conversion_count + 1")).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *transactionRepository) GetByID(ctx context.Context, transactionID string) (domain.CommissionTransaction, error) {
	var rec transactionModel
	if err := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CommissionTransaction{}, domain.ErrNotFound
		}
		return domain.CommissionTransaction{}, err
	}
	return toDomainTransaction(rec), nil
}

func (r *transactionRepository) GetByOrderID(ctx context.Context, orderID string) (domain.CommissionTransaction, error) {
	var rec transactionModel
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.CommissionTransaction{}, domain.ErrNotFound
		}
		return domain.CommissionTransaction{}, err
	}
	return toDomainTransaction(rec), nil
}

func (r *transactionRepository) List(ctx context.Context, creatorID string, statuses []domain.TransactionStatus, from, to *time.Time, limit, offset int) ([]domain.CommissionTransaction, int64, error) {
	query := r.db.WithContext(ctx).Model(&transactionModel{}).Where("creator_id = ?", creatorID)
	if len(statuses) > 0 {
		values := make([]string, 0, len(statuses))
		for _, s := range statuses {
			values = append(values, string(s))
		}
		query = query.Where("status IN ?", values)
	}
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if to != nil {
		query = query.Where("created_at <= ?", *to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []transactionModel
	if err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.CommissionTransaction, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toDomainTransaction(rec))
	}
	return out, total, nil
}

func (r *transactionRepository) AdvanceStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, at time.Time) error {
	updates := map[string]any{
		"status":     string(to),
		"updated_at": at,
	}
	if to == domain.TransactionStatusPaid {
		updates["paid_at"] = at
	}
	res := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Where("transaction_id = ? AND status = ?", transactionID, string(from)).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (r *transactionRepository) SumSettledSalesVolume(ctx context.Context, creatorID string, since time.Time) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Select("COALESCE(SUM(order_amount), 0)").
		Where("creator_id = ? AND type = ? AND status IN ? AND created_at >= ?",
			creatorID, string(domain.TransactionTypeSale), settledStatusValues(), since).
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

func (r *transactionRepository) SettledStats(ctx context.Context, creatorID string) (ports.SettledStats, error) {
	var row struct {
		Sales           int64
		TotalCommission float64
		LastSaleAt      *time.Time
	}
	err := r.db.WithContext(ctx).
		Model(&transactionModel{}).
		Select("COUNT(*) AS sales, COALESCE(SUM(commission_amount), 0) AS total_commission, MAX(created_at) AS last_sale_at").
		Where("creator_id = ? AND type = ? AND status IN ?",
			creatorID, string(domain.TransactionTypeSale), settledStatusValues()).
		Scan(&row).Error
	if err != nil {
		return ports.SettledStats{}, err
	}
	return ports.SettledStats{
		Sales:           row.Sales,
		TotalCommission: row.TotalCommission,
		LastSaleAt:      row.LastSaleAt,
	}, nil
}

func settledStatusValues() []string {
	values := make([]string, 0, len(domain.SettledStatuses))
	for _, s := range domain.SettledStatuses {
		values = append(values, string(s))
	}
	return values
}
