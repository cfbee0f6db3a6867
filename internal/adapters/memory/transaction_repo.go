package memory

import (
	"context"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"github.com/viralforge/affiliate-engine/internal/ports"
)

type transactionRepo struct {
	s *Store
}

// CreateAttributed mirrors the single-transaction Postgres write: the order
// uniqueness check, the conditional click conversion and the link counter
// all happen under one lock, so a concurrent duplicate observes either all
// of it or none of it.
func (r *transactionRepo) CreateAttributed(_ context.Context, row domain.CommissionTransaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.txnsByOrder[row.OrderID]; exists {
		return domain.ErrConflict
	}
	click, ok := r.s.clicks[row.ClickID]
	if !ok {
		return domain.ErrNotFound
	}
	if click.Converted {
		return domain.ErrClickAlreadyConverted
	}

	converted := row.CreatedAt
	click.Converted = true
	click.OrderID = row.OrderID
	click.ConversionValue = row.OrderAmount
	click.ConvertedAt = &converted
	r.s.clicks[row.ClickID] = click

	if link, ok := r.s.links[row.LinkID]; ok {
		link.ConversionCount++
		r.s.links[row.LinkID] = link
	}

	r.s.transactions[row.TransactionID] = row
	r.s.txnsByOrder[row.OrderID] = row.TransactionID
	return nil
}

func (r *transactionRepo) GetByID(_ context.Context, transactionID string) (domain.CommissionTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.transactions[transactionID]
	if !ok {
		return domain.CommissionTransaction{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *transactionRepo) GetByOrderID(_ context.Context, orderID string) (domain.CommissionTransaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	transactionID, ok := r.s.txnsByOrder[orderID]
	if !ok {
		return domain.CommissionTransaction{}, domain.ErrNotFound
	}
	return r.s.transactions[transactionID], nil
}

func (r *transactionRepo) List(_ context.Context, creatorID string, statuses []domain.TransactionStatus, from, to *time.Time, limit, offset int) ([]domain.CommissionTransaction, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []domain.CommissionTransaction
	for _, row := range r.s.transactions {
		if row.CreatorID != creatorID {
			continue
		}
		if len(statuses) > 0 && !statusIn(row.Status, statuses) {
			continue
		}
		if from != nil && row.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && row.CreatedAt.After(*to) {
			continue
		}
		rows = append(rows, row)
	}
	sortedByTimeDesc(rows, func(t domain.CommissionTransaction) time.Time { return t.CreatedAt })
	total := int64(len(rows))
	if offset >= len(rows) {
		return nil, total, nil
	}
	rows = rows[offset:]
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, total, nil
}

func (r *transactionRepo) AdvanceStatus(_ context.Context, transactionID string, from, to domain.TransactionStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.transactions[transactionID]
	if !ok {
		return domain.ErrNotFound
	}
	if row.Status != from {
		return domain.ErrConflict
	}
	row.Status = to
	row.UpdatedAt = at
	if to == domain.TransactionStatusPaid {
		stamp := at
		row.PaidAt = &stamp
	}
	r.s.transactions[transactionID] = row
	return nil
}

func (r *transactionRepo) SumSettledSalesVolume(_ context.Context, creatorID string, since time.Time) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var sum float64
	for _, row := range r.s.transactions {
		if row.CreatorID != creatorID || row.Type != domain.TransactionTypeSale {
			continue
		}
		if !settled(row.Status) || row.CreatedAt.Before(since) {
			continue
		}
		sum += row.OrderAmount
	}
	return domain.Round2(sum), nil
}

func (r *transactionRepo) SettledStats(_ context.Context, creatorID string) (ports.SettledStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var stats ports.SettledStats
	for _, row := range r.s.transactions {
		if row.CreatorID != creatorID || row.Type != domain.TransactionTypeSale || !settled(row.Status) {
			continue
		}
		stats.Sales++
		stats.TotalCommission += row.CommissionAmount
		if stats.LastSaleAt == nil || row.CreatedAt.After(*stats.LastSaleAt) {
			at := row.CreatedAt
			stats.LastSaleAt = &at
		}
	}
	return stats, nil
}

func settled(status domain.TransactionStatus) bool {
	return statusIn(status, domain.SettledStatuses)
}

func statusIn(status domain.TransactionStatus, set []domain.TransactionStatus) bool {
	for _, s := range set {
		if s == status {
			return true
		}
	}
	return false
}
