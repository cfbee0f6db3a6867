package memory

import (
	"context"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
)

type creatorRepo struct {
	s *Store
}

func (r *creatorRepo) Create(_ context.Context, row domain.Creator) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.creators[row.CreatorID]; exists {
		return domain.ErrConflict
	}
	code := domain.NormalizeLookupKey(row.Code)
	if _, exists := r.s.creatorCodes[code]; exists {
		return domain.ErrConflict
	}
	r.s.creators[row.CreatorID] = row
	r.s.creatorCodes[code] = row.CreatorID
	return nil
}

func (r *creatorRepo) GetByID(_ context.Context, creatorID string) (domain.Creator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.creators[creatorID]
	if !ok {
		return domain.Creator{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *creatorRepo) GetByCode(_ context.Context, code string) (domain.Creator, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	creatorID, ok := r.s.creatorCodes[domain.NormalizeLookupKey(code)]
	if !ok {
		return domain.Creator{}, domain.ErrNotFound
	}
	return r.s.creators[creatorID], nil
}

func (r *creatorRepo) UpdateStatus(_ context.Context, creatorID string, status domain.CreatorStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.creators[creatorID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Status = status
	row.UpdatedAt = at
	r.s.creators[creatorID] = row
	return nil
}

func (r *creatorRepo) UpdateCommissionRate(_ context.Context, creatorID string, rate float64, overridden bool, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.creators[creatorID]
	if !ok {
		return domain.ErrNotFound
	}
	row.CommissionRate = rate
	row.RateOverridden = overridden
	row.UpdatedAt = at
	r.s.creators[creatorID] = row
	return nil
}

func (r *creatorRepo) ReplaceMetrics(_ context.Context, creatorID string, metrics domain.CreatorMetrics, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.creators[creatorID]
	if !ok {
		return domain.ErrNotFound
	}
	row.Metrics = metrics
	row.UpdatedAt = at
	r.s.creators[creatorID] = row
	return nil
}
