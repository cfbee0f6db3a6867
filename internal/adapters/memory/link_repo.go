package memory

import (
	"context"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
)

type linkRepo struct {
	s *Store
}

func (r *linkRepo) Create(_ context.Context, row domain.ReferralLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.links[row.LinkID]; exists {
		return domain.ErrConflict
	}
	// Codes and aliases live in one namespace: a claim on either form of
	// key blocks the other.
	keys := []string{domain.NormalizeLookupKey(row.LinkCode)}
	if row.CustomAlias != "" {
		keys = append(keys, domain.NormalizeLookupKey(row.CustomAlias))
	}
	for _, key := range keys {
		if _, exists := r.s.linkKeys[key]; exists {
			return domain.ErrConflict
		}
	}
	r.s.links[row.LinkID] = row
	for _, key := range keys {
		r.s.linkKeys[key] = row.LinkID
	}
	return nil
}

func (r *linkRepo) GetByID(_ context.Context, linkID string) (domain.ReferralLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.links[linkID]
	if !ok {
		return domain.ReferralLink{}, domain.ErrNotFound
	}
	return row, nil
}

func (r *linkRepo) GetByKey(_ context.Context, key string) (domain.ReferralLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	linkID, ok := r.s.linkKeys[domain.NormalizeLookupKey(key)]
	if !ok {
		return domain.ReferralLink{}, domain.ErrNotFound
	}
	return r.s.links[linkID], nil
}

func (r *linkRepo) ListByCreatorID(_ context.Context, creatorID string) ([]domain.ReferralLink, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []domain.ReferralLink
	for _, row := range r.s.links {
		if row.CreatorID == creatorID {
			rows = append(rows, row)
		}
	}
	sortedByTimeDesc(rows, func(l domain.ReferralLink) time.Time { return l.CreatedAt })
	return rows, nil
}

func (r *linkRepo) SetActive(_ context.Context, linkID string, active bool, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.links[linkID]
	if !ok {
		return domain.ErrNotFound
	}
	row.IsActive = active
	r.s.links[linkID] = row
	return nil
}

func (r *linkRepo) RegisterClick(_ context.Context, linkID string, unique bool, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.links[linkID]
	if !ok {
		return domain.ErrNotFound
	}
	row.ClickCount++
	if unique {
		row.UniqueClickCount++
	}
	stamp := at
	row.LastClickedAt = &stamp
	r.s.links[linkID] = row
	return nil
}
