package memory

import (
	"context"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
)

type clickRepo struct {
	s *Store
}

func (r *clickRepo) Create(_ context.Context, row domain.ReferralClick) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.clicks[row.ClickID]; exists {
		return domain.ErrConflict
	}
	if _, exists := r.s.clicksBySession[row.SessionID]; exists {
		return domain.ErrConflict
	}
	r.s.clicks[row.ClickID] = row
	r.s.clicksBySession[row.SessionID] = row.ClickID
	return nil
}

func (r *clickRepo) GetBySessionID(_ context.Context, sessionID string) (domain.ReferralClick, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	clickID, ok := r.s.clicksBySession[sessionID]
	if !ok {
		return domain.ReferralClick{}, domain.ErrNotFound
	}
	return r.s.clicks[clickID], nil
}

func (r *clickRepo) MostRecentUnconverted(_ context.Context, linkID string) (domain.ReferralClick, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []domain.ReferralClick
	for _, row := range r.s.clicks {
		if row.LinkID == linkID && !row.Converted {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return domain.ReferralClick{}, domain.ErrNotFound
	}
	sortedByTimeDesc(rows, func(c domain.ReferralClick) time.Time { return c.ClickedAt })
	return rows[0], nil
}

func (r *clickRepo) MostRecentByFingerprint(_ context.Context, linkID, fingerprint string, since time.Time) (domain.ReferralClick, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []domain.ReferralClick
	for _, row := range r.s.clicks {
		if row.LinkID != linkID || row.ClickedAt.Before(since) {
			continue
		}
		if domain.VisitorFingerprint(row.IPAddress, row.UserAgent) == fingerprint {
			rows = append(rows, row)
		}
	}
	if len(rows) == 0 {
		return domain.ReferralClick{}, domain.ErrNotFound
	}
	sortedByTimeDesc(rows, func(c domain.ReferralClick) time.Time { return c.ClickedAt })
	return rows[0], nil
}

func (r *clickRepo) CountByCreatorID(_ context.Context, creatorID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var count int64
	for _, row := range r.s.clicks {
		if row.CreatorID == creatorID {
			count++
		}
	}
	return count, nil
}
