package memory

import (
	"context"
	"time"

	"github.com/viralforge/affiliate-engine/internal/domain"
	"github.com/viralforge/affiliate-engine/internal/ports"
)

type auditRepo struct {
	s *Store
}

func (r *auditRepo) Append(_ context.Context, row ports.AuditEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.audits = append(r.s.audits, row)
	return nil
}

func (r *auditRepo) ListByCreatorID(_ context.Context, creatorID string) ([]ports.AuditEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []ports.AuditEntry
	for _, row := range r.s.audits {
		if row.CreatorID == creatorID {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

type outboxRepo struct {
	s *Store
}

func (r *outboxRepo) Enqueue(_ context.Context, record ports.OutboxRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, exists := r.s.outbox[record.OutboxID]; exists {
		return domain.ErrConflict
	}
	r.s.outbox[record.OutboxID] = record
	r.s.outboxOrder = append(r.s.outboxOrder, record.OutboxID)
	return nil
}

func (r *outboxRepo) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var rows []ports.OutboxRecord
	for _, id := range r.s.outboxOrder {
		record := r.s.outbox[id]
		if record.PublishedAt != nil {
			continue
		}
		rows = append(rows, record)
		if limit > 0 && len(rows) >= limit {
			break
		}
	}
	return rows, nil
}

func (r *outboxRepo) MarkPublished(_ context.Context, outboxID string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record, ok := r.s.outbox[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	stamp := at
	record.PublishedAt = &stamp
	r.s.outbox[outboxID] = record
	return nil
}

func (r *outboxRepo) MarkFailed(_ context.Context, outboxID string, errMsg string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record, ok := r.s.outbox[outboxID]
	if !ok {
		return domain.ErrNotFound
	}
	record.RetryCount++
	record.LastError = errMsg
	r.s.outbox[outboxID] = record
	return nil
}

type dedupStore struct {
	s *Store
}

func (d *dedupStore) Recall(_ context.Context, linkID, fingerprint string) (string, bool, error) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	entry, ok := d.s.dedup[linkID+"|"+fingerprint]
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.sessionID, true, nil
}

func (d *dedupStore) Remember(_ context.Context, linkID, fingerprint, sessionID string, ttl time.Duration) error {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	d.s.dedup[linkID+"|"+fingerprint] = dedupEntry{sessionID: sessionID, expiresAt: time.Now().Add(ttl)}
	return nil
}
