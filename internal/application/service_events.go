package application

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/affiliate-engine/internal/contracts"
	"github.com/viralforge/affiliate-engine/internal/domain"
	"github.com/viralforge/affiliate-engine/internal/ports"
)

func (s *Service) appendAudit(ctx context.Context, creatorID, action, actorID, reason string, metadata map[string]string) error {
	if s.auditLogs == nil {
		return nil
	}
	err := s.auditLogs.Append(ctx, ports.AuditEntry{
		AuditID:   "aud_" + uuid.NewString(),
		CreatorID: creatorID,
		Action:    action,
		ActorID:   actorID,
		Reason:    reason,
		Metadata:  metadata,
		CreatedAt: s.nowFn(),
	})
	if err != nil {
		s.logger.WarnContext(ctx, "audit append failed",
			"module", "audit", "action", action, "creator_id", creatorID, "error", err)
	}
	return err
}

// enqueueEvent wraps a payload in the shared envelope and stores it in the
// outbox inside the caller's request flow. Publication happens later in the
// worker, so enqueue failures are logged rather than surfaced: the business
// write already committed.
func (s *Service) enqueueEvent(ctx context.Context, eventType, creatorID string, occurredAt time.Time, payload any) {
	if s.outbox == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.ErrorContext(ctx, "event payload marshal failed",
			"module", "events", "event_type", eventType, "error", err)
		return
	}
	envelope := contracts.EventEnvelope{
		EventID:          "evt_" + uuid.NewString(),
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		PartitionKeyPath: domain.EventPartitionKeyPath(eventType),
		PartitionKey:     creatorID,
		SourceService:    s.cfg.ServiceName,
		SchemaVersion:    "1.0",
		Data:             data,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		s.logger.ErrorContext(ctx, "event envelope marshal failed",
			"module", "events", "event_type", eventType, "error", err)
		return
	}
	err = s.outbox.Enqueue(ctx, ports.OutboxRecord{
		OutboxID:     "obx_" + uuid.NewString(),
		EventType:    eventType,
		PartitionKey: creatorID,
		Payload:      body,
		CreatedAt:    s.nowFn(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "outbox enqueue failed",
			"module", "events", "event_type", eventType, "creator_id", creatorID, "error", err)
	}
}

func (s *Service) enqueueLinkCreated(ctx context.Context, link domain.ReferralLink, at time.Time) {
	s.enqueueEvent(ctx, domain.EventLinkCreated, link.CreatorID, at, contracts.LinkCreatedPayload{
		CreatorID: link.CreatorID,
		LinkID:    link.LinkID,
		LinkCode:  link.LinkCode,
		Alias:     link.CustomAlias,
		CreatedAt: at.UTC().Format(time.RFC3339),
	})
}

func (s *Service) enqueueClickRecorded(ctx context.Context, click domain.ReferralClick, unique bool, at time.Time) {
	s.enqueueEvent(ctx, domain.EventClickRecorded, click.CreatorID, at, contracts.ClickRecordedPayload{
		CreatorID:  click.CreatorID,
		LinkID:     click.LinkID,
		SessionID:  click.SessionID,
		Unique:     unique,
		DeviceType: click.DeviceType,
		ClickedAt:  at.UTC().Format(time.RFC3339),
	})
}

func (s *Service) enqueueConversionAttributed(ctx context.Context, txn domain.CommissionTransaction, at time.Time) {
	s.enqueueEvent(ctx, domain.EventConversionAttributed, txn.CreatorID, at, contracts.ConversionAttributedPayload{
		CreatorID:        txn.CreatorID,
		TransactionID:    txn.TransactionID,
		LinkID:           txn.LinkID,
		ClickID:          txn.ClickID,
		OrderID:          txn.OrderID,
		OrderAmount:      txn.OrderAmount,
		CommissionRate:   txn.CommissionRate,
		CommissionAmount: txn.CommissionAmount,
		AttributedAt:     at.UTC().Format(time.RFC3339),
	})
}

func (s *Service) enqueueTierChanged(ctx context.Context, creatorID string, tier domain.Tier, previousRate, volume float64, at time.Time) {
	s.enqueueEvent(ctx, domain.EventTierChanged, creatorID, at, contracts.TierChangedPayload{
		CreatorID:    creatorID,
		Tier:         tier.Name,
		PreviousRate: previousRate,
		NewRate:      tier.Rate,
		Volume30d:    volume,
		ChangedAt:    at.UTC().Format(time.RFC3339),
	})
}

func (s *Service) enqueueTransactionStatusChanged(ctx context.Context, txn domain.CommissionTransaction, to domain.TransactionStatus, at time.Time) {
	s.enqueueEvent(ctx, domain.EventTransactionStatusChanged, txn.CreatorID, at, contracts.TransactionStatusChangedPayload{
		CreatorID:     txn.CreatorID,
		TransactionID: txn.TransactionID,
		OrderID:       txn.OrderID,
		FromStatus:    string(txn.Status),
		ToStatus:      string(to),
		ChangedAt:     at.UTC().Format(time.RFC3339),
	})
}
