package application

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

// AttributeConversion credits an order-complete event to the click that drove
// it. The order ID is the idempotency key for the whole pipeline: a replay
// returns the already-recorded transaction, and a race between concurrent
// deliveries is settled by the ledger's unique order constraint, never by
// check-then-insert alone.
func (s *Service) AttributeConversion(ctx context.Context, in AttributeConversionInput) (AttributionResult, error) {
	in.OrderID = strings.TrimSpace(in.OrderID)
	in.SessionID = strings.TrimSpace(in.SessionID)
	in.LinkID = strings.TrimSpace(in.LinkID)
	if err := domain.ValidateConversionInput(in.OrderID, in.OrderAmount); err != nil {
		return AttributionResult{}, err
	}

	if existing, err := s.transactions.GetByOrderID(ctx, in.OrderID); err == nil {
		return AttributionResult{Outcome: OutcomeAlreadyTracked, Transaction: &existing}, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AttributionResult{}, err
	}

	now := s.nowFn()
	click, found, err := s.resolveClick(ctx, in)
	if err != nil {
		return AttributionResult{}, err
	}
	if !found || !click.WithinAttributionWindow(now, s.cfg.AttributionWindow) {
		// An expired click is treated as if not found; it is never
		// resurrected for a later order.
		return AttributionResult{Outcome: OutcomeNoAttribution}, nil
	}

	creator, err := s.creators.GetByID(ctx, click.CreatorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AttributionResult{Outcome: OutcomeNoAttribution}, nil
		}
		return AttributionResult{}, err
	}

	txn := domain.CommissionTransaction{
		TransactionID:    "txn_" + uuid.NewString(),
		CreatorID:        creator.CreatorID,
		LinkID:           click.LinkID,
		ClickID:          click.ClickID,
		OrderID:          in.OrderID,
		Type:             domain.TransactionTypeSale,
		Status:           domain.TransactionStatusPending,
		OrderAmount:      domain.Round2(in.OrderAmount),
		CommissionRate:   creator.CommissionRate,
		CommissionAmount: domain.CalculateCommission(in.OrderAmount, creator.CommissionRate),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.transactions.CreateAttributed(ctx, txn); err != nil {
		switch {
		case errors.Is(err, domain.ErrConflict):
			// Lost the duplicate-delivery race: the winner's row is the
			// transaction of record.
			winner, readErr := s.transactions.GetByOrderID(ctx, in.OrderID)
			if readErr != nil {
				return AttributionResult{}, readErr
			}
			return AttributionResult{Outcome: OutcomeAlreadyTracked, Transaction: &winner}, nil
		case errors.Is(err, domain.ErrClickAlreadyConverted):
			// Another order consumed the click first.
			return AttributionResult{Outcome: OutcomeNoAttribution}, nil
		default:
			return AttributionResult{}, err
		}
	}

	_ = s.appendAudit(ctx, creator.CreatorID, "conversion.attributed", "order-pipeline", "", map[string]string{"order_id": txn.OrderID, "transaction_id": txn.TransactionID})
	s.enqueueConversionAttributed(ctx, txn, now)
	// Metrics are a derived cache; a refresh failure must not undo the
	// transaction of record.
	if _, err := s.RecordMetrics(ctx, creator.CreatorID); err != nil {
		s.logger.WarnContext(ctx, "metrics refresh failed after attribution",
			"module", "attribution", "operation", "record_metrics", "creator_id", creator.CreatorID, "error", err)
	}
	return AttributionResult{Outcome: OutcomeAttributed, Transaction: &txn}, nil
}

// resolveClick applies the lookup priority order: explicit session first,
// then the link's most recent unconverted click as the cookie-lost fallback.
func (s *Service) resolveClick(ctx context.Context, in AttributeConversionInput) (domain.ReferralClick, bool, error) {
	if in.SessionID != "" {
		click, err := s.clicks.GetBySessionID(ctx, in.SessionID)
		if err == nil && !click.Converted {
			return click, true, nil
		}
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return domain.ReferralClick{}, false, err
		}
	}
	if in.LinkID != "" {
		click, err := s.clicks.MostRecentUnconverted(ctx, in.LinkID)
		if err == nil {
			return click, true, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.ReferralClick{}, false, err
		}
	}
	return domain.ReferralClick{}, false, nil
}
