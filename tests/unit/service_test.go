package unit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/viralforge/affiliate-engine/internal/adapters/events"
	"github.com/viralforge/affiliate-engine/internal/adapters/memory"
	"github.com/viralforge/affiliate-engine/internal/application"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

// TestReferralLifecycle walks one creator through the full funnel: apply,
// approve, mint a link, collect clicks, attribute an order, settle the
// commission and watch the tier engine and metrics react, then drain the
// outbox through a publisher.
func TestReferralLifecycle(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := application.NewService(application.Dependencies{
		Config:       application.Config{PublicBaseURL: "https://links.test"},
		Logger:       logger,
		Creators:     store.Creators(),
		Links:        store.Links(),
		Clicks:       store.Clicks(),
		Transactions: store.Transactions(),
		AuditLogs:    store.AuditLogs(),
		Outbox:       store.Outbox(),
		Now:          func() time.Time { return now },
	})
	ctx := context.Background()
	admin := application.Actor{SubjectID: "ops-1", Role: "admin"}
	user := application.Actor{SubjectID: "user-9", Role: "creator"}

	creator, err := svc.ApplyCreator(ctx, user, "user-9", 0)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if creator, err = svc.SetCreatorStatus(ctx, admin, creator.CreatorID, domain.CreatorStatusApproved, "kyc passed"); err != nil {
		t.Fatalf("approve: %v", err)
	}

	link, err := svc.CreateLink(ctx, user, application.CreateLinkInput{
		CreatorID:   creator.CreatorID,
		OriginalURL: "https://store.example.com/course",
		CustomAlias: "spring-launch",
	})
	if err != nil {
		t.Fatalf("create link: %v", err)
	}

	hit, err := svc.RecordClick(ctx, application.RecordClickInput{
		CodeOrAlias: "Spring-Launch", IPAddress: "198.51.100.7", UserAgent: "Mozilla/5.0 (iPhone)",
	})
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	if hit.TargetURL != link.OriginalURL {
		t.Fatalf("target = %q, want the link's destination", hit.TargetURL)
	}

	now = now.Add(3 * 24 * time.Hour)
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-9001", OrderAmount: 1250.00, SessionID: hit.SessionID,
	})
	if err != nil {
		t.Fatalf("attribute: %v", err)
	}
	if out.Outcome != application.OutcomeAttributed {
		t.Fatalf("outcome = %s, want attributed", out.Outcome)
	}
	if out.Transaction.CommissionAmount != 125.00 {
		t.Fatalf("commission = %v, want 125.00 at the bronze rate", out.Transaction.CommissionAmount)
	}

	if _, err := svc.AdvanceTransactionStatus(ctx, admin, out.Transaction.TransactionID, domain.TransactionStatusApproved, "order shipped"); err != nil {
		t.Fatalf("approve transaction: %v", err)
	}

	creator, err = svc.GetCreator(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("get creator: %v", err)
	}
	if creator.CommissionRate != 12 {
		t.Fatalf("rate after settling 1250 = %v, want silver 12", creator.CommissionRate)
	}
	if creator.Metrics.TotalSales != 1 || creator.Metrics.TotalCommission != 125.00 {
		t.Fatalf("metrics = %+v, want one settled sale of 125.00", creator.Metrics)
	}

	// The worker loop publishes everything the lifecycle queued.
	worker := events.NewOutboxWorker(logger, store.Outbox(), events.NewLoggingPublisher(logger), time.Second, 100)
	if err := worker.ProcessOnce(ctx); err != nil {
		t.Fatalf("drain outbox: %v", err)
	}
	pending, err := store.Outbox().FetchUnpublished(ctx, 10)
	if err != nil {
		t.Fatalf("fetch unpublished: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("%d outbox records left unpublished", len(pending))
	}
}
