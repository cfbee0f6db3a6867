package application_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/viralforge/affiliate-engine/internal/adapters/memory"
	"github.com/viralforge/affiliate-engine/internal/application"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

var (
	adminActor   = application.Actor{SubjectID: "admin-1", Role: "admin"}
	creatorActor = application.Actor{SubjectID: "user-1", Role: "creator"}
)

// newTestService wires the service over the in-memory store with a
// controllable clock. The dedup cache is left nil on purpose so duplicate
// suppression exercises the click-store fallback, which honors the fake
// clock.
func newTestService(t *testing.T, now *time.Time) (*application.Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:   "affiliate-engine-test",
			PublicBaseURL: "https://links.test",
		},
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		Creators:     store.Creators(),
		Links:        store.Links(),
		Clicks:       store.Clicks(),
		Transactions: store.Transactions(),
		AuditLogs:    store.AuditLogs(),
		Outbox:       store.Outbox(),
		Now:          func() time.Time { return *now },
	})
	return svc, store
}

func approvedCreator(t *testing.T, svc *application.Service, userID string) domain.Creator {
	t.Helper()
	ctx := context.Background()
	row, err := svc.ApplyCreator(ctx, creatorActor, userID, 0)
	if err != nil {
		t.Fatalf("apply creator: %v", err)
	}
	row, err = svc.SetCreatorStatus(ctx, adminActor, row.CreatorID, domain.CreatorStatusApproved, "")
	if err != nil {
		t.Fatalf("approve creator: %v", err)
	}
	return row
}

func newLink(t *testing.T, svc *application.Service, creatorID, alias string) domain.ReferralLink {
	t.Helper()
	link, err := svc.CreateLink(context.Background(), creatorActor, application.CreateLinkInput{
		CreatorID:   creatorID,
		OriginalURL: "https://shop.example.com/product/42",
		CustomAlias: alias,
	})
	if err != nil {
		t.Fatalf("create link: %v", err)
	}
	return link
}

func click(t *testing.T, svc *application.Service, key, ip, ua string) application.RecordClickResult {
	t.Helper()
	out, err := svc.RecordClick(context.Background(), application.RecordClickInput{
		CodeOrAlias: key, IPAddress: ip, UserAgent: ua,
	})
	if err != nil {
		t.Fatalf("record click: %v", err)
	}
	return out
}

func TestApplyCreatorStartsPending(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	ctx := context.Background()

	row, err := svc.ApplyCreator(ctx, creatorActor, "user-77", 0)
	if err != nil {
		t.Fatalf("apply creator: %v", err)
	}
	if row.Status != domain.CreatorStatusPending {
		t.Fatalf("new creator status = %s, want pending", row.Status)
	}
	if row.CommissionRate != 10 {
		t.Fatalf("new creator rate = %v, want bronze default 10", row.CommissionRate)
	}

	_, err = svc.CreateLink(ctx, creatorActor, application.CreateLinkInput{
		CreatorID: row.CreatorID, OriginalURL: "https://shop.example.com",
	})
	if !errors.Is(err, domain.ErrCreatorNotEligible) {
		t.Fatalf("pending creator link creation error = %v, want ErrCreatorNotEligible", err)
	}
}

func TestCreateLinkGeneratesTwelveCharCode(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")

	link := newLink(t, svc, creator.CreatorID, "")
	if len(link.LinkCode) != domain.LinkCodeLength {
		t.Fatalf("code length = %d, want %d", len(link.LinkCode), domain.LinkCodeLength)
	}
	for _, r := range link.LinkCode {
		if !strings.ContainsRune("ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789", r) {
			t.Fatalf("code %q contains character outside the alphabet", link.LinkCode)
		}
	}
	if !link.IsActive {
		t.Fatal("new link should be active")
	}
}

func TestAliasSharesNamespaceWithCodes(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	ctx := context.Background()

	first := newLink(t, svc, creator.CreatorID, "summer-sale")

	// Same alias, different case.
	_, err := svc.CreateLink(ctx, creatorActor, application.CreateLinkInput{
		CreatorID: creator.CreatorID, OriginalURL: "https://shop.example.com", CustomAlias: "SUMMER-SALE",
	})
	if !errors.Is(err, domain.ErrAliasTaken) {
		t.Fatalf("case-variant alias error = %v, want ErrAliasTaken", err)
	}

	// Alias colliding with an existing generated code.
	_, err = svc.CreateLink(ctx, creatorActor, application.CreateLinkInput{
		CreatorID: creator.CreatorID, OriginalURL: "https://shop.example.com", CustomAlias: strings.ToUpper(first.LinkCode),
	})
	if !errors.Is(err, domain.ErrAliasTaken) {
		t.Fatalf("alias equal to a code error = %v, want ErrAliasTaken", err)
	}

	// The alias resolves clicks the same as the code does.
	byAlias := click(t, svc, "Summer-Sale", "203.0.113.1", "UA")
	if byAlias.LinkID != first.LinkID {
		t.Fatal("alias lookup should resolve to the same link as the code")
	}
}

func TestCreateLinkRejectsMalformedAlias(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")

	for _, alias := range []string{"ab", "has space", "123456789012345678901"} {
		_, err := svc.CreateLink(context.Background(), creatorActor, application.CreateLinkInput{
			CreatorID: creator.CreatorID, OriginalURL: "https://shop.example.com", CustomAlias: alias,
		})
		if !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("alias %q error = %v, want ErrInvalidInput", alias, err)
		}
	}
}

func TestDuplicateClickSuppression(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	first := click(t, svc, link.LinkCode, "203.0.113.1", "Mozilla/5.0")
	if !first.Unique {
		t.Fatal("first click should be unique")
	}

	now = now.Add(10 * time.Minute)
	second := click(t, svc, link.LinkCode, "203.0.113.1", "Mozilla/5.0")
	if second.Unique {
		t.Fatal("repeat click inside the window should not be unique")
	}
	if second.SessionID != first.SessionID {
		t.Fatal("repeat click should reuse the existing session")
	}

	// A different visitor on the same link is not a duplicate.
	other := click(t, svc, link.LinkCode, "203.0.113.2", "Mozilla/5.0")
	if !other.Unique || other.SessionID == first.SessionID {
		t.Fatal("different IP should start its own session")
	}

	// Past the window the same visitor counts as unique again.
	now = now.Add(61 * time.Minute)
	third := click(t, svc, link.LinkCode, "203.0.113.1", "Mozilla/5.0")
	if !third.Unique {
		t.Fatal("click after the suppression window should be unique")
	}
	if third.SessionID == first.SessionID {
		t.Fatal("click after the window should start a new session")
	}

	got, err := svc.GetLink(ctx, link.LinkID)
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	if got.ClickCount != 4 {
		t.Fatalf("click count = %d, want 4", got.ClickCount)
	}
	if got.UniqueClickCount != 3 {
		t.Fatalf("unique click count = %d, want 3", got.UniqueClickCount)
	}
}

func TestClickOnUnavailableLink(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	if _, err := svc.DeactivateLink(ctx, creatorActor, link.LinkID); err != nil {
		t.Fatalf("deactivate link: %v", err)
	}
	_, err := svc.RecordClick(ctx, application.RecordClickInput{CodeOrAlias: link.LinkCode, IPAddress: "1.2.3.4", UserAgent: "UA"})
	if !errors.Is(err, domain.ErrLinkUnavailable) {
		t.Fatalf("click on deactivated link error = %v, want ErrLinkUnavailable", err)
	}

	_, err = svc.RecordClick(ctx, application.RecordClickInput{CodeOrAlias: "nosuchcode123", IPAddress: "1.2.3.4", UserAgent: "UA"})
	if !errors.Is(err, domain.ErrLinkUnavailable) {
		t.Fatalf("click on unknown code error = %v, want ErrLinkUnavailable", err)
	}
}

func TestAttributionBySessionWithinWindow(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID

	now = now.Add(10 * 24 * time.Hour)
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1001", OrderAmount: 200.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("attribute conversion: %v", err)
	}
	if out.Outcome != application.OutcomeAttributed {
		t.Fatalf("outcome = %s, want attributed", out.Outcome)
	}
	txn := out.Transaction
	if txn == nil {
		t.Fatal("attributed outcome must carry the transaction")
	}
	if txn.CommissionAmount != 20.00 {
		t.Fatalf("commission = %v, want 20.00", txn.CommissionAmount)
	}
	if txn.CommissionRate != 10 {
		t.Fatalf("rate = %v, want 10", txn.CommissionRate)
	}
	if txn.Status != domain.TransactionStatusPending {
		t.Fatalf("status = %s, want pending", txn.Status)
	}

	got, err := svc.GetLink(ctx, link.LinkID)
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	if got.ConversionCount != 1 {
		t.Fatalf("conversion count = %d, want 1", got.ConversionCount)
	}
}

func TestAttributionIdempotentOnOrderID(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID
	first, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1001", OrderAmount: 200.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("first attribution: %v", err)
	}

	// Replays return the transaction of record, never a second one.
	for i := 0; i < 3; i++ {
		replay, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
			OrderID: "ord-1001", OrderAmount: 200.00, SessionID: session,
		})
		if err != nil {
			t.Fatalf("replay %d: %v", i, err)
		}
		if replay.Outcome != application.OutcomeAlreadyTracked {
			t.Fatalf("replay outcome = %s, want already_tracked", replay.Outcome)
		}
		if replay.Transaction == nil || replay.Transaction.TransactionID != first.Transaction.TransactionID {
			t.Fatal("replay must return the original transaction")
		}
	}

	got, err := svc.GetLink(ctx, link.LinkID)
	if err != nil {
		t.Fatalf("get link: %v", err)
	}
	if got.ConversionCount != 1 {
		t.Fatalf("conversion count after replays = %d, want 1", got.ConversionCount)
	}
}

func TestAttributionWindowExpiry(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID

	now = now.Add(31 * 24 * time.Hour)
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-late", OrderAmount: 100.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("attribute conversion: %v", err)
	}
	if out.Outcome != application.OutcomeNoAttribution {
		t.Fatalf("outcome after 31 days = %s, want no_attribution", out.Outcome)
	}
	if out.Transaction != nil {
		t.Fatal("no_attribution must not carry a transaction")
	}
}

func TestAttributionLinkFallbackConsumesClickOnce(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	click(t, svc, link.LinkCode, "203.0.113.1", "UA")

	// Cookie lost: only the link is known.
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1", OrderAmount: 50.00, LinkID: link.LinkID,
	})
	if err != nil {
		t.Fatalf("fallback attribution: %v", err)
	}
	if out.Outcome != application.OutcomeAttributed {
		t.Fatalf("outcome = %s, want attributed", out.Outcome)
	}

	// The click is consumed; a different order cannot reuse it.
	out, err = svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-2", OrderAmount: 50.00, LinkID: link.LinkID,
	})
	if err != nil {
		t.Fatalf("second fallback attribution: %v", err)
	}
	if out.Outcome != application.OutcomeNoAttribution {
		t.Fatalf("outcome = %s, want no_attribution once the click is consumed", out.Outcome)
	}
}

func TestAttributionUnknownSessionFallsBackToLink(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	click(t, svc, link.LinkCode, "203.0.113.1", "UA")

	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1", OrderAmount: 50.00, SessionID: "sess_unknown", LinkID: link.LinkID,
	})
	if err != nil {
		t.Fatalf("attribution: %v", err)
	}
	if out.Outcome != application.OutcomeAttributed {
		t.Fatalf("outcome = %s, want attributed via link fallback", out.Outcome)
	}
}

func TestSettlementTransitionsAndImmutability(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1", OrderAmount: 100.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("attribution: %v", err)
	}
	txnID := out.Transaction.TransactionID

	// pending -> paid skips approval.
	if _, err := svc.AdvanceTransactionStatus(ctx, adminActor, txnID, domain.TransactionStatusPaid, ""); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("pending->paid error = %v, want ErrInvalidTransition", err)
	}

	// Non-admin cannot settle.
	if _, err := svc.AdvanceTransactionStatus(ctx, creatorActor, txnID, domain.TransactionStatusApproved, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin settle error = %v, want ErrForbidden", err)
	}

	row, err := svc.AdvanceTransactionStatus(ctx, adminActor, txnID, domain.TransactionStatusApproved, "order cleared")
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if row.Status != domain.TransactionStatusApproved {
		t.Fatalf("status = %s, want approved", row.Status)
	}

	row, err = svc.AdvanceTransactionStatus(ctx, adminActor, txnID, domain.TransactionStatusPaid, "payout run")
	if err != nil {
		t.Fatalf("pay: %v", err)
	}
	if row.PaidAt == nil {
		t.Fatal("paid transaction must carry paid_at")
	}

	// Paid is terminal.
	if _, err := svc.AdvanceTransactionStatus(ctx, adminActor, txnID, domain.TransactionStatusCancelled, ""); !errors.Is(err, domain.ErrTransactionImmutable) {
		t.Fatalf("paid->cancelled error = %v, want ErrTransactionImmutable", err)
	}
}

func TestTierPromotionOnSettledVolume(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-big", OrderAmount: 1200.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("attribution: %v", err)
	}

	// Pending volume does not move the tier.
	tier, err := svc.RecomputeTier(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if tier.Tier != domain.TierBronze || tier.Changed {
		t.Fatalf("pending volume moved the tier: %+v", tier)
	}

	// Settling the order promotes to silver via the settlement hook.
	if _, err := svc.AdvanceTransactionStatus(ctx, adminActor, out.Transaction.TransactionID, domain.TransactionStatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	row, err := svc.GetCreator(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("get creator: %v", err)
	}
	if row.CommissionRate != 12 {
		t.Fatalf("rate after settlement = %v, want silver 12", row.CommissionRate)
	}
}

func TestTierVolumeWindowSlides(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1", OrderAmount: 1500.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("attribution: %v", err)
	}
	if _, err := svc.AdvanceTransactionStatus(ctx, adminActor, out.Transaction.TransactionID, domain.TransactionStatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	tier, err := svc.RecomputeTier(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if tier.Tier != domain.TierSilver {
		t.Fatalf("tier = %s, want silver", tier.Tier)
	}

	// 31 days later the sale has left the trailing window.
	now = now.Add(31 * 24 * time.Hour)
	tier, err = svc.RecomputeTier(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("recompute after window: %v", err)
	}
	if tier.Tier != domain.TierBronze || !tier.Changed {
		t.Fatalf("expected demotion to bronze, got %+v", tier)
	}
}

func TestAdminRateOverrideSuppressesTierChanges(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	if _, err := svc.OverrideCommissionRate(ctx, adminActor, creator.CreatorID, 25, "negotiated deal"); err != nil {
		t.Fatalf("override: %v", err)
	}

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1", OrderAmount: 6000.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("attribution: %v", err)
	}
	if out.Transaction.CommissionRate != 25 {
		t.Fatalf("attribution rate = %v, want overridden 25", out.Transaction.CommissionRate)
	}
	if _, err := svc.AdvanceTransactionStatus(ctx, adminActor, out.Transaction.TransactionID, domain.TransactionStatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	row, err := svc.GetCreator(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("get creator: %v", err)
	}
	if row.CommissionRate != 25 {
		t.Fatalf("rate after settlement = %v, overridden rate must hold", row.CommissionRate)
	}

	audits, err := store.AuditLogs().ListByCreatorID(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("list audits: %v", err)
	}
	suppressed := false
	for _, a := range audits {
		if a.Action == "tier.change_suppressed" {
			suppressed = true
		}
	}
	if !suppressed {
		t.Fatal("suppressed tier change must be audited")
	}
}

func TestMetricsRecomputeWithoutDrift(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID
	click(t, svc, link.LinkCode, "203.0.113.2", "UA")
	click(t, svc, link.LinkCode, "203.0.113.3", "UA")
	click(t, svc, link.LinkCode, "203.0.113.4", "UA")

	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1", OrderAmount: 100.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("attribution: %v", err)
	}
	if _, err := svc.AdvanceTransactionStatus(ctx, adminActor, out.Transaction.TransactionID, domain.TransactionStatusApproved, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}

	first, err := svc.RecordMetrics(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("record metrics: %v", err)
	}
	if first.TotalClicks != 4 {
		t.Fatalf("total clicks = %d, want 4", first.TotalClicks)
	}
	if first.TotalSales != 1 {
		t.Fatalf("total sales = %d, want 1", first.TotalSales)
	}
	if first.TotalCommission != 10.00 {
		t.Fatalf("total commission = %v, want 10.00", first.TotalCommission)
	}
	if first.ConversionRate != 25.00 {
		t.Fatalf("conversion rate = %v, want 25.00", first.ConversionRate)
	}

	// Recomputing from the same ledger state must land on identical values.
	second, err := svc.RecordMetrics(ctx, creator.CreatorID)
	if err != nil {
		t.Fatalf("second record metrics: %v", err)
	}
	if second.TotalClicks != first.TotalClicks || second.TotalSales != first.TotalSales ||
		second.TotalCommission != first.TotalCommission || second.ConversionRate != first.ConversionRate {
		t.Fatalf("metrics drifted between recomputes: %+v vs %+v", first, second)
	}
}

func TestDeletedCreatorYieldsNoAttribution(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	// Suspension is forward-looking: an existing click still attributes.
	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID
	if _, err := svc.SetCreatorStatus(ctx, adminActor, creator.CreatorID, domain.CreatorStatusSuspended, "terms violation"); err != nil {
		t.Fatalf("suspend: %v", err)
	}
	out, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1", OrderAmount: 60.00, SessionID: session,
	})
	if err != nil {
		t.Fatalf("attribution: %v", err)
	}
	if out.Outcome != application.OutcomeAttributed {
		t.Fatalf("outcome for suspended creator = %s, want attributed", out.Outcome)
	}

	// A suspended creator cannot mint new links.
	_, err = svc.CreateLink(ctx, creatorActor, application.CreateLinkInput{
		CreatorID: creator.CreatorID, OriginalURL: "https://shop.example.com",
	})
	if !errors.Is(err, domain.ErrCreatorNotEligible) {
		t.Fatalf("suspended creator link error = %v, want ErrCreatorNotEligible", err)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, _ := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	for i, amount := range []float64{10, 20, 30} {
		session := click(t, svc, link.LinkCode, "203.0.113."+string(rune('1'+i)), "UA").SessionID
		if _, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
			OrderID: "ord-" + string(rune('a'+i)), OrderAmount: amount, SessionID: session,
		}); err != nil {
			t.Fatalf("attribution %d: %v", i, err)
		}
		now = now.Add(time.Minute)
	}

	rows, total, err := svc.ListTransactions(ctx, application.ListTransactionsInput{CreatorID: creator.CreatorID})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("total = %d, rows = %d, want 3/3", total, len(rows))
	}
	// Newest first.
	if rows[0].OrderAmount != 30 {
		t.Fatalf("first row amount = %v, want most recent 30", rows[0].OrderAmount)
	}

	rows, total, err = svc.ListTransactions(ctx, application.ListTransactionsInput{
		CreatorID: creator.CreatorID,
		Statuses:  []domain.TransactionStatus{domain.TransactionStatusApproved},
	})
	if err != nil {
		t.Fatalf("filtered list: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Fatalf("approved filter should match nothing, got %d", total)
	}

	_, _, err = svc.ListTransactions(ctx, application.ListTransactionsInput{CreatorID: ""})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("empty creator error = %v, want ErrInvalidInput", err)
	}
}

func TestOutboxRecordsEmittedEvents(t *testing.T) {
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	svc, store := newTestService(t, &now)
	creator := approvedCreator(t, svc, "user-1")
	link := newLink(t, svc, creator.CreatorID, "")
	ctx := context.Background()

	session := click(t, svc, link.LinkCode, "203.0.113.1", "UA").SessionID
	if _, err := svc.AttributeConversion(ctx, application.AttributeConversionInput{
		OrderID: "ord-1", OrderAmount: 100.00, SessionID: session,
	}); err != nil {
		t.Fatalf("attribution: %v", err)
	}

	records, err := store.Outbox().FetchUnpublished(ctx, 100)
	if err != nil {
		t.Fatalf("fetch outbox: %v", err)
	}
	want := map[string]bool{
		domain.EventLinkCreated:          false,
		domain.EventClickRecorded:        false,
		domain.EventConversionAttributed: false,
	}
	for _, rec := range records {
		if _, ok := want[rec.EventType]; ok {
			want[rec.EventType] = true
		}
		if rec.PartitionKey != creator.CreatorID {
			t.Fatalf("event %s partition key = %q, want creator id", rec.EventType, rec.PartitionKey)
		}
	}
	for eventType, seen := range want {
		if !seen {
			t.Fatalf("event %s missing from outbox", eventType)
		}
	}
}
