package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

// RecordClick logs an inbound click and establishes the attribution session.
// A repeat click from the same (ip, user agent) pair on the same link within
// the suppression window reuses the earlier session instead of creating a
// new click row: raw click_count still increments, unique_click_count does
// not. The returned session ID is a bearer credential the edge places into
// the visitor's attribution cookie.
func (s *Service) RecordClick(ctx context.Context, in RecordClickInput) (RecordClickResult, error) {
	key := domain.NormalizeLookupKey(in.CodeOrAlias)
	if key == "" {
		return RecordClickResult{}, domain.ErrInvalidInput
	}
	link, err := s.links.GetByKey(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return RecordClickResult{}, domain.ErrLinkUnavailable
		}
		return RecordClickResult{}, err
	}
	now := s.nowFn()
	if !link.Available(now) {
		return RecordClickResult{}, domain.ErrLinkUnavailable
	}

	fingerprint := domain.VisitorFingerprint(in.IPAddress, in.UserAgent)
	if sessionID, ok := s.recallDuplicate(ctx, link.LinkID, fingerprint, now.Add(-s.cfg.DedupWindow)); ok {
		if err := s.links.RegisterClick(ctx, link.LinkID, false, now); err != nil {
			return RecordClickResult{}, err
		}
		return RecordClickResult{SessionID: sessionID, TargetURL: link.OriginalURL, Unique: false, LinkID: link.LinkID, CreatorID: link.CreatorID}, nil
	}

	click := domain.ReferralClick{
		ClickID:    "clk_" + uuid.NewString(),
		LinkID:     link.LinkID,
		CreatorID:  link.CreatorID,
		SessionID:  newSessionID(),
		IPAddress:  strings.TrimSpace(in.IPAddress),
		UserAgent:  strings.TrimSpace(in.UserAgent),
		Referrer:   strings.TrimSpace(in.Referrer),
		DeviceType: domain.ClassifyDevice(in.UserAgent),
		ClickedAt:  now,
	}
	if err := s.clicks.Create(ctx, click); err != nil {
		return RecordClickResult{}, err
	}
	if err := s.links.RegisterClick(ctx, link.LinkID, true, now); err != nil {
		return RecordClickResult{}, err
	}
	if s.dedup != nil {
		if err := s.dedup.Remember(ctx, link.LinkID, fingerprint, click.SessionID, s.cfg.DedupWindow); err != nil {
			s.logger.WarnContext(ctx, "click dedup remember failed",
				"module", "click_recorder", "operation", "remember", "link_id", link.LinkID, "error", err)
		}
	}
	s.enqueueClickRecorded(ctx, click, true, now)
	return RecordClickResult{SessionID: click.SessionID, TargetURL: link.OriginalURL, Unique: true, LinkID: link.LinkID, CreatorID: link.CreatorID}, nil
}

// recallDuplicate consults the dedup cache first and falls back to the click
// store, so suppression survives cache restarts.
func (s *Service) recallDuplicate(ctx context.Context, linkID, fingerprint string, cutoff time.Time) (string, bool) {
	if s.dedup != nil {
		sessionID, ok, err := s.dedup.Recall(ctx, linkID, fingerprint)
		if err != nil {
			s.logger.WarnContext(ctx, "click dedup recall failed",
				"module", "click_recorder", "operation", "recall", "link_id", linkID, "error", err)
		} else if ok {
			return sessionID, true
		}
	}
	click, err := s.clicks.MostRecentByFingerprint(ctx, linkID, fingerprint, cutoff)
	if err != nil {
		return "", false
	}
	return click.SessionID, true
}
