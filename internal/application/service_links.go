package application

import (
	"context"
	"crypto/rand"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/viralforge/affiliate-engine/internal/domain"
)

const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// CreateLink issues a referral link for an approved creator. Generated codes
// and custom aliases share one case-insensitive namespace; code generation
// retries on collision up to the bounded attempt count and fails loudly
// rather than ever returning a colliding code.
func (s *Service) CreateLink(ctx context.Context, actor Actor, in CreateLinkInput) (domain.ReferralLink, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.ReferralLink{}, domain.ErrUnauthorized
	}
	in.CreatorID = strings.TrimSpace(in.CreatorID)
	in.OriginalURL = strings.TrimSpace(in.OriginalURL)
	in.CustomAlias = strings.TrimSpace(in.CustomAlias)
	in.Title = strings.TrimSpace(in.Title)
	if in.CreatorID == "" {
		return domain.ReferralLink{}, domain.ErrInvalidInput
	}
	if err := domain.ValidateOriginalURL(in.OriginalURL); err != nil {
		return domain.ReferralLink{}, err
	}
	if in.CustomAlias != "" {
		if err := domain.ValidateAlias(in.CustomAlias); err != nil {
			return domain.ReferralLink{}, err
		}
		if _, err := s.links.GetByKey(ctx, domain.NormalizeLookupKey(in.CustomAlias)); err == nil {
			return domain.ReferralLink{}, domain.ErrAliasTaken
		} else if !errors.Is(err, domain.ErrNotFound) {
			return domain.ReferralLink{}, err
		}
	}

	creator, err := s.creators.GetByID(ctx, in.CreatorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ReferralLink{}, domain.ErrCreatorNotEligible
		}
		return domain.ReferralLink{}, err
	}
	if creator.Status != domain.CreatorStatusApproved {
		return domain.ReferralLink{}, domain.ErrCreatorNotEligible
	}

	now := s.nowFn()
	row := domain.ReferralLink{
		LinkID:      "link_" + uuid.NewString(),
		CreatorID:   creator.CreatorID,
		CustomAlias: in.CustomAlias,
		OriginalURL: in.OriginalURL,
		Title:       in.Title,
		IsActive:    true,
		ExpiresAt:   in.ExpiresAt,
		CreatedAt:   now,
	}
	for attempt := 0; attempt < domain.LinkCodeMaxAttempts; attempt++ {
		row.LinkCode = randomCode(domain.LinkCodeLength)
		err := s.links.Create(ctx, row)
		if err == nil {
			_ = s.appendAudit(ctx, creator.CreatorID, "link.created", actor.SubjectID, "", map[string]string{"link_id": row.LinkID, "link_code": row.LinkCode})
			s.enqueueLinkCreated(ctx, row, now)
			return row, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.ReferralLink{}, err
		}
		// A conflict with an alias present may be the alias losing a race,
		// not the generated code: recheck before burning another attempt.
		if in.CustomAlias != "" {
			if _, aliasErr := s.links.GetByKey(ctx, domain.NormalizeLookupKey(in.CustomAlias)); aliasErr == nil {
				return domain.ReferralLink{}, domain.ErrAliasTaken
			}
		}
	}
	return domain.ReferralLink{}, domain.ErrCodeGenerationExhausted
}

func (s *Service) ListLinks(ctx context.Context, creatorID string) ([]domain.ReferralLink, error) {
	return s.links.ListByCreatorID(ctx, strings.TrimSpace(creatorID))
}

func (s *Service) GetLink(ctx context.Context, linkID string) (domain.ReferralLink, error) {
	return s.links.GetByID(ctx, strings.TrimSpace(linkID))
}

// DeactivateLink soft-disables a link. Historical clicks and transactions
// keep referencing it, so links are never hard-deleted.
func (s *Service) DeactivateLink(ctx context.Context, actor Actor, linkID string) (domain.ReferralLink, error) {
	if strings.TrimSpace(actor.SubjectID) == "" {
		return domain.ReferralLink{}, domain.ErrUnauthorized
	}
	linkID = strings.TrimSpace(linkID)
	link, err := s.links.GetByID(ctx, linkID)
	if err != nil {
		return domain.ReferralLink{}, err
	}
	if err := s.links.SetActive(ctx, linkID, false, s.nowFn()); err != nil {
		return domain.ReferralLink{}, err
	}
	_ = s.appendAudit(ctx, link.CreatorID, "link.deactivated", actor.SubjectID, "", map[string]string{"link_id": linkID})
	return s.links.GetByID(ctx, linkID)
}

func randomCode(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failure leaves no safe fallback for code generation;
		// reuse uuid entropy instead of weakening to math/rand.
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:length]
	}
	for i := range buf {
		buf[i] = codeAlphabet[int(buf[i])%len(codeAlphabet)]
	}
	return string(buf)
}

func newSessionID() string {
	return "sess_" + strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}

func isAdmin(actor Actor) bool {
	return strings.ToLower(strings.TrimSpace(actor.Role)) == "admin"
}

func formatRate(rate float64) string {
	return strconv.FormatFloat(rate, 'f', -1, 64)
}
