package domain

import (
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// LinkCodeLength is the length of generated link codes drawn from the
	// 62-character alphanumeric alphabet.
	LinkCodeLength = 12

	// LinkCodeMaxAttempts bounds collision retries during code generation.
	LinkCodeMaxAttempts = 10
)

var aliasPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

type ReferralLink struct {
	LinkID           string     `json:"link_id"`
	CreatorID        string     `json:"creator_id"`
	LinkCode         string     `json:"link_code"`
	CustomAlias      string     `json:"custom_alias,omitempty"`
	OriginalURL      string     `json:"original_url"`
	Title            string     `json:"title,omitempty"`
	IsActive         bool       `json:"is_active"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	ClickCount       int64      `json:"click_count"`
	UniqueClickCount int64      `json:"unique_click_count"`
	ConversionCount  int64      `json:"conversion_count"`
	LastClickedAt    *time.Time `json:"last_clicked_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Available reports whether the link can accept clicks at the given instant.
func (l ReferralLink) Available(now time.Time) bool {
	if !l.IsActive {
		return false
	}
	if l.ExpiresAt != nil && now.After(*l.ExpiresAt) {
		return false
	}
	return true
}

func ValidateAlias(alias string) error {
	if !aliasPattern.MatchString(alias) {
		return ErrInvalidInput
	}
	return nil
}

func ValidateOriginalURL(raw string) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ErrInvalidInput
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidInput
	}
	return nil
}

// NormalizeLookupKey lowercases a code or alias so the two namespaces share
// one case-insensitive lookup space.
func NormalizeLookupKey(codeOrAlias string) string {
	return strings.ToLower(strings.TrimSpace(codeOrAlias))
}
