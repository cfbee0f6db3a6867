package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

const (
	// AttributionWindow is the maximum elapsed time between a click and a
	// conversion for the conversion to be creditable.
	AttributionWindow = 30 * 24 * time.Hour

	// DuplicateClickWindow is the suppression window for repeat clicks from
	// the same (ip, user agent) pair on the same link.
	DuplicateClickWindow = time.Hour
)

type ReferralClick struct {
	ClickID         string     `json:"click_id"`
	LinkID          string     `json:"link_id"`
	CreatorID       string     `json:"creator_id"`
	SessionID       string     `json:"session_id"`
	IPAddress       string     `json:"ip_address"`
	UserAgent       string     `json:"user_agent"`
	Referrer        string     `json:"referrer,omitempty"`
	DeviceType      string     `json:"device_type"`
	Converted       bool       `json:"converted"`
	OrderID         string     `json:"order_id,omitempty"`
	ConversionValue float64    `json:"conversion_value,omitempty"`
	ConvertedAt     *time.Time `json:"converted_at,omitempty"`
	ClickedAt       time.Time  `json:"clicked_at"`
}

// WithinAttributionWindow reports whether a conversion at the given instant
// may still credit this click.
func (c ReferralClick) WithinAttributionWindow(now time.Time, window time.Duration) bool {
	if window <= 0 {
		window = AttributionWindow
	}
	return now.Sub(c.ClickedAt) <= window
}

// VisitorFingerprint keys duplicate-click suppression. Only the raw pair is
// hashed; the fingerprint plays no role in attribution correctness.
func VisitorFingerprint(ipAddress, userAgent string) string {
	h := sha256.Sum256([]byte(strings.TrimSpace(ipAddress) + "|" + strings.TrimSpace(userAgent)))
	return hex.EncodeToString(h[:])
}

// ClassifyDevice buckets a user agent for analytics. Best effort only.
func ClassifyDevice(userAgent string) string {
	ua := strings.ToLower(userAgent)
	switch {
	case strings.Contains(ua, "bot") || strings.Contains(ua, "crawler") || strings.Contains(ua, "spider"):
		return "bot"
	case strings.Contains(ua, "tablet") || strings.Contains(ua, "ipad"):
		return "tablet"
	case strings.Contains(ua, "mobile") || strings.Contains(ua, "android") || strings.Contains(ua, "iphone"):
		return "mobile"
	case ua == "":
		return "unknown"
	default:
		return "desktop"
	}
}
