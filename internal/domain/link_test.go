package domain

import (
	"testing"
	"time"
)

func TestValidateAlias(t *testing.T) {
	valid := []string{"abc", "summer-sale", "promo_2026", "ABC123", "a-b_c", "12345678901234567890"}
	for _, alias := range valid {
		if err := ValidateAlias(alias); err != nil {
			t.Fatalf("valid alias %q rejected: %v", alias, err)
		}
	}
	invalid := []string{"", "ab", "123456789012345678901", "has space", "emoji🎉", "dot.dot", "slash/x"}
	for _, alias := range invalid {
		if err := ValidateAlias(alias); err == nil {
			t.Fatalf("invalid alias %q accepted", alias)
		}
	}
}

func TestValidateOriginalURL(t *testing.T) {
	valid := []string{"https://shop.example.com/product/1", "http://example.com"}
	for _, raw := range valid {
		if err := ValidateOriginalURL(raw); err != nil {
			t.Fatalf("valid url %q rejected: %v", raw, err)
		}
	}
	invalid := []string{"", "ftp://example.com/file", "example.com/no-scheme", "https://", "://bad"}
	for _, raw := range invalid {
		if err := ValidateOriginalURL(raw); err == nil {
			t.Fatalf("invalid url %q accepted", raw)
		}
	}
}

func TestLinkAvailable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	link := ReferralLink{IsActive: true}
	if !link.Available(now) {
		t.Fatal("active link without expiry should be available")
	}

	link.IsActive = false
	if link.Available(now) {
		t.Fatal("inactive link should be unavailable")
	}

	past := now.Add(-time.Minute)
	link = ReferralLink{IsActive: true, ExpiresAt: &past}
	if link.Available(now) {
		t.Fatal("expired link should be unavailable")
	}

	future := now.Add(time.Minute)
	link = ReferralLink{IsActive: true, ExpiresAt: &future}
	if !link.Available(now) {
		t.Fatal("link expiring in the future should be available")
	}
}

func TestNormalizeLookupKey(t *testing.T) {
	if NormalizeLookupKey("  Summer-Sale ") != "summer-sale" {
		t.Fatal("lookup keys should be trimmed and lowercased")
	}
	if NormalizeLookupKey("aB3xY9") != "ab3xy9" {
		t.Fatal("generated codes normalize the same way aliases do")
	}
}
