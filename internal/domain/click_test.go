package domain

import (
	"testing"
	"time"
)

func TestVisitorFingerprint(t *testing.T) {
	a := VisitorFingerprint("203.0.113.10", "Mozilla/5.0")
	b := VisitorFingerprint(" 203.0.113.10 ", "Mozilla/5.0")
	if a != b {
		t.Fatal("fingerprint should ignore surrounding whitespace")
	}
	if a == VisitorFingerprint("203.0.113.11", "Mozilla/5.0") {
		t.Fatal("different IPs must produce different fingerprints")
	}
	if a == VisitorFingerprint("203.0.113.10", "curl/8.0") {
		t.Fatal("different user agents must produce different fingerprints")
	}
}

func TestWithinAttributionWindow(t *testing.T) {
	clicked := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	click := ReferralClick{ClickedAt: clicked}

	if !click.WithinAttributionWindow(clicked.Add(29*24*time.Hour), 30*24*time.Hour) {
		t.Fatal("day 29 should be inside the window")
	}
	if !click.WithinAttributionWindow(clicked.Add(30*24*time.Hour), 30*24*time.Hour) {
		t.Fatal("exactly 30 days should still be inside the window")
	}
	if click.WithinAttributionWindow(clicked.Add(31*24*time.Hour), 30*24*time.Hour) {
		t.Fatal("day 31 should be outside the window")
	}
}

func TestClassifyDevice(t *testing.T) {
	cases := map[string]string{
		"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0)": "mobile",
		"Mozilla/5.0 (Linux; Android 14)":          "mobile",
		"Mozilla/5.0 (iPad; CPU OS 17_0)":          "tablet",
		"Googlebot/2.1":                            "bot",
		"Mozilla/5.0 (X11; Linux x86_64)":          "desktop",
		"":                                         "unknown",
	}
	for ua, want := range cases {
		if got := ClassifyDevice(ua); got != want {
			t.Fatalf("ClassifyDevice(%q) = %q, want %q", ua, got, want)
		}
	}
}
