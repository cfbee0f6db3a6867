package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTierForVolumeBoundaries(t *testing.T) {
	cases := []struct {
		volume   string
		wantTier string
		wantRate float64
	}{
		{"0", TierBronze, 10},
		{"999.99", TierBronze, 10},
		{"1000", TierSilver, 12},
		{"4999.99", TierSilver, 12},
		{"5000", TierGold, 15},
		{"9999.99", TierGold, 15},
		{"10000", TierPlatinum, 18},
		{"250000", TierPlatinum, 18},
	}
	for _, tc := range cases {
		volume, err := decimal.NewFromString(tc.volume)
		if err != nil {
			t.Fatalf("parse volume %q: %v", tc.volume, err)
		}
		tier := TierForVolume(volume)
		if tier.Name != tc.wantTier || tier.Rate != tc.wantRate {
			t.Fatalf("TierForVolume(%s) = %s/%v, want %s/%v", tc.volume, tier.Name, tier.Rate, tc.wantTier, tc.wantRate)
		}
	}
}

func TestTierByName(t *testing.T) {
	if tier := TierByName(TierGold); tier.Rate != 15 {
		t.Fatalf("gold rate = %v, want 15", tier.Rate)
	}
	if tier := TierByName("nonexistent"); tier.Name != TierBronze {
		t.Fatalf("unknown tier should fall back to bronze, got %s", tier.Name)
	}
}
