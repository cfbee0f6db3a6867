package domain

import "github.com/shopspring/decimal"

// Tier is a discrete commission-rate bracket determined by trailing 30-day
// settled sales volume.
type Tier struct {
	Name      string  `json:"name"`
	MinVolume float64 `json:"min_volume"`
	Rate      float64 `json:"rate"`
}

const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

// tierTable is ordered by volume descending so the first matching bracket
// wins. Brackets are non-overlapping and cover [0, inf).
var tierTable = []Tier{
	{Name: TierPlatinum, MinVolume: 10000, Rate: 18},
	{Name: TierGold, MinVolume: 5000, Rate: 15},
	{Name: TierSilver, MinVolume: 1000, Rate: 12},
	{Name: TierBronze, MinVolume: 0, Rate: 10},
}

// TierForVolume resolves the bracket for a trailing 30-day volume. The
// comparison is exact: a volume of 999.99 stays bronze, 1000.00 is silver.
func TierForVolume(volume decimal.Decimal) Tier {
	for _, t := range tierTable {
		if volume.GreaterThanOrEqual(decimal.NewFromInt(int64(t.MinVolume))) {
			return t
		}
	}
	return tierTable[len(tierTable)-1]
}

// TierByName returns the bracket with the given name, falling back to bronze.
func TierByName(name string) Tier {
	for _, t := range tierTable {
		if t.Name == name {
			return t
		}
	}
	return tierTable[len(tierTable)-1]
}
