package domain

import "testing"

func TestCalculateCommission(t *testing.T) {
	cases := []struct {
		name   string
		amount float64
		rate   float64
		want   float64
	}{
		{"bronze round amount", 200.00, 10, 20.00},
		{"silver", 100.00, 12, 12.00},
		{"gold", 100.00, 15, 15.00},
		{"platinum", 100.00, 18, 18.00},
		{"rounds half up", 9.99, 10, 1.00},
		{"rounds down below half", 0.01, 10, 0.00},
		{"fractional cents truncated to 2dp", 1234.56, 18, 222.22},
		{"half up at the boundary", 49.99, 15, 7.50},
		{"tenth of a cent rounds up", 33.35, 10, 3.34},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CalculateCommission(tc.amount, tc.rate)
			if got != tc.want {
				t.Fatalf("CalculateCommission(%v, %v) = %v, want %v", tc.amount, tc.rate, got, tc.want)
			}
		})
	}
}

func TestCalculateCommissionAvoidsFloatDrift(t *testing.T) {
	// Classic binary float trap: 0.1+0.2 style accumulation. 19.99 * 15%
	// is 2.9985, which must land on 3.00, not 2.99.
	if got := CalculateCommission(19.99, 15); got != 3.00 {
		t.Fatalf("expected 3.00, got %v", got)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(10.005); got != 10.01 {
		t.Fatalf("Round2(10.005) = %v, want 10.01", got)
	}
	if got := Round2(10.004); got != 10.00 {
		t.Fatalf("Round2(10.004) = %v, want 10.00", got)
	}
}
