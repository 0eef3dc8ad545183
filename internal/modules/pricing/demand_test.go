package pricing

import (
	"math"
	"testing"
	"time"
)

func TestDemandMultiplier(t *testing.T) {
	tests := []struct {
		name string
		ts   time.Time
		want float64
	}{
		{"neutral thursday spring afternoon", time.Date(2026, 4, 2, 14, 0, 0, 0, time.UTC), 1.0},
		{"saturday summer evening peak", time.Date(2026, 7, 18, 20, 0, 0, 0, time.UTC), 1.2 * 1.4 * 1.2},
		{"monday winter night trough", time.Date(2026, 1, 12, 3, 0, 0, 0, time.UTC), 1.1 * 0.8 * 0.9},
		{"friday fall morning", time.Date(2026, 10, 23, 9, 0, 0, 0, time.UTC), 0.9 * 1.3 * 1.1},
		{"sunday late night wraps to night bucket", time.Date(2026, 4, 5, 23, 0, 0, 0, time.UTC), 1.1 * 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DemandMultiplier(tt.ts)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("DemandMultiplier(%s) = %v, want %v", tt.ts, got, tt.want)
			}
		})
	}
}

func TestTimeFactorBucketEdges(t *testing.T) {
	tests := []struct {
		hour int
		want float64
	}{
		{5, 1.1},  // last night hour
		{6, 0.9},  // morning starts
		{11, 0.9}, // last morning hour
		{12, 1.0}, // afternoon starts
		{17, 1.0},
		{18, 1.2}, // evening starts
		{21, 1.2},
		{22, 1.1}, // night starts
		{0, 1.1},
	}
	for _, tt := range tests {
		if got := timeFactor(tt.hour); got != tt.want {
			t.Errorf("timeFactor(%d) = %v, want %v", tt.hour, got, tt.want)
		}
	}
}

func TestSeasonFactorBoundaries(t *testing.T) {
	tests := []struct {
		month time.Month
		want  float64
	}{
		{time.February, 0.9},
		{time.March, 1.0},
		{time.May, 1.0},
		{time.June, 1.2},
		{time.August, 1.2},
		{time.September, 1.1},
		{time.November, 1.1},
		{time.December, 0.9},
	}
	for _, tt := range tests {
		if got := seasonFactor(tt.month); got != tt.want {
			t.Errorf("seasonFactor(%s) = %v, want %v", tt.month, got, tt.want)
		}
	}
}
