package geo

import (
	"math"
	"testing"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name             string
		lat1, lon1       float64
		lat2, lon2       float64
		wantMeters       float64
		tolerancePercent float64
	}{
		{
			name: "Singapore CBD to Changi Airport",
			lat1: 1.2830, lon1: 103.8513, // Raffles Place
			lat2: 1.3644, lon2: 103.9915, // Changi Airport
			wantMeters:       18_023,
			tolerancePercent: 1,
		},
		{
			name: "Same point",
			lat1: 1.3521, lon1: 103.8198,
			lat2: 1.3521, lon2: 103.8198,
			wantMeters:       0,
			tolerancePercent: 0,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lon1: -0.1278,
			lat2: 48.8566, lon2: 2.3522,
			wantMeters:       343_500,
			tolerancePercent: 1,
		},
		{
			name: "One degree of longitude on the equator",
			lat1: 0, lon1: 0,
			lat2: 0, lon2: 1,
			wantMeters:       111_195,
			tolerancePercent: 0.1,
		},
		{
			name: "Across the antimeridian",
			lat1: 0, lon1: 179.5,
			lat2: 0, lon2: -179.5,
			wantMeters:       111_195,
			tolerancePercent: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Haversine(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if tt.wantMeters == 0 {
				if got != 0 {
					t.Errorf("expected 0, got %f", got)
				}
				return
			}
			diff := math.Abs(got-tt.wantMeters) / tt.wantMeters * 100
			if diff > tt.tolerancePercent {
				t.Errorf("Haversine = %f m, want ~%f m (diff %.2f%%)", got, tt.wantMeters, diff)
			}
		})
	}
}

func TestDistanceToRect(t *testing.T) {
	tests := []struct {
		name                           string
		lat, lon                       float64
		minLat, minLon, maxLat, maxLon float64
		want                           float64
	}{
		{
			name: "inside",
			lat:  1, lon: 1,
			minLat: 0, minLon: 0, maxLat: 2, maxLon: 2,
			want: 0,
		},
		{
			name: "due north of the box",
			lat:  3, lon: 1,
			minLat: 0, minLon: 0, maxLat: 2, maxLon: 2,
			want: Haversine(3, 1, 2, 1),
		},
		{
			name: "degenerate box equals point distance",
			lat:  10, lon: 20,
			minLat: 11, minLon: 21, maxLat: 11, maxLon: 21,
			want: Haversine(10, 20, 11, 21),
		},
		{
			name: "box across the antimeridian side",
			lat:  0, lon: 179.9,
			minLat: 0, minLon: -179.9, maxLat: 0, maxLon: -179.9,
			want: Haversine(0, 179.9, 0, -179.9),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceToRect(tt.lat, tt.lon, tt.minLat, tt.minLon, tt.maxLat, tt.maxLon)
			if math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("DistanceToRect = %f m, want %f m", got, tt.want)
			}
		})
	}
}

func TestDistanceToRectIsLowerBound(t *testing.T) {
	// Every corner of the box is at least as far as the box itself, even at
	// high latitude where degree-space distance badly misjudges proximity.
	minLat, minLon, maxLat, maxLon := 80.0, -10.0, 85.0, 170.0
	pLat, pLon := 75.0, -100.0

	box := DistanceToRect(pLat, pLon, minLat, minLon, maxLat, maxLon)
	for _, c := range [][2]float64{{minLat, minLon}, {minLat, maxLon}, {maxLat, minLon}, {maxLat, maxLon}} {
		if d := Haversine(pLat, pLon, c[0], c[1]); box > d+1e-6 {
			t.Errorf("box distance %f exceeds corner distance %f", box, d)
		}
	}
}

func TestValidCoordinate(t *testing.T) {
	tests := []struct {
		lat, lon float64
		want     bool
	}{
		{0, 0, true},
		{90, 180, true},
		{-90, -180, true},
		{90.1, 0, false},
		{0, -180.5, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}
	for _, tt := range tests {
		if got := ValidCoordinate(tt.lat, tt.lon); got != tt.want {
			t.Errorf("ValidCoordinate(%v, %v) = %v, want %v", tt.lat, tt.lon, got, tt.want)
		}
	}
}

func BenchmarkHaversine(b *testing.B) {
	for b.Loop() {
		Haversine(1.3521, 103.8198, 1.2905, 103.8520)
	}
}

func BenchmarkDistanceToRect(b *testing.B) {
	for b.Loop() {
		DistanceToRect(1.3521, 103.8198, 1.2905, 103.8520, 1.3, 103.9)
	}
}
