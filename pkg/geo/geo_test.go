package geo

import (
	"math"
	"testing"
)

func TestCentroid(t *testing.T) {
	points := []Point{
		{Lat: 35.70, Lng: 51.40},
		{Lat: 35.80, Lng: 51.50},
		{Lat: 35.60, Lng: 51.30},
	}

	c, ok := Centroid(points)
	if !ok {
		t.Fatal("Centroid() ok = false, want true")
	}

	if math.Abs(c.Lat-35.70) > 1e-9 {
		t.Errorf("Centroid lat = %f, want 35.70", c.Lat)
	}
	if math.Abs(c.Lng-51.40) > 1e-9 {
		t.Errorf("Centroid lng = %f, want 51.40", c.Lng)
	}
}

func TestCentroid_Empty(t *testing.T) {
	if _, ok := Centroid(nil); ok {
		t.Error("Centroid(nil) ok = true, want false")
	}
}

func TestCentroid_SinglePoint(t *testing.T) {
	c, ok := Centroid([]Point{{Lat: 10, Lng: 20}})
	if !ok || c.Lat != 10 || c.Lng != 20 {
		t.Errorf("Centroid single point = %+v ok=%v, want {10 20} true", c, ok)
	}
}

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Point
		wantKm  float64
		within  float64
	}{
		{
			name:   "Same point",
			a:      Point{Lat: 35.7, Lng: 51.4},
			b:      Point{Lat: 35.7, Lng: 51.4},
			wantKm: 0,
			within: 1e-9,
		},
		{
			name:   "Tehran to Karaj",
			a:      Point{Lat: 35.6892, Lng: 51.3890},
			b:      Point{Lat: 35.8400, Lng: 50.9391},
			wantKm: 44,
			within: 3,
		},
		{
			name:   "One degree of latitude",
			a:      Point{Lat: 0, Lng: 0},
			b:      Point{Lat: 1, Lng: 0},
			wantKm: 111.2,
			within: 0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.within {
				t.Errorf("HaversineKm() = %f, want %f ± %f", got, tt.wantKm, tt.within)
			}
		})
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	a := Point{Lat: 35.7, Lng: 51.4}
	b := Point{Lat: 36.2, Lng: 50.0}

	if d1, d2 := HaversineKm(a, b), HaversineKm(b, a); math.Abs(d1-d2) > 1e-9 {
		t.Errorf("HaversineKm not symmetric: %f vs %f", d1, d2)
	}
}
