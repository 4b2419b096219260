package geo

import "testing"

func almost(a, b, eps float64) bool {
	if a > b {
		return a-b < eps
	}
	return b-a < eps
}

func TestHaversineKm_SamePoint(t *testing.T) {
	d := HaversineKm(36.0642, 136.2206, 36.0642, 136.2206)
	if d != 0 {
		t.Fatalf("want 0, got %f", d)
	}
}

func TestHaversineKm_Symmetric(t *testing.T) {
	// 福井市 ↔ 大野市
	ab := HaversineKm(36.0642, 136.2206, 35.9789, 136.4858)
	ba := HaversineKm(35.9789, 136.4858, 36.0642, 136.2206)
	if ab != ba {
		t.Fatalf("want symmetric distance, got %f vs %f", ab, ba)
	}
}

func TestHaversineKm_FukuiToTsuruga(t *testing.T) {
	// 福井市 → 敦賀市 is roughly 48-49 km.
	d := HaversineKm(36.0642, 136.2206, 35.6444, 136.0531)
	if !almost(d, 48.9, 1.5) {
		t.Fatalf("want ~48.9 km, got %f", d)
	}
}

func TestHaversineKm_NewYork_London(t *testing.T) {
	d := HaversineKm(40.7128, -74.0060, 51.5074, -0.1278)
	if !almost(d, 5570, 20) {
		t.Fatalf("want ~5570 km, got %f", d)
	}
}

func TestValidateCoordinates(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{36.0, 136.0, true},
		{-90, -180, true},
		{90, 180, true},
		{91, 0, false},
		{-91, 0, false},
		{0, 181, false},
		{0, -181, false},
	}
	for _, c := range cases {
		if got := ValidateCoordinates(c.lat, c.lon); got != c.want {
			t.Errorf("ValidateCoordinates(%f,%f) = %v, want %v", c.lat, c.lon, got, c.want)
		}
	}
}
