package geo

import (
	"math"
	"math/rand"
	"testing"
)

const degTol = 1e-6

func TestLatLonToVector_KnownPoints(t *testing.T) {
	tests := []struct {
		name     string
		lat, lon float64
		radius   float64
		want     Vec3
		tol      float64
	}{
		{
			name:   "north pole",
			lat:    90,
			lon:    0,
			radius: 2,
			want:   Vec3{X: 0, Y: 2, Z: 0},
			tol:    1e-12,
		},
		{
			name:   "south pole",
			lat:    -90,
			lon:    0,
			radius: 2,
			want:   Vec3{X: 0, Y: -2, Z: 0},
			tol:    1e-12,
		},
		{
			name:   "equator at prime meridian",
			lat:    0,
			lon:    0,
			radius: 2,
			want:   Vec3{X: 2, Y: 0, Z: 0},
			tol:    1e-12,
		},
		{
			name:   "equator at antimeridian",
			lat:    0,
			lon:    180,
			radius: 2,
			want:   Vec3{X: -2, Y: 0, Z: 0},
			tol:    1e-12,
		},
		{
			name:   "equator at 90 east",
			lat:    0,
			lon:    90,
			radius: 1,
			want:   Vec3{X: 0, Y: 0, Z: -1},
			tol:    1e-12,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LatLonToVector(tt.lat, tt.lon, tt.radius)
			if math.Abs(got.X-tt.want.X) > tt.tol ||
				math.Abs(got.Y-tt.want.Y) > tt.tol ||
				math.Abs(got.Z-tt.want.Z) > tt.tol {
				t.Errorf("LatLonToVector(%v, %v, %v) = %+v, want %+v",
					tt.lat, tt.lon, tt.radius, got, tt.want)
			}
		})
	}
}

func TestLatLonToVector_Poles_IgnoreLongitude(t *testing.T) {
	// The poles are singular in longitude: any longitude must land on the
	// same point on the Y axis.
	for lon := -180.0; lon < 180; lon += 45 {
		north := LatLonToVector(90, lon, 2)
		if math.Abs(north.X) > 1e-12 || math.Abs(north.Y-2) > 1e-12 || math.Abs(north.Z) > 1e-12 {
			t.Errorf("north pole at lon=%v: got %+v, want (0, 2, 0)", lon, north)
		}

		south := LatLonToVector(-90, lon, 2)
		if math.Abs(south.X) > 1e-12 || math.Abs(south.Y+2) > 1e-12 || math.Abs(south.Z) > 1e-12 {
			t.Errorf("south pole at lon=%v: got %+v, want (0, -2, 0)", lon, south)
		}
	}
}

func TestVectorToLatLon_ZeroVector(t *testing.T) {
	got := VectorToLatLon(Vec3{})
	if got.Lat != 0 || got.Lon != 0 {
		t.Errorf("zero vector: got %+v, want (0, 0)", got)
	}
}

func TestRoundTrip_RandomCoordinates(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 1000; i++ {
		lat := rng.Float64()*178 - 89 // [-89, 89]
		lon := rng.Float64()*360 - 180
		radius := 0.5 + rng.Float64()*9.5

		got := VectorToLatLon(LatLonToVector(lat, lon, radius))

		if math.Abs(got.Lat-lat) > degTol {
			t.Fatalf("round-trip lat mismatch for (%v, %v): got %v", lat, lon, got.Lat)
		}
		dLon := math.Abs(NormalizeLon(got.Lon - lon))
		if dLon > degTol {
			t.Fatalf("round-trip lon mismatch for (%v, %v): got %v", lat, lon, got.Lon)
		}
	}
}

func TestRoundTrip_OnSphereSurface(t *testing.T) {
	// The magnitude of the projected vector must equal the requested radius.
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 100; i++ {
		lat := rng.Float64()*180 - 90
		lon := rng.Float64()*360 - 180
		v := LatLonToVector(lat, lon, 2)
		if math.Abs(v.Norm()-2) > 1e-12 {
			t.Fatalf("projected point off sphere surface: |v|=%v for (%v, %v)", v.Norm(), lat, lon)
		}
	}
}

func TestNormalizeLon(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{180, -180},
		{-180, -180},
		{190, -170},
		{-190, 170},
		{360, 0},
		{540, -180},
		{-540, -180},
		{12.4964 + 180, -167.5036},
	}

	for _, tt := range tests {
		if got := NormalizeLon(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("NormalizeLon(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAntipode(t *testing.T) {
	rome := Coordinate{Lat: 41.9028, Lon: 12.4964}
	got := Antipode(rome)
	if math.Abs(got.Lat+41.9028) > 1e-9 || math.Abs(got.Lon+167.5036) > 1e-9 {
		t.Errorf("Antipode(Rome) = %+v, want (-41.9028, -167.5036)", got)
	}

	// Antipode is an involution.
	back := Antipode(got)
	if math.Abs(back.Lat-rome.Lat) > 1e-9 || math.Abs(NormalizeLon(back.Lon-rome.Lon)) > 1e-9 {
		t.Errorf("Antipode(Antipode(Rome)) = %+v, want %+v", back, rome)
	}
}
