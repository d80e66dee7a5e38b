package globe

import (
	"testing"

	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
)

func TestWorldMaskShape(t *testing.T) {
	if len(worldMask) != 24 {
		t.Fatalf("mask has %d rows, want 24", len(worldMask))
	}
	for i, row := range worldMask {
		if len(row) != 72 {
			t.Errorf("row %d has %d columns, want 72", i, len(row))
		}
	}
}

func TestIsLand(t *testing.T) {
	tests := []struct {
		name  string
		coord geo.Coordinate
		want  bool
	}{
		{"Rome", geo.Coordinate{Lat: 41.9028, Lon: 12.4964}, true},
		{"London", geo.Coordinate{Lat: 51.5074, Lon: -0.1278}, true},
		{"New York", geo.Coordinate{Lat: 40.7128, Lon: -74.006}, true},
		{"Tokyo", geo.Coordinate{Lat: 35.6762, Lon: 139.6503}, true},
		{"Sydney", geo.Coordinate{Lat: -33.8688, Lon: 151.2093}, true},
		{"mid-Atlantic", geo.Coordinate{Lat: 0, Lon: -30}, false},
		{"mid-Pacific", geo.Coordinate{Lat: 0, Lon: -150}, false},
	}

	for _, tt := range tests {
		if got := IsLand(tt.coord); got != tt.want {
			t.Errorf("%s: IsLand = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsLand_ExtremesStayInBounds(t *testing.T) {
	// Poles, the date line and wrapped longitudes must all index the mask
	// without panicking.
	coords := []geo.Coordinate{
		{Lat: 90, Lon: 0},
		{Lat: -90, Lon: 0},
		{Lat: 0, Lon: 180},
		{Lat: 0, Lon: -180},
		{Lat: 0, Lon: 540},
		{Lat: 0, Lon: -540},
	}
	for _, c := range coords {
		IsLand(c)
	}

	// A wrapped longitude agrees with its normalized form.
	if IsLand(geo.Coordinate{Lat: 41.9, Lon: 12.5 + 360}) != IsLand(geo.Coordinate{Lat: 41.9, Lon: 12.5}) {
		t.Error("wrapped longitude disagrees with normalized longitude")
	}
}
