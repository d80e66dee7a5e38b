package geo

import (
	"fmt"
	"math"
)

// Coordinate represents a geographic position in degrees.
type Coordinate struct {
	Lat float64 // Latitude in degrees (-90 to +90, north positive)
	Lon float64 // Longitude in degrees (-180 to +180, east positive)
}

// String formats the coordinate with hemisphere suffixes, e.g.
// "41.9028°N, 12.4964°E".
func (c Coordinate) String() string {
	ns := "N"
	if c.Lat < 0 {
		ns = "S"
	}
	ew := "E"
	if c.Lon < 0 {
		ew = "W"
	}
	return fmt.Sprintf("%.4f°%s, %.4f°%s", math.Abs(c.Lat), ns, math.Abs(c.Lon), ew)
}

// LatLonToVector maps geographic coordinates to a point on a sphere of the
// given radius. The convention matches a standard equirectangular Earth
// texture wrapped on a sphere: longitude 0 faces the texture seam, latitude
// ±90 maps to the poles along the Y axis.
//
//	phi   = radians(lon + 180)
//	theta = radians(90 - lat)
//	x = -r·cos(phi)·sin(theta)
//	y =  r·cos(theta)
//	z =  r·sin(phi)·sin(theta)
func LatLonToVector(lat, lon, radius float64) Vec3 {
	phi := degToRad(lon + 180)
	theta := degToRad(90 - lat)

	sinTheta := math.Sin(theta)
	return Vec3{
		X: -radius * math.Cos(phi) * sinTheta,
		Y: radius * math.Cos(theta),
		Z: radius * math.Sin(phi) * sinTheta,
	}
}

// VectorToLatLon is the exact inverse of LatLonToVector. A zero-length vector
// returns (0, 0) as a documented fallback rather than an error. Longitude is
// normalized into [-180, 180).
func VectorToLatLon(v Vec3) Coordinate {
	r := v.Norm()
	if r == 0 {
		return Coordinate{}
	}

	cosTheta := v.Y / r
	// Clamp to [-1, 1] to handle floating point errors
	if cosTheta > 1 {
		cosTheta = 1
	} else if cosTheta < -1 {
		cosTheta = -1
	}
	lat := 90 - radToDeg(math.Acos(cosTheta))

	phi := math.Atan2(v.Z, -v.X)
	lon := NormalizeLon(radToDeg(phi) - 180)

	return Coordinate{Lat: lat, Lon: lon}
}

// NormalizeLon wraps a longitude into the [-180, 180) range.
func NormalizeLon(lon float64) float64 {
	lon = math.Mod(lon+180, 360)
	if lon < 0 {
		lon += 360
	}
	return lon - 180
}

// Antipode returns the point diametrically opposite the given coordinate.
func Antipode(c Coordinate) Coordinate {
	return Coordinate{
		Lat: -c.Lat,
		Lon: NormalizeLon(c.Lon + 180),
	}
}
