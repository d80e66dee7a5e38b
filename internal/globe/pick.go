package globe

import (
	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
)

// PickCoordinate converts a world-space intersection point on the globe into
// geographic coordinates. yaw is the globe's accumulated idle rotation around
// the Y axis: the point is transformed into the globe's local frame before
// applying the inverse projection, so picks stay aligned with the rendered
// surface texture regardless of how far the globe has spun.
func PickCoordinate(world geo.Vec3, yaw float64) geo.Coordinate {
	local := world.RotateY(-yaw)
	return geo.VectorToLatLon(local)
}

// SurfacePoint is the forward counterpart of PickCoordinate: the world-space
// position of a geographic coordinate on a sphere of the given radius, under
// the globe's current yaw. Both directions use the same conversion law, which
// keeps pick→render→pick round trips exact.
func SurfacePoint(coord geo.Coordinate, radius, yaw float64) geo.Vec3 {
	return geo.LatLonToVector(coord.Lat, coord.Lon, radius).RotateY(yaw)
}

// PickOnGlobe casts a ray through the given normalized device coordinates,
// intersects it with the globe sphere and returns the picked geographic
// coordinate. The boolean is false when the ray misses the globe; a miss is
// a no-op for callers, not an error.
func PickOnGlobe(cam Camera, ndcX, ndcY, aspect, radius, yaw float64) (geo.Coordinate, bool) {
	origin, dir := cam.RayThroughNDC(ndcX, ndcY, aspect)
	hit, ok := IntersectSphere(origin, dir, radius)
	if !ok {
		return geo.Coordinate{}, false
	}
	return PickCoordinate(hit, yaw), true
}
