// Package globe implements the interactive 3D globe: the perspective camera,
// the camera-follow animator, surface picking and marker/overlay positioning.
package globe

import (
	"math"

	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
)

// Camera is a perspective camera defined by a pose, a vertical field of view
// and near/far clip planes.
type Camera struct {
	Position geo.Vec3
	Target   geo.Vec3
	Up       geo.Vec3
	FOVDeg   float64 // vertical field of view in degrees
	Near     float64
	Far      float64
}

// NewCamera returns a camera at the default pose looking at the origin.
func NewCamera() Camera {
	return Camera{
		Position: geo.Vec3{Z: 5},
		Up:       geo.Vec3{Y: 1},
		FOVDeg:   50,
		Near:     0.1,
		Far:      100,
	}
}

// basis returns the camera's orthonormal view basis: forward toward the
// target, right, and the recomputed up axis.
func (c Camera) basis() (forward, right, up geo.Vec3) {
	forward = c.Target.Sub(c.Position).Normalized()
	if forward == (geo.Vec3{}) {
		// Degenerate pose (position == target): look down -Z
		forward = geo.Vec3{Z: -1}
	}

	right = forward.Cross(c.Up).Normalized()
	if right == (geo.Vec3{}) {
		// Forward is parallel to up; pick an arbitrary perpendicular axis
		right = forward.Cross(geo.Vec3{X: 1}).Normalized()
		if right == (geo.Vec3{}) {
			right = geo.Vec3{Z: 1}
		}
	}

	up = right.Cross(forward)
	return forward, right, up
}

// NDC is a point in normalized device coordinates. X and Y are in [-1, 1]
// inside the frustum; Z is the projected depth, in [-1, 1] between the near
// and far planes.
type NDC struct {
	X, Y, Z float64
}

// ProjectToNDC projects a world-space point through the camera. The boolean
// is false when the point is at or behind the camera plane and no meaningful
// projection exists.
func (c Camera) ProjectToNDC(p geo.Vec3, aspect float64) (NDC, bool) {
	forward, right, up := c.basis()

	d := p.Sub(c.Position)
	vz := d.Dot(forward)
	if vz <= 1e-9 {
		return NDC{}, false
	}
	vx := d.Dot(right)
	vy := d.Dot(up)

	tanHalf := math.Tan(degToRad(c.FOVDeg) / 2)
	ndc := NDC{
		X: vx / (vz * tanHalf * aspect),
		Y: vy / (vz * tanHalf),
		Z: (c.Far+c.Near)/(c.Far-c.Near) - (2*c.Far*c.Near)/((c.Far-c.Near)*vz),
	}
	return ndc, true
}

// RayThroughNDC returns the world-space ray (origin, unit direction) passing
// through the given normalized device coordinates. Inverse of ProjectToNDC
// for X and Y.
func (c Camera) RayThroughNDC(ndcX, ndcY, aspect float64) (origin, dir geo.Vec3) {
	forward, right, up := c.basis()

	tanHalf := math.Tan(degToRad(c.FOVDeg) / 2)
	dir = forward.
		Add(right.Scale(ndcX * tanHalf * aspect)).
		Add(up.Scale(ndcY * tanHalf)).
		Normalized()
	return c.Position, dir
}

// IntersectSphere returns the nearest intersection of a ray with a sphere
// centered at the origin, or false when the ray misses or the sphere is
// entirely behind the origin of the ray.
func IntersectSphere(origin, dir geo.Vec3, radius float64) (geo.Vec3, bool) {
	// |origin + t·dir|² = radius², solve for smallest positive t
	b := origin.Dot(dir)
	cc := origin.Dot(origin) - radius*radius
	disc := b*b - cc
	if disc < 0 {
		return geo.Vec3{}, false
	}

	sq := math.Sqrt(disc)
	t := -b - sq
	if t < 0 {
		t = -b + sq
	}
	if t < 0 {
		return geo.Vec3{}, false
	}

	return origin.Add(dir.Scale(t)), true
}

// Distance returns the distance between the camera position and its target.
func (c Camera) Distance() float64 {
	return c.Position.Sub(c.Target).Norm()
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}
