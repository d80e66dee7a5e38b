package globe

import (
	"math"

	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
)

// Viewport abstracts the drawing surface the overlay is positioned on. The
// UI backs it with the live canvas size; tests back it with a fixed fake so
// positioning logic runs without a display.
type Viewport interface {
	// Bounds returns the canvas size in cells.
	Bounds() (width, height int)
	// CellAspect returns the width/height ratio of a single cell. Terminal
	// cells are roughly half as wide as they are tall.
	CellAspect() float64
}

// ScreenPosition is a projected overlay anchor in canvas cell coordinates.
// Visible is false when the anchor cannot be meaningfully positioned: the
// point is outside the depth range, behind the camera, or on the far
// hemisphere of the globe.
type ScreenPosition struct {
	X, Y    int
	Visible bool
}

// Marker is the surface marker for the selected location. Its world position
// depends on the globe's current yaw and is recomputed every frame rather
// than stored.
type Marker struct {
	Coord geo.Coordinate
}

// WorldPosition returns the marker's world-space position on a sphere of the
// given radius at the globe's current yaw.
func (m Marker) WorldPosition(radius, yaw float64) geo.Vec3 {
	return SurfacePoint(m.Coord, radius, yaw)
}

// Normal returns the marker's outward surface normal in world space. The
// marker is oriented by this normal alone (a minimal rotation from the
// canonical axis), avoiding the roll ambiguity of a full look-at.
func (m Marker) Normal(yaw float64) geo.Vec3 {
	return SurfacePoint(m.Coord, 1, yaw)
}

// ScreenPosition projects the marker through the camera onto the viewport.
// The overlay hides when the projected depth leaves [-1, 1] or the surface
// point faces away from the camera; bringing it back into view by rotating
// the camera shows it again without a new selection.
func (m Marker) ScreenPosition(cam Camera, vp Viewport, radius, yaw float64) ScreenPosition {
	width, height := vp.Bounds()
	if width <= 0 || height <= 0 {
		return ScreenPosition{}
	}
	aspect := float64(width) * vp.CellAspect() / float64(height)

	world := m.WorldPosition(radius, yaw)

	// Back-hemisphere test: the surface normal must face the camera.
	if m.Normal(yaw).Dot(cam.Position.Sub(world)) <= 0 {
		return ScreenPosition{}
	}

	ndc, ok := cam.ProjectToNDC(world, aspect)
	if !ok || ndc.Z < -1 || ndc.Z > 1 {
		return ScreenPosition{}
	}

	// Round to the nearest cell: truncation would bias placement toward the
	// top-left under floating-point epsilon at cell boundaries.
	x := int(math.Round((ndc.X + 1) / 2 * float64(width)))
	y := int(math.Round((1 - ndc.Y) / 2 * float64(height)))
	return ScreenPosition{X: x, Y: y, Visible: true}
}

// PopupState tracks the weather popup lifecycle for one selection.
type PopupState int

const (
	// PopupNotShown means the popup has not been displayed yet; it auto-opens
	// once weather data and a screen position are both available.
	PopupNotShown PopupState = iota
	// PopupAutoShown means the popup opened automatically and follows the
	// marker while it stays positionable.
	PopupAutoShown
	// PopupManuallyClosed means the user dismissed the popup; it stays closed
	// until the selected coordinate changes or the marker is clicked.
	PopupManuallyClosed
)

// Overlay decides popup visibility from the popup lifecycle state and the
// per-frame inputs (weather readiness, marker positionability).
type Overlay struct {
	state PopupState
}

// Reset returns the overlay to PopupNotShown. Called whenever the selected
// coordinate changes.
func (o *Overlay) Reset() {
	o.state = PopupNotShown
}

// Close records an explicit user dismissal for the current selection.
func (o *Overlay) Close() {
	o.state = PopupManuallyClosed
}

// Reopen shows the popup again after a manual close, e.g. when the user
// clicks the marker.
func (o *Overlay) Reopen() {
	o.state = PopupAutoShown
}

// State returns the current popup lifecycle state.
func (o *Overlay) State() PopupState {
	return o.state
}

// Sync advances the lifecycle for one frame and reports whether the popup
// should be visible. hasWeather is true once the weather fetch for the
// current selection resolved; positioned is true when the marker has a
// visible screen position this frame.
func (o *Overlay) Sync(hasWeather, positioned bool) bool {
	switch o.state {
	case PopupNotShown:
		if hasWeather && positioned {
			o.state = PopupAutoShown
			return true
		}
		return false
	case PopupAutoShown:
		return hasWeather && positioned
	case PopupManuallyClosed:
		return false
	default:
		return false
	}
}
