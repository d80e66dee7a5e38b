package globe

import (
	"math"
	"testing"

	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
)

type fakeViewport struct {
	width, height int
}

func (v fakeViewport) Bounds() (int, int)  { return v.width, v.height }
func (v fakeViewport) CellAspect() float64 { return 0.5 }

func viewport80x24() fakeViewport { return fakeViewport{width: 80, height: 24} }

func TestMarkerScreenPosition_FrontCenter(t *testing.T) {
	cam := NewCamera()
	vp := viewport80x24()

	// The surface point facing the default camera is the equator at lon -90;
	// it projects to the middle of the canvas.
	m := Marker{Coord: geo.Coordinate{Lat: 0, Lon: -90}}
	pos := m.ScreenPosition(cam, vp, 2, 0)

	if !pos.Visible {
		t.Fatal("front-center marker not visible")
	}
	if pos.X != 40 || pos.Y != 12 {
		t.Errorf("marker at (%d, %d), want canvas center (40, 12)", pos.X, pos.Y)
	}
}

func TestMarkerScreenPosition_FarHemisphereHidden(t *testing.T) {
	cam := NewCamera()
	vp := viewport80x24()

	// The antipodal surface point faces away from the camera. It would project
	// inside the frustum, so only the hemisphere test can hide it.
	m := Marker{Coord: geo.Coordinate{Lat: 0, Lon: 90}}
	pos := m.ScreenPosition(cam, vp, 2, 0)

	if pos.Visible {
		t.Error("far-hemisphere marker reported visible")
	}
}

func TestMarkerScreenPosition_RotatesIntoView(t *testing.T) {
	cam := NewCamera()
	vp := viewport80x24()
	m := Marker{Coord: geo.Coordinate{Lat: 0, Lon: 90}}

	// Hidden at yaw 0, visible again after half a turn of idle rotation. No
	// new selection needed.
	if m.ScreenPosition(cam, vp, 2, 0).Visible {
		t.Fatal("marker visible before rotation")
	}
	pos := m.ScreenPosition(cam, vp, 2, math.Pi)
	if !pos.Visible {
		t.Fatal("marker still hidden after rotating to face the camera")
	}
	if pos.X != 40 || pos.Y != 12 {
		t.Errorf("rotated marker at (%d, %d), want canvas center (40, 12)", pos.X, pos.Y)
	}
}

func TestMarkerScreenPosition_HighLatitudeOffsets(t *testing.T) {
	cam := NewCamera()
	vp := viewport80x24()

	north := Marker{Coord: geo.Coordinate{Lat: 60, Lon: -90}}
	south := Marker{Coord: geo.Coordinate{Lat: -60, Lon: -90}}

	npos := north.ScreenPosition(cam, vp, 2, 0)
	spos := south.ScreenPosition(cam, vp, 2, 0)
	if !npos.Visible || !spos.Visible {
		t.Fatal("mid-latitude markers not visible")
	}
	if npos.Y >= 12 {
		t.Errorf("northern marker at row %d, want above center", npos.Y)
	}
	if spos.Y <= 12 {
		t.Errorf("southern marker at row %d, want below center", spos.Y)
	}
	// Nearest-cell rounding keeps mirrored latitudes mirrored on screen;
	// truncation would pull both toward the top.
	if npos.Y+spos.Y != 24 {
		t.Errorf("rows %d and %d not symmetric about the center", npos.Y, spos.Y)
	}
}

func TestMarkerScreenPosition_EmptyViewport(t *testing.T) {
	cam := NewCamera()
	m := Marker{Coord: geo.Coordinate{Lat: 0, Lon: -90}}

	if m.ScreenPosition(cam, fakeViewport{}, 2, 0).Visible {
		t.Error("marker visible on a zero-size viewport")
	}
}

func TestOverlaySync_AutoShowWaitsForBoth(t *testing.T) {
	var o Overlay

	// Neither input ready.
	if o.Sync(false, false) {
		t.Error("popup shown with no weather and no position")
	}
	// Weather arrives before the marker is positionable.
	if o.Sync(true, false) {
		t.Error("popup shown before the marker had a screen position")
	}
	if o.State() != PopupNotShown {
		t.Fatalf("state = %v, want not-shown while waiting", o.State())
	}
	// Both ready: auto-show fires once.
	if !o.Sync(true, true) {
		t.Error("popup did not auto-show once weather and position were ready")
	}
	if o.State() != PopupAutoShown {
		t.Errorf("state = %v, want auto-shown", o.State())
	}
}

func TestOverlaySync_FollowsPositionability(t *testing.T) {
	var o Overlay
	o.Sync(true, true)

	// Marker rotates to the far hemisphere: popup hides but the lifecycle
	// state is untouched, so it re-shows when the marker returns.
	if o.Sync(true, false) {
		t.Error("popup visible while marker unpositionable")
	}
	if o.State() != PopupAutoShown {
		t.Errorf("state = %v, want auto-shown preserved while hidden", o.State())
	}
	if !o.Sync(true, true) {
		t.Error("popup did not re-show when the marker returned")
	}
}

func TestOverlaySync_ManualCloseSticks(t *testing.T) {
	var o Overlay
	o.Sync(true, true)
	o.Close()

	for i := 0; i < 3; i++ {
		if o.Sync(true, true) {
			t.Fatal("popup re-opened after a manual close")
		}
	}

	// Reopen (marker click) brings it back without waiting for auto-show.
	o.Reopen()
	if !o.Sync(true, true) {
		t.Error("popup hidden after explicit reopen")
	}
}

func TestOverlayReset_NewSelectionRearms(t *testing.T) {
	var o Overlay
	o.Sync(true, true)
	o.Close()

	o.Reset()
	if o.State() != PopupNotShown {
		t.Fatalf("state after reset = %v, want not-shown", o.State())
	}
	if !o.Sync(true, true) {
		t.Error("popup did not auto-show for a fresh selection")
	}
}
