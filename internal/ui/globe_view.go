package ui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Alessio-Matteucci/Terremeteo/internal/config"
	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
	"github.com/Alessio-Matteucci/Terremeteo/internal/globe"
	"github.com/Alessio-Matteucci/Terremeteo/internal/recent"
	"github.com/Alessio-Matteucci/Terremeteo/internal/selection"
	"github.com/Alessio-Matteucci/Terremeteo/internal/weather"
)

const (
	globeRadius = 2.0

	// cellAspect is the width/height ratio of one terminal cell.
	cellAspect = 0.5

	// idleYawRate is the idle spin of the globe in radians per second.
	idleYawRate = 0.03

	// Zoom limits, measured as camera distance from the globe center.
	minZoom = 1.5
	maxZoom = 8.0

	orbitYawSens   = 0.02 // radians per cell dragged horizontally
	orbitPitchSens = 0.04 // radians per cell dragged vertically
	zoomStep       = 0.3

	doubleClickWindow = 400 * time.Millisecond

	// panelHeight is the bottom area for the city/recents panels; hidden on
	// short terminals.
	panelHeight = 11

	markerGlyph = '◉'
)

// Cell colors for the rendered globe.
var (
	landColors  = []lipgloss.Color{"22", "28", "71"} // dim to bright green
	seaColors   = []lipgloss.Color{"17", "24", "31"} // dim to bright blue
	starColor   = lipgloss.Color("240")
	limbColor   = lipgloss.Color("60")
	markerColor = lipgloss.Color("203")

	popupBorderColor = lipgloss.Color("60")
	popupTextColor   = lipgloss.Color("252")
)

// GlobeViewModel renders the interactive globe: per-cell ray casting against
// the sphere, camera animation, the selection marker and the weather popup.
type GlobeViewModel struct {
	cfg    *config.Config
	width  int
	height int // full content height; canvas is height minus the panels

	animator *globe.Animator
	cam      globe.Camera
	yaw      float64

	lastFrame time.Time

	overlay      globe.Overlay
	markerPos    globe.ScreenPosition
	popupVisible bool

	// Mouse state
	dragging   bool
	dragX      int
	dragY      int
	lastClick  time.Time
	lastClickX int
	lastClickY int
}

// NewGlobeViewModel creates the globe view with the camera at the default
// pose.
func NewGlobeViewModel(cfg *config.Config) GlobeViewModel {
	acfg := globe.DefaultAnimatorConfig()
	acfg.FollowDistance = cfg.Globe.FollowDistance
	acfg.MinDistance = cfg.Globe.MinDistance
	acfg.MaxDistance = cfg.Globe.MaxDistance
	acfg.FollowRate = cfg.Globe.FollowRate
	acfg.ResetRate = cfg.Globe.ResetRate

	return GlobeViewModel{
		cfg:      cfg,
		animator: globe.NewAnimator(acfg),
		cam:      globe.NewCamera(),
	}
}

// SetSize updates the content area size.
func (g GlobeViewModel) SetSize(width, height int) GlobeViewModel {
	g.width = width
	g.height = height
	return g
}

// canvasSize returns the globe canvas dimensions, leaving room for the
// bottom panels when the terminal is tall enough.
func (g GlobeViewModel) canvasSize() (int, int) {
	h := g.height
	if g.panelsVisible() {
		h -= panelHeight
	}
	if h < 1 {
		h = 1
	}
	return g.width, h
}

func (g GlobeViewModel) panelsVisible() bool {
	return g.height >= 2*panelHeight
}

// Bounds implements globe.Viewport.
func (g GlobeViewModel) Bounds() (int, int) {
	return g.canvasSize()
}

// CellAspect implements globe.Viewport.
func (g GlobeViewModel) CellAspect() float64 {
	return cellAspect
}

func (g GlobeViewModel) aspect() float64 {
	w, h := g.canvasSize()
	if h == 0 {
		return 1
	}
	return float64(w) * cellAspect / float64(h)
}

// Tick advances the globe by one frame: idle spin, camera interpolation,
// marker projection and popup lifecycle.
func (g GlobeViewModel) Tick(now time.Time, snap selection.Snapshot) GlobeViewModel {
	var dt time.Duration
	if !g.lastFrame.IsZero() {
		dt = now.Sub(g.lastFrame)
	}
	g.lastFrame = now
	if dt < 0 || dt > 250*time.Millisecond {
		dt = frameInterval
	}

	// The globe spins only while nothing is selected and the user is not
	// interacting.
	if !snap.Selected && g.animator.Mode() == globe.ModeIdle && !g.dragging {
		g.yaw = math.Mod(g.yaw+idleYawRate*dt.Seconds(), 2*math.Pi)
	}

	g.animator.Tick(dt)
	pose := g.animator.Pose()
	g.cam.Position = pose.Position
	g.cam.Target = pose.Target

	if snap.Selected {
		marker := globe.Marker{Coord: snap.Location.Coord}
		g.markerPos = marker.ScreenPosition(g.cam, g, globeRadius, g.yaw)
		g.popupVisible = g.overlay.Sync(snap.Weather != nil, g.markerPos.Visible)
	} else {
		g.markerPos = globe.ScreenPosition{}
		g.popupVisible = false
	}

	return g
}

// FollowSelection points the camera at the surface point for coord, taking
// the globe's current yaw into account, and re-arms the popup.
func (g GlobeViewModel) FollowSelection(coord geo.Coordinate) GlobeViewModel {
	surface := globe.SurfacePoint(coord, globeRadius, g.yaw)
	g.animator.FollowPoint(surface, g.cfg.Globe.FollowDistance)
	g.overlay.Reset()
	g.popupVisible = false
	return g
}

// ResetView flies the camera back to the default pose.
func (g GlobeViewModel) ResetView() GlobeViewModel {
	g.animator.RequestReset()
	g.overlay.Reset()
	g.popupVisible = false
	return g
}

// PopupVisible reports whether the weather popup is currently shown.
func (g GlobeViewModel) PopupVisible() bool {
	return g.popupVisible
}

// ClosePopup dismisses the popup until the selection changes or the marker
// is clicked.
func (g GlobeViewModel) ClosePopup() GlobeViewModel {
	g.overlay.Close()
	g.popupVisible = false
	return g
}

// HandleMouse processes a mouse event in canvas coordinates. It returns a
// non-nil coordinate when a double-click picked a point on the globe.
func (g GlobeViewModel) HandleMouse(msg tea.MouseMsg, localY int) (*geo.Coordinate, GlobeViewModel) {
	w, h := g.canvasSize()

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return nil, g.zoom(-zoomStep)
		case tea.MouseButtonWheelDown:
			return nil, g.zoom(zoomStep)
		case tea.MouseButtonLeft:
			if localY < 0 || localY >= h || msg.X < 0 || msg.X >= w {
				return nil, g
			}

			isDouble := time.Since(g.lastClick) < doubleClickWindow &&
				abs(msg.X-g.lastClickX) <= 1 && abs(localY-g.lastClickY) <= 1
			g.lastClick = time.Now()
			g.lastClickX = msg.X
			g.lastClickY = localY

			g.dragging = true
			g.dragX = msg.X
			g.dragY = localY

			// A single click on the marker reopens a manually closed popup.
			if !isDouble && g.markerPos.Visible &&
				abs(msg.X-g.markerPos.X) <= 1 && abs(localY-g.markerPos.Y) <= 1 {
				g.overlay.Reopen()
				return nil, g
			}

			if isDouble {
				ndcX := (float64(msg.X)+0.5)/float64(w)*2 - 1
				ndcY := 1 - (float64(localY)+0.5)/float64(h)*2
				if coord, ok := globe.PickOnGlobe(g.cam, ndcX, ndcY, g.aspect(), globeRadius, g.yaw); ok {
					g.dragging = false
					return &coord, g
				}
			}
		}

	case tea.MouseActionMotion:
		if g.dragging {
			dx := msg.X - g.dragX
			dy := localY - g.dragY
			g.dragX = msg.X
			g.dragY = localY
			if dx != 0 || dy != 0 {
				g = g.orbit(dx, dy)
			}
		}

	case tea.MouseActionRelease:
		g.dragging = false
	}

	return nil, g
}

// orbit rotates the camera around the globe center by a drag delta. Manual
// navigation cancels any running follow animation; the camera is allowed to
// drift until the next selection or reset.
func (g GlobeViewModel) orbit(dx, dy int) GlobeViewModel {
	g.animator.StopAnimating()

	pose := g.animator.Pose()
	offset := pose.Position.Sub(pose.Target)
	r := offset.Norm()
	if r == 0 {
		return g
	}

	theta := math.Acos(clamp(offset.Y/r, -1, 1))
	phi := math.Atan2(offset.Z, offset.X)

	phi -= float64(dx) * orbitYawSens
	theta = clamp(theta-float64(dy)*orbitPitchSens, 0.15, math.Pi-0.15)

	sinTheta := math.Sin(theta)
	pose.Position = pose.Target.Add(geo.Vec3{
		X: r * sinTheta * math.Cos(phi),
		Y: r * math.Cos(theta),
		Z: r * sinTheta * math.Sin(phi),
	})
	g.animator.SetPose(pose)
	return g
}

// zoom moves the camera along the view axis, clamped to the zoom limits.
func (g GlobeViewModel) zoom(delta float64) GlobeViewModel {
	g.animator.StopAnimating()

	pose := g.animator.Pose()
	offset := pose.Position.Sub(pose.Target)
	dir := offset.Normalized()
	if dir == (geo.Vec3{}) {
		return g
	}

	r := clamp(offset.Norm()+delta, minZoom, maxZoom)
	pose.Position = pose.Target.Add(dir.Scale(r))
	g.animator.SetPose(pose)
	return g
}

// View renders the globe canvas with the marker, popup and bottom panels.
func (g GlobeViewModel) View(snap selection.Snapshot, recents []recent.Entry) string {
	w, h := g.canvasSize()
	if w < 20 || h < 5 {
		return "Terminal too small for the globe view"
	}

	canvas := make([][]rune, h)
	colors := make([][]lipgloss.Color, h)
	for y := 0; y < h; y++ {
		canvas[y] = make([]rune, w)
		colors[y] = make([]lipgloss.Color, w)
		for x := 0; x < w; x++ {
			canvas[y][x] = ' '
		}
	}

	g.renderGlobe(canvas, colors, w, h)

	if snap.Selected && g.markerPos.Visible {
		g.drawMarker(canvas, colors, w, h)
		if g.popupVisible {
			g.drawPopup(canvas, colors, w, h, snap)
		}
	}

	var b strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r := canvas[y][x]
			if r == ' ' {
				b.WriteRune(' ')
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(colors[y][x]).Render(string(r)))
		}
		b.WriteString("\n")
	}

	out := strings.TrimSuffix(b.String(), "\n")
	if g.panelsVisible() {
		out += "\n" + g.renderPanels(recents)
	}
	return out
}

// renderGlobe ray-casts every canvas cell against the sphere and shades land
// and sea by how directly the surface faces the camera.
func (g GlobeViewModel) renderGlobe(canvas [][]rune, colors [][]lipgloss.Color, w, h int) {
	aspect := g.aspect()
	toCamBase := g.cam.Position

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ndcX := (float64(x)+0.5)/float64(w)*2 - 1
			ndcY := 1 - (float64(y)+0.5)/float64(h)*2

			origin, dir := g.cam.RayThroughNDC(ndcX, ndcY, aspect)
			hit, ok := globe.IntersectSphere(origin, dir, globeRadius)
			if !ok {
				// Sparse starfield background.
				if (x*7+y*13)%47 == 0 {
					canvas[y][x] = '·'
					colors[y][x] = starColor
				}
				continue
			}

			normal := hit.Normalized()
			facing := normal.Dot(toCamBase.Sub(hit).Normalized())
			coord := globe.PickCoordinate(hit, g.yaw)

			if globe.IsLand(coord) {
				canvas[y][x] = landGlyph(facing)
				colors[y][x] = shade(landColors, facing)
			} else {
				canvas[y][x] = seaGlyph(facing)
				colors[y][x] = shade(seaColors, facing)
			}
			if facing < 0.15 {
				// Soften the limb so the disc has a clean edge.
				canvas[y][x] = '·'
				colors[y][x] = limbColor
			}
		}
	}
}

func landGlyph(facing float64) rune {
	switch {
	case facing > 0.7:
		return '▓'
	case facing > 0.4:
		return '▒'
	default:
		return '░'
	}
}

func seaGlyph(facing float64) rune {
	if facing > 0.5 {
		return '~'
	}
	return '·'
}

func shade(ramp []lipgloss.Color, facing float64) lipgloss.Color {
	switch {
	case facing > 0.7:
		return ramp[2]
	case facing > 0.4:
		return ramp[1]
	default:
		return ramp[0]
	}
}

func (g GlobeViewModel) drawMarker(canvas [][]rune, colors [][]lipgloss.Color, w, h int) {
	x, y := g.markerPos.X, g.markerPos.Y
	if x >= 0 && x < w && y >= 0 && y < h {
		canvas[y][x] = markerGlyph
		colors[y][x] = markerColor
	}
}

// drawPopup composites the weather popup into the canvas next to the marker,
// flipping to the left side when it would run off the right edge.
func (g GlobeViewModel) drawPopup(canvas [][]rune, colors [][]lipgloss.Color, w, h int, snap selection.Snapshot) {
	lines := popupLines(snap)
	if len(lines) == 0 {
		return
	}

	// Widths are display cells, not runes: place names can carry wide glyphs.
	boxW := 0
	for _, l := range lines {
		if w := runewidth.StringWidth(l); w > boxW {
			boxW = w
		}
	}
	boxW += 4 // borders and padding
	boxH := len(lines) + 2

	x0 := g.markerPos.X + 2
	if x0+boxW > w {
		x0 = g.markerPos.X - 1 - boxW
	}
	y0 := g.markerPos.Y - boxH/2
	y0 = clampInt(y0, 0, h-boxH)
	x0 = clampInt(x0, 0, w-boxW)
	if w < boxW || h < boxH {
		return
	}

	put := func(x, y int, r rune, c lipgloss.Color) {
		if x >= 0 && x < w && y >= 0 && y < h {
			canvas[y][x] = r
			colors[y][x] = c
		}
	}

	for y := 0; y < boxH; y++ {
		for x := 0; x < boxW; x++ {
			var r rune
			switch {
			case (y == 0 && x == 0):
				r = '┌'
			case (y == 0 && x == boxW-1):
				r = '┐'
			case (y == boxH-1 && x == 0):
				r = '└'
			case (y == boxH-1 && x == boxW-1):
				r = '┘'
			case y == 0 || y == boxH-1:
				r = '─'
			case x == 0 || x == boxW-1:
				r = '│'
			default:
				r = ' '
			}
			color := popupBorderColor
			if r == ' ' {
				color = popupTextColor
			}
			put(x0+x, y0+y, r, color)
		}
	}

	for i, line := range lines {
		x := x0 + 2
		for _, r := range line {
			put(x, y0+1+i, r, popupTextColor)
			x += runewidth.RuneWidth(r)
		}
	}
}

// popupLines builds the popup text for the current selection.
func popupLines(snap selection.Snapshot) []string {
	d := snap.Weather
	if d == nil {
		return nil
	}

	lines := []string{snap.Location.DisplayName()}
	lines = append(lines, weather.Description(d.Current.Code))
	temp := fmt.Sprintf("%.1f%s", d.Current.Temperature, d.TempUnit)
	if d.Current.Humidity >= 0 {
		temp += fmt.Sprintf("  RH %.0f%%", d.Current.Humidity)
	}
	lines = append(lines, temp)
	lines = append(lines, fmt.Sprintf("Wind %.0f %s %s",
		d.Current.WindSpeed, d.WindUnit, compass(d.Current.WindDirection)))
	return lines
}

// compass converts meteorological degrees to an 8-point compass label.
func compass(deg float64) string {
	points := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	idx := int(math.Mod(deg+22.5, 360) / 45)
	if idx < 0 || idx >= len(points) {
		idx = 0
	}
	return points[idx]
}

// renderPanels shows the quick-select city list and the recent searches side
// by side under the globe.
func (g GlobeViewModel) renderPanels(recents []recent.Entry) string {
	half := g.width / 2

	left := make([]string, 0, panelHeight)
	left = append(left, titleStyle.Render(" Popular places"))
	for i, c := range PopularCities {
		left = append(left, fmt.Sprintf("  %s %s",
			accentStyle.Render(fmt.Sprintf("[%d]", i+1)),
			fmt.Sprintf("%s, %s", c.Name, c.Country)))
	}

	right := make([]string, 0, panelHeight)
	right = append(right, titleStyle.Render(" Recent searches"))
	if len(recents) == 0 {
		right = append(right, dimStyle.Render("  nothing yet"))
	}
	for i, e := range recents {
		if i >= 8 {
			break
		}
		label := e.Name
		if e.Country != "" {
			label += ", " + e.Country
		}
		right = append(right, fmt.Sprintf("  %s %s",
			accentStyle.Render(fmt.Sprintf("[F%d]", i+1)), label))
	}

	var b strings.Builder
	for i := 0; i < panelHeight; i++ {
		var l, r string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		b.WriteString(padANSIRight(l, half))
		b.WriteString(r)
		if i < panelHeight-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// padANSIRight pads a styled string to the given display width.
func padANSIRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
