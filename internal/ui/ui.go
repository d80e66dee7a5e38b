// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Alessio-Matteucci/Terremeteo/internal/config"
	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
	"github.com/Alessio-Matteucci/Terremeteo/internal/geocode"
	"github.com/Alessio-Matteucci/Terremeteo/internal/logging"
	"github.com/Alessio-Matteucci/Terremeteo/internal/recent"
	"github.com/Alessio-Matteucci/Terremeteo/internal/selection"
	"github.com/Alessio-Matteucci/Terremeteo/internal/version"
	"github.com/Alessio-Matteucci/Terremeteo/internal/weather"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewGlobe ViewMode = iota
	ViewForecast
)

// frameInterval drives the globe animation at roughly 30 fps.
const frameInterval = 33 * time.Millisecond

// WeatherFetcher retrieves weather data for a coordinate.
type WeatherFetcher interface {
	Fetch(ctx context.Context, coord geo.Coordinate) (*weather.Data, error)
}

// Searcher resolves a free-text query to location candidates.
type Searcher interface {
	Search(ctx context.Context, query string) []geocode.Candidate
}

// Msg types for Bubble Tea
type (
	// FrameTickMsg drives per-frame animation.
	FrameTickMsg time.Time

	// WeatherResultMsg carries the outcome of a weather fetch, tagged with
	// the selection generation that started it.
	WeatherResultMsg struct {
		Generation uint64
		Data       *weather.Data
		Err        error
	}

	// SearchResultsMsg carries geocoding candidates for a search sequence.
	SearchResultsMsg struct {
		Seq        int
		Candidates []geocode.Candidate
	}

	// searchDebounceMsg fires after the debounce pause following a keystroke.
	searchDebounceMsg struct {
		seq int
	}
)

// Model is the root Bubble Tea model.
type Model struct {
	// Dependencies
	cfg      *config.Config
	logger   *logging.Logger
	sel      *selection.Manager
	fetcher  WeatherFetcher
	geocoder Searcher
	recents  *recent.Store

	// UI state
	viewMode ViewMode
	width    int
	height   int
	ready    bool

	// Sub-models
	globe    GlobeViewModel
	search   SearchModel
	forecast ForecastViewModel

	// Data snapshot (refreshed on selection changes and weather results)
	snapshot      selection.Snapshot
	recentEntries []recent.Entry
	recentReload  int // frame counter for periodic recent-searches reload
}

// New creates the root UI model.
func New(cfg *config.Config, logger *logging.Logger, sel *selection.Manager,
	fetcher WeatherFetcher, geocoder Searcher, recents *recent.Store) Model {
	return Model{
		cfg:           cfg,
		logger:        logger,
		sel:           sel,
		fetcher:       fetcher,
		geocoder:      geocoder,
		recents:       recents,
		viewMode:      ViewGlobe,
		globe:         NewGlobeViewModel(cfg),
		search:        NewSearchModel(cfg),
		forecast:      NewForecastViewModel(),
		snapshot:      sel.Snapshot(),
		recentEntries: recents.Entries(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameTickCmd()
}

func frameTickCmd() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return FrameTickMsg(t)
	})
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.viewMode == ViewGlobe && !m.search.Focused() {
			var cmd tea.Cmd
			m, cmd = m.handleMouse(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		contentHeight := msg.Height - headerLines - footerLines
		m.globe = m.globe.SetSize(msg.Width, contentHeight)
		m.search = m.search.SetWidth(msg.Width)
		m.forecast = m.forecast.SetSize(msg.Width, contentHeight)

	case FrameTickMsg:
		cmds = append(cmds, frameTickCmd())
		m.globe = m.globe.Tick(time.Time(msg), m.snapshot)

		// Reload recent searches about once a second so entries written by
		// another instance appear without a restart.
		m.recentReload++
		if m.recentReload%30 == 0 {
			m.recentEntries = m.recents.Entries()
		}

	case WeatherResultMsg:
		if msg.Err != nil {
			m.logger.Warn("weather fetch failed: %v", msg.Err)
		}
		if m.sel.SetWeather(msg.Generation, msg.Data, msg.Err) {
			m.snapshot = m.sel.Snapshot()
			m.forecast = m.forecast.UpdateData(m.snapshot)
		}

	case searchDebounceMsg:
		if cmd := m.search.MaybeSearch(msg.seq, m.geocoder); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case SearchResultsMsg:
		m.search = m.search.SetResults(msg.Seq, msg.Candidates)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// The search input swallows printable keys while focused.
	if m.search.Focused() {
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.search = m.search.Blur()
			return m, nil
		case "enter", "up", "down":
			var picked *geocode.Candidate
			m.search, picked = m.search.HandleResultKey(msg.String())
			if picked != nil {
				m.search = m.search.Blur()
				return m.selectLocation(selection.Location{
					Name:    picked.Name,
					Admin1:  picked.Admin1,
					Country: picked.Country,
					Coord:   geo.Coordinate{Lat: picked.Latitude, Lon: picked.Longitude},
				}, true)
			}
			return m, nil
		default:
			var cmd tea.Cmd
			m.search, cmd = m.search.HandleTextKey(msg)
			return m, cmd
		}
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "/":
		m.search = m.search.Focus()
		return m, nil

	case "tab":
		if m.viewMode == ViewGlobe {
			m.viewMode = ViewForecast
		} else {
			m.viewMode = ViewGlobe
		}
		return m, nil

	case "r":
		// Back to the default view; in-flight fetches become stale.
		m.sel.Clear()
		m.snapshot = m.sel.Snapshot()
		m.globe = m.globe.ResetView()
		m.forecast = m.forecast.UpdateData(m.snapshot)
		return m, nil

	case "x", "esc":
		if m.globe.PopupVisible() {
			m.globe = m.globe.ClosePopup()
			return m, nil
		}
		if msg.String() == "esc" && m.snapshot.Selected {
			m.sel.Clear()
			m.snapshot = m.sel.Snapshot()
			m.globe = m.globe.ResetView()
			m.forecast = m.forecast.UpdateData(m.snapshot)
		}
		return m, nil

	case "left", "right", "up", "down":
		if m.viewMode == ViewGlobe {
			var dx, dy int
			switch msg.String() {
			case "left":
				dx = -3
			case "right":
				dx = 3
			case "up":
				dy = -2
			case "down":
				dy = 2
			}
			m.globe = m.globe.orbit(dx, dy)
		}
		return m, nil

	case "+", "=":
		if m.viewMode == ViewGlobe {
			m.globe = m.globe.zoom(-zoomStep)
		}
		return m, nil

	case "-":
		if m.viewMode == ViewGlobe {
			m.globe = m.globe.zoom(zoomStep)
		}
		return m, nil

	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(PopularCities) {
			city := PopularCities[idx]
			return m.selectLocation(city.Location(), true)
		}
		return m, nil

	case "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8":
		idx := int(msg.String()[1] - '1')
		if idx < len(m.recentEntries) {
			e := m.recentEntries[idx]
			return m.selectLocation(selection.Location{
				Name:    e.Name,
				Admin1:  e.Admin1,
				Country: e.Country,
				Coord:   geo.Coordinate{Lat: e.Lat, Lon: e.Lon},
			}, true)
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	// The globe canvas starts below the header; translate to canvas rows.
	localY := msg.Y - headerLines
	picked, changed := m.globe.HandleMouse(msg, localY)
	m.globe = changed
	if picked == nil {
		return m, nil
	}

	// A raw globe pick is an unnamed location: weather is fetched but the
	// pick is not recorded in recent searches.
	next, cmd := m.selectLocation(selection.Location{Coord: *picked}, false)
	return next.(Model), cmd
}

// selectLocation makes loc the current selection, points the camera at it and
// starts the weather fetch for it.
func (m Model) selectLocation(loc selection.Location, save bool) (tea.Model, tea.Cmd) {
	gen := m.sel.Select(loc)
	m.snapshot = m.sel.Snapshot()
	m.globe = m.globe.FollowSelection(loc.Coord)
	m.forecast = m.forecast.UpdateData(m.snapshot)

	if save && loc.Named() {
		if err := m.recents.Add(recent.Entry{
			Name:    loc.Name,
			Admin1:  loc.Admin1,
			Country: loc.Country,
			Lat:     loc.Coord.Lat,
			Lon:     loc.Coord.Lon,
		}); err != nil {
			m.logger.Warn("failed to save recent search: %v", err)
		}
		m.recentEntries = m.recents.Entries()
	}

	return m, m.fetchWeatherCmd(gen, loc.Coord)
}

func (m Model) fetchWeatherCmd(gen uint64, coord geo.Coordinate) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		data, err := fetcher.Fetch(context.Background(), coord)
		return WeatherResultMsg{Generation: gen, Data: data, Err: err}
	}
}

const (
	headerLines = 2 // title line + search input line
	footerLines = 1
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("75"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewGlobe:
		content = m.globe.View(m.snapshot, m.recentEntries)
	case ViewForecast:
		content = m.forecast.View()
	}

	// While searching, the result list overlays the top of the content area.
	if lines := m.search.ResultLines(); len(lines) > 0 {
		contentLines := strings.Split(content, "\n")
		for i, l := range lines {
			if i < len(contentLines) {
				contentLines[i] = l
			}
		}
		content = strings.Join(contentLines, "\n")
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("TerreMeteo")
	tagline := dimStyle.Render(fmt.Sprintf("3D weather explorer · v%s", version.Version))

	var status string
	switch {
	case m.snapshot.Fetching:
		status = dimStyle.Render("fetching weather for " + m.snapshot.Location.DisplayName() + "...")
	case m.snapshot.WeatherErr != nil:
		status = errorStyle.Render("weather unavailable: " + m.snapshot.WeatherErr.Error())
	case m.snapshot.Selected:
		status = accentStyle.Render(m.snapshot.Location.DisplayName())
	default:
		status = dimStyle.Render("double-click the globe or press / to search")
	}

	line := title + "  " + tagline + "  " + status
	return line + "\n" + m.search.View()
}

func (m Model) renderFooter() string {
	keys := []string{
		"[/] search",
		"[1-9] cities",
		"[F1-F8] recents",
		"[tab] forecast",
		"[r] reset",
		"[x] close popup",
		"[q] quit",
	}
	if m.viewMode == ViewForecast {
		keys[3] = "[tab] globe"
	}
	return dimStyle.Render(" " + strings.Join(keys, "  "))
}
