package ui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
	"github.com/Alessio-Matteucci/Terremeteo/internal/logging"
	"github.com/Alessio-Matteucci/Terremeteo/internal/recent"
	"github.com/Alessio-Matteucci/Terremeteo/internal/selection"
	"github.com/Alessio-Matteucci/Terremeteo/internal/weather"
)

// fakeFetcher returns canned weather data, or an error when err is set.
type fakeFetcher struct {
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context, coord geo.Coordinate) (*weather.Data, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &weather.Data{
		Coord:     coord,
		FetchedAt: time.Now(),
		Current: weather.Current{
			Temperature: 21.5,
			Humidity:    60,
			WindSpeed:   12,
			Code:        1,
		},
		TempUnit: "°C",
		WindUnit: "km/h",
	}, nil
}

func newTestModel(t *testing.T, fetcher WeatherFetcher) Model {
	t.Helper()
	logger := logging.Discard()
	store := recent.NewStore(filepath.Join(t.TempDir(), "recent.json"), logger)
	return New(testConfig(), logger, selection.NewManager(), fetcher, searcherFunc(nil), store)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel_SelectPopularCityFetchesWeather(t *testing.T) {
	fetcher := &fakeFetcher{}
	m := newTestModel(t, fetcher)

	m, cmd := press(t, m, runeKey('1'))
	if !m.snapshot.Selected {
		t.Fatal("pressing 1 must select the first popular city")
	}
	if m.snapshot.Location.Name != "Roma" {
		t.Fatalf("selected %q, want Roma", m.snapshot.Location.Name)
	}
	if !m.snapshot.Fetching {
		t.Fatal("selection must start a weather fetch")
	}
	if cmd == nil {
		t.Fatal("selection must return a fetch command")
	}

	msg, ok := cmd().(WeatherResultMsg)
	if !ok {
		t.Fatalf("fetch command produced %T, want WeatherResultMsg", cmd())
	}
	if fetcher.calls == 0 {
		t.Fatal("fetcher was never called")
	}

	m, _ = updateModel(t, m, msg)
	if m.snapshot.Fetching {
		t.Fatal("fetch result must clear the fetching flag")
	}
	if m.snapshot.Weather == nil || m.snapshot.Weather.Current.Temperature != 21.5 {
		t.Fatalf("weather not installed: %+v", m.snapshot.Weather)
	}
}

func TestModel_StaleWeatherResultIsDropped(t *testing.T) {
	fetcher := &fakeFetcher{}
	m := newTestModel(t, fetcher)

	m, cmd1 := press(t, m, runeKey('1')) // Roma
	staleMsg := cmd1().(WeatherResultMsg)

	m, cmd2 := press(t, m, runeKey('2')) // Milano supersedes Roma
	m, _ = updateModel(t, m, staleMsg)
	if m.snapshot.Weather != nil {
		t.Fatal("weather for a superseded selection must be dropped")
	}

	m, _ = updateModel(t, m, cmd2().(WeatherResultMsg))
	if m.snapshot.Weather == nil {
		t.Fatal("weather for the current selection must be installed")
	}
	if m.snapshot.Location.Name != "Milano" {
		t.Fatalf("selected %q, want Milano", m.snapshot.Location.Name)
	}
}

func TestModel_FetchErrorIsRecorded(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("open-meteo unreachable")}
	m := newTestModel(t, fetcher)

	m, cmd := press(t, m, runeKey('1'))
	m, _ = updateModel(t, m, cmd().(WeatherResultMsg))
	if m.snapshot.WeatherErr == nil {
		t.Fatal("fetch error must surface in the snapshot")
	}
	if m.snapshot.Weather != nil {
		t.Fatal("a failed fetch must not install weather data")
	}
}

func TestModel_NamedSelectionSavedToRecents(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	m, _ = press(t, m, runeKey('3')) // Parigi
	if len(m.recentEntries) != 1 || m.recentEntries[0].Name != "Parigi" {
		t.Fatalf("recent entries = %+v, want [Parigi]", m.recentEntries)
	}

	// Recent entry hotkey re-selects it.
	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyF1})
	if m.snapshot.Location.Name != "Parigi" || cmd == nil {
		t.Fatalf("F1 selected %q, want Parigi", m.snapshot.Location.Name)
	}
}

func TestModel_RawPickNotSavedToRecents(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	coord := geo.Coordinate{Lat: 10, Lon: 20}
	next, cmd := m.selectLocation(selection.Location{Coord: coord}, false)
	m = next.(Model)
	if cmd == nil {
		t.Fatal("raw pick must still fetch weather")
	}
	if len(m.recentEntries) != 0 {
		t.Fatalf("raw pick leaked into recents: %+v", m.recentEntries)
	}
	if got := m.snapshot.Location.DisplayName(); got == "" {
		t.Fatal("raw pick must still have a displayable name")
	}
}

func TestModel_ResetClearsSelection(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	m, _ = press(t, m, runeKey('1'))
	m, _ = press(t, m, runeKey('r'))
	if m.snapshot.Selected {
		t.Fatal("r must clear the selection")
	}
}

func TestModel_EscClearsSelection(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	m, _ = press(t, m, runeKey('1'))
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.snapshot.Selected {
		t.Fatal("esc must clear the selection when no popup is open")
	}
}

func TestModel_ArrowKeysOrbitGlobe(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	before := m.globe.animator.Pose().Position
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.globe.animator.Pose().Position == before {
		t.Fatal("left arrow must orbit the camera")
	}
}

func TestModel_PlusMinusZoomGlobe(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	pose := m.globe.animator.Pose()
	before := pose.Position.Sub(pose.Target).Norm()
	m, _ = press(t, m, runeKey('+'))
	pose = m.globe.animator.Pose()
	after := pose.Position.Sub(pose.Target).Norm()
	if after >= before {
		t.Fatalf("+ must zoom in: distance %v -> %v", before, after)
	}
}

func TestModel_TabTogglesView(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	if m.viewMode != ViewGlobe {
		t.Fatalf("initial view = %v, want globe", m.viewMode)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.viewMode != ViewForecast {
		t.Fatal("tab must switch to the forecast view")
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.viewMode != ViewGlobe {
		t.Fatal("tab must switch back to the globe view")
	}
}

func TestModel_SlashFocusesSearchAndSwallowsKeys(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	m, _ = press(t, m, runeKey('/'))
	if !m.search.Focused() {
		t.Fatal("/ must focus the search input")
	}

	// While focused, "q" edits the query instead of quitting.
	m, cmd := press(t, m, runeKey('q'))
	if m.search.Query() != "q" {
		t.Fatalf("query = %q, want q", m.search.Query())
	}
	if cmd == nil {
		t.Fatal("a keystroke must schedule the debounce timer")
	}

	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.search.Focused() {
		t.Fatal("esc must blur the search input")
	}
}

func TestModel_SearchPickSelectsCandidate(t *testing.T) {
	fetcher := &fakeFetcher{}
	logger := logging.Discard()
	store := recent.NewStore(filepath.Join(t.TempDir(), "recent.json"), logger)
	candidates := searcherFunc{{
		Name: "Berlino", Country: "Germania", Latitude: 52.52, Longitude: 13.405,
	}}
	m := New(testConfig(), logger, selection.NewManager(), fetcher, candidates, store)

	m, _ = press(t, m, runeKey('/'))
	m.search, _ = typeRunes(m.search, "ber")

	// Debounce expiry fires the search, whose results land in the model.
	searchCmd := m.search.MaybeSearch(m.search.seq, m.geocoder)
	if searchCmd == nil {
		t.Fatal("expected a search command after the debounce")
	}
	m, _ = updateModel(t, m, searchCmd())

	m, fetchCmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.snapshot.Location.Name != "Berlino" {
		t.Fatalf("selected %q, want Berlino", m.snapshot.Location.Name)
	}
	if fetchCmd == nil {
		t.Fatal("picking a candidate must start a weather fetch")
	}
	if m.search.Focused() {
		t.Fatal("picking a candidate must blur the search")
	}
	if len(m.recentEntries) != 1 || m.recentEntries[0].Name != "Berlino" {
		t.Fatalf("recent entries = %+v, want [Berlino]", m.recentEntries)
	}
}

func TestModel_WindowSizePropagates(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{})

	m, _ = updateModel(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})
	if !m.ready {
		t.Fatal("window size must mark the model ready")
	}
	if m.width != 100 || m.height != 40 {
		t.Fatalf("size = %dx%d, want 100x40", m.width, m.height)
	}
	wantContent := 40 - headerLines - footerLines
	if gw, gh := m.globe.width, m.globe.height; gw != 100 || gh != wantContent {
		t.Fatalf("globe size = %dx%d, want 100x%d", gw, gh, wantContent)
	}
}

func TestCompass(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{359, "N"},
		{720 - 90, "W"},
	}
	for _, tt := range tests {
		if got := compass(tt.deg); got != tt.want {
			t.Errorf("compass(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
}

func updateModel(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return model, cmd
}
