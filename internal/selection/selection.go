// Package selection provides thread-safe management of the selected location
// and its weather fetch lifecycle.
package selection

import (
	"strings"
	"sync"
	"time"

	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
	"github.com/Alessio-Matteucci/Terremeteo/internal/weather"
)

// Location is a selectable place. Named locations come from geocoding or the
// curated city list; raw globe picks carry coordinates only.
type Location struct {
	Name    string // empty for a raw globe pick
	Admin1  string // first-level administrative area, may be empty
	Country string
	Coord   geo.Coordinate
}

// Named reports whether the location came from a named source rather than a
// raw coordinate pick.
func (l Location) Named() bool {
	return l.Name != ""
}

// DisplayName returns the label shown in the UI: "Name, Admin1, Country" with
// empty parts omitted, or formatted coordinates for a raw pick.
func (l Location) DisplayName() string {
	if !l.Named() {
		return l.Coord.String()
	}
	parts := make([]string, 0, 3)
	for _, p := range []string{l.Name, l.Admin1, l.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// Manager handles the selected location with thread-safe access. Every
// selection change bumps a generation counter; weather results are accepted
// only when tagged with the current generation, so a slow fetch for a previous
// selection can never overwrite the data of a newer one.
type Manager struct {
	mu sync.RWMutex

	generation uint64
	selected   bool
	location   Location

	fetching   bool
	weather    *weather.Data
	weatherErr error
	fetchedAt  time.Time
}

// NewManager creates an empty selection manager.
func NewManager() *Manager {
	return &Manager{}
}

// Select makes loc the current selection and returns the generation token for
// the weather fetch it starts. Any previous weather data and error are
// cleared; results from earlier generations become stale.
func (m *Manager) Select(loc Location) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.selected = true
	m.location = loc
	m.fetching = true
	m.weather = nil
	m.weatherErr = nil
	m.fetchedAt = time.Time{}

	return m.generation
}

// Clear removes the current selection. The generation still advances so that
// in-flight fetches for the cleared selection are rejected on arrival.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generation++
	m.selected = false
	m.location = Location{}
	m.fetching = false
	m.weather = nil
	m.weatherErr = nil
	m.fetchedAt = time.Time{}
}

// SetWeather records the result of a weather fetch tagged with the generation
// returned by Select. It reports whether the result was accepted; a stale
// generation leaves the state untouched.
func (m *Manager) SetWeather(generation uint64, data *weather.Data, err error) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		return false
	}

	m.fetching = false
	m.weather = data
	m.weatherErr = err
	m.fetchedAt = time.Now()
	return true
}

// Generation returns the current generation counter.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

// Snapshot is an immutable view of the selection state.
type Snapshot struct {
	Selected   bool
	Location   Location
	Generation uint64
	Fetching   bool
	Weather    *weather.Data
	WeatherErr error
	FetchedAt  time.Time
}

// Snapshot returns a consistent snapshot of the current selection.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return Snapshot{
		Selected:   m.selected,
		Location:   m.location,
		Generation: m.generation,
		Fetching:   m.fetching,
		Weather:    m.weather,
		WeatherErr: m.weatherErr,
		FetchedAt:  m.fetchedAt,
	}
}
