package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Alessio-Matteucci/Terremeteo/internal/config"
	"github.com/Alessio-Matteucci/Terremeteo/internal/geocode"
)

var (
	searchPromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	searchTextStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	resultStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("250")).Background(lipgloss.Color("236"))
	resultFocusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("238")).Bold(true)
)

// SearchModel is the search-as-you-type input with its result list. Requests
// are debounced: a geocoding call fires only after the configured pause since
// the last keystroke, and only for queries of the configured minimum length.
type SearchModel struct {
	cfg   *config.Config
	width int

	focused bool
	query   []rune

	// seq identifies the latest edit; debounce timers and search results
	// carry the seq they were started for, and stale ones are dropped.
	seq     int
	results []geocode.Candidate
	selIdx  int
}

// NewSearchModel creates an unfocused search input.
func NewSearchModel(cfg *config.Config) SearchModel {
	return SearchModel{cfg: cfg}
}

// SetWidth updates the rendered width.
func (s SearchModel) SetWidth(width int) SearchModel {
	s.width = width
	return s
}

// Focused reports whether the input currently captures keystrokes.
func (s SearchModel) Focused() bool {
	return s.focused
}

// Focus starts capturing keystrokes.
func (s SearchModel) Focus() SearchModel {
	s.focused = true
	return s
}

// Blur stops capturing keystrokes and drops the query and results.
func (s SearchModel) Blur() SearchModel {
	s.focused = false
	s.query = nil
	s.results = nil
	s.selIdx = 0
	s.seq++
	return s
}

// Query returns the current query text.
func (s SearchModel) Query() string {
	return string(s.query)
}

// HandleTextKey applies an editing keystroke and returns the debounce command
// for the new query state.
func (s SearchModel) HandleTextKey(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyRunes:
		s.query = append(s.query, msg.Runes...)
	case tea.KeySpace:
		s.query = append(s.query, ' ')
	case tea.KeyBackspace:
		if len(s.query) > 0 {
			s.query = s.query[:len(s.query)-1]
		}
	default:
		return s, nil
	}

	s.seq++
	s.selIdx = 0
	if len(s.query) < s.cfg.Search.MinRunes {
		// Below the threshold no request will fire; stale results disappear
		// immediately instead of lingering under a shorter query.
		s.results = nil
	}

	seq := s.seq
	return s, tea.Tick(s.cfg.Search.Debounce, func(t time.Time) tea.Msg {
		return searchDebounceMsg{seq: seq}
	})
}

// HandleResultKey moves the result cursor or confirms a pick. It returns the
// chosen candidate on enter, nil otherwise.
func (s SearchModel) HandleResultKey(key string) (SearchModel, *geocode.Candidate) {
	switch key {
	case "up":
		if s.selIdx > 0 {
			s.selIdx--
		}
	case "down":
		if s.selIdx < len(s.results)-1 {
			s.selIdx++
		}
	case "enter":
		if len(s.results) > 0 {
			picked := s.results[s.selIdx]
			return s, &picked
		}
	}
	return s, nil
}

// MaybeSearch fires the geocoding request for a debounce timer that ran out,
// unless the query changed again in the meantime or is still too short.
func (s SearchModel) MaybeSearch(seq int, geocoder Searcher) tea.Cmd {
	if seq != s.seq {
		return nil
	}
	query := string(s.query)
	if len(s.query) < s.cfg.Search.MinRunes {
		return nil
	}

	return func() tea.Msg {
		return SearchResultsMsg{
			Seq:        seq,
			Candidates: geocoder.Search(context.Background(), query),
		}
	}
}

// SetResults installs candidates for a search sequence; stale sequences are
// dropped.
func (s SearchModel) SetResults(seq int, candidates []geocode.Candidate) SearchModel {
	if seq != s.seq {
		return s
	}
	s.results = candidates
	if s.selIdx >= len(s.results) {
		s.selIdx = 0
	}
	return s
}

// View renders the one-line search input.
func (s SearchModel) View() string {
	if !s.focused {
		return searchPromptStyle.Render(" / ") + dimStyle.Render("search a place...")
	}
	return searchPromptStyle.Render(" / ") + searchTextStyle.Render(string(s.query)) +
		searchPromptStyle.Render("▌")
}

// ResultLines renders the dropdown rows shown below the input while the
// search is active.
func (s SearchModel) ResultLines() []string {
	if !s.focused || len(s.results) == 0 {
		return nil
	}

	lines := make([]string, 0, len(s.results))
	for i, c := range s.results {
		label := c.Name
		if c.Admin1 != "" {
			label += ", " + c.Admin1
		}
		if c.Country != "" {
			label += ", " + c.Country
		}
		label = fmt.Sprintf(" %s (%.4f, %.4f) ", label, c.Latitude, c.Longitude)

		style := resultStyle
		prefix := "   "
		if i == s.selIdx {
			style = resultFocusStyle
			prefix = " ▶ "
		}
		lines = append(lines, style.Render(prefix+padRight(label, s.width-len(prefix)-2)))
	}
	return lines
}

// padRight pads a string with spaces up to width display cells, truncating
// when it is longer. Widths are measured in display cells so accented and
// wide characters in place names line up.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	w := runewidth.StringWidth(s)
	if w > width {
		return runewidth.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}
