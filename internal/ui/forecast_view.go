package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Alessio-Matteucci/Terremeteo/internal/selection"
	"github.com/Alessio-Matteucci/Terremeteo/internal/weather"
)

var (
	forecastDayStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	forecastTmaxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("209"))
	forecastTminStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
)

// ForecastViewModel renders the 7-day forecast table for the current
// selection.
type ForecastViewModel struct {
	width  int
	height int

	snap selection.Snapshot
}

// NewForecastViewModel creates an empty forecast view.
func NewForecastViewModel() ForecastViewModel {
	return ForecastViewModel{}
}

// SetSize updates the content area size.
func (f ForecastViewModel) SetSize(width, height int) ForecastViewModel {
	f.width = width
	f.height = height
	return f
}

// UpdateData installs a fresh selection snapshot.
func (f ForecastViewModel) UpdateData(snap selection.Snapshot) ForecastViewModel {
	f.snap = snap
	return f
}

// View renders the forecast table, padded to the content height.
func (f ForecastViewModel) View() string {
	lines := f.renderLines()
	for len(lines) < f.height {
		lines = append(lines, "")
	}
	if f.height > 0 && len(lines) > f.height {
		lines = lines[:f.height]
	}
	return strings.Join(lines, "\n")
}

func (f ForecastViewModel) renderLines() []string {
	if !f.snap.Selected {
		return []string{"", dimStyle.Render("  No location selected — pick one on the globe or search with /")}
	}

	d := f.snap.Weather
	switch {
	case f.snap.Fetching:
		return []string{"", dimStyle.Render("  Fetching forecast for " + f.snap.Location.DisplayName() + "...")}
	case f.snap.WeatherErr != nil:
		return []string{"", errorStyle.Render("  Forecast unavailable: " + f.snap.WeatherErr.Error())}
	case d == nil || len(d.Daily) == 0:
		return []string{"", dimStyle.Render("  No forecast data for " + f.snap.Location.DisplayName())}
	}

	lines := []string{
		"",
		"  " + titleStyle.Render(f.snap.Location.DisplayName()),
		"",
		"  " + currentLine(d),
		"",
		"  " + dimStyle.Render(padCell("Day", 12)+padCell("", 3)+padCell("Conditions", 26)+
			padCell("Max", 8)+padCell("Min", 8)),
	}

	for _, day := range d.Daily {
		row := "  " +
			forecastDayStyle.Render(padCell(day.Date.Format("Mon Jan 2"), 12)) +
			padCell(weather.Icon(day.Code, true), 3) +
			forecastDayStyle.Render(padCell(weather.Description(day.Code), 26)) +
			forecastTmaxStyle.Render(padCell(fmt.Sprintf("%.0f%s", day.TempMax, d.TempUnit), 8)) +
			forecastTminStyle.Render(padCell(fmt.Sprintf("%.0f%s", day.TempMin, d.TempUnit), 8))
		lines = append(lines, row)
	}

	return lines
}

// currentLine summarizes present conditions in one row.
func currentLine(d *weather.Data) string {
	parts := []string{
		fmt.Sprintf("Now: %s %.1f%s", weather.Description(d.Current.Code), d.Current.Temperature, d.TempUnit),
	}
	if d.Current.Humidity >= 0 {
		parts = append(parts, fmt.Sprintf("humidity %.0f%%", d.Current.Humidity))
	}
	parts = append(parts, fmt.Sprintf("wind %.0f %s %s",
		d.Current.WindSpeed, d.WindUnit, compass(d.Current.WindDirection)))
	return accentStyle.Render(strings.Join(parts, " · "))
}

// padCell pads a table cell to a fixed display width, icons included.
func padCell(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return runewidth.Truncate(s, width, "…")
	}
	return s + strings.Repeat(" ", width-w)
}
