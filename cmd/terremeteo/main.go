// Command terremeteo is a terminal UI for exploring weather on a 3D globe.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/Alessio-Matteucci/Terremeteo/internal/config"
	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
	"github.com/Alessio-Matteucci/Terremeteo/internal/geocode"
	"github.com/Alessio-Matteucci/Terremeteo/internal/httpx"
	"github.com/Alessio-Matteucci/Terremeteo/internal/logging"
	"github.com/Alessio-Matteucci/Terremeteo/internal/recent"
	"github.com/Alessio-Matteucci/Terremeteo/internal/selection"
	"github.com/Alessio-Matteucci/Terremeteo/internal/ui"
	"github.com/Alessio-Matteucci/Terremeteo/internal/weather"
)

// CLI flags for headless mode
var (
	cityQuery  string
	coordsSpec string
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to a config file (default: search standard locations)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error); overrides the config")
	units := flag.String("units", "", "Measurement units (metric, imperial); overrides the config")
	flag.StringVar(&cityQuery, "city", "", "Print the forecast for a place name and exit")
	flag.StringVar(&coordsSpec, "coords", "", "Print the forecast for \"lat,lon\" and exit")
	flag.Parse()

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *units != "" {
		cfg.Units = *units
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	// Initialize components
	httpClient := httpx.New(logger)
	geocoder := geocode.New(httpClient, logger)
	geocoder.SetLanguage(cfg.Language)

	fetcher, err := weather.NewClient(weather.Units(cfg.Units))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Headless mode: no TUI
	headless := cityQuery != "" || coordsSpec != ""
	if headless {
		if err := runHeadless(ctx, fetcher, geocoder); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: stdout is not a terminal; use -city or -coords for scripted output")
		os.Exit(1)
	}

	// The TUI owns the terminal, so log output goes to a file or nowhere.
	if cfg.LogFile != "" {
		fileLogger, f, err := logging.NewFile(logging.ParseLevel(cfg.LogLevel), cfg.LogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logger = fileLogger
	} else {
		logger = logging.Discard()
	}

	store, err := openRecentStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Create TUI model
	model := ui.New(cfg, logger, selection.NewManager(), fetcher, geocoder, store)

	// Run TUI (blocks until quit; SIGINT/SIGTERM cancel the context)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig loads an explicit config file when -config is given, otherwise
// searches the standard locations.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.New()
	}
	return config.NewFromFile(filepath.Dir(path), filepath.Base(path))
}

// openRecentStore opens the recent-searches store at the configured path or
// the per-user default.
func openRecentStore(cfg *config.Config, logger *logging.Logger) (*recent.Store, error) {
	path := cfg.RecentSearchesFile
	if path == "" {
		var err error
		path, err = recent.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return recent.NewStore(path, logger), nil
}

// runHeadless resolves the requested location and prints a one-shot forecast.
func runHeadless(ctx context.Context, fetcher *weather.Client, geocoder *geocode.Client) error {
	loc, err := resolveLocation(ctx, geocoder)
	if err != nil {
		return err
	}

	data, err := fetcher.Fetch(ctx, loc.Coord)
	if err != nil {
		return fmt.Errorf("fetch weather: %w", err)
	}

	writeForecast(os.Stdout, loc, data)
	return nil
}

func resolveLocation(ctx context.Context, geocoder *geocode.Client) (selection.Location, error) {
	if coordsSpec != "" {
		coord, err := parseCoords(coordsSpec)
		if err != nil {
			return selection.Location{}, err
		}
		return selection.Location{Coord: coord}, nil
	}

	candidates := geocoder.Search(ctx, cityQuery)
	if len(candidates) == 0 {
		return selection.Location{}, fmt.Errorf("no match for %q", cityQuery)
	}
	c := candidates[0]
	return selection.Location{
		Name:    c.Name,
		Admin1:  c.Admin1,
		Country: c.Country,
		Coord:   geo.Coordinate{Lat: c.Latitude, Lon: c.Longitude},
	}, nil
}

// parseCoords parses a "lat,lon" pair in decimal degrees.
func parseCoords(spec string) (geo.Coordinate, error) {
	parts := strings.Split(spec, ",")
	if len(parts) != 2 {
		return geo.Coordinate{}, fmt.Errorf("invalid coordinates %q, want \"lat,lon\"", spec)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid latitude %q", parts[0])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("invalid longitude %q", parts[1])
	}
	if lat < -90 || lat > 90 {
		return geo.Coordinate{}, fmt.Errorf("latitude %v out of range", lat)
	}
	return geo.Coordinate{Lat: lat, Lon: geo.NormalizeLon(lon)}, nil
}

// writeForecast prints the current conditions and the daily forecast as plain
// text for scripted use.
func writeForecast(w *os.File, loc selection.Location, data *weather.Data) {
	fmt.Fprintf(w, "%s (%s)\n", loc.DisplayName(), loc.Coord)
	fmt.Fprintf(w, "Now: %s, %.1f%s", weather.Description(data.Current.Code),
		data.Current.Temperature, data.TempUnit)
	if data.Current.Humidity >= 0 {
		fmt.Fprintf(w, ", humidity %.0f%%", data.Current.Humidity)
	}
	fmt.Fprintf(w, ", wind %.0f %s\n\n", data.Current.WindSpeed, data.WindUnit)

	for _, d := range data.Daily {
		fmt.Fprintf(w, "%s  %-24s %5.1f%s / %5.1f%s\n",
			d.Date.Format("Mon 2006-01-02"), weather.Description(d.Code),
			d.TempMax, data.TempUnit, d.TempMin, data.TempUnit)
	}
}
