// Package weather fetches current conditions and the 7-day forecast from the
// Open-Meteo API and maps them into the application's own types.
package weather

import (
	"context"
	"fmt"
	"time"

	"github.com/hectormalot/omgo"

	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
)

// FetchTimeout bounds a single forecast request.
const FetchTimeout = 10 * time.Second

// ForecastDays is the number of daily entries requested from the API.
const ForecastDays = 7

// Units selects the measurement system for temperatures and wind speeds.
type Units string

const (
	UnitsMetric   Units = "metric"
	UnitsImperial Units = "imperial"
)

// Current holds the present conditions at the selected location.
type Current struct {
	Time          time.Time
	Temperature   float64
	Humidity      float64 // relative humidity in percent; -1 when unavailable
	WindSpeed     float64
	WindDirection float64 // meteorological degrees
	Code          int     // WMO weather interpretation code
}

// Day is one entry of the daily forecast.
type Day struct {
	Date    time.Time
	Code    int
	TempMax float64
	TempMin float64
}

// Data is a complete weather result for one coordinate.
type Data struct {
	Coord     geo.Coordinate
	FetchedAt time.Time
	Current   Current
	Daily     []Day

	TempUnit string // e.g. "°C"
	WindUnit string // e.g. "km/h"
}

// Client wraps the Open-Meteo client with the application's fixed metric set.
type Client struct {
	om    omgo.Client
	units Units
}

// NewClient creates a weather client reporting in the given units.
func NewClient(units Units) (*Client, error) {
	om, err := omgo.NewClient()
	if err != nil {
		return nil, fmt.Errorf("create Open-Meteo client: %w", err)
	}
	return &Client{om: om, units: units}, nil
}

// Fetch retrieves current conditions and the daily forecast for a coordinate.
func (c *Client) Fetch(ctx context.Context, coord geo.Coordinate) (*Data, error) {
	ctx, cancel := context.WithTimeout(ctx, FetchTimeout)
	defer cancel()

	loc, err := omgo.NewLocation(coord.Lat, coord.Lon)
	if err != nil {
		return nil, fmt.Errorf("invalid coordinate %v: %w", coord, err)
	}

	opts := &omgo.Options{
		Timezone: "auto",
		HourlyMetrics: []string{
			"temperature_2m", "relative_humidity_2m",
		},
		DailyMetrics: []string{
			"weather_code", "temperature_2m_max", "temperature_2m_min",
		},
	}
	switch c.units {
	case UnitsImperial:
		opts.TemperatureUnit = "fahrenheit"
		opts.WindspeedUnit = "mph"
		opts.PrecipitationUnit = "inch"
	default:
		opts.TemperatureUnit = "celsius"
		opts.WindspeedUnit = "kmh"
		opts.PrecipitationUnit = "mm"
	}

	forecast, err := c.om.Forecast(ctx, loc, opts)
	if err != nil {
		return nil, fmt.Errorf("fetch forecast for %v: %w", coord, err)
	}

	return fromForecast(forecast, coord, c.units), nil
}

// fromForecast maps an Open-Meteo response into Data. Separated from Fetch so
// the mapping is testable without network access.
func fromForecast(f *omgo.Forecast, coord geo.Coordinate, units Units) *Data {
	d := &Data{
		Coord:     coord,
		FetchedAt: time.Now(),
		Current: Current{
			Time:          f.CurrentWeather.Time.Time,
			Temperature:   f.CurrentWeather.Temperature,
			Humidity:      humidityAt(f, f.CurrentWeather.Time.Time),
			WindSpeed:     f.CurrentWeather.WindSpeed,
			WindDirection: f.CurrentWeather.WindDirection,
			Code:          int(f.CurrentWeather.WeatherCode),
		},
		TempUnit: tempUnit(units),
		WindUnit: windUnit(units),
	}
	if u, ok := f.HourlyUnits["temperature_2m"]; ok && u != "" {
		d.TempUnit = u
	}

	codes := f.DailyMetrics["weather_code"]
	maxs := f.DailyMetrics["temperature_2m_max"]
	mins := f.DailyMetrics["temperature_2m_min"]
	for i, dt := range f.DailyTimes {
		if i >= len(codes) || i >= len(maxs) || i >= len(mins) {
			break
		}
		if i >= ForecastDays {
			break
		}
		d.Daily = append(d.Daily, Day{
			Date:    dt,
			Code:    int(codes[i]),
			TempMax: maxs[i],
			TempMin: mins[i],
		})
	}
	return d
}

// humidityAt looks up the hourly relative humidity at the hour of the given
// time. The current-weather block does not carry humidity, so it is taken
// from the hourly series instead; -1 when the hour is not in the series.
func humidityAt(f *omgo.Forecast, at time.Time) float64 {
	series := f.HourlyMetrics["relative_humidity_2m"]
	hour := at.Truncate(time.Hour)
	for i, t := range f.HourlyTimes {
		if !t.Equal(hour) {
			continue
		}
		if i < len(series) {
			return series[i]
		}
		break
	}
	return -1
}

func tempUnit(u Units) string {
	if u == UnitsImperial {
		return "°F"
	}
	return "°C"
}

func windUnit(u Units) string {
	if u == UnitsImperial {
		return "mph"
	}
	return "km/h"
}
