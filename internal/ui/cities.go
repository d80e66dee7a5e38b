package ui

import (
	"github.com/Alessio-Matteucci/Terremeteo/internal/geo"
	"github.com/Alessio-Matteucci/Terremeteo/internal/selection"
)

// City is a curated quick-select entry.
type City struct {
	Name    string
	Country string
	Lat     float64
	Lon     float64
}

// Location converts a city into a selectable location.
func (c City) Location() selection.Location {
	return selection.Location{
		Name:    c.Name,
		Country: c.Country,
		Coord:   geo.Coordinate{Lat: c.Lat, Lon: c.Lon},
	}
}

// PopularCities is the curated quick-select list, bound to the 1-9 hotkeys.
var PopularCities = []City{
	{Name: "Roma", Country: "Italia", Lat: 41.9028, Lon: 12.4964},
	{Name: "Milano", Country: "Italia", Lat: 45.4642, Lon: 9.19},
	{Name: "Parigi", Country: "Francia", Lat: 48.8566, Lon: 2.3522},
	{Name: "Londra", Country: "Regno Unito", Lat: 51.5074, Lon: -0.1278},
	{Name: "New York", Country: "USA", Lat: 40.7128, Lon: -74.006},
	{Name: "Tokyo", Country: "Giappone", Lat: 35.6762, Lon: 139.6503},
	{Name: "Sydney", Country: "Australia", Lat: -33.8688, Lon: 151.2093},
	{Name: "Dubai", Country: "Emirati Arabi", Lat: 25.2048, Lon: 55.2708},
	{Name: "Barcellona", Country: "Spagna", Lat: 41.3851, Lon: 2.1734},
}
