// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Recent searches persistence, headless one-shot modes, config file
// 0.2.0 - Geocoding search, 7-day forecast view, weather popup overlay
// 0.1.0 - Initial release: globe rendering, surface picking, camera follow
