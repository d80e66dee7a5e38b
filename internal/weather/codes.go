package weather

// wmoDescriptions maps WMO weather interpretation codes to descriptions.
var wmoDescriptions = map[int]string{
	0:  "Clear sky",
	1:  "Mainly clear",
	2:  "Partly cloudy",
	3:  "Overcast",
	45: "Fog",
	48: "Depositing rime fog",
	51: "Light drizzle",
	53: "Moderate drizzle",
	55: "Dense drizzle",
	56: "Light freezing drizzle",
	57: "Dense freezing drizzle",
	61: "Slight rain",
	63: "Moderate rain",
	65: "Heavy rain",
	66: "Light freezing rain",
	67: "Heavy freezing rain",
	71: "Slight snow fall",
	73: "Moderate snow fall",
	75: "Heavy snow fall",
	77: "Snow grains",
	80: "Slight rain showers",
	81: "Moderate rain showers",
	82: "Violent rain showers",
	85: "Slight snow showers",
	86: "Heavy snow showers",
	95: "Thunderstorm",
	96: "Thunderstorm with slight hail",
	99: "Thunderstorm with heavy hail",
}

// wmoIcons maps WMO weather codes to an icon for day (true) and night (false).
var wmoIcons = map[int]map[bool]string{
	0:  {true: "☀", false: "🌙"},
	1:  {true: "🌤", false: "🌙"},
	2:  {true: "⛅", false: "☁"},
	3:  {true: "☁", false: "☁"},
	45: {true: "🌫", false: "🌫"},
	48: {true: "🌫", false: "🌫"},
	51: {true: "🌦", false: "🌧"},
	53: {true: "🌧", false: "🌧"},
	55: {true: "🌧", false: "🌧"},
	56: {true: "🌨", false: "🌨"},
	57: {true: "🌨", false: "🌨"},
	61: {true: "🌦", false: "🌧"},
	63: {true: "🌧", false: "🌧"},
	65: {true: "🌧", false: "🌧"},
	66: {true: "🌨", false: "🌨"},
	67: {true: "🌨", false: "🌨"},
	71: {true: "🌨", false: "🌨"},
	73: {true: "🌨", false: "🌨"},
	75: {true: "❄", false: "❄"},
	77: {true: "❄", false: "❄"},
	80: {true: "🌦", false: "🌧"},
	81: {true: "🌧", false: "🌧"},
	82: {true: "⛈", false: "⛈"},
	85: {true: "🌨", false: "🌨"},
	86: {true: "❄", false: "❄"},
	95: {true: "⛈", false: "⛈"},
	96: {true: "⛈", false: "⛈"},
	99: {true: "⛈", false: "⛈"},
}

// Description returns the human-readable condition for a WMO weather code.
func Description(code int) string {
	if desc, ok := wmoDescriptions[code]; ok {
		return desc
	}
	return "Unknown"
}

// Icon returns the condition icon for a WMO weather code at day or night.
func Icon(code int, day bool) string {
	if icons, ok := wmoIcons[code]; ok {
		return icons[day]
	}
	return "?"
}
