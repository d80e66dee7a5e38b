// Package geocode resolves place names to coordinates through the Open-Meteo
// geocoding API.
package geocode

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Alessio-Matteucci/Terremeteo/internal/httpx"
	"github.com/Alessio-Matteucci/Terremeteo/internal/logging"
)

// DefaultEndpoint is the Open-Meteo geocoding search endpoint.
const DefaultEndpoint = "https://geocoding-api.open-meteo.com/v1/search"

// MaxResults is the number of candidates requested per search.
const MaxResults = 10

// Candidate is one geocoding match.
type Candidate struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type searchResponse struct {
	Results []Candidate `json:"results"`
}

// DefaultLanguage is the result language requested when none is configured.
const DefaultLanguage = "en"

// Client queries the geocoding API.
type Client struct {
	http     *httpx.Client
	logger   *logging.Logger
	endpoint string
	language string
}

// New creates a geocoding client against the default endpoint.
func New(http *httpx.Client, logger *logging.Logger) *Client {
	return &Client{http: http, logger: logger, endpoint: DefaultEndpoint, language: DefaultLanguage}
}

// NewWithEndpoint creates a geocoding client against a custom endpoint. Used
// by tests to point at a local server.
func NewWithEndpoint(http *httpx.Client, logger *logging.Logger, endpoint string) *Client {
	return &Client{http: http, logger: logger, endpoint: endpoint, language: DefaultLanguage}
}

// SetLanguage selects the language of returned place names, as an ISO 639-1
// code (e.g. "it"). Empty keeps the default.
func (c *Client) SetLanguage(lang string) {
	if lang != "" {
		c.language = lang
	}
}

// Search returns up to MaxResults candidates for a free-text place query.
// Failures degrade to an empty result: search-as-you-type tolerates a flaky
// network, so errors are logged and swallowed rather than surfaced per
// keystroke.
func (c *Client) Search(ctx context.Context, query string) []Candidate {
	if query == "" {
		return nil
	}

	params := url.Values{}
	params.Set("name", query)
	params.Set("count", strconv.Itoa(MaxResults))
	params.Set("language", c.language)
	params.Set("format", "json")

	var resp searchResponse
	status, err := c.http.GetJSON(ctx, c.endpoint, params, &resp)
	if err != nil {
		c.logger.Warn("geocoding search %q failed (status %d): %v", query, status, err)
		return nil
	}

	return resp.Results
}
