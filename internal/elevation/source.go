// Package elevation supplies terrain elevation for geographic positions,
// caching lookups spatially so dense waypoint sets near one another collapse
// to a handful of external calls.
package elevation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/HansenHomeAI/DronePathAlgorithim/internal/geo"
	"github.com/HansenHomeAI/DronePathAlgorithim/internal/httputil"
)

// Source resolves terrain elevation in feet for a position. Implementations
// may fail; callers go through Cache, which absorbs failures with a default.
type Source interface {
	LookupFt(ctx context.Context, pos geo.LatLon) (float64, error)
}

// StaticSource returns a constant elevation and never fails.
type StaticSource float64

// LookupFt returns the constant elevation.
func (s StaticSource) LookupFt(context.Context, geo.LatLon) (float64, error) {
	return float64(s), nil
}

// DefaultEPQSBaseURL is the USGS Elevation Point Query Service endpoint.
const DefaultEPQSBaseURL = "https://epqs.nationalmap.gov/v1/json"

// DefaultLookupTimeout bounds one external elevation call.
const DefaultLookupTimeout = 5 * time.Second

// EPQSSource queries the USGS point query service over HTTP.
type EPQSSource struct {
	BaseURL string
	Client  httputil.Client
	Timeout time.Duration
}

// NewEPQSSource returns an EPQSSource with the given client, defaulting to
// http.DefaultClient, the public endpoint, and the default timeout.
func NewEPQSSource(client httputil.Client) *EPQSSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &EPQSSource{
		BaseURL: DefaultEPQSBaseURL,
		Client:  client,
		Timeout: DefaultLookupTimeout,
	}
}

type epqsResponse struct {
	Value float64 `json:"value"`
}

// LookupFt queries the service for the elevation at pos, in feet.
func (s *EPQSSource) LookupFt(ctx context.Context, pos geo.LatLon) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	q := url.Values{}
	q.Set("x", fmt.Sprintf("%.6f", pos.Lon))
	q.Set("y", fmt.Sprintf("%.6f", pos.Lat))
	q.Set("units", "Feet")
	q.Set("output", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build elevation request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("elevation lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("elevation lookup: unexpected status %d", resp.StatusCode)
	}

	var parsed epqsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return 0, fmt.Errorf("decode elevation response: %w", err)
	}
	return parsed.Value, nil
}
