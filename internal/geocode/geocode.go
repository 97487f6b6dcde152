// Package geocode resolves street addresses with the Google Geocoding API,
// keeping every successful answer in a local file cache.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yakoovad/meeting-guide/pkg/logger"
	"go.uber.org/zap"
	"googlemaps.github.io/maps"
)

type CacheStatus string

const (
	CacheHit     CacheStatus = "HIT"
	CacheMiss    CacheStatus = "MISS"
	CacheInvalid CacheStatus = "INVALID"
)

const statusOverQueryLimit = "OVER_QUERY_LIMIT"

var cacheKeyRegex = regexp.MustCompile(`[^0-9a-zA-Z]+`)

type Config struct {
	APIKey string
	// Bounds biases results towards a viewport, as "swLat,swLng|neLat,neLng".
	Bounds   string
	CacheDir string
	// BaseURL replaces the Google API host, for tests.
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	maps     *maps.Client
	bounds   *maps.LatLngBounds
	cacheDir string
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	bounds, err := parseBounds(cfg.Bounds)
	if err != nil {
		return nil, err
	}

	opts := []maps.ClientOption{
		maps.WithAPIKey(cfg.APIKey),
		maps.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, maps.WithBaseURL(cfg.BaseURL))
	}

	mc, err := maps.NewClient(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create maps client")
	}

	return &Client{maps: mc, bounds: bounds, cacheDir: cfg.CacheDir}, nil
}

func parseBounds(s string) (*maps.LatLngBounds, error) {
	if s == "" {
		return nil, nil
	}

	sw, ne, ok := strings.Cut(s, "|")
	if !ok {
		return nil, errors.Errorf("invalid geocode bounds %q", s)
	}
	southWest, err := maps.ParseLatLng(sw)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid geocode bounds %q", s)
	}
	northEast, err := maps.ParseLatLng(ne)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid geocode bounds %q", s)
	}
	return &maps.LatLngBounds{NorthEast: northEast, SouthWest: southWest}, nil
}

// Result holds the address parts the location editor needs. Problem is "OK"
// when every part was found, otherwise it describes what is missing.
type Result struct {
	Problem          string            `json:"problem"`
	CacheStatus      CacheStatus       `json:"cache_status"`
	FormattedAddress string            `json:"formatted_address,omitempty"`
	Lat              float64           `json:"lat"`
	Lng              float64           `json:"lng"`
	StreetAddress    string            `json:"full_address,omitempty"`
	Region           string            `json:"region"`
	Subregion        string            `json:"subregion"`
	City             string            `json:"city"`
	Components       map[string]string `json:"components,omitempty"`
}

// Found reports whether the geocoder returned a position.
func (r *Result) Found() bool {
	return r.FormattedAddress != ""
}

// CachePath is the file a given address is cached in.
func (c *Client) CachePath(address string) string {
	key := cacheKeyRegex.ReplaceAllString(strings.ToLower(strings.TrimLeft(address, " ")), "")
	return filepath.Join(c.cacheDir, key+".json")
}

func (c *Client) Geocode(ctx context.Context, address string) (*Result, error) {
	l := logger.FromContext(ctx)

	res := &Result{Problem: "OK", CacheStatus: CacheMiss}
	path := c.CachePath(address)

	results, ok := c.readCache(path, res)
	if !ok {
		var err error
		results, err = c.maps.Geocode(ctx, &maps.GeocodingRequest{
			Address: strings.ReplaceAll(strings.TrimLeft(address, " "), "'", ""),
			Bounds:  c.bounds,
		})
		switch {
		case err != nil && strings.Contains(err.Error(), statusOverQueryLimit):
			res.Problem = "Google returned \"OVER_QUERY_LIMIT\"; have we hit the API too much?"
			return res, nil
		case err != nil:
			return nil, errors.Wrap(err, "geocode request failed")
		}
		if len(results) > 0 {
			if err = c.writeCache(path, results); err != nil {
				l.Warn("failed to write geocode cache", zap.String("path", path), zap.Error(err))
			}
		}
	}

	l.Debug("geocoded address",
		zap.String("address", address),
		zap.Int("results", len(results)),
		zap.String("cache_status", string(res.CacheStatus)))

	if len(results) == 0 {
		res.Problem = fmt.Sprintf("Google returned \"ZERO_RESULTS\" for address %s.", address)
		return res, nil
	}

	extract(results[0], res, address)
	return res, nil
}

// readCache loads the results stored for an address. Files that cannot be
// decoded are removed so the address is fetched again.
func (c *Client) readCache(path string, res *Result) ([]maps.GeocodingResult, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	var results []maps.GeocodingResult
	if err = json.Unmarshal(raw, &results); err != nil {
		_ = os.Remove(path)
		res.CacheStatus = CacheInvalid
		return nil, false
	}

	res.CacheStatus = CacheHit
	return results, true
}

func (c *Client) writeCache(path string, results []maps.GeocodingResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	raw, err := json.MarshalIndent(results, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0o644)
}

// first returns the first present component among keys, most preferred
// first.
func first(components map[string]string, keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := components[k]; ok {
			return v, true
		}
	}
	return "", false
}

func extract(top maps.GeocodingResult, res *Result, address string) {
	res.FormattedAddress = top.FormattedAddress
	res.Lat = top.Geometry.Location.Lat
	res.Lng = top.Geometry.Location.Lng

	res.Components = make(map[string]string)
	for _, component := range top.AddressComponents {
		for _, t := range component.Types {
			res.Components[t] = component.ShortName
		}
	}

	number, hasNumber := res.Components["street_number"]
	route, hasRoute := res.Components["route"]
	if !hasNumber || !hasRoute {
		res.Problem = fmt.Sprintf("Google did not return \"street_number\" or \"route\" for address %s.", address)
		return
	}
	res.StreetAddress = number + " " + route

	if county, ok := res.Components["administrative_area_level_2"]; ok {
		res.Region = county
	} else {
		res.Problem = fmt.Sprintf("Google did not return \"administrative_area_level_2\" (county / parish) for address %s.", address)
	}

	if sub, ok := first(res.Components, "neighborhood", "sublocality", "locality", "administrative_area_level_3", "city"); ok {
		res.Subregion = sub
	} else {
		res.Problem = fmt.Sprintf("Google did not return \"neighborhood\", \"locality\", \"sublocality\", \"city\", "+
			"or \"administrative_area_level_3\" for subregion field for address %s.", address)
	}

	if city, ok := first(res.Components, "city", "administrative_area_level_3", "locality", "sublocality", "neighborhood"); ok {
		res.City = city
	} else {
		res.Problem = fmt.Sprintf("Google did not return \"neighborhood\", \"locality\", \"city\", "+
			"or \"administrative_area_level_3\" for city field for address %s.", address)
	}
}
