package geocode

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

const okResponse = `{
  "status": "OK",
  "results": [{
    "formatted_address": "100 Main St, Towson, MD 21204, USA",
    "geometry": {"location": {"lat": 39.4, "lng": -76.6}},
    "address_components": [
      {"short_name": "100", "long_name": "100", "types": ["street_number"]},
      {"short_name": "Main St", "long_name": "Main Street", "types": ["route"]},
      {"short_name": "Towson", "long_name": "Towson", "types": ["locality", "political"]},
      {"short_name": "Baltimore County", "long_name": "Baltimore County", "types": ["administrative_area_level_2", "political"]}
    ]
  }]
}`

func newTestClient(t *testing.T, body string, calls *int32) *Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "/maps/api/geocode/json", r.URL.Path)
		assert.Equal(t, "AIzaTestKey", r.URL.Query().Get("key"))
		assert.Equal(t, "100 Main St Towson", r.URL.Query().Get("address"))
		assert.Equal(t, "39.2,-76.9|39.6,-76.4", r.URL.Query().Get("bounds"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		APIKey:   "AIzaTestKey",
		Bounds:   "39.2,-76.9|39.6,-76.4",
		CacheDir: t.TempDir(),
		BaseURL:  srv.URL,
	})
	require.NoError(t, err)
	return c
}

func TestClient_Geocode(t *testing.T) {
	var calls int32
	c := newTestClient(t, okResponse, &calls)

	res, err := c.Geocode(context.Background(), " 100 Main St Towson")
	require.NoError(t, err)

	assert.Equal(t, "OK", res.Problem)
	assert.Equal(t, CacheMiss, res.CacheStatus)
	assert.True(t, res.Found())
	assert.Equal(t, "100 Main St", res.StreetAddress)
	assert.Equal(t, "Baltimore County", res.Region)
	assert.Equal(t, "Towson", res.Subregion)
	assert.Equal(t, "Towson", res.City)
	assert.InDelta(t, 39.4, res.Lat, 1e-9)
	assert.InDelta(t, -76.6, res.Lng, 1e-9)

	_, err = os.Stat(c.CachePath("100 Main St Towson"))
	require.NoError(t, err)

	res, err = c.Geocode(context.Background(), "100 Main St Towson")
	require.NoError(t, err)
	assert.Equal(t, CacheHit, res.CacheStatus)
	assert.Equal(t, "Baltimore County", res.Region)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_GeocodeProblems(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		problem string
	}{
		{
			name:    "zero results",
			body:    `{"status": "ZERO_RESULTS", "results": []}`,
			problem: `Google returned "ZERO_RESULTS" for address 100 Main St Towson.`,
		},
		{
			name:    "over query limit",
			body:    `{"status": "OVER_QUERY_LIMIT", "results": []}`,
			problem: `Google returned "OVER_QUERY_LIMIT"; have we hit the API too much?`,
		},
		{
			name: "no street number",
			body: `{"status": "OK", "results": [{"formatted_address": "Towson, MD", "geometry": {"location": {"lat": 1, "lng": 2}},
				"address_components": [{"short_name": "Towson", "types": ["locality"]}]}]}`,
			problem: `Google did not return "street_number" or "route" for address 100 Main St Towson.`,
		},
		{
			name: "no county",
			body: `{"status": "OK", "results": [{"formatted_address": "100 Main St", "geometry": {"location": {"lat": 1, "lng": 2}},
				"address_components": [{"short_name": "100", "types": ["street_number"]}, {"short_name": "Main St", "types": ["route"]},
				{"short_name": "Towson", "types": ["locality"]}]}]}`,
			problem: `Google did not return "administrative_area_level_2" (county / parish) for address 100 Main St Towson.`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			c := newTestClient(t, tt.body, &calls)

			res, err := c.Geocode(context.Background(), "100 Main St Towson")
			require.NoError(t, err)
			assert.Equal(t, tt.problem, res.Problem)
		})
	}
}

func TestClient_InvalidCacheFile(t *testing.T) {
	var calls int32
	c := newTestClient(t, okResponse, &calls)

	path := c.CachePath("100 Main St Towson")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	res, err := c.Geocode(context.Background(), "100 Main St Towson")
	require.NoError(t, err)
	assert.Equal(t, CacheInvalid, res.CacheStatus)
	assert.True(t, res.Found())
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestClient_CachePath(t *testing.T) {
	c, err := NewClient(Config{APIKey: "AIzaTestKey", CacheDir: "cache"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("cache", "100mainsttowsonmd.json"), c.CachePath("  100 Main St., Towson, MD"))
}

func TestClient_CachesResults(t *testing.T) {
	var calls int32
	c := newTestClient(t, okResponse, &calls)

	_, err := c.Geocode(context.Background(), "100 Main St Towson")
	require.NoError(t, err)

	raw, err := os.ReadFile(c.CachePath("100 Main St Towson"))
	require.NoError(t, err)

	var cached []maps.GeocodingResult
	require.NoError(t, json.Unmarshal(raw, &cached))
	require.Len(t, cached, 1)
	assert.Equal(t, "100 Main St, Towson, MD 21204, USA", cached[0].FormattedAddress)
	assert.Len(t, cached[0].AddressComponents, 4)
}

func TestParseBounds(t *testing.T) {
	tests := []struct {
		name   string
		bounds string
		want   *maps.LatLngBounds
		err    bool
	}{
		{name: "empty", bounds: ""},
		{
			name:   "south west then north east",
			bounds: "39.2,-76.9|39.6,-76.4",
			want: &maps.LatLngBounds{
				SouthWest: maps.LatLng{Lat: 39.2, Lng: -76.9},
				NorthEast: maps.LatLng{Lat: 39.6, Lng: -76.4},
			},
		},
		{name: "single corner", bounds: "39.2,-76.9", err: true},
		{name: "not a number", bounds: "north,-76.9|39.6,-76.4", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBounds(tt.bounds)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
