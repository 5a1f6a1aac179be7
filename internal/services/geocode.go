package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/joshua-takyi/sportsmeet/internal/models"
	"github.com/redis/go-redis/v9"
)

var (
	ErrGeocodingDisabled = errors.New("geocoding is not configured")
	ErrNoGeocodeResult   = errors.New("no geocoding result")
)

// Geocoder converts a free-text address into coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (models.Coordinates, error)
}

// GoogleGeocoder calls the Google Maps geocoding endpoint.
type GoogleGeocoder struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewGoogleGeocoder(baseURL, apiKey string, timeout time.Duration) *GoogleGeocoder {
	return &GoogleGeocoder{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		Geometry struct {
			Location struct {
				Lat *float64 `json:"lat"`
				Lng *float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	if g.apiKey == "" || g.baseURL == "" {
		return models.Coordinates{}, ErrGeocodingDisabled
	}

	q := url.Values{}
	q.Set("address", strings.TrimSpace(address))
	q.Set("key", g.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to build geocode request: %v", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.Coordinates{}, fmt.Errorf("geocode request failed: status %d", resp.StatusCode)
	}

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to decode geocode response: %v", err)
	}

	switch body.Status {
	case "OK":
	case "ZERO_RESULTS":
		return models.Coordinates{}, ErrNoGeocodeResult
	default:
		return models.Coordinates{}, fmt.Errorf("geocode status %s: %s", body.Status, body.ErrorMessage)
	}
	if len(body.Results) == 0 {
		return models.Coordinates{}, ErrNoGeocodeResult
	}
	loc := body.Results[0].Geometry.Location
	if loc.Lat == nil || loc.Lng == nil {
		return models.Coordinates{}, fmt.Errorf("%w: partial coordinates", ErrNoGeocodeResult)
	}
	return models.Coordinates{Latitude: *loc.Lat, Longitude: *loc.Lng}, nil
}

// geocodeCache is the subset of the redis client the cache needs.
type geocodeCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// CachedGeocoder memoizes successful lookups in redis. Cache failures are
// logged and fall through to the wrapped geocoder.
type CachedGeocoder struct {
	next   Geocoder
	cache  geocodeCache
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedGeocoder(next Geocoder, cache geocodeCache, ttl time.Duration, logger *slog.Logger) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: cache, ttl: ttl, logger: logger}
}

func geocodeKey(address string) string {
	return "geocode:" + strings.ToLower(strings.Join(strings.Fields(address), " "))
}

func (c *CachedGeocoder) Geocode(ctx context.Context, address string) (models.Coordinates, error) {
	key := geocodeKey(address)

	raw, err := c.cache.Get(ctx, key).Result()
	switch {
	case err == nil:
		var coords models.Coordinates
		if jsonErr := json.Unmarshal([]byte(raw), &coords); jsonErr == nil {
			return coords, nil
		}
		c.logger.Warn("discarding malformed geocode cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("geocode cache read failed", "key", key, "error", err)
	}

	coords, err := c.next.Geocode(ctx, address)
	if err != nil {
		return models.Coordinates{}, err
	}

	data, err := json.Marshal(coords)
	if err == nil {
		err = c.cache.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		c.logger.Warn("geocode cache write failed", "key", key, "error", err)
	}
	return coords, nil
}
