package resolve

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/cache"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/worker"
)

// ErrNoResult is returned when the geocoder knows no such place
var ErrNoResult = errors.New("geocoder: no result")

// Geocoder locates a place name
type Geocoder interface {
	Geocode(ctx context.Context, place string) (*model.GeoPoint, error)
}

// NominatimGeocoder queries an OpenStreetMap Nominatim server
type NominatimGeocoder struct {
	baseURL   string
	userAgent string
	client    *http.Client
	limiter   *worker.Limiter
}

// NewNominatimGeocoder creates a geocoder from config. Requests share
// limiter with any other caller of the same host.
func NewNominatimGeocoder(cfg model.GeocoderConfig, limiter *worker.Limiter) *NominatimGeocoder {
	if limiter == nil {
		limiter = worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst)
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = model.DefaultUserAgent
	}
	return &NominatimGeocoder{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: ua,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   limiter,
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the best match for place
func (g *NominatimGeocoder) Geocode(ctx context.Context, place string) (*model.GeoPoint, error) {
	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	endpoint := g.baseURL + "/search?" + q.Encode()

	if err := g.limiter.Wait(ctx, endpoint); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", g.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned HTTP %d", resp.StatusCode)
	}

	var places []nominatimPlace
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&places); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return nil, ErrNoResult
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("parse latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("parse longitude: %w", err)
	}

	return &model.GeoPoint{Raw: place, Latitude: lat, Longitude: lon}, nil
}

// CachedGeocoder answers repeated places from a cache owned by the caller.
// Only successful lookups are stored.
type CachedGeocoder struct {
	next   Geocoder
	cache  cache.Cache
	ttl    time.Duration
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCachedGeocoder wraps next with c
func NewCachedGeocoder(next Geocoder, c cache.Cache, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{next: next, cache: c, ttl: ttl}
}

// Geocode consults the cache before the wrapped geocoder
func (g *CachedGeocoder) Geocode(ctx context.Context, place string) (*model.GeoPoint, error) {
	key := cache.GeocodeKey(place)

	if data, ok := g.cache.Get(key); ok {
		var pt model.GeoPoint
		if err := json.Unmarshal(data, &pt); err == nil {
			g.hits.Add(1)
			return &pt, nil
		}
	}
	g.misses.Add(1)

	pt, err := g.next.Geocode(ctx, place)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(pt); err == nil {
		_ = g.cache.Set(key, data, g.ttl)
	}
	return pt, nil
}

// Stats reports cache hits and misses since creation
func (g *CachedGeocoder) Stats() (hits, misses int64) {
	return g.hits.Load(), g.misses.Load()
}
