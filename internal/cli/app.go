package cli

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/cache"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/extract"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/metrics"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/pipeline"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/resolve"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/worker"
)

// app is everything a command needs, built once from config
type app struct {
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	extractor *extract.Extractor
	pipeline  *pipeline.Pipeline
	closers   []io.Closer
}

func newApp(c *model.Config, log *zap.Logger) (*app, error) {
	if log == nil {
		log = zap.NewNop()
	}
	a := &app{registry: prometheus.NewRegistry()}
	a.metrics = metrics.New(a.registry)

	geocoder, err := a.geocoder(c, log)
	if err != nil {
		return nil, err
	}

	a.extractor = extract.New(
		extract.WithResolver(resolve.New(resolve.NewDateParser(), geocoder, log)),
		extract.WithLogger(log),
		extract.WithObserver(a.metrics),
	)

	limiter := worker.NewLimiter(c.Concurrency.RequestsPerSecond, c.Concurrency.Burst)
	a.pipeline = pipeline.New(pipeline.NewFetcher(c.HTTP, limiter), a.extractor, log)
	return a, nil
}

// geocoder returns nil when geocoding is off, so places pass through as text
func (a *app) geocoder(c *model.Config, log *zap.Logger) (resolve.Geocoder, error) {
	if !c.Geocoder.Enabled {
		return nil, nil
	}

	limiter := worker.NewLimiter(c.Geocoder.RequestsPerSecond, c.Geocoder.Burst)
	nominatim := resolve.NewNominatimGeocoder(c.Geocoder, limiter)

	store, err := cache.New(c.Cache)
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}
	if store == nil {
		return nominatim, nil
	}
	if closer, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, closer)
	}

	cached := resolve.NewCachedGeocoder(nominatim, store, c.Cache.TTL)
	metrics.RegisterGeocodeStats(a.registry, cached)
	log.Debug("geocoding enabled",
		zap.String("base_url", c.Geocoder.BaseURL),
		zap.String("cache", c.Cache.Backend))
	return cached, nil
}

func (a *app) Close() error {
	var err error
	for _, c := range a.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
