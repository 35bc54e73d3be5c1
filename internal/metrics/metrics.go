// Package metrics holds the Prometheus instruments for extraction.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/validate"
)

// Extraction results
const (
	ResultMatch   = "match"
	ResultNoMatch = "no_match"
	ResultInvalid = "invalid"
	ResultError   = "error"
)

// GeocodeStats reports cache hits and misses, see resolve.CachedGeocoder
type GeocodeStats interface {
	Stats() (hits, misses int64)
}

// Metrics provides observability for extraction
type Metrics struct {
	// Extractions by result
	Extractions *prometheus.CounterVec

	// Categories found, one increment per category per matched notice
	Categories *prometheus.CounterVec

	// Sources processed by batch or server, by result
	SourceDuration *prometheus.HistogramVec
}

// New registers the extraction metrics with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Extractions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "obituary_extractions_total",
			Help: "Total extractions by result",
		}, []string{"result"}), // match, no_match, invalid, error

		Categories: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "obituary_categories_total",
			Help: "Family categories found in matched notices",
		}, []string{"category"}),

		SourceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "obituary_source_duration_seconds",
			Help:    "Duration of reading, fetching and extracting one source",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}, []string{"result"}),
	}
}

// RegisterGeocodeStats exposes the geocode cache counters of stats
func RegisterGeocodeStats(reg prometheus.Registerer, stats GeocodeStats) {
	factory := promauto.With(reg)
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "obituary_geocode_cache_hits_total",
		Help: "Geocode lookups answered from cache",
	}, func() float64 {
		hits, _ := stats.Stats()
		return float64(hits)
	})
	factory.NewCounterFunc(prometheus.CounterOpts{
		Name: "obituary_geocode_cache_misses_total",
		Help: "Geocode lookups sent to the geocoder",
	}, func() float64 {
		_, misses := stats.Stats()
		return float64(misses)
	})
}

// Result classifies the outcome of one extraction
func Result(fam *model.Family, err error) string {
	var verr *validate.ValidationError
	switch {
	case errors.As(err, &verr):
		return ResultInvalid
	case err != nil:
		return ResultError
	case fam == nil:
		return ResultNoMatch
	default:
		return ResultMatch
	}
}

// ObserveExtraction counts one extraction. It implements extract.Observer.
func (m *Metrics) ObserveExtraction(fam *model.Family, err error) {
	if m == nil {
		return
	}
	m.Extractions.WithLabelValues(Result(fam, err)).Inc()
	if fam != nil {
		for _, c := range fam.Categories() {
			m.Categories.WithLabelValues(string(c)).Inc()
		}
	}
}

// ObserveSource records how long one source took
func (m *Metrics) ObserveSource(fam *model.Family, err error, d time.Duration) {
	if m != nil {
		m.SourceDuration.WithLabelValues(Result(fam, err)).Observe(d.Seconds())
	}
}
