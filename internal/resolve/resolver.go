package resolve

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// Resolver enriches extracted dates and places. Failures are logged at
// debug level and swallowed; the field they would have filled is left out.
type Resolver struct {
	dates    DateParser
	geocoder Geocoder
	logger   *zap.Logger
}

// New creates a resolver. A nil geocoder disables place enrichment and a
// nil date parser uses NewDateParser.
func New(dates DateParser, geocoder Geocoder, logger *zap.Logger) *Resolver {
	if dates == nil {
		dates = NewDateParser()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{dates: dates, geocoder: geocoder, logger: logger}
}

// Date parses phrase and returns it formatted as YYYY/MM/DD
func (r *Resolver) Date(phrase string) (string, *time.Time, bool) {
	phrase = strings.TrimSpace(phrase)
	if phrase == "" {
		return "", nil, false
	}
	t, err := r.dates.Parse(phrase)
	if err != nil {
		r.logger.Debug("date not resolved", zap.String("phrase", phrase), zap.Error(err))
		return "", nil, false
	}
	return t.Format(DateFormat), &t, true
}

// Place geocodes place, returning nil when it cannot be located
func (r *Resolver) Place(ctx context.Context, place string) *model.GeoPoint {
	place = strings.TrimSpace(place)
	if r.geocoder == nil || place == "" {
		return nil
	}
	pt, err := r.geocoder.Geocode(ctx, place)
	if err != nil {
		r.logger.Debug("place not geocoded", zap.String("place", place), zap.Error(err))
		return nil
	}
	if pt.Raw == "" {
		pt.Raw = place
	}
	return pt
}
