// Package extract turns obituary prose into a structured family record.
//
// Extraction is a fixed sequence of stages, one per category. Each stage
// tries its templates in precedence order and keeps the first that names
// somebody. Stages read the record built so far but never modify it in
// place, so any prefix of Stages() can be run on its own in tests.
package extract

import (
	"context"

	"go.uber.org/zap"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/resolve"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/validate"
)

// Observer is told about every completed extraction
type Observer interface {
	ObserveExtraction(fam *model.Family, err error)
}

// Extractor runs the stage pipeline. It is safe for concurrent use as
// long as its Resolver is.
type Extractor struct {
	resolver Resolver
	logger   *zap.Logger
	stages   []Stage
	observer Observer
}

// Option configures an Extractor
type Option func(*Extractor)

// WithResolver sets the date and place resolver
func WithResolver(r Resolver) Option {
	return func(e *Extractor) {
		e.resolver = r
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(e *Extractor) {
		e.logger = l
	}
}

// WithObserver reports every extraction to o
func WithObserver(o Observer) Option {
	return func(e *Extractor) {
		e.observer = o
	}
}

// New creates an extractor. Without WithResolver dates are still parsed
// but places are not geocoded.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: zap.NewNop(),
		stages: Stages(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.resolver == nil {
		e.resolver = resolve.New(nil, nil, e.logger)
	}
	return e
}

// Extract validates text and runs every stage over it. It returns a nil
// family, and no error, when no category was found. Validation failures
// are returned as *validate.ValidationError.
func (e *Extractor) Extract(ctx context.Context, text string) (*model.Family, error) {
	fam, err := e.extract(ctx, text)
	if e.observer != nil {
		e.observer.ObserveExtraction(fam, err)
	}
	return fam, err
}

func (e *Extractor) extract(ctx context.Context, text string) (*model.Family, error) {
	normalized, err := validate.Text(text)
	if err != nil {
		return nil, err
	}

	fam := Run(ctx, e.resolver, normalized, e.stages).Prune()
	if fam.IsEmpty() {
		e.logger.Debug("no family information found", zap.Int("length", len(normalized)))
		return nil, nil
	}

	e.logger.Debug("family extracted", zap.Any("categories", fam.Categories()))
	return &fam, nil
}
