package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// Processor extracts a family record from one source, a file path or URL
type Processor interface {
	Process(ctx context.Context, source string) (*model.Family, error)
}

// ExtractJob extracts one source
type ExtractJob struct {
	Source    string
	Processor Processor
}

// Execute runs the extraction
func (j *ExtractJob) Execute(ctx context.Context) Result {
	start := time.Now()
	family, err := j.Processor.Process(ctx, j.Source)
	return &ExtractResult{
		Source:   j.Source,
		Family:   family,
		Error:    err,
		Duration: time.Since(start),
	}
}

// ExtractResult is the outcome for one source. Family is nil both on
// error and when the text matched nothing.
type ExtractResult struct {
	Source   string
	Family   *model.Family
	Error    error
	Duration time.Duration
}

// GetError returns the error from the extraction
func (r *ExtractResult) GetError() error {
	return r.Error
}

// BatchProcessor extracts many sources concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
	logger      *zap.Logger
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int, logger *zap.Logger) *BatchProcessor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
		logger:      logger,
	}
}

// ProcessSources extracts every source and returns results in input order
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*ExtractResult {
	if len(sources) == 0 {
		return []*ExtractResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	for _, src := range sources {
		if !pool.Submit(&ExtractJob{Source: src, Processor: b.processor}) {
			b.logger.Warn("batch cancelled before all sources were queued", zap.String("source", src))
			break
		}
	}

	results := pool.Wait()

	out := make([]*ExtractResult, len(results))
	for i, r := range results {
		out[i] = r.(*ExtractResult)
		if out[i].Error != nil {
			b.logger.Debug("extraction failed", zap.String("source", out[i].Source), zap.Error(out[i].Error))
		}
	}
	return out
}

// ProcessFile reads sources from a file and extracts them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ExtractResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads one path or URL per line, skipping blank
// lines, # comments and duplicates
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
