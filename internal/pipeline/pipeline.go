package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/extract"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/validate"
)

// ErrNoFetcher is returned for URL sources when the pipeline was built
// without a fetcher
var ErrNoFetcher = errors.New("URL sources need a fetcher")

// reObituaryCue marks the line where the notice itself most likely starts
var reObituaryCue = regexp.MustCompile(`(?i)\b(?:passed away|died|obituary|survived by|predeceased|in loving memory)\b`)

// Pipeline turns a source (text, file, page) into a family record
type Pipeline struct {
	fetcher   *Fetcher
	extractor *extract.Extractor
	logger    *zap.Logger
}

// New creates a pipeline. fetcher may be nil when only local sources are used.
func New(fetcher *Fetcher, extractor *extract.Extractor, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		fetcher:   fetcher,
		extractor: extractor,
		logger:    logger,
	}
}

// Process extracts from a URL or a file path. It implements worker.Processor.
func (p *Pipeline) Process(ctx context.Context, source string) (*model.Family, error) {
	if IsURL(source) {
		return p.ExtractURL(ctx, source)
	}
	return p.ExtractFile(ctx, source)
}

// ExtractText runs the extractor over plain text
func (p *Pipeline) ExtractText(ctx context.Context, text string) (*model.Family, error) {
	return p.extractor.Extract(ctx, text)
}

// ExtractReader reads everything from r, which may be plain text or HTML
func (p *Pipeline) ExtractReader(ctx context.Context, r io.Reader) (*model.Family, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return p.extractBody(ctx, string(data), looksLikeHTML(string(data)))
}

// ExtractFile reads a local .txt or .html obituary
func (p *Pipeline) ExtractFile(ctx context.Context, path string) (*model.Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	body := string(data)
	ext := strings.ToLower(filepath.Ext(path))
	isHTML := ext == ".html" || ext == ".htm" || looksLikeHTML(body)
	return p.extractBody(ctx, body, isHTML)
}

// ExtractURL fetches an obituary page and extracts from its visible text
func (p *Pipeline) ExtractURL(ctx context.Context, rawURL string) (*model.Family, error) {
	if p.fetcher == nil {
		return nil, ErrNoFetcher
	}
	result, err := p.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	p.logger.Debug("fetched obituary",
		zap.String("url", result.FinalURL),
		zap.String("content_type", result.ContentType),
		zap.Int("bytes", len(result.Body)))

	return p.extractBody(ctx, result.Body, result.IsHTML())
}

func (p *Pipeline) extractBody(ctx context.Context, body string, isHTML bool) (*model.Family, error) {
	text := body
	if isHTML {
		var err error
		if text, err = VisibleText(body); err != nil {
			return nil, err
		}
	}
	return p.extractor.Extract(ctx, Focus(text))
}

// Focus trims page text that is over the extractor's length limit down to
// the part most likely to be the notice: from the first line with an
// obituary cue, as many whole lines as fit. Text within the limit is
// returned unchanged.
func Focus(text string) string {
	if utf8.RuneCountInString(text) <= validate.MaxTextLength {
		return text
	}

	lines := strings.Split(text, "\n")
	start := 0
	for i, line := range lines {
		if reObituaryCue.MatchString(line) {
			start = i
			break
		}
	}

	var kept []string
	n := 0
	for _, line := range lines[start:] {
		size := utf8.RuneCountInString(line) + 1
		if n+size > validate.MaxTextLength {
			break
		}
		kept = append(kept, line)
		n += size
	}
	if len(kept) == 0 {
		// One huge line; cut it on a rune boundary
		return string([]rune(lines[start])[:validate.MaxTextLength])
	}
	return strings.Join(kept, "\n")
}

// IsURL reports whether source should be fetched rather than read from disk
func IsURL(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
