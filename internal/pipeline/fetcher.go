package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/util"
	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/worker"
)

const (
	maxRedirects   = 3
	maxAttempts    = 3
	baseRetryDelay = time.Second
)

// ErrDisallowed is returned when robots.txt forbids fetching a page
var ErrDisallowed = errors.New("disallowed by robots.txt")

// fetchSleepFunc is swapped out by tests
var fetchSleepFunc = time.Sleep

// StatusError reports a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status: %d %s", e.Code, e.Status)
}

// Fetcher downloads obituary pages
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *util.RobotsChecker
	limiter    *worker.Limiter
	delayed    sync.Map // hosts whose crawl delay is already applied
}

// NewFetcher creates a fetcher from the http config section. A nil limiter
// leaves requests unthrottled.
func NewFetcher(cfg model.HTTPConfig, limiter *worker.Limiter) *Fetcher {
	client := util.NewHTTPClient(cfg)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	ua := cfg.UserAgent
	if ua == "" {
		ua = model.DefaultUserAgent
	}
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = model.DefaultConfig().HTTP.MaxBodyBytes
	}

	f := &Fetcher{
		httpClient: client,
		userAgent:  ua,
		maxBytes:   maxBytes,
		limiter:    limiter,
	}
	if cfg.RespectRobots {
		f.robots = util.NewRobotsChecker(ua, client)
	}
	return f
}

// FetchResult is a downloaded page
type FetchResult struct {
	Body        string
	ContentType string
	FinalURL    string
	Subject     string
}

// IsHTML reports whether the body should go through the HTML text extractor
func (r *FetchResult) IsHTML() bool {
	if strings.Contains(r.ContentType, "html") {
		return true
	}
	if r.ContentType == "" || strings.HasPrefix(r.ContentType, "text/plain") {
		return looksLikeHTML(r.Body)
	}
	return false
}

// FetchWithRetry fetches rawURL, retrying 5xx, 429 and connection errors
// with a linear backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		result, err := f.Fetch(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !isRetryableFetchError(err) || ctx.Err() != nil {
			return nil, err
		}
		if attempt < maxAttempts {
			fetchSleepFunc(time.Duration(attempt) * baseRetryDelay)
		}
	}
	return nil, fmt.Errorf("after %d attempts: %w", maxAttempts, lastErr)
}

// Fetch retrieves rawURL once
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*FetchResult, error) {
	if f.robots != nil {
		allowed, delay, err := f.robots.Allowed(ctx, rawURL)
		if err != nil {
			return nil, fmt.Errorf("check robots: %w", err)
		}
		if !allowed {
			return nil, fmt.Errorf("%s: %w", rawURL, ErrDisallowed)
		}
		if delay > 0 && f.limiter != nil {
			f.applyCrawlDelay(rawURL, delay)
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	return &FetchResult{
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    finalURL,
		Subject:     Slug(finalURL),
	}, nil
}

// applyCrawlDelay slows the limiter for the host once; repeating it would
// refill the bucket
func (f *Fetcher) applyCrawlDelay(rawURL string, delay time.Duration) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return
	}
	if _, loaded := f.delayed.LoadOrStore(u.Host, true); loaded {
		return
	}
	f.limiter.SetHostRate(u.Host, 1/delay.Seconds(), 1)
}

func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}
	return strings.HasPrefix(err.Error(), "fetch: ")
}

// Slug derives a file-name-safe label from a URL or path, e.g.
// "https://example.com/obits/jane-doe-1931.html" becomes "jane-doe-1931"
func Slug(source string) string {
	p := source
	if u, err := url.Parse(source); err == nil && u.Host != "" {
		p = strings.Trim(u.Path, "/")
		if p == "" {
			p = u.Host
		}
	}

	base := path.Base(strings.ReplaceAll(p, "\\", "/"))
	switch ext := strings.ToLower(path.Ext(base)); ext {
	case ".html", ".htm", ".txt", ".php", ".aspx":
		base = base[:len(base)-len(ext)]
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		return "obituary"
	}
	return slug
}
