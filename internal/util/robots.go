package util

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
)

// RobotsChecker answers whether a funeral-home or newspaper page may be
// fetched. Rules are fetched once per host and kept for the checker's life.
type RobotsChecker struct {
	mu         sync.RWMutex
	hosts      map[string]*robotstxt.RobotsData
	httpClient *http.Client
	agent      string
	userAgent  string
}

// NewRobotsChecker creates a checker that reports itself as userAgent
func NewRobotsChecker(userAgent string, client *http.Client) *RobotsChecker {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &RobotsChecker{
		hosts:      make(map[string]*robotstxt.RobotsData),
		httpClient: client,
		agent:      ProductToken(userAgent),
		userAgent:  userAgent,
	}
}

// Allowed reports whether rawURL may be fetched and the crawl delay the host
// asks for. An unreachable robots.txt allows everything.
func (r *RobotsChecker) Allowed(ctx context.Context, rawURL string) (bool, time.Duration, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, 0, fmt.Errorf("parse URL: %w", err)
	}
	if u.Host == "" {
		return false, 0, fmt.Errorf("parse URL: no host in %q", rawURL)
	}

	data := r.rules(ctx, u)
	if data == nil {
		return true, 0, nil
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return data.TestAgent(path, r.agent), data.FindGroup(r.agent).CrawlDelay, nil
}

func (r *RobotsChecker) rules(ctx context.Context, u *url.URL) *robotstxt.RobotsData {
	r.mu.RLock()
	data, ok := r.hosts[u.Host]
	r.mu.RUnlock()
	if ok {
		return data
	}

	data, err := r.fetch(ctx, u.Scheme+"://"+u.Host+"/robots.txt")
	if err != nil {
		// Not cached so a later call can retry
		return nil
	}

	r.mu.Lock()
	r.hosts[u.Host] = data
	r.mu.Unlock()
	return data
}

func (r *RobotsChecker) fetch(ctx context.Context, robotsURL string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// FromResponse treats 4xx as allow-all and 5xx as disallow-all
	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}
	return data, nil
}

// ProductToken reduces a User-Agent header to the product name robots.txt
// groups are matched against, e.g. "obituary-parser/0.3 (+url)" becomes
// "obituary-parser".
func ProductToken(ua string) string {
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return "*"
	}
	product, _, _ := strings.Cut(fields[0], "/")
	return product
}
