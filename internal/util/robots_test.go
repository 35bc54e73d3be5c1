package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

func robotsServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			w.WriteHeader(http.StatusOK)
			return
		}
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		_, _ = fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestRobotsChecker_Disallow(t *testing.T) {
	body := "User-agent: obituary-parser\nDisallow: /private/\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n"
	server := robotsServer(t, http.StatusOK, body, nil)
	checker := NewRobotsChecker(model.DefaultUserAgent, server.Client())

	allowed, delay, err := checker.Allowed(context.Background(), server.URL+"/obituaries/jane-doe")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !allowed {
		t.Error("Expected obituary page to be allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected crawl delay 2s, got %v", delay)
	}

	allowed, _, _ = checker.Allowed(context.Background(), server.URL+"/private/notes")
	if allowed {
		t.Error("Expected /private/ to be disallowed")
	}
}

func TestRobotsChecker_OtherAgentsBlocked(t *testing.T) {
	server := robotsServer(t, http.StatusOK, "User-agent: *\nDisallow: /\n", nil)
	checker := NewRobotsChecker("SomeBot/1.0", server.Client())

	if allowed, _, _ := checker.Allowed(context.Background(), server.URL+"/obituaries/1"); allowed {
		t.Error("Expected wildcard disallow to apply")
	}
}

func TestRobotsChecker_MissingFileAllows(t *testing.T) {
	server := robotsServer(t, http.StatusNotFound, "", nil)
	checker := NewRobotsChecker(model.DefaultUserAgent, server.Client())

	if allowed, _, _ := checker.Allowed(context.Background(), server.URL+"/anything"); !allowed {
		t.Error("Expected missing robots.txt to allow everything")
	}
}

func TestRobotsChecker_ServerErrorDisallows(t *testing.T) {
	server := robotsServer(t, http.StatusServiceUnavailable, "", nil)
	checker := NewRobotsChecker(model.DefaultUserAgent, server.Client())

	if allowed, _, _ := checker.Allowed(context.Background(), server.URL+"/anything"); allowed {
		t.Error("Expected 5xx robots.txt to disallow")
	}
}

func TestRobotsChecker_CachesPerHost(t *testing.T) {
	var hits atomic.Int32
	server := robotsServer(t, http.StatusOK, "User-agent: *\nAllow: /\n", &hits)
	checker := NewRobotsChecker(model.DefaultUserAgent, server.Client())

	for i := 0; i < 3; i++ {
		_, _, _ = checker.Allowed(context.Background(), server.URL+"/page")
	}
	if hits.Load() != 1 {
		t.Errorf("Expected 1 robots.txt fetch, got %d", hits.Load())
	}
}

func TestRobotsChecker_BadURL(t *testing.T) {
	checker := NewRobotsChecker(model.DefaultUserAgent, nil)
	if _, _, err := checker.Allowed(context.Background(), "not a url"); err == nil {
		t.Error("Expected error for URL without host")
	}
}

func TestProductToken(t *testing.T) {
	tests := map[string]string{
		model.DefaultUserAgent: "obituary-parser",
		"curl/8.0":             "curl",
		"plain":                "plain",
		"":                     "*",
	}
	for in, want := range tests {
		if got := ProductToken(in); got != want {
			t.Errorf("ProductToken(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestProxyFunc(t *testing.T) {
	proxy := ProxyFunc(model.HTTPConfig{HTTPProxy: "http://proxy:3128", HTTPSProxy: "http://secure:3129"})

	req, _ := http.NewRequest(http.MethodGet, "https://example.com", nil)
	u, err := proxy(req)
	if err != nil || u.Host != "secure:3129" {
		t.Errorf("Expected https proxy, got %v (%v)", u, err)
	}

	req, _ = http.NewRequest(http.MethodGet, "http://example.com", nil)
	u, err = proxy(req)
	if err != nil || u.Host != "proxy:3128" {
		t.Errorf("Expected http proxy, got %v (%v)", u, err)
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(model.HTTPConfig{Timeout: 5 * time.Second})
	if client.Timeout != 5*time.Second {
		t.Errorf("Expected timeout 5s, got %v", client.Timeout)
	}
	if _, ok := client.Transport.(*http.Transport); !ok {
		t.Errorf("Expected *http.Transport, got %T", client.Transport)
	}
}
