package util

import (
	"net/http"
	"net/url"

	"github.com/nigelhorne/Genealogy-Obituary-Parser/internal/model"
)

// ProxyFunc returns the proxy selector for outbound requests. Explicit proxies
// in cfg win; otherwise the HTTP_PROXY family of env vars applies.
func ProxyFunc(cfg model.HTTPConfig) func(*http.Request) (*url.URL, error) {
	if cfg.HTTPProxy == "" && cfg.HTTPSProxy == "" {
		return http.ProxyFromEnvironment
	}

	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && cfg.HTTPSProxy != "" {
			return url.Parse(cfg.HTTPSProxy)
		}
		if cfg.HTTPProxy != "" {
			return url.Parse(cfg.HTTPProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

// NewHTTPClient builds the client shared by the fetcher and the geocoder
func NewHTTPClient(cfg model.HTTPConfig) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = ProxyFunc(cfg)
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: transport,
	}
}
