// Package rest is the authenticated HTTP client for the organizerr backend.
// It covers the torrent list and mutation endpoints, torrent submission,
// media search and the auth endpoints. Mutations are never retried here;
// callers decide how failures surface.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/Akshay-Kumar/organizerr-client/internal/domain"
	"github.com/Akshay-Kumar/organizerr-client/internal/metrics"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	search  *rate.Limiter
}

type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	// SearchRate throttles /search_media calls (autocomplete can fire on
	// every keystroke). Zero means the default of 3 requests per second.
	SearchRate  rate.Limit
	SearchBurst int
}

func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	searchRate := cfg.SearchRate
	if searchRate <= 0 {
		searchRate = rate.Limit(3)
	}
	burst := cfg.SearchBurst
	if burst <= 0 {
		burst = 1
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		http:    httpClient,
		search:  rate.NewLimiter(searchRate, burst),
	}
}

// do issues one request and decodes a JSON response into out when non-nil.
// Any network failure or non-2xx status comes back as *domain.TransportError.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return &domain.TransportError{Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if out != nil {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RESTRequestsTotal.WithLabelValues(op, "network_error").Inc()
		return &domain.TransportError{Op: op, Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RESTRequestsTotal.WithLabelValues(op, "http_error").Inc()
		if resp.StatusCode == http.StatusNotFound {
			return &domain.TransportError{Op: op, Status: resp.StatusCode, Err: domain.ErrNotFound}
		}
		return &domain.TransportError{Op: op, Status: resp.StatusCode}
	}
	metrics.RESTRequestsTotal.WithLabelValues(op, "ok").Inc()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

func tokenQuery(token string) url.Values {
	return url.Values{"token": []string{token}}
}

func torrentPath(id int64, suffix string) string {
	path := "/api/torrents/" + strconv.FormatInt(id, 10)
	if suffix != "" {
		path += "/" + suffix
	}
	return path
}
