// Package reachability provides an HTTP-based network reachability signal.
package reachability

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/scanlog/internal/core/domain"
	"github.com/custodia-labs/scanlog/internal/core/ports/driven"
	"github.com/custodia-labs/scanlog/internal/logger"
)

// Ensure HTTPProbe implements the interface.
var _ driven.Reachability = (*HTTPProbe)(nil)

// defaultRequestTimeout caps a single request independently of the
// connectivity timeout, so abandoned probes do not linger.
const defaultRequestTimeout = 10 * time.Second

// HTTPProbe decides reachability by requesting a URL. Any HTTP response
// below 500 counts as reachable.
type HTTPProbe struct {
	url      string
	interval time.Duration
	client   *http.Client
}

// Option configures an HTTPProbe.
type Option func(*HTTPProbe)

// WithClient replaces the HTTP client.
func WithClient(client *http.Client) Option {
	return func(p *HTTPProbe) {
		p.client = client
	}
}

// NewHTTPProbe creates a probe for url, polled every interval by Watch.
// The default client negotiates HTTP/2 over TLS and falls back to HTTP/1.1.
func NewHTTPProbe(url string, interval time.Duration, opts ...Option) (*HTTPProbe, error) {
	if interval <= 0 {
		interval = domain.DefaultPollInterval
	}
	p := &HTTPProbe{url: url, interval: interval}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil {
		client, err := newHTTP2Client()
		if err != nil {
			return nil, err
		}
		p.client = client
	}
	return p, nil
}

func newHTTP2Client() (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DisableKeepAlives = true
	if _, err := http2.ConfigureTransports(transport); err != nil {
		return nil, fmt.Errorf("configuring http2 transport: %w", err)
	}
	return &http.Client{
		Transport: transport,
		Timeout:   defaultRequestTimeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			// Any answer will do.
			return http.ErrUseLastResponse
		},
	}, nil
}

// URL returns the probed URL.
func (p *HTTPProbe) URL() string {
	return p.url
}

// Reachable performs one request.
func (p *HTTPProbe) Reachable(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return false, fmt.Errorf("building probe request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("probing %s: %w", p.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	return resp.StatusCode < http.StatusInternalServerError, nil
}

// Watch polls at the configured interval and emits each change, starting
// with the first observed value.
func (p *HTTPProbe) Watch(ctx context.Context) (<-chan bool, error) {
	out := make(chan bool)
	limiter := rate.NewLimiter(rate.Every(p.interval), 1)

	go func() {
		defer close(out)
		var (
			last  bool
			known bool
		)
		for {
			if err := limiter.Wait(ctx); err != nil {
				return
			}
			reachable, err := p.Reachable(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Debug("reachability: %v", err)
			}
			if known && reachable == last {
				continue
			}
			known, last = true, reachable
			select {
			case out <- reachable:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
