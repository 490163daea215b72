package ratesources

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/metrics"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

const (
	defaultProviderTimeout = 10 * time.Second
	maxBodyBytes           = 4 << 20
)

// HTTPProvider fetches one JSON document and hands it to a parser.
type HTTPProvider struct {
	name    string
	url     string
	parse   ParseFunc
	client  *http.Client
	timeout time.Duration
	limiter *rate.Limiter
}

var _ RateProvider = (*HTTPProvider)(nil)

// HTTPOption configures an HTTPProvider.
type HTTPOption func(*HTTPProvider)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(p *HTTPProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithTimeout bounds a single call, including the wait on the limiter.
func WithTimeout(d time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		if d > 0 {
			p.timeout = d
		}
	}
}

// WithMinInterval spaces consecutive calls to the same provider.
func WithMinInterval(d time.Duration) HTTPOption {
	return func(p *HTTPProvider) {
		if d > 0 {
			p.limiter = rate.NewLimiter(rate.Every(d), 1)
		} else {
			p.limiter = rate.NewLimiter(rate.Inf, 1)
		}
	}
}

// NewHTTPProvider creates a provider calling url and decoding it with parse.
func NewHTTPProvider(name, url string, parse ParseFunc, opts ...HTTPOption) *HTTPProvider {
	p := &HTTPProvider{
		name:    name,
		url:     url,
		parse:   parse,
		client:  &http.Client{},
		timeout: defaultProviderTimeout,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTTPProvider) Name() string { return p.name }

func (p *HTTPProvider) Fetch(ctx context.Context) (rates map[string]decimal.Decimal, err error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordProviderCall(p.name, time.Since(start), err == nil)
	}()

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("throttled: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, ErrMalformedPayload
	}
	return p.parse(body)
}
