package ratesources

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Chain resolves codes by walking groups, and providers within a group,
// strictly in order.
type Chain struct {
	groups []Group
	sink   Sink
	logger *slog.Logger
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithSink writes every successful provider table through to s.
func WithSink(s Sink) ChainOption {
	return func(c *Chain) { c.sink = s }
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l *slog.Logger) ChainOption {
	return func(c *Chain) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewChain creates a chain over groups in the given order.
func NewChain(groups []Group, opts ...ChainOption) *Chain {
	c := &Chain{groups: groups, logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChainResult holds what one Resolve call produced.
type ChainResult struct {
	// Rates has an entry only for requested codes that were resolved.
	Rates map[string]decimal.Decimal
	// Errors has one "<provider>: <cause>" line per failed call.
	Errors []string
}

// Resolve looks up codes. Provider failures are collected, never returned.
// A group is skipped once every code it accepts is resolved, and a provider
// is skipped once its group has nothing left to find.
func (c *Chain) Resolve(ctx context.Context, codes []string) ChainResult {
	res := ChainResult{Rates: make(map[string]decimal.Decimal)}

	pending := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" || code == domain.USDCode {
			continue
		}
		pending[code] = struct{}{}
	}

	for _, g := range c.groups {
		if len(pending) == 0 {
			break
		}
		wanted := 0
		for code := range pending {
			if g.accepts(code) {
				wanted++
			}
		}
		if wanted == 0 {
			continue
		}

		for _, p := range g.Providers {
			if ctx.Err() != nil {
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", p.Name(), ctx.Err()))
				return res
			}

			raw, err := p.Fetch(ctx)
			if err != nil {
				c.logger.WarnContext(ctx, "Rate provider failed", "provider", p.Name(), "group", g.Name, "error", err)
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", p.Name(), err))
				continue
			}
			rates := g.filter(raw)
			if len(rates) == 0 {
				c.logger.WarnContext(ctx, "Rate provider returned no usable rates", "provider", p.Name(), "group", g.Name)
				res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", p.Name(), ErrMalformedPayload))
				continue
			}

			if c.sink != nil {
				if err := c.sink.StoreRates(ctx, p.Name(), rates); err != nil {
					c.logger.ErrorContext(ctx, "Failed to store provider rates", "provider", p.Name(), "error", err)
					res.Errors = append(res.Errors, fmt.Sprintf("%s: store: %v", p.Name(), err))
				}
			}

			for code := range pending {
				if v, ok := rates[code]; ok {
					res.Rates[code] = v
					delete(pending, code)
					wanted--
				}
			}
			if wanted == 0 {
				break
			}
		}
	}
	return res
}

// Invalidate drops every provider-held table copy. All providers are tried
// and their errors joined.
func (c *Chain) Invalidate(ctx context.Context) error {
	var errs []error
	for _, g := range c.groups {
		for _, p := range g.Providers {
			inv, ok := p.(Invalidator)
			if !ok {
				continue
			}
			if err := inv.Invalidate(ctx); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			}
		}
	}
	return errors.Join(errs...)
}
