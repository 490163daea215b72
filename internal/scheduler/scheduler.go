// Package scheduler triggers periodic bulk rate refreshes.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/sadaqah_box_app/internal/core/domain"
	"github.com/robfig/cron/v3"
)

// Refresher is the job the scheduler runs.
type Refresher interface {
	UpdateAllCurrencyValues(ctx context.Context) (*domain.RefreshSummary, error)
}

// RateRefreshScheduler runs Refresher on a cron spec. A tick that fires while
// the previous run is still going is skipped.
type RateRefreshScheduler struct {
	cron      *cron.Cron
	job       cron.Job
	refresher Refresher
	timeout   time.Duration
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

// Option configures the scheduler.
type Option func(*RateRefreshScheduler)

// WithRunTimeout bounds a single refresh run.
func WithRunTimeout(d time.Duration) Option {
	return func(s *RateRefreshScheduler) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithLogger sets the scheduler logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *RateRefreshScheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// New parses spec (standard five-field cron, or descriptors like "@every 1h")
// and returns a stopped scheduler.
func New(spec string, refresher Refresher, opts ...Option) (*RateRefreshScheduler, error) {
	s := &RateRefreshScheduler{
		refresher: refresher,
		timeout:   5 * time.Minute,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	logger := cronLogger{l: s.logger}
	s.cron = cron.New(cron.WithLogger(logger))
	// Scheduled ticks and RunOnce share one wrapped job, so they skip each other too.
	s.job = cron.NewChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)).Then(cron.FuncJob(s.refresh))
	if _, err := s.cron.AddJob(spec, s.job); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *RateRefreshScheduler) Name() string { return "rate-refresh-scheduler" }

// Start begins firing on schedule. It does not block.
func (s *RateRefreshScheduler) Start() {
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.Info("Rate refresh scheduled", slog.Time("next_run", e.Next))
	}
}

// Stop halts the schedule, cancels a run in progress and waits for it to
// return or for ctx to end.
func (s *RateRefreshScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce performs one refresh unless another is already running.
func (s *RateRefreshScheduler) RunOnce() { s.job.Run() }

func (s *RateRefreshScheduler) refresh() {
	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	start := time.Now()
	summary, err := s.refresher.UpdateAllCurrencyValues(ctx)
	if err != nil {
		s.logger.Error("Scheduled rate refresh failed", slog.Any("error", err), slog.Duration("took", time.Since(start)))
		return
	}
	s.logger.Info("Scheduled rate refresh finished",
		slog.Int("updated", summary.UpdatedCount),
		slog.Int("errors", len(summary.Errors)),
		slog.Duration("took", time.Since(start)))
}

// cronLogger routes cron's own logging to slog. cron reports every wake-up
// at info, so only skipped ticks are raised above debug.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	if msg == "skip" {
		c.l.Warn("Previous rate refresh still running, skipping tick")
		return
	}
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append([]any{slog.Any("error", err)}, keysAndValues...)...)
}
