// Package checker orchestrates a single scam check: consult the report
// cache, fall through to the remote analysis service, narrate progress
// over the message bus, and persist the outcome.
package checker

import (
	"context"
	"log/slog"
	"time"

	"scamscope/internal/analysis"
	"scamscope/internal/messagebus"
	"scamscope/internal/metrics"
	"scamscope/internal/models"
	"scamscope/internal/progress"
	"scamscope/internal/repository"
	"scamscope/internal/target"
)

// CacheFreshness is how long a cached report satisfies a basic-mode
// check. Detailed checks always go to the analysis service.
const CacheFreshness = 24 * time.Hour

// Checker handles check orchestration with all dependencies consolidated
type Checker struct {
	cache  repository.CacheRepositoryInterface
	checks repository.CheckRepositoryInterface
	client analysis.ClientInterface
	bus    messagebus.MessageBusInterface

	metrics      metrics.CheckerMetricsInterface
	log          *slog.Logger
	now          func() time.Time
	tickInterval time.Duration
}

// Option configures the Checker
type Option func(*Checker)

// WithLogger sets the logger
func WithLogger(log *slog.Logger) Option {
	return func(c *Checker) {
		c.log = log
	}
}

// WithMetrics sets the metrics collector
func WithMetrics(m metrics.CheckerMetricsInterface) Option {
	return func(c *Checker) {
		c.metrics = m
	}
}

// WithClock sets the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Checker) {
		c.now = now
	}
}

// WithTickInterval sets the progress narrative tick interval
func WithTickInterval(d time.Duration) Option {
	return func(c *Checker) {
		c.tickInterval = d
	}
}

// New creates a new checker with required dependencies and optional configurations
func New(
	cache repository.CacheRepositoryInterface,
	checks repository.CheckRepositoryInterface,
	client analysis.ClientInterface,
	bus messagebus.MessageBusInterface,
	opts ...Option,
) *Checker {
	c := &Checker{
		cache:        cache,
		checks:       checks,
		client:       client,
		bus:          bus,
		metrics:      metrics.NewNoopCheckerMetrics(),
		log:          slog.Default(),
		now:          time.Now,
		tickInterval: 1200 * time.Millisecond,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Resolve produces the analysis report for a check. Basic-mode checks are
// satisfied from the report cache when a fresh entry exists; otherwise the
// remote analysis service is called while a scripted progress narrative is
// published for the check. A successful remote result refreshes the cache;
// failures never touch it.
func (c *Checker) Resolve(ctx context.Context, check *models.Check) (*models.AnalysisReport, error) {
	key := target.Normalize(check.URL)

	tracker := progress.NewTracker(check.Mode, progress.WithOnUpdate(func(u progress.Update) {
		if err := c.bus.PublishCheckProgress(ctx, messagebus.CheckProgressMessage{
			CheckID: check.ID,
			Percent: u.Percent,
			Message: u.Message,
		}); err != nil {
			c.log.Warn("Failed to publish progress",
				slog.String("checkId", check.ID),
				slog.Any("error", err))
		}
	}))

	if check.Mode == models.CheckModeBasic {
		if report, ok := c.lookupCache(ctx, key, tracker); ok {
			return report, nil
		}
	} else {
		c.metrics.RecordCacheLookup("bypass")
	}

	stop := tracker.Start(c.tickInterval)
	defer stop()

	start := c.now()
	report, err := c.client.Analyze(ctx, check.URL, check.Mode)
	c.metrics.RecordAnalysisCall(string(check.Mode), err == nil, time.Since(start).Seconds())

	if err != nil {
		tracker.Fail(err.Error())
		return nil, err
	}

	tracker.Complete()

	// Cache refresh is best effort; the report is already in hand
	if putErr := c.cache.Put(ctx, &models.CachedReport{
		Domain:    key,
		Report:    report,
		CreatedAt: c.now().UTC(),
	}); putErr != nil {
		c.log.Warn("Failed to cache report",
			slog.String("domain", key),
			slog.Any("error", putErr))
	}

	return report, nil
}

// lookupCache returns (report, true) when a fresh cached report exists.
// Lookup errors and stale entries both fall through to a live analysis.
func (c *Checker) lookupCache(ctx context.Context, key string, tracker *progress.Tracker) (*models.AnalysisReport, bool) {
	cached, err := c.cache.Get(ctx, key)
	if err != nil {
		c.metrics.RecordCacheLookup("error")
		c.log.Warn("Report cache lookup failed",
			slog.String("domain", key),
			slog.Any("error", err))
		return nil, false
	}

	if cached == nil {
		c.metrics.RecordCacheLookup("miss")
		return nil, false
	}

	if c.now().Sub(cached.CreatedAt) >= CacheFreshness {
		c.metrics.RecordCacheLookup("stale")
		return nil, false
	}

	c.metrics.RecordCacheLookup("hit")
	tracker.CacheHit()
	return cached.Report, true
}
