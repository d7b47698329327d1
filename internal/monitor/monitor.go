// Package monitor runs the poll loop: fetch every feed, classify, notify on
// severity transitions, publish readings, and post the daily summary.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/space-weather-alerts/internal/domain"
	"github.com/couchcryptid/space-weather-alerts/internal/observability"
)

// staleAfter is how many poll intervals may pass without a successful fetch
// before the monitor reports itself not ready.
const staleAfter = 3

// FeedFetcher returns the latest reading of a feed.
type FeedFetcher interface {
	Fetch(ctx context.Context, cat domain.Category) (domain.Reading, error)
}

// Notifier delivers a notification to the chat webhook.
type Notifier interface {
	Send(ctx context.Context, n domain.Notification) error
}

// ReadingSink receives every reading fetched in a poll.
type ReadingSink interface {
	PublishBatch(ctx context.Context, pollID string, readings []domain.Reading) error
}

// Options configures loop timing.
type Options struct {
	Interval        time.Duration
	HeartbeatEvery  int
	SummaryHour     int
	SummaryLocation *time.Location
}

// Monitor owns the per-category alert state. All state except the readiness
// timestamp is touched only by the goroutine calling Run or Poll.
type Monitor struct {
	feeds    FeedFetcher
	notifier Notifier
	sink     ReadingSink
	clock    clockwork.Clock
	logger   *slog.Logger
	metrics  *observability.Metrics

	interval       time.Duration
	heartbeatEvery int
	summary        *DailyTrigger
	states         map[domain.Category]domain.AlertState
	cycles         int

	lastSuccess atomic.Int64 // unix nanoseconds of the last poll with a successful fetch
}

// New creates a Monitor. sink may be nil when readings are not published.
func New(feeds FeedFetcher, notifier Notifier, sink ReadingSink, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Monitor {
	return &Monitor{
		feeds:          feeds,
		notifier:       notifier,
		sink:           sink,
		clock:          clock,
		logger:         logger,
		metrics:        metrics,
		interval:       opts.Interval,
		heartbeatEvery: opts.HeartbeatEvery,
		summary:        NewDailyTrigger(opts.SummaryHour, opts.SummaryLocation),
		states:         make(map[domain.Category]domain.AlertState, len(domain.Categories())),
	}
}

// CheckReadiness returns nil once a poll has fetched at least one feed and
// that poll is recent enough.
func (m *Monitor) CheckReadiness(_ context.Context) error {
	last := m.LastPoll()
	if last.IsZero() {
		return errors.New("no feed has been fetched successfully yet")
	}
	limit := staleAfter * m.interval
	if age := m.clock.Since(last); age > limit {
		return fmt.Errorf("last successful poll was %s ago, limit %s", age.Round(time.Second), limit)
	}
	return nil
}

// LastPoll returns when a poll last fetched a feed successfully, or the zero
// time if none has.
func (m *Monitor) LastPoll() time.Time {
	last := m.lastSuccess.Load()
	if last == 0 {
		return time.Time{}
	}
	return time.Unix(0, last)
}

// Preflight fetches the Kp feed once to confirm SWPC is reachable and logs
// the outcome. The loop runs regardless.
func (m *Monitor) Preflight(ctx context.Context) {
	r, err := m.feeds.Fetch(ctx, domain.CategoryGeomagnetic)
	if err != nil {
		m.logger.Warn("preflight fetch failed", "feed", domain.CategoryGeomagnetic, "error", err)
		return
	}
	m.logger.Info("preflight fetch succeeded",
		"feed", domain.CategoryGeomagnetic,
		"value", r.Value,
		"observed_at", r.Timestamp,
	)
}

// Run polls immediately and then once per interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	m.logger.Info("monitor started",
		"interval", m.interval,
		"summary_hour", m.summary.Hour,
		"summary_timezone", m.summary.Location.String(),
	)
	m.metrics.MonitorRunning.Set(1)
	defer m.metrics.MonitorRunning.Set(0)

	ticker := m.clock.NewTicker(m.interval)
	defer ticker.Stop()

	m.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("monitor stopping", "reason", ctx.Err(), "cycles", m.cycles)
			return nil
		case <-ticker.Chan():
			m.Poll(ctx)
		}
	}
}

// Poll runs one cycle. Feeds are fetched in order and a failed feed never
// stops the others.
func (m *Monitor) Poll(ctx context.Context) {
	start := m.clock.Now()
	pollID := uuid.NewString()
	logger := m.logger.With("poll_id", pollID)

	categories := domain.Categories()
	latest := make(map[domain.Category]domain.Reading, len(categories))
	batch := make([]domain.Reading, 0, len(categories))

	for _, cat := range categories {
		if ctx.Err() != nil {
			return
		}
		r, err := m.feeds.Fetch(ctx, cat)
		if err != nil {
			m.recordFetchError(logger, cat, err)
			continue
		}
		m.metrics.FeedFetches.WithLabelValues(string(cat), "success").Inc()
		m.metrics.FeedValue.WithLabelValues(string(cat)).Set(r.Value)

		latest[cat] = r
		batch = append(batch, r)
		m.evaluate(ctx, logger, r)
	}

	if len(batch) > 0 {
		m.lastSuccess.Store(m.clock.Now().UnixNano())
	}
	m.publish(ctx, logger, pollID, batch)
	m.summarize(ctx, logger, latest)

	m.cycles++
	m.metrics.PollCycles.Inc()
	m.metrics.PollDuration.Observe(m.clock.Since(start).Seconds())
	logger.Debug("poll complete", "fetched", len(batch), "failed", len(categories)-len(batch))

	if m.heartbeatEvery > 0 && m.cycles%m.heartbeatEvery == 0 {
		m.logger.Info("monitor running", "cycles", m.cycles)
	}
}

func (m *Monitor) recordFetchError(logger *slog.Logger, cat domain.Category, err error) {
	if errors.Is(err, domain.ErrFeedSuspended) {
		m.metrics.FeedFetches.WithLabelValues(string(cat), "skipped").Inc()
		logger.Warn("feed skipped", "feed", cat, "error", err)
		return
	}
	m.metrics.FeedFetches.WithLabelValues(string(cat), "error").Inc()
	logger.Error("feed fetch failed", "feed", cat, "error", err)
}

// evaluate classifies r and notifies when its severity differs from the last
// one notified for the category.
func (m *Monitor) evaluate(ctx context.Context, logger *slog.Logger, r domain.Reading) {
	sev := domain.Classify(r)
	m.metrics.SeverityRank.WithLabelValues(string(r.Category)).Set(float64(domain.ScaleFor(r.Category).Rank(sev)))

	next, changed := m.states[r.Category].Observe(sev, m.clock.Now())
	m.states[r.Category] = next
	if !changed {
		return
	}

	logger.Info("severity changed",
		"category", r.Category,
		"severity", sev.String(),
		"value", r.Value,
		"observed_at", r.Timestamp,
	)
	m.send(ctx, logger, domain.NewAlertNotification(r, sev))
}

func (m *Monitor) publish(ctx context.Context, logger *slog.Logger, pollID string, batch []domain.Reading) {
	if m.sink == nil || len(batch) == 0 {
		return
	}
	if err := m.sink.PublishBatch(ctx, pollID, batch); err != nil {
		logger.Error("publish readings failed", "error", err, "count", len(batch))
	}
}

// summarize posts the daily summary when the trigger is due. The trigger is
// marked fired even if delivery fails.
func (m *Monitor) summarize(ctx context.Context, logger *slog.Logger, latest map[domain.Category]domain.Reading) {
	now := m.clock.Now()
	if !m.summary.Due(now) {
		return
	}
	m.send(ctx, logger, domain.NewSummaryNotification(now.In(m.summary.Location), latest))
	m.summary.Fired(now)
}

func (m *Monitor) send(ctx context.Context, logger *slog.Logger, n domain.Notification) {
	if err := m.notifier.Send(ctx, n); err != nil {
		m.metrics.Notifications.WithLabelValues(string(n.Kind), "error").Inc()
		logger.Error("notification failed", "kind", n.Kind, "title", n.Title, "error", err)
		return
	}
	m.metrics.Notifications.WithLabelValues(string(n.Kind), "sent").Inc()
	logger.Info("notification sent", "kind", n.Kind, "title", n.Title)
}
