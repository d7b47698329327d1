package noaa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sony/gobreaker"

	"github.com/couchcryptid/space-weather-alerts/internal/config"
	"github.com/couchcryptid/space-weather-alerts/internal/domain"
	"github.com/couchcryptid/space-weather-alerts/internal/observability"
)

const userAgent = "space-weather-alerts/1.0"

var feedPaths = map[domain.Category]string{
	domain.CategoryGeomagnetic: "/json/planetary_k_index_1m.json",
	domain.CategoryXRayFlare:   "/json/goes/primary/xrays-1-day.json",
	domain.CategoryProtonFlux:  "/json/goes/primary/integral-protons-1-day.json",
	domain.CategorySolarWind:   "/products/solar-wind/plasma-1-day.json",
}

// BreakerSettings controls when a failing feed is suspended.
type BreakerSettings struct {
	Threshold int
	Cooldown  time.Duration
}

// Client fetches the latest reading from the NOAA SWPC JSON feeds.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breakers   map[domain.Category]*gobreaker.CircuitBreaker
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a SWPC feed client.
func NewClient(cfg *config.Config, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return newClient(
		cfg.NOAABaseURL,
		&http.Client{Timeout: cfg.FeedTimeout},
		BreakerSettings{Threshold: cfg.FeedBreakerThreshold, Cooldown: cfg.FeedBreakerCooldown},
		clock, metrics, logger,
	)
}

func newClient(baseURL string, httpClient *http.Client, bs BreakerSettings, clock clockwork.Clock, metrics *observability.Metrics, logger *slog.Logger) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		breakers:   make(map[domain.Category]*gobreaker.CircuitBreaker, len(feedPaths)),
		clock:      clock,
		metrics:    metrics,
		logger:     logger,
	}
	for cat := range feedPaths {
		c.breakers[cat] = c.newBreaker(cat, bs)
	}
	return c
}

func (c *Client) newBreaker(cat domain.Category, bs BreakerSettings) *gobreaker.CircuitBreaker {
	threshold := uint32(max(bs.Threshold, 1))
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        string(cat),
		MaxRequests: 1,
		Timeout:     bs.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("feed circuit breaker state change",
				"feed", name,
				"from", from.String(),
				"to", to.String(),
			)
			open := 0.0
			if to == gobreaker.StateOpen {
				open = 1
			}
			c.metrics.FeedBreakerOpen.WithLabelValues(name).Set(open)
		},
	})
}

// Fetch returns the most recent usable reading of a feed. Readings whose
// time tag could not be parsed are stamped with the fetch time.
func (c *Client) Fetch(ctx context.Context, cat domain.Category) (domain.Reading, error) {
	path, ok := feedPaths[cat]
	if !ok {
		return domain.Reading{}, fmt.Errorf("unknown feed %q", cat)
	}

	result, err := c.breakers[cat].Execute(func() (interface{}, error) {
		return c.fetchSeries(ctx, cat, path)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return domain.Reading{}, fmt.Errorf("%s feed: %w", cat, domain.ErrFeedSuspended)
		}
		return domain.Reading{}, err
	}

	readings, ok := result.([]domain.Reading)
	if !ok || len(readings) == 0 {
		return domain.Reading{}, fmt.Errorf("%s feed: %w", cat, ErrNoData)
	}

	latest := readings[len(readings)-1]
	if latest.Timestamp.IsZero() {
		latest.Timestamp = c.clock.Now().UTC()
	}
	return latest, nil
}

func (c *Client) fetchSeries(ctx context.Context, cat domain.Category, path string) ([]domain.Reading, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := c.clock.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.FeedAPIDuration.WithLabelValues(string(cat)).Observe(c.clock.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s feed request: %w", cat, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%s feed: status %d: %s", cat, resp.StatusCode, body)
	}

	readings, err := ParseSeries(cat, resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s feed: %w", cat, err)
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("%s feed: %w", cat, ErrNoData)
	}
	return readings, nil
}
