// Package slack posts notifications to a Slack-compatible incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/space-weather-alerts/internal/domain"
)

const (
	swpcDataURL     = "https://www.swpc.noaa.gov/products-and-data"
	solarImageryURL = "https://sdo.gsfc.nasa.gov/data/"
	channelMention  = "<!channel>"
)

// Client sends formatted notifications to a single webhook URL.
type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a webhook client with the given request timeout.
func NewClient(webhookURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type payload struct {
	Text string `json:"text"`
}

// Send posts n to the webhook. Any non-2xx response is an error.
func (c *Client) Send(ctx context.Context, n domain.Notification) error {
	body, err := json.Marshal(payload{Text: Format(n)})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error repeats the full webhook URL, which embeds its secret.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("post webhook %s: %w", maskURL(c.webhookURL), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	c.logger.Debug("webhook notification sent",
		"kind", n.Kind,
		"title", n.Title,
		"webhook_url", maskURL(c.webhookURL),
	)
	return nil
}

// Format renders the message text. Urgent messages mention the channel and
// link to the SWPC and SDO data pages; clear messages do neither.
func Format(n domain.Notification) string {
	if !n.Urgent() {
		return fmt.Sprintf("✅ *%s*\n%s", n.Title, n.Body)
	}
	return fmt.Sprintf("%s 🚨 *%s*\n%s\n<%s|SWPC Data> | <%s|Solar Imagery>",
		channelMention, n.Title, n.Body, swpcDataURL, solarImageryURL)
}

// maskURL keeps the scheme and host of a webhook URL and hides everything
// after them. Paths long enough to stay secret keep their last 4 characters.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	rest := u.EscapedPath()
	if u.RawQuery != "" {
		rest += "?" + u.RawQuery
	}
	masked := u.Scheme + "://" + u.Host + "/..."
	if len(rest) > 12 {
		masked += rest[len(rest)-4:]
	}
	return masked
}
