// Package recollect fetches collection events and address suggestions from
// the Recollect calendar API.
package recollect

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

const (
	maxBodyBytes   = 8 << 20
	errorBodyBytes = 300
)

// Client talks to the Recollect API. It performs no retries; a failed
// request is returned to the caller as is.
type Client struct {
	baseURL    string
	area       string
	serviceID  int
	locale     string
	userAgent  string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client from configuration.
func NewClient(cfg config.RecollectConfig, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		area:       cfg.Area,
		serviceID:  cfg.ServiceID,
		locale:     cfg.Locale,
		userAgent:  cfg.UserAgent,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "recollect"),
	}
}

// FetchEvents returns the events of placeID inside w. An empty locale uses
// the configured default.
func (c *Client) FetchEvents(ctx context.Context, placeID string, w domain.Window, locale string) ([]provider.EventRecord, error) {
	if locale == "" {
		locale = c.locale
	}

	q := url.Values{}
	q.Set("nomerge", "1")
	q.Set("hide", "reminder_only")
	q.Set("after", w.After.String())
	q.Set("before", w.Before.String())
	q.Set("locale", locale)

	reqURL := fmt.Sprintf("%s/api/places/%s/services/%d/events?%s",
		c.baseURL, url.PathEscape(placeID), c.serviceID, q.Encode())

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("recollect: fetch events for %s: %w", placeID, err)
	}

	events, err := provider.DecodeEventList(body)
	if err != nil {
		return nil, fmt.Errorf("recollect: events for %s: %w", placeID, err)
	}

	c.log.DebugContext(ctx, "recollect events",
		slog.String("place_id", placeID),
		slog.String("after", w.After.String()),
		slog.String("before", w.Before.String()),
		slog.Int("count", len(events)),
	)

	return events, nil
}

// Suggest returns address candidates matching query.
func (c *Client) Suggest(ctx context.Context, query string) ([]provider.PlaceCandidate, error) {
	reqURL := fmt.Sprintf("%s/api/areas/%s/services/%d/address-suggest?q=%s",
		c.baseURL, url.PathEscape(c.area), c.serviceID, url.QueryEscape(query))

	body, err := c.get(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("recollect: suggest %q: %w", query, err)
	}

	var candidates []provider.PlaceCandidate
	if err := json.Unmarshal(body, &candidates); err != nil {
		return nil, fmt.Errorf("recollect: decode suggestions: %w", err)
	}

	return candidates, nil
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "recollect request failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview := string(body)
		if len(preview) > errorBodyBytes {
			preview = preview[:errorBodyBytes]
		}
		c.log.WarnContext(ctx, "recollect http error",
			slog.Int("status", resp.StatusCode),
			slog.String("body_preview", preview),
		)
		return nil, &provider.HTTPError{Status: resp.StatusCode, Body: preview}
	}

	return body, nil
}
