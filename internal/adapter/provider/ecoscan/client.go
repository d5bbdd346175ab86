// Package ecoscan sends photos to the waste classification endpoint.
package ecoscan

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/ecoscan/wastecal/internal/config"
	"github.com/ecoscan/wastecal/internal/domain"
	"github.com/ecoscan/wastecal/internal/provider"
)

// Client posts base64 images to the classification endpoint.
type Client struct {
	url        string
	maxBytes   int64
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client. With an empty URL every call fails with
// domain.ErrUnavailable.
func NewClient(cfg config.EcoScanConfig, logger *slog.Logger) *Client {
	return &Client{
		url:        cfg.URL,
		maxBytes:   cfg.MaxImageBytes,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "ecoscan"),
	}
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool { return c.url != "" }

type classifyRequest struct {
	ImageB64 string `json:"image_b64"`
}

// Classify uploads image and returns the detected objects.
func (c *Client) Classify(ctx context.Context, image []byte) (*provider.ClassificationResult, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ecoscan: no endpoint configured: %w", domain.ErrUnavailable)
	}
	if len(image) == 0 {
		return nil, domain.NewValidationError("image", "required")
	}
	if c.maxBytes > 0 && int64(len(image)) > c.maxBytes {
		return nil, domain.NewValidationError("image", fmt.Sprintf("larger than %d bytes", c.maxBytes))
	}

	payload, err := json.Marshal(classifyRequest{ImageB64: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return nil, fmt.Errorf("ecoscan: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ecoscan: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ecoscan: request failed: %w: %w", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("ecoscan: %w", &provider.HTTPError{Status: resp.StatusCode, Body: string(preview)})
	}

	var result provider.ClassificationResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("ecoscan: decode response: %w", err)
	}

	c.log.InfoContext(ctx, "ecoscan classified image",
		slog.Int("image_bytes", len(image)),
		slog.Int("objects", len(result.Objects)),
	)

	return &result, nil
}
