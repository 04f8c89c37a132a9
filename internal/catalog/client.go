// File: internal/catalog/client.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"marvel_nexus_backend/internal/comic"
	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"

	"go.uber.org/zap"
)

// Result is one normalized page of catalog search results.
type Result struct {
	Total   int           `json:"total"`
	Results []comic.Comic `json:"results"`
}

// Client queries the upstream comic catalogs and normalizes their responses.
// Marvel serves every search kind; Comic Vine additionally contributes to
// series searches when an API key is configured.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
	logger     *zap.Logger

	// now is swapped out in tests for deterministic request signing.
	now func() time.Time
}

// NewClient creates a catalog client with the configured request timeout.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.CatalogTimeout},
		cfg:        cfg,
		logger:     logger.Named("CatalogClient"),
		now:        time.Now,
	}
}

// getJSON performs a GET and decodes the body into out. Upstream failures of
// any kind surface as a generic fetch failure; the detail is only logged.
func (c *Client) getJSON(ctx context.Context, rawURL string, query url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build catalog request: %w", err)
	}
	req.URL.RawQuery = query.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Catalog request failed", zap.String("url", rawURL), zap.Error(err))
		return common.ErrServiceUnavailable.WithDetails("Failed to fetch comics.")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("Catalog returned non-2xx status",
			zap.String("url", rawURL),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body),
		)
		return common.ErrServiceUnavailable.WithDetails("Failed to fetch comics.")
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode catalog response", zap.String("url", rawURL), zap.Error(err))
		return common.ErrServiceUnavailable.WithDetails("Failed to fetch comics.")
	}
	return nil
}
