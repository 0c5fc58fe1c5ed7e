package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ErDev77/pc-configurator-sub000/pkg/models"
)

// APIClient talks to the storefront's order change feed.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewAPIClient(baseURL string, logger *logrus.Logger) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// ListOrdersSince fetches orders with id > sinceID, ascending.
func (c *APIClient) ListOrdersSince(ctx context.Context, sinceID int64, limit int) ([]*models.Order, error) {
	url := fmt.Sprintf("%s/orders?since=%d&limit=%d", c.baseURL, sinceID, limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to poll order feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("order feed returned error status: %d", resp.StatusCode)
	}

	var response models.OrderListResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode order feed response: %w", err)
	}

	return response.Orders, nil
}
