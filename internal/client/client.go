// Package client talks to the model browser HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"jan-server/services/model-browser/internal/domain/catalog"
)

const (
	searchPath = "/v1/model-browser/search"
	openPath   = "/v1/model-browser/open"
)

// Client calls the catalog endpoints with an optional bearer token.
type Client struct {
	httpClient *resty.Client
}

// New constructs the client.
func New(baseURL, token string, timeout time.Duration) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)
	if token != "" {
		httpClient.SetAuthToken(token)
	}
	return &Client{httpClient: httpClient}
}

// Search returns the rows for term. Server-side failures arrive as a single error row, not as err.
func (c *Client) Search(ctx context.Context, term string, limit int) ([]catalog.Row, error) {
	var rows []catalog.Row
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"search_term": term, "limit": limit}).
		SetResult(&rows).
		Post(searchPath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("search models: %s: %s", resp.Status(), resp.String())
	}
	return rows, nil
}

// Open resolves the list action for model. A nil definition means the model cannot be opened.
func (c *Client) Open(ctx context.Context, model string) (*catalog.ActionDefinition, error) {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(map[string]any{"model_name": model}).
		Post(openPath)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("open model: %s: %s", resp.Status(), resp.String())
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 || bytes.Equal(body, []byte("false")) || bytes.Equal(body, []byte("null")) {
		return nil, nil
	}
	var def catalog.ActionDefinition
	if err := json.Unmarshal(body, &def); err != nil {
		return nil, fmt.Errorf("decode action definition: %w", err)
	}
	return &def, nil
}

// ActionURL is the web client location that opens an action.
func ActionURL(webURL string, actionID uint) string {
	return fmt.Sprintf("%s/odoo/action-%d", strings.TrimRight(webURL, "/"), actionID)
}
