package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/TheFoister/kgm-checker/module/query/domain"
	"github.com/TheFoister/kgm-checker/module/query/internal/repository/upstream"
)

var _ upstream.QueryClient = (*Client)(nil)

type Client struct {
	url   string
	httpc *http.Client
}

// NewClient returns a webhook client. A nil httpc gets a client without a
// timeout: the webhook solves a CAPTCHA and scrapes live, which can take minutes.
func NewClient(url string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{}
	}
	return &Client{url: url, httpc: httpc}
}

type queryRequest struct {
	Plate string `json:"plaka"`
}

func (c *Client) Query(ctx context.Context, plate string) (*domain.UpstreamResponse, error) {
	payload, err := json.Marshal(queryRequest{Plate: plate})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post webhook: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read webhook body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("webhook status %d: body is not json", resp.StatusCode)
	}

	return &domain.UpstreamResponse{Status: resp.StatusCode, Body: body}, nil
}
