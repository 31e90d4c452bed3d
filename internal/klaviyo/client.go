package klaviyo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/convertfy/backoffice/internal/config"
	"go.uber.org/zap"
)

var (
	// ErrMissingAPIKey means the caller did not supply a private API key.
	ErrMissingAPIKey = errors.New("klaviyo_api_key_missing")
	// ErrUnreachable means the provider gave no response at all.
	ErrUnreachable = errors.New("klaviyo_unreachable")
)

// UpstreamError carries the provider's error status and body verbatim.
type UpstreamError struct {
	StatusCode int
	Body       []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("klaviyo upstream error: status %d", e.StatusCode)
}

// Client talks to the Klaviyo metrics API.
type Client struct {
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

// NewClient builds a Klaviyo client from configuration.
func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Klaviyo.BaseURL, "/"),
		client:  &http.Client{Timeout: cfg.Klaviyo.Timeout},
		log:     log.Named("klaviyo.client"),
	}
}

// RevenueTimelineRequest selects a revenue window.
type RevenueTimelineRequest struct {
	StartDate string
	EndDate   string
	APIKey    string
}

// RevenueTimeline fetches the ordered-product revenue timeline. The v3
// API is tried first; any v3 failure falls back to the legacy v2 API.
func (c *Client) RevenueTimeline(ctx context.Context, req RevenueTimelineRequest) (json.RawMessage, error) {
	if strings.TrimSpace(req.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	data, v3Err := c.timelineV3(ctx, req)
	if v3Err == nil {
		return data, nil
	}
	c.log.Info("v3 metrics timeline failed, falling back to v2", zap.Error(v3Err))

	return c.timelineV2(ctx, req)
}

func (c *Client) timelineV3(ctx context.Context, req RevenueTimelineRequest) (json.RawMessage, error) {
	values := url.Values{}
	values.Set("filter", `equals(metric.id,"ordered_product")`)
	values.Set("page[size]", "100")
	values.Set("sort", "-datetime")
	values.Set("additional-fields[metric-aggregate]", "value")
	values.Set("filter-by", fmt.Sprintf(`greater-or-equal(datetime,%q),less-or-equal(datetime,%q)`, req.StartDate, req.EndDate))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/metrics/timeline?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Klaviyo-API-Key "+req.APIKey)
	httpReq.Header.Set("revision", "2023-02-22")

	return c.do(httpReq)
}

func (c *Client) timelineV2(ctx context.Context, req RevenueTimelineRequest) (json.RawMessage, error) {
	values := url.Values{}
	values.Set("api_key", req.APIKey)
	values.Set("start_date", req.StartDate)
	values.Set("end_date", req.EndDate)
	values.Set("metric_id", "ordered_product")
	values.Set("count", "100")
	values.Set("unit", "day")
	values.Set("measurement", "revenue")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v2/metrics/timeline?"+values.Encode(), nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")

	return c.do(httpReq)
}

func (c *Client) do(req *http.Request) (json.RawMessage, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, ErrUnreachable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}
	return body, nil
}
