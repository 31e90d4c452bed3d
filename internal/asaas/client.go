package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/convertfy/backoffice/internal/config"
	"go.uber.org/zap"
)

// Client talks to the Asaas REST API.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	log     *zap.Logger
}

// NewClient builds an Asaas client from configuration.
func NewClient(cfg config.Config, log *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.Asaas.BaseURL, "/"),
		token:   cfg.Asaas.APIToken,
		client:  &http.Client{Timeout: cfg.Asaas.Timeout},
		log:     log.Named("asaas.client"),
	}
}

// ListCustomersRequest selects one page of the customer list.
type ListCustomersRequest struct {
	Limit  int
	Offset int
	Status CustomerStatus
}

// ListCustomers fetches one page of the provider's customer list.
func (c *Client) ListCustomers(ctx context.Context, req ListCustomersRequest) (CustomerPage, error) {
	if req.Limit <= 0 {
		req.Limit = 100
	}
	values := url.Values{}
	values.Set("limit", strconv.Itoa(req.Limit))
	values.Set("offset", strconv.Itoa(req.Offset))
	if req.Status != "" {
		values.Set("status", string(req.Status))
	}

	var page CustomerPage
	if err := c.doJSON(ctx, http.MethodGet, "/customers?"+values.Encode(), nil, &page); err != nil {
		return CustomerPage{}, err
	}
	return page, nil
}

// GetCustomer fetches one customer by provider identifier.
func (c *Client) GetCustomer(ctx context.Context, id string) (Customer, error) {
	var customer Customer
	if err := c.doJSON(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, &customer); err != nil {
		return Customer{}, err
	}
	return customer, nil
}

// CreateCustomer creates a customer record at the provider.
func (c *Client) CreateCustomer(ctx context.Context, input CustomerInput) (Customer, error) {
	var customer Customer
	if err := c.doJSON(ctx, http.MethodPost, "/customers", input, &customer); err != nil {
		return Customer{}, err
	}
	return customer, nil
}

// UpdateCustomer updates a customer record at the provider.
func (c *Client) UpdateCustomer(ctx context.Context, id string, input CustomerInput) (Customer, error) {
	var customer Customer
	if err := c.doJSON(ctx, http.MethodPut, "/customers/"+url.PathEscape(id), input, &customer); err != nil {
		return Customer{}, err
	}
	return customer, nil
}

// CreateSubscription creates a recurring charge at the provider.
func (c *Client) CreateSubscription(ctx context.Context, input SubscriptionInput) (Subscription, error) {
	var sub Subscription
	if err := c.doJSON(ctx, http.MethodPost, "/subscriptions", input, &sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// UpdateSubscription updates a recurring charge at the provider.
func (c *Client) UpdateSubscription(ctx context.Context, id string, input SubscriptionInput) (Subscription, error) {
	var sub Subscription
	if err := c.doJSON(ctx, http.MethodPut, "/subscriptions/"+url.PathEscape(id), input, &sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

// CancelSubscription deletes the recurring charge at the provider.
func (c *Client) CancelSubscription(ctx context.Context, id string) error {
	return c.doJSON(ctx, http.MethodDelete, "/subscriptions/"+url.PathEscape(id), nil, nil)
}

// Ping fetches a single customer to verify connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	var page CustomerPage
	return c.doJSON(ctx, http.MethodGet, "/customers?limit=1", nil, &page)
}

// RawResponse is an upstream response relayed verbatim by the proxy surface.
type RawResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Do forwards an arbitrary request under the provider base URL and
// returns the upstream response as-is. Used by the passthrough proxy.
func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body []byte) (RawResponse, error) {
	if c.token == "" {
		return RawResponse{}, ErrMissingToken
	}

	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if rawQuery != "" {
		target += "?" + rawQuery
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return RawResponse{}, err
	}
	req.Header.Set("Authorization", c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return RawResponse{}, ErrUnreachable
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return RawResponse{}, err
	}
	return RawResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload any, out any) error {
	if c.token == "" {
		return ErrMissingToken
	}

	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warn("provider unreachable", zap.String("path", path), zap.Error(err))
		return ErrUnreachable
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return &UpstreamError{StatusCode: resp.StatusCode, Body: body}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
