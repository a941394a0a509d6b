// Package api implements the HTTP client for the external expense/group
// store. The five calls and their payload shapes are a fixed wire
// contract; everything store-specific (paths, envelopes, field names)
// lives here and nowhere else.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/http2"

	"github.com/splitfair/splitfair/internal/models"
	"github.com/splitfair/splitfair/internal/session"
)

// Operation names used in errors and metrics labels.
const (
	opMyGroups      = "my_groups"
	opGroupExpenses = "group_expenses"
	opGroupSummary  = "group_summary"
	opCreateExpense = "create_expense"
	opSettleGroup   = "settle_group"
)

const defaultTimeout = 15 * time.Second

// StatusError reports a non-2xx store response.
type StatusError struct {
	Op         string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: store returned status %d", e.Op, e.StatusCode)
}

// Client talks to the expense store. It is constructed explicitly with a
// base address and credentials and injected into callers; there is no
// ambient configuration.
type Client struct {
	baseURL string
	http    *http.Client
	creds   session.Credentials
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithH2C switches the client to cleartext HTTP/2, for stores served
// without TLS behind an h2c-capable front end.
func WithH2C() Option {
	return func(c *Client) {
		c.http = &http.Client{
			Timeout: c.http.Timeout,
			Transport: &http2.Transport{
				AllowHTTP: true,
				DialTLSContext: func(ctx context.Context, network, addr string, _ *tls.Config) (net.Conn, error) {
					var d net.Dialer
					return d.DialContext(ctx, network, addr)
				},
			},
		}
	}
}

// New creates a store client for the given base address.
func New(baseURL string, creds session.Credentials, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid store endpoint %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		creds:   creds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// MyGroups returns the caller's groups.
func (c *Client) MyGroups(ctx context.Context) ([]models.Group, error) {
	var groups []models.Group
	if err := c.do(ctx, opMyGroups, http.MethodGet, "/groups/my-groups", nil, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// GroupExpenses returns the group's expenses. A missing or non-array
// data field is treated as an empty list.
func (c *Client) GroupExpenses(ctx context.Context, groupID string) ([]models.Expense, error) {
	var env envelope
	path := fmt.Sprintf("/expense/group/%s/expenses", url.PathEscape(groupID))
	if err := c.do(ctx, opGroupExpenses, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return decodeList[models.Expense](env.Data), nil
}

// GroupSummary returns the group's balance snapshot. Same fallback rule
// as GroupExpenses.
func (c *Client) GroupSummary(ctx context.Context, groupID string) ([]models.BalanceEntry, error) {
	var env envelope
	path := fmt.Sprintf("/expense/group/%s/summary", url.PathEscape(groupID))
	if err := c.do(ctx, opGroupSummary, http.MethodGet, path, nil, &env); err != nil {
		return nil, err
	}
	return decodeList[models.BalanceEntry](env.Data), nil
}

// CreateExpense submits a new expense. Any 2xx status is success; the
// response body is not consumed.
func (c *Client) CreateExpense(ctx context.Context, req models.ExpenseRequest) error {
	return c.do(ctx, opCreateExpense, http.MethodPost, "/expense", req, nil)
}

// SettleGroup asks the store to zero all balances in the group. The
// request body is empty and the response body is not consumed.
func (c *Client) SettleGroup(ctx context.Context, groupID string) error {
	path := fmt.Sprintf("/expense/group/%s/settle", url.PathEscape(groupID))
	return c.do(ctx, opSettleGroup, http.MethodPut, path, nil, nil)
}

// envelope is the store's {"data": ...} wrapper. Data stays raw so a
// missing or malformed field degrades to an empty list instead of a
// decode error.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

func decodeList[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		return []T{}
	}
	return items
}

// do issues one store call: marshal, send with credentials and request
// id, record metrics, check status, decode.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	c.creds.Apply(req)

	start := time.Now()
	resp, err := c.http.Do(req)
	observeDuration(op, time.Since(start))
	if err != nil {
		observeResult(op, "error")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		observeResult(op, fmt.Sprintf("%d", resp.StatusCode))
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	observeResult(op, "ok")

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}
