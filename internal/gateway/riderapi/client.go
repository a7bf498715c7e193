package riderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"service-rider-web/internal/domain"
)

const errorBodyLimit = 64 << 10

// Client is a JSON client of the rider API. Authorization is added by the transport chain.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for baseURL using hc (http.DefaultClient when nil).
func NewClient(baseURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

type googleLoginRequest struct {
	IDToken string `json:"idToken"`
}

// LoginWithGoogle exchanges a Google ID token for a session: POST /auth/google.
func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) (domain.AuthResult, error) {
	var out domain.AuthResult
	err := c.do(ctx, http.MethodPost, "/auth/google", nil, googleLoginRequest{IDToken: idToken}, &out)
	return out, err
}

// Me revalidates the current session: GET /auth/me.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Dashboard fetches GET /rider/dashboard.
func (c *Client) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var d domain.Dashboard
	if err := c.do(ctx, http.MethodGet, "/rider/dashboard", nil, nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Orders fetches GET /rider/orders?status=<status>.
func (c *Client) Orders(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	var list domain.OrderList
	if err := c.do(ctx, http.MethodGet, "/rider/orders", q, nil, &list); err != nil {
		return nil, err
	}
	return list.Orders, nil
}

// Order fetches GET /rider/orders/:id.
func (c *Client) Order(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, http.MethodGet, "/rider/orders/"+url.PathEscape(id), nil, nil, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus sends PUT /rider/orders/:id/status.
func (c *Client) UpdateStatus(ctx context.Context, id string, upd domain.StatusUpdate) (*domain.Order, error) {
	var o domain.Order
	if err := c.do(ctx, http.MethodPut, "/rider/orders/"+url.PathEscape(id)+"/status", nil, upd, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

// TodayRoute fetches GET /rider/today-route.
func (c *Client) TodayRoute(ctx context.Context) (*domain.TodayRoute, error) {
	var r domain.TodayRoute
	if err := c.do(ctx, http.MethodGet, "/rider/today-route", nil, nil, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("rider api: encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("rider api: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("rider api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
		_ = json.Unmarshal(raw, &eb)
		msg := eb.Message
		if msg == "" {
			msg = eb.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("rider api: decode %s %s: %w", method, path, err)
	}
	return nil
}
