package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"restaurant-menu/config"
	"restaurant-menu/models"
)

const maxErrorBody = 512

// SupabaseClient reads the menu tables and the staff board through the
// PostgREST API.
type SupabaseClient struct {
	baseURL string
	key     string
	http    *http.Client
}

func NewSupabaseClient(cfg config.SupabaseConfig) *SupabaseClient {
	return &SupabaseClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.Key,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// Categories returns every category ordered by sort_order.
func (c *SupabaseClient) Categories(ctx context.Context) ([]models.Category, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("order", "sort_order")

	var out []models.Category
	if err := c.get(ctx, "categories", "/rest/v1/categories", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dishes returns the available dishes of a category ordered by sort_order.
func (c *SupabaseClient) Dishes(ctx context.Context, categoryID models.ID) ([]models.Dish, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("category_id", "eq."+categoryID.String())
	q.Set("is_available", "eq.true")
	q.Set("order", "sort_order")

	var out []models.Dish
	if err := c.get(ctx, "dishes", "/rest/v1/dishes", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Dish returns a single dish regardless of availability.
func (c *SupabaseClient) Dish(ctx context.Context, id models.ID) (*models.Dish, error) {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("id", "eq."+id.String())

	var out []models.Dish
	if err := c.get(ctx, "dish", "/rest/v1/dishes", q, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return &out[0], nil
}

func (c *SupabaseClient) get(ctx context.Context, op, path string, q url.Values, dst interface{}) error {
	return c.do(ctx, op, http.MethodGet, path, q, nil, dst)
}

// do sends one PostgREST request. A non-nil body is sent as JSON and asks
// for the affected rows back, which are decoded into dst when it is set.
func (c *SupabaseClient) do(ctx context.Context, op, method, path string, q url.Values, body, dst interface{}) error {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return &ServiceError{Op: op, Err: fmt.Errorf("encode body: %w", err)}
		}
		payload = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return &ServiceError{Op: op, Err: err}
	}
	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		if dst != nil {
			req.Header.Set("Prefer", "return=representation")
		} else {
			req.Header.Set("Prefer", "return=minimal")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &ServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		zap.L().Warn("data service returned error status",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return &ServiceError{Op: op, Status: resp.StatusCode}
	}

	if dst == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return &ServiceError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode body: %w", err)}
	}
	return nil
}
