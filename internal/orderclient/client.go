// Package orderclient is the HTTP side a customer app runs against the API:
// it feeds the selection draft with candidates, submits the finished draft
// and follows the order's status afterwards.
package orderclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"mealplan-backend/internal/apperr"
	"mealplan-backend/internal/draft"
	"mealplan-backend/internal/models"
	"mealplan-backend/internal/wire"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: defaultTimeout,
	}
}

// WithTimeout sets the per-request timeout used when ctx has no deadline.
func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.timeout = d
	return &cp
}

// Candidates implements draft.Fetcher.
func (c *Client) Candidates(ctx context.Context, category models.MealCategory) ([]draft.Item, error) {
	var rows []models.MenuItem
	q := url.Values{"category": {string(category)}}
	if err := c.do(ctx, http.MethodGet, "/api/menu-items?"+q.Encode(), nil, &rows); err != nil {
		return nil, err
	}
	items := make([]draft.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, draft.Item{ID: r.ID, Name: r.Name, Category: r.Category, Nutrition: r.Nutrition})
	}
	return items, nil
}

func (c *Client) Submit(ctx context.Context, req wire.SubmitOrderRequest) (*wire.SubmitOrderResponse, error) {
	var resp wire.SubmitOrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Order(ctx context.Context, id uint) (*wire.OrderResponse, error) {
	var resp wire.OrderResponse
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+strconv.FormatUint(uint64(id), 10), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OrderStatus implements StatusFetcher.
func (c *Client) OrderStatus(ctx context.Context, id uint) (models.OrderStatus, error) {
	o, err := c.Order(ctx, id)
	if err != nil {
		return "", err
	}
	return models.OrderStatus(o.Status), nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			fiber.ReleaseAgent(a)
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		a.ContentType(fiber.MIMEApplicationJSON)
		a.Body(b)
	}
	a.Timeout(c.requestTimeout(ctx))

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return fmt.Errorf("prepare %s %s: %w", method, path, err)
	}

	// Bytes releases the agent.
	code, raw, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errs[0])
	}
	if code < 200 || code > 299 {
		return decodeError(code, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < c.timeout {
			return left
		}
	}
	return c.timeout
}

// decodeError turns an error envelope back into an *apperr.Error so callers
// can branch on Code.
func decodeError(status int, raw []byte) error {
	var env apperr.Envelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Code == "" {
		return apperr.New(status, apperr.StatusCode(status), strings.TrimSpace(string(raw)))
	}
	e := apperr.New(status, env.Error.Code, env.Error.Message)
	if len(env.Error.Details) > 0 {
		e = e.WithDetails(env.Error.Details)
	}
	return e
}
