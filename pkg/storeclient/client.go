// Package storeclient is a small API client for a running greenmart server.
// The CLI's order:status command uses it; it also serves scripts that drive
// the storefront from the outside.
package storeclient

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"strings"
	"time"

	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/pkg/http"
)

// ErrNoToken is returned when a call that needs auth is made on an
// unauthenticated client.
var ErrNoToken = errors.New("storeclient: no bearer token set")

// Client talks to one greenmart server.
type Client struct {
	baseURL string
	token   string
}

// New returns a client for the server at baseURL (e.g. "http://localhost:8080").
func New(baseURL string) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/")}
}

// WithToken returns a copy of the client that authenticates with token.
func (c *Client) WithToken(token string) *Client {
	return &Client{baseURL: c.baseURL, token: token}
}

// envelope mirrors the server's JSON response wrapper.
type envelope[T any] struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

// Login authenticates with a username or email and returns a client
// carrying the bearer token.
func (c *Client) Login(ctx context.Context, login, password string) (*Client, error) {
	resp, err := http.Post(c.baseURL+"/api/login").
		Body(map[string]string{"login": login, "password": password}).
		WithContext(ctx).
		Send()
	if err != nil {
		return nil, err
	}
	if err := resp.Throw(); err != nil {
		return nil, err
	}

	var out envelope[struct {
		Token string `json:"token"`
	}]
	if err := resp.JSON(&out); err != nil {
		return nil, err
	}
	if out.Data.Token == "" {
		return nil, errors.New("storeclient: login response carried no token")
	}
	return c.WithToken(out.Data.Token), nil
}

// FetchProduct reads one product. Transient failures are retried twice.
func (c *Client) FetchProduct(ctx context.Context, id uint) (models.Product, error) {
	resp, err := http.Get(fmt.Sprintf("%s/api/products/%d", c.baseURL, id)).
		Retry(2, 300*time.Millisecond).
		WithContext(ctx).
		Send()
	if err != nil {
		return models.Product{}, err
	}
	if err := resp.Throw(); err != nil {
		return models.Product{}, err
	}

	var out envelope[models.Product]
	if err := resp.JSON(&out); err != nil {
		return models.Product{}, err
	}
	return out.Data, nil
}

// UpdateOrderStatus transitions an order. It tries PUT first and falls back
// to PATCH when the server answers 404 or 405, matching older deployments
// that only mounted the PATCH route.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	if c.token == "" {
		return ErrNoToken
	}

	url := fmt.Sprintf("%s/api/orders/%d/status", c.baseURL, orderID)
	body := map[string]string{"status": string(status)}

	resp, err := http.Put(url).Bearer(c.token).Body(body).WithContext(ctx).Send()
	if err != nil {
		return err
	}
	if resp.StatusCode == gohttp.StatusNotFound || resp.StatusCode == gohttp.StatusMethodNotAllowed {
		resp, err = http.Patch(url).Bearer(c.token).Body(body).WithContext(ctx).Send()
		if err != nil {
			return err
		}
	}
	return resp.Throw()
}

// DeleteOrder cancels an order, restoring any reserved stock server-side.
func (c *Client) DeleteOrder(ctx context.Context, orderID uint) error {
	if c.token == "" {
		return ErrNoToken
	}

	resp, err := http.Delete(fmt.Sprintf("%s/api/orders/%d", c.baseURL, orderID)).
		Bearer(c.token).
		WithContext(ctx).
		Send()
	if err != nil {
		return err
	}
	return resp.Throw()
}
