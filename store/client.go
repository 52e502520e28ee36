// Package store talks to the backing REST data store: a json-server style
// API exposing named collections with numeric auto-increment ids. The store
// is the sole durable owner of every entity; this service keeps nothing but
// caches on top of it.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"
)

// Collection names used by the application.
const (
	Products   = "products"
	Categories = "categories"
	Users      = "users"
	Cart       = "cart"
	Orders     = "orders"
)

// ErrNotFound reports a 404 from the store.
var ErrNotFound = errors.New("store: not found")

// Client issues REST calls against one collection at a time. No retry, no
// backoff, no request timeout; a hung call blocks its flow until the context
// is done.
type Client struct {
	baseURL string
	httpc   *http.Client
	log     zerolog.Logger
}

func NewClient(baseURL string, log zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{},
		log:     log.With().Str("component", "store").Logger(),
	}
}

// List fetches every entity in the collection into out (a pointer to slice).
func (c *Client) List(ctx context.Context, resource string, out any) error {
	body, err := c.getRaw(ctx, c.collectionURL(resource))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// ListFilter fetches the entities whose field equals value, using the
// store's query-string equality filter (e.g. /users?email=...).
func (c *Client) ListFilter(ctx context.Context, resource, field, value string, out any) error {
	u := c.collectionURL(resource) + "?" + url.Values{field: {value}}.Encode()
	body, err := c.getRaw(ctx, u)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// Get fetches a single entity by id into out.
func (c *Client) Get(ctx context.Context, resource string, id int, out any) error {
	body, err := c.getRaw(ctx, c.entityURL(resource, id))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

// Create submits a new entity; the store assigns the id. When out is
// non-nil the stored entity is decoded back into it.
func (c *Client) Create(ctx context.Context, resource string, payload, out any) error {
	body, err := c.send(ctx, http.MethodPost, c.collectionURL(resource), payload, http.StatusCreated)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

// Update replaces the entity's fields wholesale. Concurrent updates to the
// same entity are not serialized: the last write to reach the store wins.
func (c *Client) Update(ctx context.Context, resource string, id int, payload any) error {
	_, err := c.send(ctx, http.MethodPut, c.entityURL(resource, id), payload, http.StatusOK)
	return err
}

// Patch applies a partial update (status and quantity changes).
func (c *Client) Patch(ctx context.Context, resource string, id int, partial any) error {
	_, err := c.send(ctx, http.MethodPatch, c.entityURL(resource, id), partial, http.StatusOK)
	return err
}

// Remove deletes the entity by id.
func (c *Client) Remove(ctx context.Context, resource string, id int) error {
	_, err := c.send(ctx, http.MethodDelete, c.entityURL(resource, id), nil, http.StatusOK)
	return err
}

func (c *Client) collectionURL(resource string) string {
	return c.baseURL + "/" + resource
}

func (c *Client) entityURL(resource string, id int) string {
	return c.baseURL + "/" + resource + "/" + strconv.Itoa(id)
}

func (c *Client) getRaw(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, http.StatusOK)
}

func (c *Client) send(ctx context.Context, method, url string, payload any, wantStatus int) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, wantStatus)
}

func (c *Client) do(req *http.Request, wantStatus int) ([]byte, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("store request failed")
		return nil, fmt.Errorf("store: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s %s", ErrNotFound, req.Method, req.URL.Path)
	}
	if resp.StatusCode != wantStatus {
		c.log.Error().Int("status", resp.StatusCode).Str("method", req.Method).Str("url", req.URL.String()).Msg("unexpected store status")
		return nil, fmt.Errorf("store: %s %s: unexpected status %d", req.Method, req.URL.Path, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
