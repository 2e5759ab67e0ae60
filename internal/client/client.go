// Package client is a Go data layer for the MindSync API. Reads are cached
// per Key until a mutation invalidates their path.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// APIError is a non-2xx response
type APIError struct {
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to one MindSync server and carries its session cookie
type Client struct {
	baseURL string
	http    *http.Client
	cache   *cache
}

// New creates a client for baseURL, e.g. http://localhost:5000
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "cookie jar")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 15 * time.Second},
		cache:   newCache(),
	}, nil
}

// Get decodes the cached body for key into out, fetching it first when absent
func (c *Client) Get(ctx context.Context, key Key, out interface{}) error {
	body, ok := c.cache.get(key)
	if !ok {
		var err error
		body, err = c.do(ctx, http.MethodGet, key.URL(), nil)
		if err != nil {
			return err
		}
		c.cache.put(key, body)
	}
	return decode(body, out)
}

// Invalidate forces the next read of any key on these exact paths to refetch
func (c *Client) Invalidate(paths ...string) {
	c.cache.invalidate(paths...)
}

// Post sends in and decodes the response into out, then invalidates paths
func (c *Client) Post(ctx context.Context, path string, in, out interface{}, invalidate ...string) error {
	return c.mutate(ctx, http.MethodPost, path, in, out, invalidate)
}

// Put sends in and decodes the response into out, then invalidates paths
func (c *Client) Put(ctx context.Context, path string, in, out interface{}, invalidate ...string) error {
	return c.mutate(ctx, http.MethodPut, path, in, out, invalidate)
}

// Delete removes the resource at path, then invalidates paths
func (c *Client) Delete(ctx context.Context, path string, invalidate ...string) error {
	return c.mutate(ctx, http.MethodDelete, path, nil, nil, invalidate)
}

func (c *Client) mutate(ctx context.Context, method, path string, in, out interface{}, invalidate []string) error {
	var payload io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		payload = bytes.NewReader(data)
	}

	body, err := c.do(ctx, method, path, payload)
	// a failed mutation may still have changed server state
	c.cache.invalidate(invalidate...)
	if err != nil {
		return err
	}
	return decode(body, out)
}

func (c *Client) do(ctx context.Context, method, path string, payload io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode), Body: body}
		var msg struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &msg) == nil && msg.Message != "" {
			apiErr.Message = msg.Message
		}
		return nil, apiErr
	}
	return body, nil
}

func decode(body []byte, out interface{}) error {
	if out == nil || len(body) == 0 {
		return nil
	}
	return errors.Wrap(json.Unmarshal(body, out), "decode response")
}
