// Package delivery ships event descriptors to the collector.
//
// Deliveries are fire-and-forget: Deliver returns before the request is
// sent, every outcome is logged once, and failed descriptors are dropped.
// There is no retry, queueing, timeout or cancellation.
package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rsclarke/clicktrace/internal/events"
	"github.com/rsclarke/clicktrace/internal/logging"
)

// EventPath is the collector route that accepts descriptors.
const EventPath = "/event"

// ErrStatus matches every *StatusError.
var ErrStatus = errors.New("collector returned non-success status")

// StatusError reports a non-2xx collector response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("collector returned status %d", e.Code)
	}
	return fmt.Sprintf("collector returned status %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool { return target == ErrStatus }

// Response is a successful collector reply. Body holds the decoded JSON, or
// nil when the collector sent an empty body.
type Response struct {
	Status int
	Body   any
}

// Result is the outcome of one asynchronous delivery.
type Result struct {
	ID       string
	Response *Response
	Err      error
}

// Client posts descriptors to a collector.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	inflight   sync.WaitGroup
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient returns a client for the collector at baseURL
// (for example "http://localhost:8123").
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL descriptors are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + EventPath
}

// Send posts d and waits for the reply.
func (c *Client) Send(ctx context.Context, d events.Descriptor) (*Response, error) {
	body, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("encode descriptor: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, parseError(resp)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	result := &Response{Status: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) == 0 {
		return result, nil
	}
	if err := json.Unmarshal(raw, &result.Body); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return result, nil
}

// Deliver sends d in the background and returns immediately. The returned
// channel receives exactly one Result and is then closed; callers are free
// to ignore it.
func (c *Client) Deliver(d events.Descriptor) <-chan Result {
	id := uuid.NewString()
	out := make(chan Result, 1)

	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		defer close(out)

		resp, err := c.Send(context.Background(), d)
		if err != nil {
			c.logger.Error("delivery failed",
				logging.DeliveryID(id),
				logging.EventType(d.Type),
				logging.URL(c.Endpoint()),
				zap.Error(err))
		} else {
			c.logger.Info("delivered",
				logging.DeliveryID(id),
				logging.EventType(d.Type),
				logging.Status(resp.Status),
				zap.Any("response", resp.Body))
		}
		out <- Result{ID: id, Response: resp, Err: err}
	}()
	return out
}

// Wait blocks until every delivery started so far has finished.
func (c *Client) Wait() {
	c.inflight.Wait()
}

type errorResponse struct {
	Error string `json:"error"`
}

func parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &StatusError{Code: resp.StatusCode}
	}

	var errResp errorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}
	return &StatusError{Code: resp.StatusCode, Message: errResp.Error}
}
