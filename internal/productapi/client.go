package productapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/version"
)

const (
	// ProductsPath is the collection path under the API base URL
	ProductsPath = "/products"

	// RequestIDHeader carries a per-request id; the reference server echoes it
	RequestIDHeader = "X-Request-ID"

	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retries for idempotent reads.
	// Mutations are never retried.
	DefaultMaxRetries = 0

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second

	// maxResponseSize caps how much of a response body is read
	maxResponseSize = 10 << 20
)

// Client is an HTTP client for the remote product API
type Client struct {
	// BaseURL is the API root (e.g., "http://localhost:3000"); products live under /products
	BaseURL string

	// HTTPClient is the underlying HTTP client
	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed GET requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay is the maximum delay for exponential backoff
	MaxRetryDelay time.Duration

	// UseExponentialBackoff doubles the delay after every failed attempt
	UseExponentialBackoff bool

	// newRequestID is swapped in tests
	newRequestID func() string
}

// NewClient creates a client for the API at baseURL.
// Both "http://host:3000" and "http://host:3000/products" are accepted.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:               NormalizeBaseURL(baseURL),
		HTTPClient:            &http.Client{Timeout: DefaultTimeout},
		MaxRetries:            DefaultMaxRetries,
		RetryDelay:            DefaultRetryDelay,
		MaxRetryDelay:         DefaultMaxRetryDelay,
		UseExponentialBackoff: true,
		newRequestID:          uuid.NewString,
	}
}

// NormalizeBaseURL strips trailing slashes and a trailing /products segment.
func NormalizeBaseURL(baseURL string) string {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	baseURL = strings.TrimSuffix(baseURL, ProductsPath)
	return strings.TrimRight(baseURL, "/")
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior for reads
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping checks that the API answers on the products collection
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, c.productsURL(), nil, nil)
}

// ListProducts fetches the full product collection (GET /products)
func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, c.productsURL(), nil, &products); err != nil {
		return nil, err
	}
	return nonNil(products), nil
}

// GetProduct looks a product up by id (GET /products/{id}).
// The API answers with a sequence of zero or one products; a bare object is
// accepted too. A 404 is reported as a NotFound error.
func (c *Client) GetProduct(ctx context.Context, id int64) ([]Product, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, c.productURL(id), nil, &raw); err != nil {
		return nil, err
	}
	return decodeProductSequence(raw)
}

// SearchProducts queries products by name (GET /products/search?name=)
func (c *Client) SearchProducts(ctx context.Context, name string) ([]Product, error) {
	endpoint := c.productsURL() + "/search?" + url.Values{"name": {name}}.Encode()

	var products []Product
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &products); err != nil {
		return nil, err
	}
	return nonNil(products), nil
}

// CreateProduct creates a product (POST /products)
func (c *Client) CreateProduct(ctx context.Context, draft Draft) (*Product, error) {
	var created Product
	if err := c.do(ctx, http.MethodPost, c.productsURL(), draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct replaces a product's fields (PUT /products/{id})
func (c *Client) UpdateProduct(ctx context.Context, id int64, draft Draft) (*Product, error) {
	var updated Product
	if err := c.do(ctx, http.MethodPut, c.productURL(id), draft, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct deletes a product (DELETE /products/{id})
func (c *Client) DeleteProduct(ctx context.Context, id int64) (*DeleteResult, error) {
	var result DeleteResult
	if err := c.do(ctx, http.MethodDelete, c.productURL(id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) productsURL() string {
	return c.BaseURL + ProductsPath
}

func (c *Client) productURL(id int64) string {
	return c.productsURL() + "/" + strconv.FormatInt(id, 10)
}

// do performs a request. Only GET requests are retried.
func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	retries := 0
	if method == http.MethodGet {
		retries = c.MaxRetries
	}

	var lastErr error
	currentDelay := c.RetryDelay

	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			if err := sleepContext(ctx, currentDelay); err != nil {
				return NewNetworkError("request canceled while waiting to retry", err)
			}

			if c.UseExponentialBackoff {
				currentDelay *= 2
				if currentDelay > c.MaxRetryDelay {
					currentDelay = c.MaxRetryDelay
				}
			}
		}

		err := c.attempt(ctx, method, endpoint, payload, out)
		if err == nil {
			return nil
		}

		lastErr = err

		// Don't retry non-retryable errors
		if !IsRetryable(err) {
			return err
		}
	}

	return lastErr
}

// attempt performs a single request
func (c *Client) attempt(ctx context.Context, method, endpoint string, payload []byte, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return NewNetworkError(fmt.Sprintf("failed to create %s request", method), err)
	}

	requestID := c.requestID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.LogAPIRequest(requestID, method, endpoint)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		apiErr := NewNetworkError(fmt.Sprintf("%s %s failed", method, ProductsPath), err)
		apiErr.Endpoint = req.URL.Host
		return apiErr
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return NewNetworkError("failed to read response body", err)
	}

	logging.LogAPIResponse(requestID, resp.StatusCode, data)

	if err := checkStatus(resp.StatusCode, data); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return NewParseError("failed to parse JSON response", err)
	}

	return nil
}

func (c *Client) requestID() string {
	if c.newRequestID == nil {
		return uuid.NewString()
	}
	return c.newRequestID()
}

// checkStatus maps non-2xx responses onto the error taxonomy
func checkStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	message := http.StatusText(status)
	var field string
	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		message = errResp.Message
		field = errResp.Field
	}

	switch status {
	case http.StatusNotFound:
		return NewNotFoundError(message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		apiErr := NewFieldValidationError(field, message)
		apiErr.StatusCode = status
		return apiErr
	default:
		return NewHTTPError(status, fmt.Sprintf("unexpected status %d: %s", status, message))
	}
}

func decodeProductSequence(raw json.RawMessage) ([]Product, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return []Product{}, nil
	}

	if trimmed[0] == '{' {
		var single Product
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return nil, NewParseError("failed to parse product", err)
		}
		return []Product{single}, nil
	}

	var products []Product
	if err := json.Unmarshal(trimmed, &products); err != nil {
		return nil, NewParseError("failed to parse product list", err)
	}
	return nonNil(products), nil
}

func nonNil(products []Product) []Product {
	if products == nil {
		return []Product{}
	}
	return products
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
