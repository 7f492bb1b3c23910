package ksiegowosc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/kevin07696/ksiegowosc-client/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/ksiegowosc-client/pkg/errors"
	pkghttp "github.com/kevin07696/ksiegowosc-client/pkg/http"
	"github.com/kevin07696/ksiegowosc-client/pkg/observability"
	"github.com/kevin07696/ksiegowosc-client/pkg/timeutil"
)

// DefaultBaseURL is the production API root
const DefaultBaseURL = "https://program.360ksiegowosc.pl/api"

// ClientConfig contains configuration for the accounting API client
type ClientConfig struct {
	BaseURL string // e.g., "https://program.360ksiegowosc.pl/api"
}

// DefaultClientConfig returns default configuration
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL: DefaultBaseURL,
	}
}

// Option customizes a Client
type Option func(*Client)

// WithClock overrides the time source used for request timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// WithMetrics records every call on m
func WithMetrics(m *observability.ClientMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithRateLimiter makes every call wait for a token from l before sending
func WithRateLimiter(l *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = l
	}
}

// Client calls the 360ksiegowosc accounting API.
// All fields are set at construction and only read afterwards, so a Client
// is safe for concurrent use.
type Client struct {
	auth       AuthConfig
	baseURL    string
	httpClient ports.HTTPClient
	logger     ports.Logger
	now        func() time.Time
	metrics    *observability.ClientMetrics
	limiter    *rate.Limiter
}

// NewClient creates a new accounting API client with dependency injection.
// A nil httpClient gets the pooled accounting transport, a nil logger
// discards output.
func NewClient(auth AuthConfig, cfg *ClientConfig, httpClient ports.HTTPClient, logger ports.Logger, opts ...Option) *Client {
	if cfg == nil {
		cfg = DefaultClientConfig()
	}
	if httpClient == nil {
		httpClient = pkghttp.NewHTTPClient(pkghttp.AccountingClientConfig(), 0)
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}

	c := &Client{
		auth:       auth,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		now:        timeutil.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do signs and sends payload to the endpoint at path and decodes a
// successful response into out. out may be nil when the result is not needed.
//
// Invalid local input is reported as *errors.ValidationError before anything
// is sent. Every other failure is an *errors.APIError.
func (c *Client) Do(ctx context.Context, path string, payload, out interface{}) error {
	if path == "" {
		return pkgerrors.NewValidationError("path", "endpoint path is required")
	}
	if payload == nil {
		return pkgerrors.NewValidationError("payload", "payload is required, use an empty struct for calls without parameters")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return pkgerrors.NewValidationError("payload", fmt.Sprintf("payload cannot be encoded as JSON: %v", err))
	}

	done := c.metrics.Start(path)
	err = c.makeRequest(ctx, path, body, out)
	done(resultCode(err))

	return err
}

// makeRequest performs one signed POST and interprets the response
func (c *Client) makeRequest(ctx context.Context, path string, body []byte, out interface{}) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return canceledError(err)
		}
	}

	endpointURL := c.baseURL + "/" + strings.TrimLeft(path, "/")

	// The timestamp is taken at send time, so each attempt gets a fresh signature
	timestamp := timeutil.Timestamp(c.now())
	query := c.auth.Sign(timestamp, body)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL+"?"+query.Encode(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	requestID := uuid.NewString()
	c.logger.Info("making request to accounting API",
		ports.String("method", http.MethodPost),
		ports.String("endpoint", path),
		ports.String("request_id", requestID),
	)

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			c.logger.Warn("accounting API request canceled",
				ports.String("request_id", requestID),
				ports.Duration("elapsed", time.Since(startTime)),
			)
			return canceledError(ctx.Err())
		}
		c.logger.Error("accounting API request failed",
			ports.String("request_id", requestID),
			ports.Err(err),
			ports.Duration("elapsed", time.Since(startTime)),
		)
		return pkgerrors.NewAPIError(pkgerrors.CodeNetworkError, "Failed to connect to accounting API", 0).
			WithCause(err).
			WithContext("url", endpointURL)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		if ctx.Err() != nil {
			return canceledError(ctx.Err())
		}
		return pkgerrors.NewAPIError(pkgerrors.CodeNetworkError, "Failed to read accounting API response", httpResp.StatusCode).
			WithCause(err).
			WithContext("url", endpointURL)
	}

	c.logger.Debug("accounting API response",
		ports.String("request_id", requestID),
		ports.Int("status_code", httpResp.StatusCode),
		ports.Duration("elapsed", time.Since(startTime)),
	)

	raw, err := NormalizeResponse(respBody, httpResp.StatusCode, endpointURL)
	if err != nil {
		c.logger.Error("accounting API returned an error",
			ports.String("request_id", requestID),
			ports.Int("status_code", httpResp.StatusCode),
			ports.Err(err),
		)
		return err
	}

	return decodeInto(raw, out, httpResp.StatusCode, endpointURL)
}

// decodeInto unmarshals a successful body into out. Empty bodies leave out
// untouched. A body that does not match out's shape is reported the same way
// as any other unusable success response.
func decodeInto(raw json.RawMessage, out interface{}, status int, endpointURL string) error {
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return pkgerrors.NewAPIError(pkgerrors.CodeUnknownResponse, unsupportedMessage, status).
			WithCause(err).
			WithContext("text", truncateChars(string(raw), maxErrorTextChars)).
			WithContext("url", endpointURL)
	}
	return nil
}

func canceledError(cause error) *pkgerrors.APIError {
	return pkgerrors.NewAPIError(pkgerrors.CodeCanceled, "request canceled", 0).WithCause(cause)
}

// resultCode labels a call outcome for metrics. Codes echoed from the API
// are collapsed into "remote_error" to keep label cardinality bounded.
func resultCode(err error) string {
	if err == nil {
		return "ok"
	}
	var apiErr *pkgerrors.APIError
	if !errors.As(err, &apiErr) {
		return "error"
	}
	switch apiErr.Code {
	case pkgerrors.CodeUnknownError, pkgerrors.CodeUnknownResponse, pkgerrors.CodeCanceled, pkgerrors.CodeNetworkError:
		return apiErr.Code
	default:
		return "remote_error"
	}
}

// IsValidationError reports whether err was raised locally before sending
func IsValidationError(err error) bool {
	var vErr *pkgerrors.ValidationError
	return errors.As(err, &vErr)
}
