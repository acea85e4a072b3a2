package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	pkgerrs "github.com/linkfluence/radarly-go/pkg/errors"
)

// TokenSource supplies the bearer token attached to every request and
// re-issues it when the vendor reports it expired.
type TokenSource interface {
	// Token returns the current access token.
	Token() string
	// Refresh exchanges the stored refresh token for a new token pair.
	Refresh(ctx context.Context) error
}

// Client dispatches requests to the Radarly API. It normalizes relative
// paths against the versioned base URL, serializes JSON bodies, attaches
// bearer credentials, consults the rate tracker before sending and updates
// it after every response.
type Client struct {
	client    *http.Client
	BaseURL   *url.URL
	Version   string
	UserAgent string

	tokens  TokenSource
	rates   *RateTracker
	parser  *Parser
	limiter *rate.Limiter
	logger  *zap.Logger
}

// RateLimitConfig controls client-side throttling applied before requests
// reach the vendor, on top of the header-driven quota tracking.
type RateLimitConfig struct {
	// RequestsPerMinute caps steady-state throughput. Defaults to 120 if zero.
	RequestsPerMinute float64
	// Burst allows short spikes above the steady-state rate. Defaults to 10 if zero.
	Burst int
}

const (
	DefaultRequestsPerMinute = 120
	DefaultRateLimitBurst    = 10
	secondsPerMinute         = 60.0
)

// roundTrip captures what the dispatcher needs from one HTTP exchange.
type roundTrip struct {
	status int
	header http.Header
	body   []byte
}

func (rt roundTrip) ok() bool {
	return rt.status >= 200 && rt.status < 300
}

// NewClient returns a new dispatcher. If a nil httpClient is provided,
// http.DefaultClient will be used.
func NewClient(httpClient *http.Client, tokens TokenSource, baseURL, version, userAgent string, rateCfg *RateLimitConfig, logger *zap.Logger) (*Client, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, &pkgerrs.ClientError{Operation: "parse base URL", Err: err}
	}
	if !strings.HasSuffix(parsedURL.Path, "/") {
		parsedURL.Path += "/"
	}

	if rateCfg == nil {
		rateCfg = &RateLimitConfig{}
	}

	return &Client{
		client:    httpClient,
		BaseURL:   parsedURL,
		Version:   version,
		UserAgent: userAgent,
		tokens:    tokens,
		rates:     NewRateTracker(),
		parser:    NewParser(),
		limiter:   buildLimiter(*rateCfg),
		logger:    logger,
	}, nil
}

// Rates exposes the tracker for quota introspection.
func (c *Client) Rates() *RateTracker {
	return c.rates
}

// NewRequest creates an API request. A relative path is resolved against the
// client's base URL and prefixed with the API version segment when it does
// not already carry it. A non-nil body is serialized as JSON.
func (c *Client) NewRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	path = strings.Trim(path, "/")
	if c.Version != "" && path != c.Version && !strings.HasPrefix(path, c.Version+"/") {
		path = c.Version + "/" + path
	}

	u, err := c.BaseURL.Parse(path)
	if err != nil {
		return nil, &pkgerrs.ClientError{Operation: "build request URL", Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &pkgerrs.ClientError{Operation: "serialize request body", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, &pkgerrs.ClientError{Operation: "create request", Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)

	return req, nil
}

// Do sends an API request and JSON-decodes the response into the value
// pointed to by v. The tracked quota for the endpoint is checked before the
// network call and updated from the response headers afterwards.
//
// When the vendor answers with an expired-token error, the token pair is
// refreshed once and the call retried exactly once; a second expired-token
// answer propagates as an APIError. Every other non-2xx response is returned
// as an APIError carrying the parsed error payload.
func (c *Client) Do(req *http.Request, v any) error {
	endpoint := EndpointKey(req.URL)

	if err := c.rates.Check(endpoint); err != nil {
		c.logger.Debug("request rejected by quota tracker", zap.String("endpoint", endpoint))
		return err
	}

	if err := c.limiter.Wait(req.Context()); err != nil {
		return &pkgerrs.RequestError{URL: req.URL.String(), Err: err}
	}

	trip, err := c.send(req, endpoint)
	if err != nil {
		return err
	}

	if trip.ok() {
		return decodeBody(trip.body, v)
	}

	apiErr := c.apiError(trip)
	if !apiErr.IsExpiredToken() {
		return apiErr
	}

	c.logger.Debug("access token expired, refreshing and retrying once",
		zap.String("endpoint", endpoint))

	if err := c.tokens.Refresh(req.Context()); err != nil {
		return err
	}

	// The failed response already updated the tracker, so the retry goes
	// through the same quota gate as a fresh call.
	if err := c.rates.Check(endpoint); err != nil {
		return err
	}

	retryReq, err := cloneRequest(req)
	if err != nil {
		return err
	}

	trip, err = c.send(retryReq, endpoint)
	if err != nil {
		return err
	}

	if trip.ok() {
		return decodeBody(trip.body, v)
	}

	return c.apiError(trip)
}

// send executes one HTTP round trip with the current bearer token and
// feeds the response headers back into the quota tracker.
func (c *Client) send(req *http.Request, endpoint string) (roundTrip, error) {
	req.Header.Set("Authorization", "Bearer "+c.tokens.Token())

	resp, err := c.client.Do(req)
	if err != nil {
		return roundTrip{}, &pkgerrs.RequestError{URL: req.URL.String(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return roundTrip{}, &pkgerrs.RequestError{URL: req.URL.String(), Message: "failed to read response body", Err: err}
	}

	c.rates.Update(endpoint, resp.Header)

	return roundTrip{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

func (c *Client) apiError(trip roundTrip) *pkgerrs.APIError {
	payload := c.parser.ParseErrorResponse(trip.status, trip.header, trip.body)
	return &pkgerrs.APIError{
		StatusCode: payload.ErrorCode,
		ErrorType:  payload.ErrorType,
		Message:    payload.ErrorMessage,
	}
}

func decodeBody(body []byte, v any) error {
	if v == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return &pkgerrs.ParseError{Message: "failed to decode response body", Err: err}
	}
	return nil
}

// cloneRequest rebuilds a request so it can be resent after a token refresh.
func cloneRequest(req *http.Request) (*http.Request, error) {
	out := req.Clone(req.Context())
	if req.GetBody == nil {
		return out, nil
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, &pkgerrs.ClientError{Operation: "rewind request body", Err: err}
	}
	out.Body = body
	return out, nil
}

func buildLimiter(cfg RateLimitConfig) *rate.Limiter {
	requestsPerMinute := cfg.RequestsPerMinute
	if requestsPerMinute <= 0 {
		requestsPerMinute = DefaultRequestsPerMinute
	}

	burst := cfg.Burst
	if burst <= 0 {
		burst = DefaultRateLimitBurst
	}

	limitPerSecond := rate.Limit(requestsPerMinute / secondsPerMinute)
	if limitPerSecond <= 0 {
		limitPerSecond = rate.Limit(1)
	}

	return rate.NewLimiter(limitPerSecond, burst)
}
