// Package radarly provides a Go client for the Radarly social-listening API
// with OAuth2 authentication support.
//
// It handles the token lifecycle (credential grant, silent refresh on
// expiry), per-endpoint rate-limit bookkeeping driven by the vendor's quota
// headers, and proper request formatting.
//
// Basic usage:
//
//	config := &radarly.Config{
//		ClientID:     "your-client-id",
//		ClientSecret: "your-client-secret",
//	}
//
//	client, err := radarly.NewClient(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := client.Connect(ctx); err != nil {
//		log.Fatal(err)
//	}
//
//	user, err := client.CurrentUser(ctx)
//	if err != nil {
//		log.Fatal(err)
//	}
package radarly

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/linkfluence/radarly-go/internal"
	pkgerrs "github.com/linkfluence/radarly-go/pkg/errors"
	"github.com/linkfluence/radarly-go/pkg/types"
)

const (
	// DefaultBaseURL is the root of the Radarly REST API
	DefaultBaseURL = "https://radarly.linkfluence.com/"
	// DefaultAuthURL is the OAuth2 token endpoint
	DefaultAuthURL = "https://oauth.linkfluence.com/oauth2/token"
	// DefaultAPIVersion is the versioned path segment prefixed to relative paths
	DefaultAPIVersion = "1.0"
	// DefaultUserAgent is the default user agent string
	DefaultUserAgent = "radarly-go/0.1"
	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = 30 * time.Second
)

// DefaultScope is the permission set requested when the config does not
// name its own.
var DefaultScope = []string{"listening", "historical-data", "social-performance"}

// Config holds the configuration for the Radarly client.
//
// ClientID and ClientSecret are issued by Linkfluence and are required;
// everything else has a sensible default.
type Config struct {
	// ClientID and ClientSecret for the OAuth2 client-credentials grant.
	ClientID     string
	ClientSecret string

	// Scope is the list of permission categories to request.
	// Defaults to DefaultScope.
	Scope []string

	// BaseURL for the Radarly REST API.
	// Defaults to DefaultBaseURL if not specified.
	BaseURL string

	// AuthURL is the OAuth2 token endpoint.
	// Defaults to DefaultAuthURL if not specified.
	AuthURL string

	// UserAgent string sent with every request.
	UserAgent string

	// HTTPClient to use for requests.
	// Defaults to a client with DefaultTimeout if not specified.
	HTTPClient *http.Client

	// RequestsPerMinute and Burst tune the client-side throttle applied
	// before requests reach the vendor. Zero values use the defaults.
	RequestsPerMinute float64
	Burst             int

	// Logger for structured diagnostics. Optional; defaults to a no-op
	// logger.
	Logger *zap.Logger
}

// ConfigFromEnv builds a Config from the RADARLY_CLIENT_ID and
// RADARLY_CLIENT_SECRET environment variables, loading a .env file first
// when one is present.
func ConfigFromEnv() (*Config, error) {
	_ = godotenv.Load()

	clientID := os.Getenv("RADARLY_CLIENT_ID")
	clientSecret := os.Getenv("RADARLY_CLIENT_SECRET")
	if clientID == "" || clientSecret == "" {
		return nil, &pkgerrs.ConfigError{
			Message: "RADARLY_CLIENT_ID and RADARLY_CLIENT_SECRET must be set",
		}
	}

	return &Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
	}, nil
}

// Client is the main Radarly API client. All methods require the client to
// be connected first; Connect is invoked lazily on the first call.
//
// A Client instance owns its token state exclusively and is not documented
// as safe for concurrent use; callers wanting parallelism should create one
// client per goroutine. There is no process-wide default client: pass the
// instance to whatever needs it.
type Client struct {
	client    *internal.Client
	auth      *internal.Authenticator
	config    *Config
	validator *internal.Validator

	connectOnce sync.Once
	connectErr  error
}

// NewClient creates a new Radarly client with the provided configuration.
// It validates the configuration and sets up the authentication mechanism;
// no network call is made until Connect.
func NewClient(config *Config) (*Client, error) {
	if config == nil {
		return nil, &pkgerrs.ConfigError{Message: "config cannot be nil"}
	}

	if config.ClientID == "" || config.ClientSecret == "" {
		return nil, &pkgerrs.ConfigError{Message: "ClientID and ClientSecret are required"}
	}

	// Set defaults
	if len(config.Scope) == 0 {
		config.Scope = DefaultScope
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	if config.AuthURL == "" {
		config.AuthURL = DefaultAuthURL
	}
	if config.HTTPClient == nil {
		config.HTTPClient = &http.Client{Timeout: DefaultTimeout}
	}
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}

	validator := internal.NewValidator()
	if err := validator.ValidateUserAgent(config.UserAgent); err != nil {
		return nil, err
	}

	auth, err := internal.NewAuthenticator(
		config.HTTPClient,
		config.ClientID,
		config.ClientSecret,
		config.Scope,
		config.AuthURL,
		config.UserAgent,
		config.Logger,
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		auth:      auth,
		config:    config,
		validator: validator,
	}, nil
}

// Connect authenticates with Radarly and initializes the internal
// dispatcher. It is safe to call Connect multiple times; initialization
// will only occur once.
func (c *Client) Connect(ctx context.Context) error {
	c.connectOnce.Do(func() {
		c.connectErr = c.initialize(ctx)
	})

	return c.connectErr
}

func (c *Client) initialize(ctx context.Context) error {
	if err := c.auth.Authenticate(ctx); err != nil {
		return err
	}

	rateCfg := &internal.RateLimitConfig{
		RequestsPerMinute: c.config.RequestsPerMinute,
		Burst:             c.config.Burst,
	}

	client, err := internal.NewClient(
		c.config.HTTPClient,
		c.auth,
		c.config.BaseURL,
		DefaultAPIVersion,
		c.config.UserAgent,
		rateCfg,
		c.config.Logger,
	)
	if err != nil {
		return err
	}

	c.client = client
	return nil
}

// ensureConnected lazily initializes the client before handling a request.
func (c *Client) ensureConnected(ctx context.Context) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}

	if !c.IsConnected() {
		return &pkgerrs.StateError{Operation: "request", Message: "client not connected, call Connect() first"}
	}

	return nil
}

// IsConnected returns true if the client is authenticated and ready to make
// requests.
func (c *Client) IsConnected() bool {
	return c.client != nil
}

// CurrentUser returns the account behind the credentials, including the
// summaries of every project the account can access.
func (c *Client) CurrentUser(ctx context.Context) (*types.User, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}

	req, err := c.client.NewRequest(ctx, http.MethodGet, "users/me", nil)
	if err != nil {
		return nil, err
	}

	var user types.User
	if err := c.client.Do(req, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// GetProject retrieves the full record of a project, including its focuses,
// tags and dashboards.
func (c *Client) GetProject(ctx context.Context, pid int64) (*types.Project, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateProjectID(pid); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("projects/%d", pid)
	req, err := c.client.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var project types.Project
	if err := c.client.Do(req, &project); err != nil {
		return nil, err
	}

	return &project, nil
}

// SearchPublications retrieves one page of publications matching the search
// request. Use NewPublicationIterator to walk the full result set.
func (c *Client) SearchPublications(ctx context.Context, pid int64, request *types.SearchRequest) (*PublicationsResponse, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateProjectID(pid); err != nil {
		return nil, err
	}
	if request == nil {
		request = &types.SearchRequest{}
	}
	if err := c.validator.ValidatePagination(&request.Pagination); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateDateRange(request.From, request.To); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("projects/%d/inbox/search", pid)
	req, err := c.client.NewRequest(ctx, http.MethodPost, path, request)
	if err != nil {
		return nil, err
	}

	var results types.SearchResults
	if err := c.client.Do(req, &results); err != nil {
		return nil, err
	}

	return &PublicationsResponse{
		Publications: results.Hits,
		Total:        results.Total,
	}, nil
}

// GetInfluencers retrieves one page of the influencer ranking of a project.
func (c *Client) GetInfluencers(ctx context.Context, pid int64, request *types.InfluencerRequest) (*InfluencersResponse, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateProjectID(pid); err != nil {
		return nil, err
	}
	if request == nil {
		request = &types.InfluencerRequest{}
	}
	if err := c.validator.ValidatePagination(&request.Pagination); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("projects/%d/influencers", pid)
	req, err := c.client.NewRequest(ctx, http.MethodPost, path, request)
	if err != nil {
		return nil, err
	}

	var results types.InfluencerResults
	if err := c.client.Do(req, &results); err != nil {
		return nil, err
	}

	return &InfluencersResponse{
		Influencers: results.Influencers,
		Total:       results.Total,
	}, nil
}

// GetAnalytics computes a distribution of metric counts over date intervals
// for a subset of a project's publications.
func (c *Client) GetAnalytics(ctx context.Context, pid int64, request *types.AnalyticsRequest) (*types.Analytics, error) {
	if err := c.ensureConnected(ctx); err != nil {
		return nil, err
	}
	if err := c.validator.ValidateProjectID(pid); err != nil {
		return nil, err
	}
	if request == nil {
		request = &types.AnalyticsRequest{}
	}
	if err := c.validator.ValidateDateRange(request.From, request.To); err != nil {
		return nil, err
	}

	path := fmt.Sprintf("projects/%d/insights", pid)
	req, err := c.client.NewRequest(ctx, http.MethodPost, path, request)
	if err != nil {
		return nil, err
	}

	var analytics types.Analytics
	if err := c.client.Do(req, &analytics); err != nil {
		return nil, err
	}

	return &analytics, nil
}

// RateLimits returns a snapshot of the quota tracked for every endpoint the
// client has called so far. It is empty before the first response carrying
// quota headers.
func (c *Client) RateLimits() []QuotaStatus {
	if c.client == nil {
		return nil
	}

	snapshot := c.client.Rates().Snapshot()
	out := make([]QuotaStatus, 0, len(snapshot))
	for endpoint, quota := range snapshot {
		out = append(out, QuotaStatus{
			Endpoint:  endpoint,
			Used:      quota.Used,
			Max:       quota.Max,
			Remaining: quota.Remaining(),
			Reset:     quota.Reset,
		})
	}
	return out
}
