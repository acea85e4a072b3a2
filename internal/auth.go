package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	pkgerrs "github.com/linkfluence/radarly-go/pkg/errors"
)

const (
	grantClientCredentials = "client_credentials"
	grantRefreshToken      = "refresh_token"
)

// Authenticator exchanges client credentials for an access/refresh token
// pair at the OAuth2 token endpoint, and re-issues the pair on expiry.
//
// Token state is mutated in place on every authenticate/refresh cycle and is
// owned by a single client instance; the Authenticator is not goroutine-safe.
type Authenticator struct {
	client       *http.Client
	clientID     string
	clientSecret string
	userAgent    string
	tokenURL     *url.URL
	logger       *zap.Logger

	scope        []string
	accessToken  string
	refreshToken string
	lastRefresh  time.Time
}

// NewAuthenticator creates a new authenticator targeting the given token
// endpoint URL.
func NewAuthenticator(httpClient *http.Client, clientID, clientSecret string, scope []string, tokenURL, userAgent string, logger *zap.Logger) (*Authenticator, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	parsedURL, err := url.Parse(tokenURL)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to parse token endpoint URL: %w", err)}
	}

	return &Authenticator{
		client:       httpClient,
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		tokenURL:     parsedURL,
		logger:       logger,
		scope:        scope,
	}, nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// Authenticate performs the client-credentials grant. On failure no token
// state is stored; the caller may simply invoke Authenticate again.
func (a *Authenticator) Authenticate(ctx context.Context) error {
	form := url.Values{}
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)
	form.Set("grant_type", grantClientCredentials)
	form.Set("scope", strings.Join(a.scope, " "))

	tokenResp, err := a.requestToken(ctx, form)
	if err != nil {
		return err
	}

	if tokenResp.Scope != "" {
		a.scope = strings.Split(tokenResp.Scope, " ")
	}
	a.accessToken = tokenResp.AccessToken
	a.refreshToken = tokenResp.RefreshToken
	a.lastRefresh = time.Now()

	a.logger.Debug("authenticated against token endpoint",
		zap.String("scope", tokenResp.Scope))
	return nil
}

// Refresh mints a new access token from the stored refresh token. On
// success both tokens are replaced and the last-refresh timestamp is reset.
func (a *Authenticator) Refresh(ctx context.Context) error {
	if a.refreshToken == "" {
		return &pkgerrs.AuthError{Message: "no refresh token available, authenticate first"}
	}

	form := url.Values{}
	form.Set("client_id", a.clientID)
	form.Set("client_secret", a.clientSecret)
	form.Set("grant_type", grantRefreshToken)
	form.Set("refresh_token", a.refreshToken)

	tokenResp, err := a.requestToken(ctx, form)
	if err != nil {
		return err
	}

	a.accessToken = tokenResp.AccessToken
	a.refreshToken = tokenResp.RefreshToken
	a.lastRefresh = time.Now()

	a.logger.Debug("refreshed access token")
	return nil
}

func (a *Authenticator) requestToken(ctx context.Context, form url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.tokenURL.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to create token request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", a.userAgent)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &pkgerrs.AuthError{Err: fmt.Errorf("failed to execute token request: %w", err)}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read response body: %w", err),
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
		}
	}

	var tokenResp tokenResponse
	if err := json.Unmarshal(bodyBytes, &tokenResp); err != nil {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("failed to unmarshal token response: %w", err),
		}
	}

	if tokenResp.AccessToken == "" {
		return nil, &pkgerrs.AuthError{
			StatusCode: resp.StatusCode,
			Body:       string(bodyBytes),
			Err:        fmt.Errorf("access token was empty in response"),
		}
	}

	return &tokenResp, nil
}

// Token returns the current access token, or an empty string before the
// first successful Authenticate.
func (a *Authenticator) Token() string {
	return a.accessToken
}

// Scope returns the scope list granted on the last token exchange.
func (a *Authenticator) Scope() []string {
	return a.scope
}

// LastRefresh returns the time of the last successful token exchange.
func (a *Authenticator) LastRefresh() time.Time {
	return a.lastRefresh
}
