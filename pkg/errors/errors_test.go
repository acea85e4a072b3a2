package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()

	withField := &ConfigError{Field: "ClientID", Message: "cannot be empty"}
	if got := withField.Error(); got != "config error in field ClientID: cannot be empty" {
		t.Errorf("unexpected message: %q", got)
	}

	withoutField := &ConfigError{Message: "config cannot be nil"}
	if got := withoutField.Error(); got != "config error: config cannot be nil" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestAuthError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		err  *AuthError
		want []string
	}{
		{
			name: "status and body",
			err:  &AuthError{StatusCode: 401, Body: `{"error": "invalid_client"}`},
			want: []string{"auth error", "status code 401", `{\"error\": \"invalid_client\"}`},
		},
		{
			name: "wrapped error only",
			err:  &AuthError{Err: fmt.Errorf("connection refused")},
			want: []string{"auth error", "connection refused"},
		},
		{
			name: "message only",
			err:  &AuthError{Message: "no refresh token available"},
			want: []string{"auth error", "no refresh token available"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := tc.err.Error()
			for _, fragment := range tc.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("expected %q to contain %q", got, fragment)
				}
			}
		})
	}
}

func TestAuthError_Unwrap(t *testing.T) {
	t.Parallel()

	inner := fmt.Errorf("boom")
	err := &AuthError{Err: inner}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestRateLimitError(t *testing.T) {
	t.Parallel()

	reset := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	withReset := &RateLimitError{Endpoint: "/1.0/users/me", Reset: reset}
	if got := withReset.Error(); !strings.Contains(got, "/1.0/users/me") || !strings.Contains(got, "2024-06-01T12:00:00Z") {
		t.Errorf("unexpected message: %q", got)
	}

	withoutReset := &RateLimitError{Endpoint: "/1.0/users/me"}
	if got := withoutReset.Error(); got != "rate limit reached for /1.0/users/me" {
		t.Errorf("unexpected message: %q", got)
	}
}

func TestAPIError(t *testing.T) {
	t.Parallel()

	typed := &APIError{StatusCode: 404, ErrorType: "Not Found", Message: "no such resource"}
	if got := typed.Error(); got != "radarly API error (status 404, type Not Found): no such resource" {
		t.Errorf("unexpected message: %q", got)
	}
	if typed.IsExpiredToken() {
		t.Error("expected IsExpiredToken to be false")
	}

	bare := &APIError{StatusCode: 502, Message: "request failed"}
	if got := bare.Error(); got != "API request failed with status 502: request failed" {
		t.Errorf("unexpected message: %q", got)
	}

	expired := &APIError{StatusCode: 401, ErrorType: ExpiredTokenType}
	if !expired.IsExpiredToken() {
		t.Error("expected IsExpiredToken to be true")
	}
}

func TestRequestError(t *testing.T) {
	t.Parallel()

	inner := fmt.Errorf("dial tcp: connection refused")
	err := &RequestError{Operation: "SearchPublications", URL: "https://radarly.linkfluence.com/1.0/projects/1/inbox/search", Err: inner}

	got := err.Error()
	if !strings.Contains(got, "SearchPublications") || !strings.Contains(got, "connection refused") {
		t.Errorf("unexpected message: %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestParseError(t *testing.T) {
	t.Parallel()

	inner := fmt.Errorf("unexpected end of JSON input")
	err := &ParseError{Operation: "GetAnalytics", Err: inner}

	if got := err.Error(); !strings.Contains(got, "GetAnalytics") || !strings.Contains(got, "unexpected end of JSON input") {
		t.Errorf("unexpected message: %q", got)
	}
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestClientError(t *testing.T) {
	t.Parallel()

	inner := fmt.Errorf("boom")
	bareWrap := &ClientError{Err: inner}
	if got := bareWrap.Error(); got != "boom" {
		t.Errorf("unexpected message: %q", got)
	}

	withOperation := &ClientError{Operation: "create request", Message: "invalid method"}
	if got := withOperation.Error(); got != "client error during create request: invalid method" {
		t.Errorf("unexpected message: %q", got)
	}

	empty := &ClientError{}
	if got := empty.Error(); got != "client error" {
		t.Errorf("unexpected message: %q", got)
	}
}
