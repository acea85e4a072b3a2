package internal

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	pkgerrs "github.com/linkfluence/radarly-go/pkg/errors"
)

func quotaHeader(used, max int, reset time.Time) http.Header {
	header := http.Header{}
	header.Set(HeaderRateLimitUsage, strconv.Itoa(used))
	header.Set(HeaderRateLimitLimit, strconv.Itoa(max))
	if !reset.IsZero() {
		header.Set(HeaderRateLimitReset, strconv.FormatInt(reset.Unix(), 10))
	}
	return header
}

func TestRateTracker_Remaining(t *testing.T) {
	t.Parallel()

	tracker := NewRateTracker()

	if got := tracker.Remaining("1.0/projects/1"); got != -1 {
		t.Errorf("expected unknown endpoint to report -1, got %d", got)
	}

	tracker.Update("1.0/projects/1", quotaHeader(5, 10, time.Now().Add(time.Hour)))

	if got := tracker.Remaining("1.0/projects/1"); got != 5 {
		t.Errorf("expected 5 remaining after used=5 max=10, got %d", got)
	}
}

func TestRateTracker_CheckExhausted(t *testing.T) {
	t.Parallel()

	tracker := NewRateTracker()
	reset := time.Now().Add(time.Hour)
	tracker.Update("1.0/projects/1/inbox/search", quotaHeader(10, 10, reset))

	err := tracker.Check("1.0/projects/1/inbox/search")
	if err == nil {
		t.Fatal("expected an error for exhausted quota, got nil")
	}

	var rateErr *pkgerrs.RateLimitError
	if !errors.As(err, &rateErr) {
		t.Fatalf("expected RateLimitError, got %T", err)
	}
	if rateErr.Endpoint != "1.0/projects/1/inbox/search" {
		t.Errorf("unexpected endpoint %q", rateErr.Endpoint)
	}
	if !rateErr.Reset.Equal(time.Unix(reset.Unix(), 0)) {
		t.Errorf("unexpected reset time %v", rateErr.Reset)
	}

	// Other endpoints are unaffected.
	if err := tracker.Check("1.0/users/me"); err != nil {
		t.Errorf("expected other endpoint to be admitted, got %v", err)
	}
}

func TestRateTracker_StaleEntryAdmits(t *testing.T) {
	t.Parallel()

	tracker := NewRateTracker()
	tracker.Update("1.0/projects/1", quotaHeader(10, 10, time.Now().Add(-time.Minute)))

	if err := tracker.Check("1.0/projects/1"); err != nil {
		t.Fatalf("expected stale entry to admit the request, got %v", err)
	}

	// The stale entry is dropped, so the budget is unknown again.
	if got := tracker.Remaining("1.0/projects/1"); got != -1 {
		t.Errorf("expected stale entry to be cleared, got remaining %d", got)
	}
}

func TestRateTracker_CounterNeverNegative(t *testing.T) {
	t.Parallel()

	tracker := NewRateTracker()
	// The vendor can report usage past the budget on the last admitted call.
	tracker.Update("1.0/projects/1", quotaHeader(12, 10, time.Now().Add(time.Hour)))

	if got := tracker.Remaining("1.0/projects/1"); got != 0 {
		t.Errorf("expected remaining clamped at 0, got %d", got)
	}
}

func TestRateTracker_UpdateIgnoresMalformedHeaders(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		header http.Header
	}{
		{"missing usage", http.Header{HeaderRateLimitLimit: []string{"10"}}},
		{"missing limit", http.Header{HeaderRateLimitUsage: []string{"5"}}},
		{"non-numeric usage", http.Header{HeaderRateLimitUsage: []string{"lots"}, HeaderRateLimitLimit: []string{"10"}}},
		{"zero limit", http.Header{HeaderRateLimitUsage: []string{"5"}, HeaderRateLimitLimit: []string{"0"}}},
		{"negative usage", http.Header{HeaderRateLimitUsage: []string{"-1"}, HeaderRateLimitLimit: []string{"10"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tracker := NewRateTracker()
			tracker.Update("1.0/projects/1", tc.header)

			if got := tracker.Remaining("1.0/projects/1"); got != -1 {
				t.Errorf("expected malformed headers to be ignored, got remaining %d", got)
			}
		})
	}
}

func TestRateTracker_Snapshot(t *testing.T) {
	t.Parallel()

	tracker := NewRateTracker()
	tracker.Update("1.0/users/me", quotaHeader(1, 100, time.Time{}))
	tracker.Update("1.0/projects/1", quotaHeader(5, 10, time.Time{}))

	snapshot := tracker.Snapshot()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 tracked endpoints, got %d", len(snapshot))
	}
	if snapshot["1.0/users/me"].Remaining() != 99 {
		t.Errorf("unexpected remaining for users/me: %d", snapshot["1.0/users/me"].Remaining())
	}

	// Mutating the snapshot must not affect the tracker.
	snapshot["1.0/users/me"] = Quota{Used: 100, Max: 100}
	if tracker.Remaining("1.0/users/me") != 99 {
		t.Error("snapshot mutation leaked into the tracker")
	}
}

func TestEndpointKey(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		rawURL string
		want   string
	}{
		{"https://radarly.linkfluence.com/1.0/projects/1?limit=5", "/1.0/projects/1"},
		{"https://radarly.linkfluence.com/1.0/users/me/", "/1.0/users/me"},
		{"https://radarly.linkfluence.com/", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.rawURL, func(t *testing.T) {
			t.Parallel()

			u, err := url.Parse(tc.rawURL)
			if err != nil {
				t.Fatalf("failed to parse URL: %v", err)
			}
			if got := EndpointKey(u); got != tc.want {
				t.Errorf("expected key %q, got %q", tc.want, got)
			}
		})
	}

	if got := EndpointKey(nil); got != "" {
		t.Errorf("expected empty key for nil URL, got %q", got)
	}
}
