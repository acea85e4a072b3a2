package internal

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	pkgerrs "github.com/linkfluence/radarly-go/pkg/errors"
)

// Quota header names sent back by the Radarly API on every response.
const (
	HeaderRateLimitUsage = "X-RateLimit-Usage"
	HeaderRateLimitLimit = "X-RateLimit-Limit"
	HeaderRateLimitReset = "X-RateLimit-Reset"
)

// Quota is the tracked rate-limit state for one endpoint. It is overwritten
// wholesale from the headers of every response for that endpoint.
type Quota struct {
	// Used is the number of calls consumed in the current window.
	Used int
	// Max is the window's call budget.
	Max int
	// Reset is the instant at which the vendor opens a new window.
	Reset time.Time
}

// Remaining returns the number of calls left in the window, never negative.
func (q Quota) Remaining() int {
	remaining := q.Max - q.Used
	if remaining < 0 {
		return 0
	}
	return remaining
}

// RateTracker maintains per-endpoint quota counters derived from response
// headers. Check rejects a request whose endpoint has no budget left, so the
// counters never go below zero.
type RateTracker struct {
	mu     sync.Mutex
	quotas map[string]Quota
}

// NewRateTracker returns an empty tracker. Endpoints are admitted freely
// until a response has populated their quota entry.
func NewRateTracker() *RateTracker {
	return &RateTracker{quotas: make(map[string]Quota)}
}

// EndpointKey reduces a request URL to the key quotas are tracked under:
// the URL path without query string.
func EndpointKey(u *url.URL) string {
	if u == nil {
		return ""
	}
	return strings.TrimSuffix(u.Path, "/")
}

// Check returns a RateLimitError when the endpoint's tracked quota is
// exhausted and the reset instant has not passed. A stale entry whose window
// has already reset admits the request.
func (rt *RateTracker) Check(endpoint string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	quota, ok := rt.quotas[endpoint]
	if !ok {
		return nil
	}

	if quota.Remaining() > 0 {
		return nil
	}

	if !quota.Reset.IsZero() && time.Now().After(quota.Reset) {
		delete(rt.quotas, endpoint)
		return nil
	}

	return &pkgerrs.RateLimitError{Endpoint: endpoint, Reset: quota.Reset}
}

// Update overwrites the endpoint's quota entry from response headers. It is
// a no-op when the usage or limit header is missing or malformed.
func (rt *RateTracker) Update(endpoint string, header http.Header) {
	usageHeader := header.Get(HeaderRateLimitUsage)
	limitHeader := header.Get(HeaderRateLimitLimit)
	if usageHeader == "" || limitHeader == "" {
		return
	}

	used, errUsed := strconv.Atoi(usageHeader)
	max, errLimit := strconv.Atoi(limitHeader)
	if errUsed != nil || errLimit != nil || max <= 0 || used < 0 {
		return
	}

	quota := Quota{Used: used, Max: max}
	if resetHeader := header.Get(HeaderRateLimitReset); resetHeader != "" {
		if epoch, err := strconv.ParseInt(resetHeader, 10, 64); err == nil && epoch > 0 {
			quota.Reset = time.Unix(epoch, 0)
		}
	}

	rt.mu.Lock()
	rt.quotas[endpoint] = quota
	rt.mu.Unlock()
}

// Remaining reports the calls left for an endpoint. Endpoints without a
// tracked entry report -1 (unknown budget).
func (rt *RateTracker) Remaining(endpoint string) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	quota, ok := rt.quotas[endpoint]
	if !ok {
		return -1
	}
	return quota.Remaining()
}

// Snapshot returns a copy of every tracked quota, keyed by endpoint.
func (rt *RateTracker) Snapshot() map[string]Quota {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	out := make(map[string]Quota, len(rt.quotas))
	for endpoint, quota := range rt.quotas {
		out[endpoint] = quota
	}
	return out
}
