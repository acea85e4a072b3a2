package types

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ErrorPayload is the normalized form of a Radarly error response. The
// vendor returns errors either as a JSON envelope or as an HTML page; both
// reduce to this shape.
type ErrorPayload struct {
	// ErrorCode is the HTTP status code of the error response.
	ErrorCode int `json:"error_code"`
	// ErrorType is the vendor error type (e.g. "ExpiredTokenException").
	ErrorType string `json:"error_type"`
	// ErrorMessage is the human-readable detail.
	ErrorMessage string `json:"error_message"`
}

// Date represents a timestamp as returned by the Radarly API. The API is
// inconsistent about formats: most fields are RFC 3339 strings, some legacy
// fields are unix milliseconds, and absent dates come back as null.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler to handle the mixed formats
// used for date fields.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		d.Time = time.Time{}
		return nil
	}

	// Numeric dates are unix milliseconds.
	var millis int64
	if err := json.Unmarshal(data, &millis); err == nil {
		d.Time = time.UnixMilli(millis).UTC()
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("date is neither a string nor a number: %s", s)
	}

	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, str); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("unsupported date format: %q", str)
}

// MarshalJSON renders the date in the RFC 3339 form the API accepts.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(time.RFC3339))
}

// User holds the account information returned by the users/me endpoint,
// including the summaries of the projects the account can access.
type User struct {
	ID               int64            `json:"id"`
	Email            string           `json:"email"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	Level            string           `json:"level"`
	Locale           string           `json:"locale"`
	Timezone         string           `json:"timezone"`
	CanCreateProject bool             `json:"canCreateProject"`
	Projects         []ProjectSummary `json:"projects"`
	Created          Date             `json:"created"`
	Updated          Date             `json:"updated"`
}

// ProjectSummary is the reduced project record embedded in a user payload.
// Expand it with Client.GetProject to obtain the full Project.
type ProjectSummary struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
	Role  string `json:"role"`
}

// Project is the full project record: the entry point for exploring
// publications, influencers and analytics.
type Project struct {
	ID         int64       `json:"id"`
	AccountID  int64       `json:"account_id"`
	Label      string      `json:"label"`
	Slug       string      `json:"slug"`
	DocsCount  int64       `json:"docs_count"`
	Created    Date        `json:"created"`
	Updated    Date        `json:"updated"`
	Focuses    []Focus     `json:"focuses"`
	Tags       []Tag       `json:"tags"`
	Dashboards []Dashboard `json:"dashboards"`
}

// Focus is a saved query inside a project.
type Focus struct {
	ID     int64  `json:"id"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// Tag is a custom classification axis defined on a project. Each tag owns a
// set of subtags which carry the values publications are labeled with.
type Tag struct {
	ID      int64    `json:"id"`
	Value   string   `json:"value"`
	Type    string   `json:"type"`
	Subtags []Subtag `json:"subtags"`
}

// Subtag is a single value of a Tag.
type Subtag struct {
	ID    int64  `json:"id"`
	Value string `json:"value"`
}

// Dashboard groups focuses for display in the Radarly UI.
type Dashboard struct {
	ID    int64  `json:"id"`
	Label string `json:"label"`
}

// Author identifies the author of a publication on its source platform.
type Author struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ScreenName string `json:"screenName"`
}

// Publication is a single captured document (post, article, review...).
type Publication struct {
	UID               string `json:"uid"`
	Platform          string `json:"platform"`
	Origin            string `json:"origin"`
	Permalink         string `json:"permalink"`
	Lang              string `json:"lang"`
	Date              Date   `json:"date"`
	Title             string `json:"title"`
	Text              string `json:"text"`
	Author            Author `json:"user"`
	Impressions       int64  `json:"impressions"`
	Reach             int64  `json:"reach"`
	EngagementActions int64  `json:"engagement_actions"`
}

// Influencer is an aggregated author profile ranked inside a project.
type Influencer struct {
	ID         string `json:"id"`
	ScreenName string `json:"screenName"`
	Name       string `json:"name"`
	Platform   string `json:"platform"`
	Followers  int64  `json:"followersCount"`
	DocsCount  int64  `json:"count"`
	Reach      int64  `json:"reach"`
}

// Pagination carries the offset-based paging parameters used by search
// style endpoints.
type Pagination struct {
	Start int `json:"start"`
	Limit int `json:"limit"`
}

// SearchRequest is the payload for publication search endpoints.
type SearchRequest struct {
	Query     string   `json:"query,omitempty"`
	Focuses   []int64  `json:"focuses,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	Langs     []string `json:"langs,omitempty"`
	From      *Date    `json:"from,omitempty"`
	To        *Date    `json:"to,omitempty"`
	SortBy    string   `json:"sortBy,omitempty"`
	SortOrder string   `json:"sortOrder,omitempty"`
	Pagination
}

// SearchResults is the wire envelope of a publication search.
type SearchResults struct {
	Total int64          `json:"total"`
	Hits  []*Publication `json:"hits"`
}

// InfluencerRequest is the payload for the influencer ranking endpoint.
type InfluencerRequest struct {
	Focuses   []int64  `json:"focuses,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
	From      *Date    `json:"from,omitempty"`
	To        *Date    `json:"to,omitempty"`
	SortBy    string   `json:"sortBy,omitempty"`
	Pagination
}

// InfluencerResults is the wire envelope of an influencer ranking call.
type InfluencerResults struct {
	Total       int64         `json:"total"`
	Influencers []*Influencer `json:"users"`
}

// AnalyticsRequest is the payload for the insights endpoint.
type AnalyticsRequest struct {
	Focuses  []int64  `json:"focuses,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	Interval string   `json:"interval,omitempty"`
	From     *Date    `json:"from,omitempty"`
	To       *Date    `json:"to,omitempty"`
}

// DateInterval is one bucket of an analytics distribution: a date and the
// metric counts recorded for it.
type DateInterval struct {
	Date   Date             `json:"date"`
	Counts map[string]int64 `json:"counts"`
}

// Analytics is the response of the insights endpoint.
type Analytics struct {
	Total     int64          `json:"total"`
	Intervals []DateInterval `json:"dates"`
}
