package internal

import (
	"fmt"

	pkgerrs "github.com/linkfluence/radarly-go/pkg/errors"
	"github.com/linkfluence/radarly-go/pkg/types"
)

const (
	// Pagination constraints enforced by the search endpoints.
	maxSearchLimit = 500

	// User agent constraints
	maxUserAgentLength = 256
)

// Validator provides validation operations for Radarly API parameters.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateProjectID checks that a project identifier is usable in a URL path.
func (v *Validator) ValidateProjectID(pid int64) error {
	if pid <= 0 {
		return &pkgerrs.ConfigError{Field: "projectID", Message: fmt.Sprintf("project id must be positive, got %d", pid)}
	}
	return nil
}

// ValidatePagination checks offset-based paging parameters.
func (v *Validator) ValidatePagination(p *types.Pagination) error {
	if p == nil {
		return nil
	}
	if p.Start < 0 {
		return &pkgerrs.ConfigError{Field: "pagination", Message: "start cannot be negative"}
	}
	if p.Limit < 0 {
		return &pkgerrs.ConfigError{Field: "pagination", Message: "limit cannot be negative"}
	}
	if p.Limit > maxSearchLimit {
		return &pkgerrs.ConfigError{Field: "pagination", Message: fmt.Sprintf("limit cannot exceed %d", maxSearchLimit)}
	}
	return nil
}

// ValidateDateRange checks that a from/to pair is ordered.
func (v *Validator) ValidateDateRange(from, to *types.Date) error {
	if from == nil || to == nil {
		return nil
	}
	if from.IsZero() || to.IsZero() {
		return nil
	}
	if from.After(to.Time) {
		return &pkgerrs.ConfigError{Field: "dateRange", Message: "from date is after to date"}
	}
	return nil
}

// ValidateUserAgent checks the configured User-Agent string.
func (v *Validator) ValidateUserAgent(userAgent string) error {
	if userAgent == "" {
		return &pkgerrs.ConfigError{Field: "userAgent", Message: "user agent cannot be empty"}
	}
	if len(userAgent) > maxUserAgentLength {
		return &pkgerrs.ConfigError{Field: "userAgent", Message: fmt.Sprintf("user agent cannot exceed %d characters", maxUserAgentLength)}
	}
	return nil
}
