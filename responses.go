package radarly

import (
	"time"

	"github.com/linkfluence/radarly-go/pkg/types"
)

// PublicationsResponse represents one page of a publication search.
type PublicationsResponse struct {
	Publications []*types.Publication
	// Total is the number of publications matching the search, across all pages.
	Total int64
}

// InfluencersResponse represents one page of an influencer ranking.
type InfluencersResponse struct {
	Influencers []*types.Influencer
	Total       int64
}

// QuotaStatus describes the tracked rate-limit state of one endpoint.
type QuotaStatus struct {
	Endpoint  string
	Used      int
	Max       int
	Remaining int
	Reset     time.Time
}
