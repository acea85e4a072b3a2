package radarly

import (
	"context"
	"fmt"

	"github.com/linkfluence/radarly-go/pkg/types"
)

const defaultIteratorPageSize = 100

// PublicationIterator walks the full result set of a publication search,
// fetching pages on demand. It replaces hand-rolled start/limit loops:
//
//	it := client.NewPublicationIterator(ctx, pid, &types.SearchRequest{Query: "coffee"})
//	for it.HasNext() {
//		pub, err := it.Next()
//		...
//	}
type PublicationIterator struct {
	client    *Client
	projectID int64
	request   *types.SearchRequest
	buffer    []*types.Publication
	bufferIdx int
	start     int
	total     int64
	hasMore   bool
	err       error
	ctx       context.Context
}

// NewPublicationIterator creates an iterator over every publication
// matching the search request. The request's Start field is ignored; Limit
// controls the page size and defaults to 100.
func (c *Client) NewPublicationIterator(ctx context.Context, pid int64, request *types.SearchRequest) *PublicationIterator {
	if request == nil {
		request = &types.SearchRequest{}
	}
	if request.Limit <= 0 {
		request.Limit = defaultIteratorPageSize
	}

	return &PublicationIterator{
		client:    c,
		projectID: pid,
		request:   request,
		hasMore:   true,
		ctx:       ctx,
	}
}

// WithPageSize sets the number of publications fetched per request.
func (it *PublicationIterator) WithPageSize(limit int) *PublicationIterator {
	if limit < 1 {
		limit = 1
	}
	it.request.Limit = limit
	return it
}

// Total returns the size of the full result set. It is only meaningful
// after the first page has been fetched.
func (it *PublicationIterator) Total() int64 {
	return it.total
}

// HasNext returns true if there are more publications to iterate through.
func (it *PublicationIterator) HasNext() bool {
	if it.err != nil {
		return false
	}
	return it.bufferIdx < len(it.buffer) || it.hasMore
}

// Next returns the next publication in the iteration.
func (it *PublicationIterator) Next() (*types.Publication, error) {
	if it.err != nil {
		return nil, it.err
	}

	// If buffer is empty or exhausted, fetch the next page
	if it.bufferIdx >= len(it.buffer) {
		if !it.hasMore {
			return nil, fmt.Errorf("no more publications available")
		}

		it.request.Start = it.start

		resp, err := it.client.SearchPublications(it.ctx, it.projectID, it.request)
		if err != nil {
			it.err = err
			return nil, err
		}

		it.buffer = resp.Publications
		it.bufferIdx = 0
		it.start += len(resp.Publications)
		it.total = resp.Total

		// An empty page or reaching the reported total ends the iteration
		if len(it.buffer) == 0 || int64(it.start) >= resp.Total {
			it.hasMore = false
			if len(it.buffer) == 0 {
				return nil, fmt.Errorf("no more publications available")
			}
		}
	}

	pub := it.buffer[it.bufferIdx]
	it.bufferIdx++

	// Skip nil entries
	if pub == nil {
		return it.Next()
	}

	return pub, nil
}

// Error returns any error encountered during iteration.
func (it *PublicationIterator) Error() error {
	return it.err
}

// Reset resets the iterator to start from the beginning.
func (it *PublicationIterator) Reset() {
	it.buffer = nil
	it.bufferIdx = 0
	it.start = 0
	it.total = 0
	it.hasMore = true
	it.err = nil
	it.request.Start = 0
}

// Collect fetches all remaining publications up to a maximum count.
// A maxCount of zero or less collects everything.
func (it *PublicationIterator) Collect(maxCount int) ([]*types.Publication, error) {
	var pubs []*types.Publication
	count := 0

	for it.HasNext() && (maxCount <= 0 || count < maxCount) {
		pub, err := it.Next()
		if err != nil {
			return pubs, err
		}
		pubs = append(pubs, pub)
		count++
	}

	return pubs, nil
}
