package vault

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rshade/vaultctl/internal/listing"
)

// Source serves one collection to the listing engine.
type Source struct {
	client     *Client
	collection Collection
}

// NewSource returns a listing.DataSource for collection.
func NewSource(client *Client, collection Collection) *Source {
	return &Source{client: client, collection: collection}
}

// Collection returns the collection this source serves.
func (s *Source) Collection() Collection {
	return s.collection
}

// FetchPage implements listing.DataSource. The keyword parameter is sent only in
// search mode.
func (s *Source) FetchPage(
	ctx context.Context,
	mode listing.Mode,
	req listing.PageRequest,
) (listing.PagedResult[File], error) {
	query := url.Values{}
	query.Set("pageNumber", strconv.Itoa(req.PageNumber))
	query.Set("pageSize", strconv.Itoa(req.PageSize))
	if mode == listing.ModeSearch && req.HasKeyword() {
		query.Set("keyword", req.Keyword)
	}

	var resp pageResponse
	if err := s.client.doJSON(ctx, http.MethodGet, s.collection.Path(), query, nil, &resp); err != nil {
		return listing.PagedResult[File]{}, fmt.Errorf("listing %s files: %w", s.collection, err)
	}
	return resp.result(), nil
}

var _ listing.DataSource[File] = (*Source)(nil)
