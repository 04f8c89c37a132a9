// File: internal/catalog/comicvine.go
package catalog

import (
	"context"
	"net/url"
	"strconv"

	"marvel_nexus_backend/internal/comic"
)

type comicVineEnvelope struct {
	StatusCode           int                    `json:"status_code"`
	NumberOfTotalResults int                    `json:"number_of_total_results"`
	Results              []comic.ComicVineIssue `json:"results"`
}

// searchComicVineIssues searches Comic Vine issues by free-text query and
// normalizes the page through the Comic Vine adapter.
func (c *Client) searchComicVineIssues(ctx context.Context, query string) ([]comic.Comic, int, error) {
	q := url.Values{}
	q.Set("api_key", c.cfg.ComicVineAPIKey)
	q.Set("format", "json")
	q.Set("resources", "issue")
	q.Set("query", query)
	q.Set("limit", strconv.Itoa(c.cfg.CatalogPageSize))

	var envelope comicVineEnvelope
	if err := c.getJSON(ctx, c.cfg.ComicVineBaseURL+"/search", q, &envelope); err != nil {
		return nil, 0, err
	}

	results := make([]comic.Comic, 0, len(envelope.Results))
	for i := range envelope.Results {
		results = append(results, *comic.FromComicVine(&envelope.Results[i]))
	}
	return results, envelope.NumberOfTotalResults, nil
}
