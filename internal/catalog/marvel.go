// File: internal/catalog/marvel.go
package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strconv"

	"marvel_nexus_backend/internal/comic"
	"marvel_nexus_backend/internal/common"

	"go.uber.org/zap"
)

// The catalog authenticates requests with ts + md5(ts + privateKey + publicKey).
func (c *Client) sign(ts string) string {
	sum := md5.Sum([]byte(ts + c.cfg.MarvelPrivateKey + c.cfg.MarvelPublicKey))
	return hex.EncodeToString(sum[:])
}

func (c *Client) marvelAuthParams() url.Values {
	ts := strconv.FormatInt(c.now().UnixMilli(), 10)
	q := url.Values{}
	q.Set("ts", ts)
	q.Set("apikey", c.cfg.MarvelPublicKey)
	q.Set("hash", c.sign(ts))
	return q
}

type marvelComicsEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Total   int                 `json:"total"`
		Results []comic.MarvelComic `json:"results"`
	} `json:"data"`
}

type marvelSummaryEnvelope struct {
	Code int `json:"code"`
	Data struct {
		Total   int `json:"total"`
		Results []struct {
			ID    int64  `json:"id"`
			Name  string `json:"name"`
			Title string `json:"title"`
		} `json:"results"`
	} `json:"data"`
}

// fetchMarvelComics runs one signed comics query against the given endpoint
// path and normalizes the page.
func (c *Client) fetchMarvelComics(ctx context.Context, path string, extra url.Values) (*Result, error) {
	q := c.marvelAuthParams()
	q.Set("limit", strconv.Itoa(c.cfg.CatalogPageSize))
	for key, vals := range extra {
		for _, v := range vals {
			q.Set(key, v)
		}
	}

	var envelope marvelComicsEnvelope
	if err := c.getJSON(ctx, c.cfg.MarvelBaseURL+path, q, &envelope); err != nil {
		return nil, err
	}

	results := make([]comic.Comic, 0, len(envelope.Data.Results))
	for i := range envelope.Data.Results {
		results = append(results, *comic.FromMarvel(&envelope.Data.Results[i]))
	}
	return &Result{Total: envelope.Data.Total, Results: results}, nil
}

// SearchTitles searches comics by title with offset pagination.
func (c *Client) SearchTitles(ctx context.Context, title string, offset int) (*Result, error) {
	if title == "" {
		return nil, common.ErrBadRequest.WithDetails("Title query is required.")
	}
	extra := url.Values{}
	extra.Set("title", title)
	extra.Set("offset", strconv.Itoa(offset))
	return c.fetchMarvelComics(ctx, "/comics", extra)
}

// SearchByCharacter resolves the character by exact name, then fetches that
// character's comics.
func (c *Client) SearchByCharacter(ctx context.Context, name string, offset int) (*Result, error) {
	if name == "" {
		return nil, common.ErrBadRequest.WithDetails("Character name is required.")
	}

	q := c.marvelAuthParams()
	q.Set("name", name)
	var chars marvelSummaryEnvelope
	if err := c.getJSON(ctx, c.cfg.MarvelBaseURL+"/characters", q, &chars); err != nil {
		return nil, err
	}
	if len(chars.Data.Results) == 0 {
		return &Result{Total: 0, Results: []comic.Comic{}}, nil
	}

	characterID := chars.Data.Results[0].ID
	extra := url.Values{}
	extra.Set("offset", strconv.Itoa(offset))
	return c.fetchMarvelComics(ctx, fmt.Sprintf("/characters/%d/comics", characterID), extra)
}

// maxSeriesMatches bounds how many matching series get their comics merged
// into one series-search response.
const maxSeriesMatches = 3

// SearchBySeries resolves series matching the name and merges their comics
// pages. When a Comic Vine key is configured, matching volume issues are
// merged in as well.
func (c *Client) SearchBySeries(ctx context.Context, name string, offset int) (*Result, error) {
	if name == "" {
		return nil, common.ErrBadRequest.WithDetails("Series name is required.")
	}

	q := c.marvelAuthParams()
	q.Set("titleStartsWith", name)
	q.Set("limit", strconv.Itoa(maxSeriesMatches))
	var series marvelSummaryEnvelope
	if err := c.getJSON(ctx, c.cfg.MarvelBaseURL+"/series", q, &series); err != nil {
		return nil, err
	}

	merged := &Result{Results: []comic.Comic{}}
	for _, s := range series.Data.Results {
		extra := url.Values{}
		extra.Set("offset", strconv.Itoa(offset))
		page, err := c.fetchMarvelComics(ctx, fmt.Sprintf("/series/%d/comics", s.ID), extra)
		if err != nil {
			return nil, err
		}
		merged.Total += page.Total
		merged.Results = append(merged.Results, page.Results...)
	}

	if c.cfg.ComicVineAPIKey != "" {
		cvResults, cvTotal, err := c.searchComicVineIssues(ctx, name)
		if err != nil {
			// Comic Vine is a supplementary source for series search; its
			// failure does not fail the whole request.
			c.logger.Warn("Comic Vine series search failed", zap.Error(err))
		} else {
			merged.Total += cvTotal
			merged.Results = append(merged.Results, cvResults...)
		}
	}

	return merged, nil
}
