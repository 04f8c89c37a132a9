// File: internal/catalog/client_test.go
package catalog

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marvel_nexus_backend/internal/common"
	"marvel_nexus_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{
		MarvelBaseURL:    server.URL,
		MarvelPublicKey:  "pub",
		MarvelPrivateKey: "priv",
		ComicVineBaseURL: server.URL + "/cv",
		CatalogTimeout:   5 * time.Second,
		CatalogPageSize:  20,
	}
	client := NewClient(cfg, zap.NewNop())
	client.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return client, server
}

func TestClient_SearchTitles_SignsRequests(t *testing.T) {
	var gotQuery map[string]string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/comics", r.URL.Path)
		gotQuery = map[string]string{
			"ts":     r.URL.Query().Get("ts"),
			"apikey": r.URL.Query().Get("apikey"),
			"hash":   r.URL.Query().Get("hash"),
			"title":  r.URL.Query().Get("title"),
			"offset": r.URL.Query().Get("offset"),
		}
		fmt.Fprint(w, `{"code":200,"data":{"total":1,"results":[{"id":7,"title":"Daredevil #1","issueNumber":1}]}}`)
	}))

	result, err := client.SearchTitles(context.Background(), "Daredevil", 0)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Daredevil #1", result.Results[0].Title)
	assert.Equal(t, int64(7), result.Results[0].ExternalID)

	assert.Equal(t, "1700000000000", gotQuery["ts"])
	assert.Equal(t, "pub", gotQuery["apikey"])
	assert.Equal(t, "Daredevil", gotQuery["title"])
	assert.Equal(t, "0", gotQuery["offset"])
	sum := md5.Sum([]byte("1700000000000" + "priv" + "pub"))
	assert.Equal(t, hex.EncodeToString(sum[:]), gotQuery["hash"])
}

func TestClient_SearchTitles_EmptyTitle(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	result, err := client.SearchTitles(context.Background(), "", 0)

	assert.Nil(t, result)
	assert.True(t, common.IsStatus(err, 400))
}

func TestClient_SearchTitles_UpstreamError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"InvalidCredentials"}`, http.StatusUnauthorized)
	}))

	result, err := client.SearchTitles(context.Background(), "Daredevil", 0)

	assert.Nil(t, result)
	assert.True(t, common.IsStatus(err, 503))
}

func TestClient_SearchTitles_EmptyResultsIsNotAnError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":200,"data":{"total":0,"results":[]}}`)
	}))

	result, err := client.SearchTitles(context.Background(), "Nonexistent Title", 0)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Results)
}

func TestClient_SearchByCharacter_ResolvesCharacterFirst(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/characters":
			assert.Equal(t, "Hulk", r.URL.Query().Get("name"))
			fmt.Fprint(w, `{"code":200,"data":{"total":1,"results":[{"id":1009351,"name":"Hulk"}]}}`)
		case "/characters/1009351/comics":
			fmt.Fprint(w, `{"code":200,"data":{"total":2,"results":[{"id":1,"title":"Hulk #1"},{"id":2,"title":"Hulk #2"}]}}`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	result, err := client.SearchByCharacter(context.Background(), "Hulk", 0)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	assert.Len(t, result.Results, 2)
}

func TestClient_SearchByCharacter_UnknownCharacter(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"code":200,"data":{"total":0,"results":[]}}`)
	}))

	result, err := client.SearchByCharacter(context.Background(), "Nobody", 0)

	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Empty(t, result.Results)
}

func TestClient_SearchBySeries_MergesComicVine(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/series":
			fmt.Fprint(w, `{"code":200,"data":{"total":1,"results":[{"id":19244,"title":"Secret Wars (2015)"}]}}`)
		case "/series/19244/comics":
			fmt.Fprint(w, `{"code":200,"data":{"total":1,"results":[{"id":1,"title":"Secret Wars #1"}]}}`)
		case "/cv/search":
			assert.Equal(t, "cv-key", r.URL.Query().Get("api_key"))
			assert.Equal(t, "issue", r.URL.Query().Get("resources"))
			fmt.Fprint(w, `{"status_code":1,"number_of_total_results":1,"results":[{"id":900,"name":"Secret Wars","issue_number":"1"}]}`)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	client.cfg.ComicVineAPIKey = "cv-key"

	result, err := client.SearchBySeries(context.Background(), "Secret Wars", 0)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Total)
	require.Len(t, result.Results, 2)
	assert.Equal(t, "Secret Wars #1", result.Results[0].Title)
	assert.Equal(t, "Secret Wars", result.Results[1].Title)
}

func TestClient_SearchBySeries_ComicVineFailureDoesNotFailSearch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/series":
			fmt.Fprint(w, `{"code":200,"data":{"total":1,"results":[{"id":19244,"title":"Secret Wars (2015)"}]}}`)
		case "/series/19244/comics":
			fmt.Fprint(w, `{"code":200,"data":{"total":1,"results":[{"id":1,"title":"Secret Wars #1"}]}}`)
		case "/cv/search":
			http.Error(w, "rate limited", http.StatusTooManyRequests)
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))
	client.cfg.ComicVineAPIKey = "cv-key"

	result, err := client.SearchBySeries(context.Background(), "Secret Wars", 0)

	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Len(t, result.Results, 1)
}
