package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-registry/pkg/contentregistry"
	"github.com/tendant/content-registry/pkg/contentregistry/api"
	"github.com/tendant/content-registry/pkg/contentregistry/rpc"
	"github.com/tendant/content-registry/pkg/contentregistry/storage/memory"
)

func setupServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()

	store := memory.New()
	registry := contentregistry.NewRegistry()
	require.NoError(t, registry.Register(contentregistry.ContentTypeDefinition{
		ID:      "article",
		Storage: store,
		Latest:  contentregistry.MustParseVersion("v2"),
	}))

	procs, err := rpc.NewProcedures()
	require.NoError(t, err)

	r := chi.NewRouter()
	r.Mount("/api/v1", api.NewHandler(registry, procs).Routes())

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, store
}

func postRPC(t *testing.T, srv *httptest.Server, procedure string, body any) (*http.Response, map[string]any) {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/v1/rpc/"+procedure, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

func TestGetRoundTrip(t *testing.T) {
	srv, store := setupServer(t)

	_, err := store.Create(context.Background(), contentregistry.VersionSpec{}, "item-1", map[string]any{"title": "hello"})
	require.NoError(t, err)

	resp, body := postRPC(t, srv, "get", map[string]any{
		"contentTypeId": "article",
		"id":            "item-1",
		"version":       "v1",
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"contentTypeId": "article",
		"item":          map[string]any{"id": "item-1", "title": "hello"},
	}, body)
}

func TestValidationErrorIs400(t *testing.T) {
	srv, _ := setupServer(t)

	resp, body := postRPC(t, srv, "get", map[string]any{"id": "item-1"})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "[contentTypeId]: expected value of type [string] but got [undefined]", body["error"])
}

func TestUnregisteredContentTypeIs404(t *testing.T) {
	srv, _ := setupServer(t)

	resp, body := postRPC(t, srv, "get", map[string]any{
		"contentTypeId": "unknown",
		"id":            "item-1",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Content [unknown] is not registered.", body["error"])
}

func TestVersionTooHighIs400(t *testing.T) {
	srv, _ := setupServer(t)

	resp, body := postRPC(t, srv, "get", map[string]any{
		"contentTypeId": "article",
		"id":            "item-1",
		"version":       "v7",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid version. Latest version is [v2].", body["error"])
}

func TestMissingItemIs404(t *testing.T) {
	srv, _ := setupServer(t)

	resp, _ := postRPC(t, srv, "get", map[string]any{
		"contentTypeId": "article",
		"id":            "missing",
	})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUnknownProcedureIs404(t *testing.T) {
	srv, _ := setupServer(t)

	resp, body := postRPC(t, srv, "search", map[string]any{})

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "unknown procedure: search", body["error"])
}

func TestMalformedBodyIs400(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/rpc/get", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateRoundTrip(t *testing.T) {
	srv, _ := setupServer(t)

	resp, body := postRPC(t, srv, "create", map[string]any{
		"contentTypeId": "article",
		"id":            "item-2",
		"fields":        map[string]any{"title": "created over http"},
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"contentTypeId": "article",
		"item":          map[string]any{"id": "item-2", "title": "created over http"},
	}, body)
}

func TestListContentTypes(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/content-types")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"contentTypes": []any{"article"}}, body)
}

func TestListProcedures(t *testing.T) {
	srv, _ := setupServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/procedures")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"procedures": []any{"create", "delete", "get", "update"}}, body)
}
