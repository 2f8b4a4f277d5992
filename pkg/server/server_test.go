package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/slidesmith/pkg/buildinfo"
	"github.com/matzehuels/slidesmith/pkg/catalog"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
	"github.com/matzehuels/slidesmith/pkg/store"
)

const sampleOutline = `{
  "sections": [
    {"id": "s0", "content": [{"type": "h1", "children": [{"text": "Quarterly Review"}]}]},
    {"id": "s1", "content": [
      {"type": "h1", "children": [{"text": "Highlights"}]},
      {"type": "p", "children": [{"text": "Revenue grew in every region."}]}
    ]}
  ],
  "references": ["Doe, J. (2024). Market outlook."]
}`

func newTestServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	c := catalog.Default()
	data, err := catalog.BuildStarterTemplate(c)
	require.NoError(t, err)
	tmpl, err := pipeline.ReadTemplate(data)
	require.NoError(t, err)

	st := store.NewMemoryStore()
	srv, err := New(Config{
		Runner:    pipeline.NewRunner(tmpl, c, nil, nil),
		Store:     st,
		Options:   pipeline.Options{OutputDir: t.TempDir(), Seed: 1},
		PublicURL: "http://decks.test/",
	})
	require.NoError(t, err)
	return srv, st
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGenerateAndDownload(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Routes()

	rec := do(t, h, http.MethodPost, "/generate-ppt", sampleOutline)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "PPT generated successfully", resp.Message)
	assert.Equal(t, "http://decks.test/static_ppts/Quarterly%20Review.pptx", resp.URL)

	records, err := st.List(t.Context(), 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Quarterly Review", records[0].Title)
	assert.Equal(t, 2, records[0].Sections)
	assert.Equal(t, resp.ID, records[0].ID)

	dl := do(t, h, http.MethodGet, "/static_ppts/Quarterly%20Review.pptx", "")
	require.Equal(t, http.StatusOK, dl.Code)
	assert.True(t, bytes.HasPrefix(dl.Body.Bytes(), []byte("PK")), "zip package")
	assert.Contains(t, dl.Header().Get("Content-Type"), "presentationml")
}

func TestGenerateErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"sections": [`, http.StatusBadRequest},
		{"wrong top level", `"just a string"`, http.StatusBadRequest},
		{"too large", `{"x": "` + strings.Repeat("a", MaxRequestBytes) + `"}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/generate-ppt", tt.body)
			assert.Equal(t, tt.want, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["detail"])
		})
	}
}

func TestDownloadErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/static_ppts/missing.pptx", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/static_ppts/notes.txt", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/static_ppts/..%2Fsecret.pptx", "").Code)
}

func TestDecksAndFavorite(t *testing.T) {
	srv, st := newTestServer(t)
	h := srv.Routes()
	ctx := t.Context()
	require.NoError(t, st.Add(ctx, &store.Record{ID: "a", Title: "A"}))

	rec := do(t, h, http.MethodGet, "/api/decks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.False(t, list[0].Favorite)

	rec = do(t, h, http.MethodPost, "/api/decks/a/favorite", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var got store.Record
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.True(t, got.Favorite)

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodPost, "/api/decks/zzz/favorite", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/decks?limit=x", "").Code)
}

func TestEmptyHistory(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Routes(), http.MethodGet, "/api/decks", "")
	assert.Equal(t, "[]\n", rec.Body.String())
}

func TestRootHealthAndCORS(t *testing.T) {
	srv, _ := newTestServer(t)
	h := srv.Routes()

	rec := do(t, h, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome")
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	assert.Equal(t, http.StatusOK, do(t, h, http.MethodGet, "/healthz", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodOptions, "/generate-ppt", "").Code)
}

func TestVersion(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := do(t, srv.Routes(), http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var info buildinfo.Info
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, catalog.DefaultVersion, info.Catalog)
	assert.NotEmpty(t, info.Version)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidOutline, http.StatusBadRequest},
		{errors.ErrCodeInvalidPath, http.StatusBadRequest},
		{errors.ErrCodeDeckNotFound, http.StatusNotFound},
		{errors.ErrCodeOutputWrite, http.StatusInternalServerError},
		{errors.ErrCodeTemplateLoad, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusCode(errors.New(tt.code, "x")); got != tt.want {
			t.Errorf("StatusCode(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

func TestNewRequiresRunner(t *testing.T) {
	_, err := New(Config{})
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
