package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/quickdialer/config"
	"github.com/rpupo63/quickdialer/database"
	"github.com/rpupo63/quickdialer/errs"
	"github.com/rpupo63/quickdialer/reqcache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testServer struct {
	router *chi.Mux
	db     *gorm.DB
}

func newTestServer(t *testing.T, opts ...func(*config.Config)) testServer {
	t.Helper()

	cfg := config.Config{DBType: config.DBTypeSQLite, SQLitePath: ":memory:", MaxPageSize: 100}
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := database.Open(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	router := newRouter(database.New(db), withConfig(cfg), withStartupTime(time.Now()))
	return testServer{router: router, db: db}
}

func (s testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func strPtr(s string) *string { return &s }

func (s testServer) mustCreateTag(t *testing.T, slug, color string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/tag", TagRequest{Slug: slug, Color: &color})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s testServer) mustCreateContact(t *testing.T, name, contact string, tags ...string) ContactListItem {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/contact", ContactRequest{Name: name, Contact: contact, Tags: tags})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	list := decodeBody[ContactListResponse](t, s.do(t, http.MethodGet, "/api/contact?q="+url.QueryEscape(contact), nil))
	require.Len(t, list.Contacts, 1)
	return list.Contacts[0]
}

func (s testServer) tagID(t *testing.T, slug string) string {
	t.Helper()
	list := decodeBody[TagListResponse](t, s.do(t, http.MethodGet, "/api/tag?q="+url.QueryEscape(slug), nil))
	for _, tag := range list.Tags {
		if tag.Slug == slug {
			return tag.ID.String()
		}
	}
	t.Fatalf("tag %q not found", slug)
	return ""
}

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  listParams
	}{
		{"defaults", "", listParams{Query: "", PageIndex: 0, PageSize: 20}},
		{"explicit", "?q=ana&pageIndex=2&pageSize=5", listParams{Query: "ana", PageIndex: 2, PageSize: 5}},
		{"non numeric", "?pageIndex=x&pageSize=y", listParams{PageIndex: 0, PageSize: 20}},
		{"negative", "?pageIndex=-1&pageSize=-5", listParams{PageIndex: 0, PageSize: 20}},
		{"zero size", "?pageSize=0", listParams{PageIndex: 0, PageSize: 20}},
		{"capped", "?pageSize=1000", listParams{PageIndex: 0, PageSize: 100}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/contact"+tt.query, nil)
			assert.Equal(t, tt.want, parseListParams(r, 100))
		})
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	health := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "ok", health.Status)
	assert.NotEmpty(t, health.Uptime)

	sqlDB, err := s.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	rec = s.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Database unavailable", decodeBody[ErrorResponse](t, rec).Error)
}

func TestMetrics(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodGet, "/api/tags", nil)

	rec := s.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `quickdialer_http_requests_total{method="GET",route="/api/tags",status="201"}`)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, func(c *config.Config) {
		c.AcceptedOrigins = []string{"https://dialer.example.com"}
	})

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/contact", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		return rec
	}

	rec := preflight("https://dialer.example.com")
	assert.Equal(t, "https://dialer.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = preflight("https://evil.example.com")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	body := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, errs.ErrCORSBlocked.Error(), body.Error)
	assert.Contains(t, body.Details, "https://evil.example.com")
}

func TestRequestCacheMiddleware(t *testing.T) {
	var caches []*reqcache.Cache
	handler := RequestCache(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caches = append(caches, reqcache.FromContext(r.Context()))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, caches, 2)
	require.NotNil(t, caches[0])
	require.NotNil(t, caches[1])
	assert.NotSame(t, caches[0], caches[1])
}
