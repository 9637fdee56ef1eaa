package pubmed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curalink/curalink-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	require.NoError(t, err)
	t.Cleanup(log.Sync)
	return log
}

func TestSearchMapsSummaries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/esearch.fcgi":
			assert.Equal(t, "pubmed", r.URL.Query().Get("db"))
			assert.Equal(t, "glioblastoma", r.URL.Query().Get("term"))
			_, _ = w.Write([]byte(`{"esearchresult":{"idlist":["11111","22222"]}}`))
		case "/esummary.fcgi":
			assert.Equal(t, "11111,22222", r.URL.Query().Get("id"))
			_, _ = w.Write([]byte(`{"result":{
				"uids":["11111","22222"],
				"11111":{"uid":"11111","title":"First paper","source":"Nature","pubdate":"2024 Jan","authors":[{"name":"Doe J"},{"name":"Roe A"}]},
				"22222":{"uid":"22222","title":"Second paper","source":"Lancet","pubdate":"2023 Dec","authors":[]}
			}}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	t.Setenv("PUBMED_BASE_URL", srv.URL)
	c := NewClient(testLogger(t))

	pubs, err := c.Search(context.Background(), "glioblastoma", 10)
	require.NoError(t, err)
	require.Len(t, pubs, 2)

	assert.Equal(t, "11111", pubs[0].ID)
	assert.Equal(t, "First paper", pubs[0].Title)
	assert.Equal(t, "Nature", pubs[0].Journal)
	assert.Equal(t, []string{"Doe J", "Roe A"}, pubs[0].Authors)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/11111/", pubs[0].URL)
	assert.Equal(t, "Second paper", pubs[1].Title)
}

func TestSearchEmptyTermShortCircuits(t *testing.T) {
	t.Setenv("PUBMED_BASE_URL", "http://127.0.0.1:1") // must never be contacted
	c := NewClient(testLogger(t))

	pubs, err := c.Search(context.Background(), "   ", 10)
	require.NoError(t, err)
	assert.Empty(t, pubs)
}

func TestSearchNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"esearchresult":{"idlist":[]}}`))
	}))
	defer srv.Close()

	t.Setenv("PUBMED_BASE_URL", srv.URL)
	c := NewClient(testLogger(t))

	pubs, err := c.Search(context.Background(), "nonexistent", 10)
	require.NoError(t, err)
	assert.Empty(t, pubs)
}
