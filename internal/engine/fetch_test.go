package engine

import (
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestEngine(t *testing.T, srv *httptest.Server, maxBytes int64) {
	t.Helper()
	Init(Config{
		FetchTimeout: 5 * time.Second,
		MaxPageBytes: maxBytes,
		HTTPClient:   srv.Client(),
	})
	InitCache("", 0, 0, 0)
}

func TestFetchPagePlain(t *testing.T) {
	var gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		_, _ = w.Write([]byte(`var ytInitialData = {"subscriberCountText":"1K subscribers"};`))
	}))
	defer srv.Close()
	initTestEngine(t, srv, 0)

	body, err := FetchPage(context.Background(), srv.URL+"/@chan/about")
	require.NoError(t, err)
	assert.Contains(t, body, "1K subscribers")
	assert.Contains(t, gotCookie, "CONSENT=")
}

func TestFetchPageGzip(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, _ = gz.Write([]byte("compressed channel page"))
	require.NoError(t, gz.Close())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write(buf.Bytes())
	}))
	defer srv.Close()
	initTestEngine(t, srv, 0)

	body, err := FetchPage(context.Background(), srv.URL+"/@chan/videos")
	require.NoError(t, err)
	assert.Equal(t, "compressed channel page", body)
}

func TestFetchPageLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()
	initTestEngine(t, srv, 10)

	body, err := FetchPage(context.Background(), srv.URL+"/@chan/shorts")
	require.NoError(t, err)
	assert.Len(t, body, 10)
}

func TestFetchPageStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()
	initTestEngine(t, srv, 0)

	before := GetMetrics()["fetch_errors"]
	_, err := FetchPage(context.Background(), srv.URL+"/@missing/about")
	assert.Error(t, err)
	assert.Equal(t, before+1, GetMetrics()["fetch_errors"])
}

func TestFetchPageServedFromCache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("page"))
	}))
	defer srv.Close()
	initTestEngine(t, srv, 0)
	InitCache("", time.Minute, 10, time.Minute)
	t.Cleanup(func() { InitCache("", 0, 0, 0) })

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		body, err := FetchPage(ctx, srv.URL+"/@chan/playlists")
		require.NoError(t, err)
		assert.Equal(t, "page", body)
	}
	assert.Equal(t, int32(1), hits.Load())
}

func TestStatusErrorMessage(t *testing.T) {
	err := &StatusError{URL: "https://www.youtube.com/@x/about", StatusCode: 429}
	assert.Equal(t, "https://www.youtube.com/@x/about: status 429", err.Error())
}

func TestFormatMetricsListsAllKeys(t *testing.T) {
	out := FormatMetrics()
	for _, k := range metricKeys {
		assert.Contains(t, out, k+" ")
	}
}
