package lottery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher_PassesBodyThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, historyPath, r.URL.Path)
		assert.Equal(t, "xsmb", r.URL.Query().Get("gameCode"))
		assert.Equal(t, "30", r.URL.Query().Get("limitNum"))

		_, _ = w.Write([]byte(`{"t":{"issueList":[]}}`))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(nil, srv.URL, 5*time.Second)

	body, err := fetcher.Fetch(context.Background(), "xsmb")
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":{"issueList":[]}}`, string(body))
}

func TestHTTPFetcher_NonOKStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(nil, srv.URL, 5*time.Second)

	_, err := fetcher.Fetch(context.Background(), "xsmb")
	assert.Error(t, err)
}

func TestHTTPFetcher_ContextTimeout(t *testing.T) {
	blocked := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-blocked
	}))
	defer srv.Close()
	defer close(blocked)

	fetcher := NewHTTPFetcher(nil, srv.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := fetcher.Fetch(ctx, "xsmb")
	assert.Error(t, err)
}

func TestHTTPFetcher_UnreachableVendor(t *testing.T) {
	fetcher := NewHTTPFetcher(nil, "http://127.0.0.1:1", time.Second)

	_, err := fetcher.Fetch(context.Background(), "xsmb")
	assert.Error(t, err)
}
