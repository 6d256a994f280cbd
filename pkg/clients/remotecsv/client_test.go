package remotecsv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/sales.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		_, _ = w.Write([]byte("order_id\nORD-000001\n"))
	})
	mux.HandleFunc("/dated.csv", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Last-Modified", "Mon, 02 Jan 2023 15:04:05 GMT")
		_, _ = w.Write([]byte("order_id\n"))
	})
	mux.HandleFunc("/broken.csv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch(t *testing.T) {
	srv := newServer(t)
	c := NewClient(5 * time.Second)

	body, err := c.Fetch(context.Background(), srv.URL+"/sales.csv")
	require.NoError(t, err)
	assert.Equal(t, "order_id\nORD-000001\n", string(body))

	_, err = c.Fetch(context.Background(), srv.URL+"/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = c.Fetch(context.Background(), srv.URL+"/broken.csv")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRevision(t *testing.T) {
	srv := newServer(t)
	c := NewClient(5 * time.Second)
	ctx := context.Background()

	rev, err := c.Revision(ctx, srv.URL+"/sales.csv")
	require.NoError(t, err)
	assert.Equal(t, `"v1"`, rev)

	rev, err = c.Revision(ctx, srv.URL+"/dated.csv")
	require.NoError(t, err)
	assert.Equal(t, "Mon, 02 Jan 2023 15:04:05 GMT", rev)

	rev, err = c.Revision(ctx, srv.URL+"/broken.csv")
	require.NoError(t, err)
	assert.Empty(t, rev)

	_, err = c.Revision(ctx, srv.URL+"/missing.csv")
	assert.ErrorIs(t, err, ErrNotFound)
}
