package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spacetraveling/cmd/web/trace"
)

func TestGetJoinsPathAndQuery(t *testing.T) {
	c := NewBaseClient("https://blog.cdn.prismic.io/api/v2", nil)

	req, err := c.Get(context.Background(), "/documents/search", url.Values{"pageSize": {"20"}})
	require.NoError(t, err)
	assert.Equal(t, "https://blog.cdn.prismic.io/api/v2/documents/search?pageSize=20", req.URL.String())
}

func TestGetRejectsQueryInPath(t *testing.T) {
	c := NewBaseClient("https://blog.cdn.prismic.io/api/v2", nil)

	_, err := c.Get(context.Background(), "/documents/search?page=2", nil)
	assert.Error(t, err)
}

func TestFollowChecksHost(t *testing.T) {
	c := NewBaseClient("https://blog.cdn.prismic.io/api/v2", nil)

	req, err := c.Follow(context.Background(), "https://blog.cdn.prismic.io/api/v2/documents/search?page=2")
	require.NoError(t, err)
	assert.Equal(t, "2", req.URL.Query().Get("page"))

	_, err = c.Follow(context.Background(), "https://evil.example.com/api/v2/documents/search?page=2")
	assert.Error(t, err)

	_, err = c.Follow(context.Background(), "/api/v2/documents/search?page=2")
	assert.Error(t, err)
}

func TestRoundTripperPropagatesTraceHeaders(t *testing.T) {
	var gotRequestID, gotSpanID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get("X-Request-Id")
		gotSpanID = r.Header.Get("X-Span-Id")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := NewBaseClient(srv.URL, nil)
	ctx := trace.Start(context.Background(), "req-42")

	req, err := c.Get(ctx, "/", nil)
	require.NoError(t, err)
	resp, err := c.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "req-42", gotRequestID)
	assert.Equal(t, "1", gotSpanID)
}
