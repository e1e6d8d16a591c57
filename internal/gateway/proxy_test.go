package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// upstreamCall captures what the backend saw for one request.
type upstreamCall struct {
	method    string
	path      string
	query     string
	body      string
	auth      string
	requestID string
}

func newUpstream(t *testing.T, status int, responseBody string) (*httptest.Server, *upstreamCall) {
	t.Helper()
	call := &upstreamCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		call.method = r.Method
		call.path = r.URL.Path
		call.query = r.URL.RawQuery
		call.body = string(body)
		call.auth = r.Header.Get("Authorization")
		call.requestID = r.Header.Get("X-Request-ID")

		// Upstream CORS headers must not leak through the gateway.
		w.Header().Set("Access-Control-Allow-Origin", "http://upstream-origin")
		w.Header().Set("X-Backend", "fotofindr")
		w.WriteHeader(status)
		io.WriteString(w, responseBody)
	}))
	t.Cleanup(srv.Close)
	return srv, call
}

func doProxy(t *testing.T, origin string, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	proxy := NewProxy(origin, nil)
	rec := httptest.NewRecorder()
	proxy.Router().ServeHTTP(rec, req)
	return rec
}

func TestPreflightAnsweredLocally(t *testing.T) {
	upstream, call := newUpstream(t, http.StatusOK, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/upload/", nil)
	rec := doProxy(t, upstream.URL, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, PATCH, DELETE, OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type, Authorization", rec.Header().Get("Access-Control-Allow-Headers"))

	// Preflight never reaches the backend.
	assert.Empty(t, call.method)
}

func TestForwardStripsAPIPrefix(t *testing.T) {
	upstream, call := newUpstream(t, http.StatusOK, `{"ok":true}`)

	req := httptest.NewRequest(http.MethodGet, "/api/status/user-1", nil)
	rec := doProxy(t, upstream.URL, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "/status/user-1", call.path)
	assert.Equal(t, `{"ok":true}`, rec.Body.String())
}

func TestForwardWithoutPrefix(t *testing.T) {
	upstream, call := newUpstream(t, http.StatusOK, "ok")

	req := httptest.NewRequest(http.MethodGet, "/status/user-1", nil)
	doProxy(t, upstream.URL, req)

	assert.Equal(t, "/status/user-1", call.path)
}

func TestForwardPreservesMethodQueryAndBody(t *testing.T) {
	upstream, call := newUpstream(t, http.StatusOK, "")

	req := httptest.NewRequest(http.MethodPatch, "/api/profiles/c1/name?dry_run=1",
		strings.NewReader(`{"name":"Alice"}`))
	req.Header.Set("Authorization", "Bearer token-123")
	doProxy(t, upstream.URL, req)

	assert.Equal(t, http.MethodPatch, call.method)
	assert.Equal(t, "/profiles/c1/name", call.path)
	assert.Equal(t, "dry_run=1", call.query)
	assert.Equal(t, `{"name":"Alice"}`, call.body)
	assert.Equal(t, "Bearer token-123", call.auth)
}

func TestForwardAssignsRequestID(t *testing.T) {
	upstream, call := newUpstream(t, http.StatusOK, "")

	req := httptest.NewRequest(http.MethodGet, "/api/status/u", nil)
	doProxy(t, upstream.URL, req)
	assert.NotEmpty(t, call.requestID)

	req = httptest.NewRequest(http.MethodGet, "/api/status/u", nil)
	req.Header.Set("X-Request-ID", "caller-supplied")
	doProxy(t, upstream.URL, req)
	assert.Equal(t, "caller-supplied", call.requestID)
}

func TestForwardRelaysErrorStatus(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusNotFound, `{"detail":"unknown photo"}`)

	req := httptest.NewRequest(http.MethodGet, "/api/image_labels/?image_id=x", nil)
	rec := doProxy(t, upstream.URL, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, `{"detail":"unknown photo"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGatewayOwnsCORSPolicy(t *testing.T) {
	upstream, _ := newUpstream(t, http.StatusOK, "ok")

	req := httptest.NewRequest(http.MethodGet, "/api/status/u", nil)
	rec := doProxy(t, upstream.URL, req)

	// The upstream's own CORS header is replaced, other headers relay.
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "fotofindr", rec.Header().Get("X-Backend"))
}

func TestUnreachableOriginReturns502(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/status/u", nil)
	rec := doProxy(t, "http://127.0.0.1:1", req)

	require.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["error"])
	assert.NotEmpty(t, body["detail"])

	// CORS headers still present on failure responses.
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
