package gateway

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const forwardTimeout = 30 * time.Second

// Proxy is a stateless request forwarder: /api/* traffic goes to the
// backend origin with CORS headers attached to every response. It holds
// no state beyond the configured origin.
type Proxy struct {
	origin string // backend origin, no trailing slash
	client *http.Client
	logger *slog.Logger
}

// NewProxy creates a proxy targeting the given backend origin.
func NewProxy(origin string, logger *slog.Logger) *Proxy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proxy{
		origin: strings.TrimRight(origin, "/"),
		client: &http.Client{Timeout: forwardTimeout},
		logger: logger,
	}
}

// Router builds the gin engine with CORS middleware and the catch-all
// forwarding route.
func (p *Proxy) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsHeaders())

	r.Any("/*path", p.handle)
	return r
}

// corsHeaders attaches the fixed CORS policy to every response,
// including error responses.
func corsHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Next()
	}
}

// handle answers preflight directly and forwards everything else.
func (p *Proxy) handle(c *gin.Context) {
	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}
	p.forward(c)
}

// forward relays the request to the backend origin, stripping a leading
// /api path segment and preserving method, headers, query string, and
// body (body omitted for GET/HEAD).
func (p *Proxy) forward(c *gin.Context) {
	path := c.Param("path")
	path = strings.TrimPrefix(path, "/api")
	if path == "" {
		path = "/"
	}

	target := p.origin + path
	if raw := c.Request.URL.RawQuery; raw != "" {
		target += "?" + raw
	}

	var body io.Reader
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		body = c.Request.Body
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, body)
	if err != nil {
		p.fail(c, "invalid upstream request", err)
		return
	}

	copyHeaders(req.Header, c.Request.Header)
	req.Header.Set("X-Request-ID", requestID(c))

	resp, err := p.client.Do(req)
	if err != nil {
		p.fail(c, "upstream request failed", err)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if strings.HasPrefix(key, "Access-Control-") {
			continue // the gateway owns the CORS policy
		}
		for _, v := range values {
			c.Writer.Header().Add(key, v)
		}
	}
	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		p.logger.Warn("response relay interrupted", "error", err)
	}
}

// fail reports a forwarding failure as 502 with a JSON error body.
func (p *Proxy) fail(c *gin.Context, msg string, err error) {
	p.logger.Error(msg, "error", err, "path", c.Request.URL.Path)
	c.JSON(http.StatusBadGateway, gin.H{
		"error":  msg,
		"detail": err.Error(),
	})
}

// copyHeaders clones request headers, skipping hop-by-hop fields that
// must not be relayed.
func copyHeaders(dst, src http.Header) {
	for key, values := range src {
		switch http.CanonicalHeaderKey(key) {
		case "Connection", "Keep-Alive", "Transfer-Encoding", "Upgrade", "Host":
			continue
		}
		for _, v := range values {
			dst.Add(key, v)
		}
	}
}

// requestID propagates an existing request ID or mints a new one.
func requestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}
