package ingest

import (
	"io"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NewRouter exposes the handler over plain HTTP for local development. Every method
// on / and /trades reaches the handler so it can produce its own canned responses.
func NewRouter(h *Handler) *gin.Engine {
	g := gin.New()

	// Request logging
	g.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.Debug().
			Str("path", c.Request.URL.Path).
			Str("ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("http_request")
	})

	g.Use(gin.Recovery())

	g.Any("/", h.serveHTTP)
	g.Any("/trades", h.serveHTTP)

	return g
}

func (h *Handler) serveHTTP(c *gin.Context) {
	requestID := c.GetHeader("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-Id", requestID)

	req := Request{Method: c.Request.Method, RequestID: requestID}

	body, err := io.ReadAll(c.Request.Body)
	var resp Response
	if err != nil {
		resp = h.InvalidBody(c.Request.Context(), req, err)
	} else {
		req.Body = body
		resp = h.Handle(c.Request.Context(), req)
	}

	for k, v := range resp.Headers {
		c.Header(k, v)
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], []byte(resp.Body))
}
