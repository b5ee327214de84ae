package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/catalogd/backend/pkg/logger"
)

// RequestIDHeader carries the correlation id across service boundaries. An
// inbound value is trusted and echoed back; absent one, a uuid is minted.
const RequestIDHeader = "X-Request-ID"

// Adapter bridges fasthttp request handling to the context.Context world of
// the command and query handlers: a per-request deadline plus the
// correlation id, so a slow read-model query cannot pin a worker forever.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach derives a deadline-bound context for the request and stamps the
// correlation id on both the context and the response.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	id := requestID(ctx)
	stdCtx = logger.ContextWithRequestID(stdCtx, id)
	ctx.Response.Header.Set(RequestIDHeader, id)

	return stdCtx, cancel
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if header := strings.TrimSpace(string(ctx.Request.Header.Peek(RequestIDHeader))); header != "" {
			return header
		}
	}
	return uuid.NewString()
}
