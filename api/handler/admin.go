package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/catalogd/backend/pkg/httpcontext"
	"github.com/catalogd/backend/usecase/projection"
)

// AdminHandler exposes the operator surface, outside normal request flow.
type AdminHandler struct {
	baseHandler
	projector *projection.Projector
	source    projection.EventSource
}

func NewAdminHandler(projector *projection.Projector, source projection.EventSource, adapter *httpcontext.Adapter, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		baseHandler: newBaseHandler(adapter, logger),
		projector:   projector,
		source:      source,
	}
}

// @Summary Rebuild the read model from the event log
// @Tags admin
// @Router /api/v1/admin/rebuild [post]
func (h *AdminHandler) Rebuild(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	replayed, err := h.projector.RebuildAll(stdCtx, h.source)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, map[string]int{"events_replayed": replayed})
}
