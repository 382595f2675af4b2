package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

// WebSocket subscribes the client to refresh events of one document
func (h *Handler) WebSocket(ctx *gin.Context) {
	documentID, err := utils.GetUintParam(ctx, "document_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.svc.EnsureDocument(ctx.Request.Context(), documentID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.hub.Serve(ctx.Writer, ctx.Request, documentID)
}
