package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/community"
	"github.com/inkwell-dev/inkwell/internal/realtime"
	"go.uber.org/zap"
)

// CookieConfig controls the session cookies handed to browsers
type CookieConfig struct {
	Domain string
	Secure bool
}

type Handler struct {
	svc     *community.Service
	hub     *realtime.Hub
	cookies CookieConfig
	log     *zap.Logger
}

func New(svc *community.Service, hub *realtime.Hub, cookies CookieConfig, log *zap.Logger) *Handler {
	return &Handler{svc: svc, hub: hub, cookies: cookies, log: log}
}

// respondError renders err as {"error", "kind"} with the status of its kind.
// Persistence failures keep their driver detail in the log only.
func (h *Handler) respondError(ctx *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := apperrors.HTTPStatus(kind)

	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.FullPath()),
			zap.Error(err),
		)
	}

	ctx.JSON(status, gin.H{
		"error": apperrors.MessageOf(err),
		"kind":  kind,
	})
}

func (h *Handler) bind(ctx *gin.Context, dest interface{}) bool {
	if err := ctx.ShouldBind(dest); err != nil {
		h.log.Debug("Failed to bind request", zap.Error(err))
		h.respondError(ctx, apperrors.Validation("Invalid request"))
		return false
	}
	return true
}
