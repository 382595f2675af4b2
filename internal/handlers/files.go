package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

func (h *Handler) UploadFile(ctx *gin.Context) {
	upload, cleanup, err := formUpload(ctx, "file")
	defer cleanup()
	if err == nil && upload == nil {
		err = apperrors.Validation("file is required")
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	file, err := h.svc.UploadFile(ctx.Request.Context(), *upload)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"file": file})
}

func (h *Handler) ListFiles(ctx *gin.Context) {
	files, err := h.svc.ListFiles(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"files": files})
}

func (h *Handler) DeleteFile(ctx *gin.Context) {
	fileID, err := utils.GetUintParam(ctx, "file_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.svc.DeleteFile(ctx.Request.Context(), userID, fileID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "File deleted successfully"})
}
