package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/community"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

type CreateDocumentRequest struct {
	Title string `json:"title"`
	Text  string `json:"text" binding:"required"`
}

func (h *Handler) CreateDocument(ctx *gin.Context) {
	var req CreateDocumentRequest
	if !h.bind(ctx, &req) {
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	doc, err := h.svc.CreateDocument(ctx.Request.Context(), userID, req.Title, req.Text)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"document": doc})
}

func (h *Handler) GetDocument(ctx *gin.Context) {
	documentID, err := utils.GetUintParam(ctx, "document_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	doc, err := h.svc.GetDocument(ctx.Request.Context(), documentID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"document": doc})
}

func (h *Handler) DeleteDocument(ctx *gin.Context) {
	documentID, err := utils.GetUintParam(ctx, "document_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.svc.DeleteDocument(ctx.Request.Context(), userID, documentID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

func (h *Handler) GetDocumentLikes(ctx *gin.Context) {
	h.likers(ctx, "document_id", h.svc.GetDocumentLikes)
}

func (h *Handler) LikeDocument(ctx *gin.Context) {
	h.like(ctx, "document_id", h.svc.LikeDocument)
}

func (h *Handler) UnlikeDocument(ctx *gin.Context) {
	h.like(ctx, "document_id", h.svc.UnlikeDocument)
}

// CreateDocumentComment posts a top-level comment on the path document
func (h *Handler) CreateDocumentComment(ctx *gin.Context) {
	documentID, err := utils.GetUintParam(ctx, "document_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if !h.bind(ctx, &req) {
		return
	}

	h.createComment(ctx, community.NewComment{DocumentID: &documentID, Content: req.Content})
}
