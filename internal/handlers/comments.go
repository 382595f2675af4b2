package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/community"
	"github.com/inkwell-dev/inkwell/internal/models"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

// CreateCommentRequest names either a document or a parent comment.
// A parent takes precedence.
type CreateCommentRequest struct {
	Content         string `json:"content" binding:"required"`
	DocumentID      *uint  `json:"document_id"`
	ParentCommentID *uint  `json:"parent_comment_id"`
}

func (h *Handler) CreateComment(ctx *gin.Context) {
	var req CreateCommentRequest
	if !h.bind(ctx, &req) {
		return
	}

	h.createComment(ctx, community.NewComment{
		DocumentID:      req.DocumentID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	})
}

// CreateReply answers the path comment
func (h *Handler) CreateReply(ctx *gin.Context) {
	commentID, err := utils.GetUintParam(ctx, "comment_id")
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

	h.createComment(ctx, community.NewComment{ParentCommentID: &commentID, Content: req.Content})
}

func (h *Handler) createComment(ctx *gin.Context, in community.NewComment) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	in.AuthorID = userID

	comment, err := h.svc.CreateComment(ctx.Request.Context(), in)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"comment": comment})
}

func (h *Handler) GetComment(ctx *gin.Context) {
	commentID, err := utils.GetUintParam(ctx, "comment_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	comment, err := h.svc.GetComment(ctx.Request.Context(), commentID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *Handler) DeleteComment(ctx *gin.Context) {
	commentID, err := utils.GetUintParam(ctx, "comment_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.svc.DeleteComment(ctx.Request.Context(), userID, commentID); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

func (h *Handler) GetCommentLikes(ctx *gin.Context) {
	h.likers(ctx, "comment_id", h.svc.GetCommentLikes)
}

func (h *Handler) LikeComment(ctx *gin.Context) {
	h.like(ctx, "comment_id", h.svc.LikeComment)
}

func (h *Handler) UnlikeComment(ctx *gin.Context) {
	h.like(ctx, "comment_id", h.svc.UnlikeComment)
}

// like runs a like or unlike for the acting user on the path target
func (h *Handler) like(ctx *gin.Context, param string, op func(context.Context, uint, uint) ([]models.User, error)) {
	targetID, err := utils.GetUintParam(ctx, param)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	users, err := op(ctx.Request.Context(), targetID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"liked_users": users})
}

func (h *Handler) likers(ctx *gin.Context, param string, op func(context.Context, uint) ([]models.User, error)) {
	targetID, err := utils.GetUintParam(ctx, param)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	users, err := op(ctx.Request.Context(), targetID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"liked_users": users})
}
