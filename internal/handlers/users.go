package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/community"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

type UpdateUserRequest struct {
	Fullname          *string    `json:"fullname"`
	Generation        *int       `json:"generation"`
	DateOfBirth       *time.Time `json:"date_of_birth"`
	Department        *string    `json:"department"`
	StudentNumber     *string    `json:"student_number"`
	Email             *string    `json:"email" binding:"omitempty,email"`
	PhoneNumber       *string    `json:"phone_number"`
	ProfileText       *string    `json:"profile_text"`
	FavoriteComic     *string    `json:"favorite_comic"`
	FavoriteCharacter *string    `json:"favorite_character"`
	NewPassword       *string    `json:"new_password" binding:"omitempty,min=8"`
}

type DeleteUserRequest struct {
	Password string `json:"password" binding:"required"`
}

// selfOnly returns the path user id when it is the acting user
func (h *Handler) selfOnly(ctx *gin.Context) (uint, bool) {
	userID, err := utils.GetUintParam(ctx, "user_id")
	if err != nil {
		h.respondError(ctx, err)
		return 0, false
	}

	currentID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return 0, false
	}

	if userID != currentID {
		h.respondError(ctx, apperrors.Forbidden("You can only modify your own account"))
		return 0, false
	}

	return userID, true
}

func (h *Handler) GetUser(ctx *gin.Context) {
	userID, err := utils.GetUintParam(ctx, "user_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	user, err := h.svc.GetUser(ctx.Request.Context(), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) UpdateUser(ctx *gin.Context) {
	userID, ok := h.selfOnly(ctx)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if !h.bind(ctx, &req) {
		return
	}

	user, err := h.svc.UpdateUser(ctx.Request.Context(), userID, community.UserPatch{
		Fullname:          req.Fullname,
		Generation:        req.Generation,
		DateOfBirth:       req.DateOfBirth,
		Department:        req.Department,
		StudentNumber:     req.StudentNumber,
		Email:             req.Email,
		PhoneNumber:       req.PhoneNumber,
		ProfileText:       req.ProfileText,
		FavoriteComic:     req.FavoriteComic,
		FavoriteCharacter: req.FavoriteCharacter,
		Password:          req.NewPassword,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "User updated successfully",
		"user":    user,
	})
}

func (h *Handler) SetProfileImage(ctx *gin.Context) {
	userID, ok := h.selfOnly(ctx)
	if !ok {
		return
	}

	image, cleanup, err := formUpload(ctx, "profile_image")
	defer cleanup()
	if err == nil && image == nil {
		err = apperrors.Validation("profile_image is required")
	}
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	user, err := h.svc.SetProfileImage(ctx.Request.Context(), userID, *image)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *Handler) DeleteUser(ctx *gin.Context) {
	userID, ok := h.selfOnly(ctx)
	if !ok {
		return
	}

	var req DeleteUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		h.respondError(ctx, apperrors.Validation("Password is required for account deletion"))
		return
	}

	if _, err := h.svc.DeleteAccount(ctx.Request.Context(), userID, req.Password); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.clearSessionCookies(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}

func (h *Handler) ListUserDocuments(ctx *gin.Context) {
	userID, err := utils.GetUintParam(ctx, "user_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	docs, err := h.svc.ListUserDocuments(ctx.Request.Context(), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"documents": docs})
}

func (h *Handler) ListUserComments(ctx *gin.Context) {
	userID, err := utils.GetUintParam(ctx, "user_id")
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	comments, err := h.svc.ListUserComments(ctx.Request.Context(), userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"comments": comments})
}
