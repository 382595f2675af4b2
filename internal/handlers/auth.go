package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/community"
	"github.com/inkwell-dev/inkwell/internal/types"
	"github.com/inkwell-dev/inkwell/internal/utils"
)

type CreateUserRequest struct {
	Username          string     `json:"username" form:"username" binding:"required"`
	Password          string     `json:"password" form:"password" binding:"required,min=8"`
	Fullname          string     `json:"fullname" form:"fullname"`
	Generation        int        `json:"generation" form:"generation"`
	DateOfBirth       *time.Time `json:"date_of_birth" form:"date_of_birth" time_format:"2006-01-02"`
	Department        string     `json:"department" form:"department"`
	StudentNumber     string     `json:"student_number" form:"student_number"`
	Email             string     `json:"email" form:"email" binding:"omitempty,email"`
	PhoneNumber       string     `json:"phone_number" form:"phone_number"`
	ProfileText       string     `json:"profile_text" form:"profile_text"`
	FavoriteComic     string     `json:"favorite_comic" form:"favorite_comic"`
	FavoriteCharacter string     `json:"favorite_character" form:"favorite_character"`
}

type LoginUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type sessionResponse struct {
	User         interface{} `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
}

func (h *Handler) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest
	if !h.bind(ctx, &req) {
		return
	}

	image, cleanup, err := formUpload(ctx, "profile_image")
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	defer cleanup()

	user, err := h.svc.CreateUser(ctx.Request.Context(), community.NewUser{
		Username: req.Username,
		Password: req.Password,
		Profile: community.Profile{
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
		},
	}, image)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"user": user})
}

func (h *Handler) LoginUser(ctx *gin.Context) {
	var req LoginUserRequest
	if !h.bind(ctx, &req) {
		return
	}

	session, err := h.svc.Login(ctx.Request.Context(), strings.TrimSpace(req.Username), req.Password, ctx.ClientIP())
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setSessionCookies(ctx, session)

	ctx.JSON(http.StatusOK, sessionResponse{
		User:         session.User,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
	})
}

func (h *Handler) RefreshToken(ctx *gin.Context) {
	var req RefreshRequest
	// The body is optional, browsers send the cookie instead
	_ = ctx.ShouldBindJSON(&req)

	refreshToken := req.RefreshToken
	if refreshToken == "" {
		refreshToken, _ = ctx.Cookie(types.RefreshTokenCookie)
	}
	if refreshToken == "" {
		h.respondError(ctx, apperrors.Unauthenticated("Refresh token is required"))
		return
	}

	session, err := h.svc.Refresh(ctx.Request.Context(), refreshToken)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setSessionCookies(ctx, session)

	ctx.JSON(http.StatusOK, sessionResponse{
		User:        session.User,
		AccessToken: session.AccessToken,
	})
}

func (h *Handler) Me(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
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

func (h *Handler) LogoutUser(ctx *gin.Context) {
	tokenID, err := utils.GetTokenID(ctx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.svc.Logout(ctx.Request.Context(), tokenID); err != nil {
		h.respondError(ctx, err)
		return
	}

	h.clearSessionCookies(ctx)
	ctx.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (h *Handler) setSessionCookies(ctx *gin.Context, session *community.Session) {
	h.setCookie(ctx, types.AccessTokenCookie, session.AccessToken, int(time.Until(session.ExpiresAt).Seconds()))
	if session.RefreshToken != "" {
		h.setCookie(ctx, types.RefreshTokenCookie, session.RefreshToken, int(time.Until(session.ExpiresAt).Seconds()))
	}
}

func (h *Handler) clearSessionCookies(ctx *gin.Context) {
	h.setCookie(ctx, types.AccessTokenCookie, "", -1)
	h.setCookie(ctx, types.RefreshTokenCookie, "", -1)
}

func (h *Handler) setCookie(ctx *gin.Context, name, value string, maxAge int) {
	sameSite := http.SameSiteLaxMode
	if h.cookies.Secure {
		sameSite = http.SameSiteNoneMode
	}

	http.SetCookie(ctx.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookies.Domain,
		MaxAge:   maxAge,
		Secure:   h.cookies.Secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// formUpload opens an optional multipart file field. The returned cleanup
// must always be called.
func formUpload(ctx *gin.Context, field string) (*community.Upload, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(ctx.ContentType(), "multipart/") {
		return nil, noop, nil
	}

	header, err := ctx.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, apperrors.Validation("Invalid %s upload", field)
	}

	return openUpload(ctx, header)
}

func openUpload(ctx *gin.Context, header *multipart.FileHeader) (*community.Upload, func(), error) {
	f, err := header.Open()
	if err != nil {
		return nil, func() {}, apperrors.Validation("Could not read uploaded file")
	}

	return &community.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        f,
		ClientIP:    ctx.ClientIP(),
	}, func() { f.Close() }, nil
}
