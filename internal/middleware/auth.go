package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/community"
	"github.com/inkwell-dev/inkwell/internal/types"
)

type AuthenticatedUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Fullname string `json:"fullname"`
}

// Authenticator resolves an access token to the acting user
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*community.Identity, error)
}

// AuthMiddleware accepts a Bearer header or the access token cookie
func AuthMiddleware(a Authenticator) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tokenString, err := extractToken(ctx)
		if err != nil {
			abort(ctx, err)
			return
		}

		identity, err := a.Authenticate(ctx.Request.Context(), tokenString)
		if err != nil {
			abort(ctx, err)
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:       identity.User.ID,
			Username: identity.User.Username,
			Fullname: identity.User.Fullname,
		})
		ctx.Set(types.ContextTokenKey, identity.TokenID)
		ctx.Next()
	}
}

func extractToken(ctx *gin.Context) (string, error) {
	if authHeader := ctx.GetHeader("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", apperrors.Unauthenticated("Authorization header format must be Bearer {token}")
		}
		return parts[1], nil
	}

	if cookie, err := ctx.Cookie(types.AccessTokenCookie); err == nil && cookie != "" {
		return cookie, nil
	}

	return "", apperrors.Unauthenticated("Authorization token is required")
}

func abort(ctx *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	ctx.AbortWithStatusJSON(apperrors.HTTPStatus(kind), gin.H{
		"error": apperrors.MessageOf(err),
		"kind":  kind,
	})
}
