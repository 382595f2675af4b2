package utils

import (
	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, apperrors.Unauthenticated("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, apperrors.Unauthenticated("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetTokenID returns the session the request was authenticated with
func GetTokenID(ctx *gin.Context) (uint, error) {
	tokenID, ok := ctx.Get(types.ContextTokenKey)
	if !ok {
		return 0, apperrors.Unauthenticated("User not authenticated")
	}

	id, ok := tokenID.(uint)
	if !ok {
		return 0, apperrors.Unauthenticated("Invalid token type in context")
	}

	return id, nil
}
