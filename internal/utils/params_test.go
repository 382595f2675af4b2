package utils

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/apperrors"
	"github.com/inkwell-dev/inkwell/internal/middleware"
	"github.com/inkwell-dev/inkwell/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	return ctx
}

func TestGetUintParam(t *testing.T) {
	ctx := newContext()
	ctx.Params = gin.Params{{Key: "document_id", Value: "12"}, {Key: "bad", Value: "x"}, {Key: "zero", Value: "0"}}

	id, err := GetUintParam(ctx, "document_id")
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)

	for _, name := range []string{"bad", "zero", "missing"} {
		_, err := GetUintParam(ctx, name)
		assert.True(t, errors.Is(err, apperrors.ErrValidation), name)
	}
}

func TestCurrentUser(t *testing.T) {
	ctx := newContext()

	_, err := GetCurrentUserID(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))
	_, err = GetTokenID(ctx)
	assert.True(t, errors.Is(err, apperrors.ErrUnauthenticated))

	ctx.Set(types.ContextUserKey, middleware.AuthenticatedUser{ID: 3, Username: "kim"})
	ctx.Set(types.ContextTokenKey, uint(9))

	id, err := GetCurrentUserID(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, id)

	tokenID, err := GetTokenID(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 9, tokenID)
}
