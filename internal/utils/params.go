package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/inkwell-dev/inkwell/internal/apperrors"
)

// GetUintParam parses a numeric id from the named path parameter
func GetUintParam(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	if raw == "" {
		return 0, apperrors.Validation("%s not found", name)
	}

	id, err := strconv.ParseUint(raw, 10, 32)

	if err != nil || id == 0 {
		return 0, apperrors.Validation("invalid %s", name)
	}

	return uint(id), nil
}
