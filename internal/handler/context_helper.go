package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/RInot-Aikcraft/cours/internal/middleware"
	"github.com/RInot-Aikcraft/cours/internal/models"
	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.Claims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.Claims)
	if !ok {
		return nil
	}
	return claims
}

func pathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id")
	}
	return id, nil
}
