package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/RInot-Aikcraft/cours/pkg/errors"
)

// JSON sends a success payload as-is.
func JSON(c *gin.Context, status int, payload interface{}) {
	c.JSON(status, payload)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, payload interface{}) {
	JSON(c, http.StatusCreated, payload)
}

// Error converts any error to the wire contract {"error": "<message>"}.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}
