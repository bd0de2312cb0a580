package response

import (
	"messaging-service/internal/models"

	"github.com/gin-gonic/gin"
)

// Error writes a standardized error body and stops the handler chain.
func Error(c *gin.Context, status int, message, details string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Code:    status,
		Message: message,
		Details: details,
	})
}
