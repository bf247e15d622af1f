package middleware

import (
	"errors"
	"net/http"

	"go-candidate-backend/internal/delivery/http/response"
	"go-candidate-backend/pkg/apperror"
	"go-candidate-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler drains errors pushed onto the gin context into the single
// structured envelope. Every failure path goes through here, so clients see
// one error shape regardless of which layer failed.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			// Validation errors carry a field -> messages map for the client.
			if appErr.Fields != nil {
				response.Error(c, appErr.Code, appErr.Message, appErr.Fields)
				return
			}
			if appErr.Err != nil {
				logger.Log.Error("request failed", "error", appErr.Err, "path", c.Request.URL.Path)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// Never expose internal error details to clients
		logger.Log.Error("unhandled error", "error", err, "path", c.Request.URL.Path)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
