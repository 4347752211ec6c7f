package middleware

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.RetryAfter > 0 {
				// Round up so the client never retries inside the window.
				secs := int(math.Ceil(appErr.RetryAfter.Seconds()))
				c.Header("Retry-After", strconv.Itoa(secs))
			}
			if appErr.Kind == apperror.KindInternal || appErr.Kind == apperror.KindStorage || appErr.Kind == apperror.KindDelivery {
				logger.Log.Error("request failed",
					"kind", string(appErr.Kind),
					"path", c.FullPath(),
					"error", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, gin.H{"kind": appErr.Kind})
			return
		}

		// Never expose internal error details to clients.
		logger.Log.Error("unexpected error", "path", c.FullPath(), "error", err)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
