package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "dompet/internal/errors"
	"dompet/internal/logger"
)

// ErrorHandler converts errors attached with c.Error into the JSON error
// shape. Unexpected errors are logged and masked as INTERNAL_ERROR. Handlers
// that already wrote a body (a streamed export, for instance) are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		fields := []interface{}{
			"request_id", c.GetString(requestIDKey),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		}

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			logger.Get().Errorw("unexpected error", append(fields, "error", err.Error())...)
			abortWithError(c, apperrors.ErrInternalServer)
			return
		}

		if appErr.Internal != nil {
			logger.Get().Errorw("app error", append(fields,
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
			)...)
		}
		abortWithError(c, appErr)
	}
}

// abortWithError writes {"error":{"code","message"}} and stops the chain.
func abortWithError(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"error": gin.H{
			"code":    appErr.Code,
			"message": appErr.Message,
		},
	})
}
