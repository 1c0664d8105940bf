package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/Aashish23092/auction-analyzer/dto"
	"github.com/Aashish23092/auction-analyzer/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 with the standard error body.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "http.panic",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{
					Error:   "Internal server error",
					Message: "request " + GetRequestID(c) + " failed",
					Code:    http.StatusInternalServerError,
				})
			}
		}()

		c.Next()
	}
}
