package middleware

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/api/http/response"
	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/logging"
)

// Recovery turns a handler panic into a 500 envelope and logs the stack.
func Recovery(errs *response.Writer) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logging.FromContext(c.Request.Context()).Error("panic recovered",
					slog.Any("panic", r),
					slog.String("stack", string(debug.Stack())),
				)
				errs.Error(c, apperr.Internal("internal server error", fmt.Errorf("panic: %v", r)))
			}
		}()
		c.Next()
	}
}
