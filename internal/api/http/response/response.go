// Package response shapes JSON success and error bodies for all routers.
package response

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/apperr"
	"github.com/focitech/focitech-backend/internal/auth"
	"github.com/focitech/focitech-backend/internal/logging"
)

// ErrorBody is the error envelope. Detail is only populated for internal
// errors in development mode.
type ErrorBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type Writer struct {
	devMode bool
}

// NewWriter builds the process-wide writer. devMode exposes error detail to clients.
func NewWriter(devMode bool) *Writer {
	return &Writer{devMode: devMode}
}

func (w *Writer) DevMode() bool { return w.devMode }

func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as the envelope, aborts the chain and logs one line.
func (w *Writer) Error(c *gin.Context, err error) {
	e := apperr.Classify(err, "internal server error")
	status := StatusFor(e.Kind)

	attrs := []any{
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.Int("status", status),
		slog.String("kind", e.Kind.String()),
		slog.String("message", e.Message),
	}
	if id, ok := auth.CurrentIdentity(c); ok {
		attrs = append(attrs, slog.String("email", id.Email))
	}
	if e.Err != nil {
		attrs = append(attrs, slog.String("cause", e.Err.Error()))
	}

	log := logging.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("request failed", attrs...)
	} else {
		log.Warn("request failed", attrs...)
	}

	body := ErrorBody{Status: "error", Message: e.Message}
	if w.devMode && e.Kind == apperr.KindInternal && e.Err != nil {
		body.Detail = e.Err.Error()
	}
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(status, body)
}

// MessageBody is the success envelope for operations with nothing to return.
type MessageBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, MessageBody{Status: "success", Message: msg})
}
