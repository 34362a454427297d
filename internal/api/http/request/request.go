// Package request holds the small parsing steps every resource handler repeats.
package request

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/focitech/focitech-backend/internal/apperr"
)

// PathID parses the :id route parameter.
func PathID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.InvalidArgument("invalid id")
	}
	return id, nil
}

// BindJSON decodes the body into dst. Shape errors become InvalidArgument;
// field rules are checked by the service.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.InvalidArgument("invalid request body")
	}
	return nil
}

// QueryBool returns nil when the parameter is absent or not a boolean.
func QueryBool(c *gin.Context, key string) *bool {
	raw, ok := c.GetQuery(key)
	if !ok {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

// QueryInt64 returns nil when the parameter is absent or not an integer.
func QueryInt64(c *gin.Context, key string) *int64 {
	v, err := strconv.ParseInt(c.Query(key), 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// QueryTime accepts RFC 3339 timestamps or plain dates; anything else is nil.
func QueryTime(c *gin.Context, key string) *time.Time {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// QueryString returns the trimmed parameter value.
func QueryString(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}
