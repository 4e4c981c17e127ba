package shared

import (
	"strconv"

	"foodgram/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

// PathID parses a positive int64 path parameter.
func PathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.ValidationWithDetails("invalid id", map[string]string{name: "must be a positive integer"})
	}
	return id, nil
}

// QueryBool treats "1" and "true" (any case) as true, everything else as false.
func QueryBool(c *gin.Context, name string) bool {
	v, err := strconv.ParseBool(c.Query(name))
	return err == nil && v
}

// BindJSON decodes the body; malformed JSON is a validation error.
func BindJSON(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Validation("invalid request body").WithCause(err)
	}
	return nil
}
