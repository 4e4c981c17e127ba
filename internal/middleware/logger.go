package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"foodgram/internal/pkg/apperr"
	"foodgram/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ErrorLogger recovers panics and logs errors attached via c.Error.
func ErrorLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				requestEvent(log.Error(), c, start).
					Err(err).
					Str("type", "panic").
					Bytes("stack", debug.Stack()).
					Msg("request_error")

				if !c.Writer.Written() {
					response.Error(c, http.StatusInternalServerError, string(apperr.CodeInternal), "Internal error")
				}
				c.Abort()
				return
			}

			if len(c.Errors) == 0 {
				if c.Writer.Status() >= http.StatusInternalServerError {
					requestEvent(log.Error(), c, start).Str("type", "http_error").Msg("request_error")
				}
				return
			}

			for _, e := range c.Errors {
				ev := requestEvent(log.Error(), c, start).Err(e.Err).Str("type", fmt.Sprintf("%v", e.Type))
				if e.Meta != nil {
					ev = ev.Interface("meta", e.Meta)
				}
				ev.Msg("request_error")
			}
		}()

		c.Next()
	}
}

// RequestLogger writes one access log line per request.
func RequestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		level := zerolog.InfoLevel
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			level = zerolog.ErrorLevel
		case status >= http.StatusBadRequest:
			level = zerolog.WarnLevel
		}
		requestEvent(log.WithLevel(level), c, start).Int("size", c.Writer.Size()).Msg("request")
	}
}

func requestEvent(ev *zerolog.Event, c *gin.Context, start time.Time) *zerolog.Event {
	return ev.
		Int("status", c.Writer.Status()).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Str("query", c.Request.URL.RawQuery).
		Str("client_ip", c.ClientIP()).
		Int64("user_id", c.GetInt64(userIDKey)).
		Str("request_id", requestID(c)).
		Dur("latency", time.Since(start))
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
