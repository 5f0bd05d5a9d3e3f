package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"cityhub/internal/domain"

	"github.com/gin-gonic/gin"
)

// RequestLogRecorder persists request log rows. Implemented by the logs
// module; recording is best-effort and must never block or fail a request.
type RequestLogRecorder interface {
	Record(entry domain.LogEntry)
}

// RequestLogger writes one persisted log row per request.
func RequestLogger(recorder RequestLogRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := "info"
		if status >= http.StatusInternalServerError {
			level = "error"
		} else if status >= http.StatusBadRequest {
			level = "warn"
		}

		entry := domain.LogEntry{
			Timestamp:  start,
			Level:      level,
			Message:    fmt.Sprintf("%s %s", c.Request.Method, c.Request.URL.Path),
			Source:     domain.LogSourceBackend,
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			Status:     status,
			DurationMs: time.Since(start).Milliseconds(),
			IP:         c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
			RequestID:  GetRequestID(c),
		}
		if len(c.Errors) > 0 {
			entry.ErrorMessage = c.Errors.Last().Error()
		}

		recorder.Record(entry)
	}
}

// ErrorLogger logs detailed error information and recovers from panics.
func ErrorLogger(prod bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(c, start, "panic", err.Error(), debug.Stack())

				payload := gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_ERROR",
						"message": "Internal server error",
					},
				}
				if !prod {
					payload["error"].(gin.H)["details"] = err.Error()
				}
				c.JSON(http.StatusInternalServerError, payload)
				c.Abort()
				return
			}

			if len(c.Errors) == 0 {
				if c.Writer.Status() >= http.StatusInternalServerError {
					logRequestError(c, start, "http_error", fmt.Sprintf("status=%d", c.Writer.Status()), nil)
				}
				return
			}

			for _, err := range c.Errors {
				logRequestError(c, start, fmt.Sprintf("%v", err.Type), err.Error(), nil)
			}
		}()

		c.Next()
	}
}

func logRequestError(c *gin.Context, start time.Time, errType string, message string, stack []byte) {
	log.Printf(
		"request_error type=%s status=%d method=%s path=%s client_ip=%s user_id=%d request_id=%s latency=%s error=%q stack=%s",
		errType,
		c.Writer.Status(),
		c.Request.Method,
		c.Request.URL.Path,
		c.ClientIP(),
		c.GetInt64(CtxUserID),
		GetRequestID(c),
		time.Since(start),
		message,
		string(stack),
	)
}
