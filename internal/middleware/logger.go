package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/xyz-asif/jsontodo/internal/pkg/logger"
)

const RequestIDHeader = "X-Request-ID"

// Logger configuration
type LoggerConfig struct {
	LogRequestBody  bool
	LogResponseBody bool  // Only errors when false
	MaxBodySize     int64 // Max body size to log (in bytes)
	SkipPaths       []string
	// Output defaults to the package logger
	Output *log.Logger
}

func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{
		LogRequestBody:  true,
		LogResponseBody: false,
		MaxBodySize:     2048,
		SkipPaths:       []string{"/health"},
	}
}

func Logger() gin.HandlerFunc {
	return LoggerWithConfig(DefaultLoggerConfig())
}

func LoggerWithConfig(config LoggerConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(config.SkipPaths))
	for _, p := range config.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header(RequestIDHeader, requestID)

		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		out := config.Output
		if out == nil {
			out = logger.Default()
		}
		start := time.Now()

		fields := []interface{}{
			"id", requestID,
			"method", c.Request.Method,
			"path", path,
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields = append(fields, "query", truncateString(q, 100))
		}
		if config.LogRequestBody && c.Request.Body != nil && c.Request.ContentLength != 0 {
			if body := readBody(c, config.MaxBodySize); body != "" {
				fields = append(fields, "body", body)
			}
		}
		out.Info("request", fields...)

		writer := &limitedResponseWriter{
			ResponseWriter: c.Writer,
			maxSize:        config.MaxBodySize,
		}
		c.Writer = writer

		c.Next()

		status := writer.Status()
		done := []interface{}{
			"id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", time.Since(start),
			"size", writer.size,
		}
		if writer.body.Len() > 0 && (config.LogResponseBody || status >= 400) {
			done = append(done, "response", truncateString(compactJSON(writer.body.String()), 500))
		}

		switch {
		case status >= 500:
			out.Error("response", done...)
		case status >= 400:
			out.Warn("response", done...)
		default:
			out.Info("response", done...)
		}
	}
}

// readBody reads at most max bytes for logging and puts the full body back.
func readBody(c *gin.Context, max int64) string {
	if c.Request.ContentLength > max {
		return "[Request body too large to log]"
	}
	bodyBytes, err := io.ReadAll(io.LimitReader(c.Request.Body, max+1))
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(io.MultiReader(bytes.NewReader(bodyBytes), c.Request.Body))
	if int64(len(bodyBytes)) > max {
		return "[Request body too large to log]"
	}
	return sanitizeBody(string(bodyBytes), c.ContentType())
}

// Size-limited response writer - prevents memory issues
type limitedResponseWriter struct {
	gin.ResponseWriter
	body    bytes.Buffer
	size    int64
	maxSize int64
}

func (w *limitedResponseWriter) Write(b []byte) (int, error) {
	n, err := w.ResponseWriter.Write(b)

	if w.size+int64(n) <= w.maxSize {
		w.body.Write(b[:n])
	}
	w.size += int64(n)

	return n, err
}

func (w *limitedResponseWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func sanitizeBody(body, contentType string) string {
	if len(body) == 0 {
		return ""
	}

	if strings.Contains(contentType, "application/json") {
		var jsonData interface{}
		if json.Unmarshal([]byte(body), &jsonData) == nil {
			sanitized := hideSensitiveFields(jsonData)
			if formatted, err := json.Marshal(sanitized); err == nil {
				return truncateString(string(formatted), 200)
			}
		}
	}

	return truncateString(body, 200)
}

func hideSensitiveFields(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		result := make(map[string]interface{}, len(v))
		for key, value := range v {
			if isSensitiveField(strings.ToLower(key)) {
				result[key] = "********"
			} else {
				result[key] = hideSensitiveFields(value)
			}
		}
		return result
	case []interface{}:
		result := make([]interface{}, len(v))
		for i, item := range v {
			result[i] = hideSensitiveFields(item)
		}
		return result
	default:
		return v
	}
}

func isSensitiveField(field string) bool {
	sensitive := []string{"password", "token", "secret", "auth", "credential"}
	for _, s := range sensitive {
		if strings.Contains(field, s) {
			return true
		}
	}
	return false
}

func compactJSON(body string) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(body)); err != nil {
		return body
	}
	return buf.String()
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
