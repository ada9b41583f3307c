// Package middleware はGin用の共通ミドルウェアを提供します。
package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// HeaderRequestID はリクエストIDを受け渡すヘッダー名です。
const HeaderRequestID = "X-Request-ID"

// ContextRequestID はリクエストIDを格納するコンテキストキーです。
const ContextRequestID = "requestID"

// RequestLogger はリクエストごとに1行の構造化ログを出力します。
// X-Request-ID が無い場合は UUID を採番してレスポンスに付与します。
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Set(ContextRequestID, reqID)
		c.Header(HeaderRequestID, reqID)

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			"request_id", reqID,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			logger.Error("request", attrs...)
		case status >= 400:
			logger.Warn("request", attrs...)
		default:
			logger.Info("request", attrs...)
		}
	}
}
