// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Check は依存先（DB、Redisなど）の疎通を確認します。
type Check func(ctx context.Context) error

// HealthHandler は /healthz エンドポイントを処理します。
type HealthHandler struct {
	checks  map[string]Check
	timeout time.Duration
}

// NewHealthHandler は名前付きの依存チェックを持つ HealthHandler を生成します。
// nil のチェックは無視されます。
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	cs := make(map[string]Check, len(checks))
	for name, c := range checks {
		if c != nil {
			cs[name] = c
		}
	}
	return &HealthHandler{checks: cs, timeout: 2 * time.Second}
}

// Health はHTTPメソッドに応じてレスポンスし、キャッシュを防止します。
// GET では依存先のチェック結果を返し、失敗があれば503を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	switch c.Request.Method {
	case http.MethodHead:
		c.Status(http.StatusOK)
		return
	case http.MethodOptions:
		c.Status(http.StatusNoContent)
		return
	}

	if len(h.checks) == 0 {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "ok", http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			results[name] = err.Error()
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	c.JSON(code, gin.H{"status": status, "checks": results})
}
