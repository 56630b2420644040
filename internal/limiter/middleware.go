// Package limiter 限流中间件实现
package limiter

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bhaba/bhaba_market/internal/middleware"
	"github.com/bhaba/bhaba_market/internal/resp"
)

// MiddlewareConfig 中间件配置
type MiddlewareConfig struct {
	// 限流器
	Limiter Limiter

	// Key生成函数
	KeyGenerator func(*http.Request) string

	// 是否跳过限流检查
	Skip func(*http.Request) bool
}

// DefaultKeyGenerator 默认Key生成器（基于客户端IP）
func DefaultKeyGenerator(r *http.Request) string {
	return fmt.Sprintf("ip:%s", ClientIP(r))
}

// PathKeyGenerator 路径Key生成器（IP + 请求路径）
func PathKeyGenerator(r *http.Request) string {
	return fmt.Sprintf("ip:%s:path:%s", ClientIP(r), r.URL.Path)
}

// ClientIP 提取客户端IP，优先信任代理头
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx > 0 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimitMiddleware 创建限流中间件
// 限流服务自身故障时放行请求，目录浏览可用性优先于配额精度
func RateLimitMiddleware(config *MiddlewareConfig) func(http.Handler) http.Handler {
	if config.KeyGenerator == nil {
		config.KeyGenerator = DefaultKeyGenerator
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if config.Skip != nil && config.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			key := config.KeyGenerator(r)

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			result, err := config.Limiter.Allow(ctx, key)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, result)

			if !result.Allowed {
				reqID := middleware.RequestIDFromContext(r.Context())
				resp.Error(w, http.StatusTooManyRequests, resp.CodeRateLimited,
					"too many requests, please retry later", reqID, "")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// setRateLimitHeaders 设置限流相关的响应头
func setRateLimitHeaders(w http.ResponseWriter, result *LimitResult) {
	w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(result.Remaining, 10))
	if result.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.FormatInt(int64(result.RetryAfter.Seconds()), 10))
	}
}
