package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"spacetraveling/cmd/internal/logger"
	"spacetraveling/cmd/web/trace"
)

const (
	headerRequestID = "X-Request-Id"
	headerSpanID    = "X-Span-Id"
)

// RequestTrace 는 X-Request-Id 를 이어받거나 새로 만들어 컨텍스트와 응답 헤더에 싣고,
// 요청이 끝나면 "completed request" 로그를 남긴다.
// 응답의 X-Span-Id 는 항상 0 이고, 이 요청 중의 CMS 호출이 1, 2, ... 를 쓴다.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = trace.GenerateID()
		}
		ctx := trace.Start(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(headerRequestID, requestID)
		c.Header(headerSpanID, trace.CurrentSpanID(ctx))

		c.Next()

		fields := logger.WithContext(ctx, logger.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"query":    c.Request.URL.RawQuery,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
			// 요청 동안의 CMS 호출 수
			"cms_calls": trace.CurrentSpanID(ctx),
		})
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		logger.InfoWithFields("completed request", fields)
	}
}
