package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"spacetraveling/cmd/internal/logger"
)

// Recovery 는 핸들러 panic 을 구조화 로그로 남기고 500 으로 응답한다.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.ErrorWithFields("panic recovered", logger.WithContext(c.Request.Context(), logger.Fields{
					"path":  c.Request.URL.Path,
					"panic": fmt.Sprint(r),
				}))
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}
