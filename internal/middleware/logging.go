package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// CustomLoggingMiddleware creates a custom logging middleware
func CustomLoggingMiddleware() gin.HandlerFunc {
	return gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		memberInfo := "member=anonymous"
		if email, exists := param.Keys["member_email"]; exists {
			memberInfo = "member=" + email.(string)
		} else if memberID, exists := param.Keys["member_id"]; exists {
			if idStr, ok := memberID.(string); ok {
				memberInfo = "member=" + idStr
			}
		}

		// Format: [GIN] 2025/10/02 - 04:28:42 | 401 | 1.2834ms | 127.0.0.1 | GET /api/v1/bills | member=anonymous
		return fmt.Sprintf("[GIN] %s | %d | %8v | %s | %-7s %s | %s\n",
			param.TimeStamp.Format("2006/01/02 - 15:04:05"),
			param.StatusCode,
			param.Latency,
			param.ClientIP,
			param.Method,
			param.Path,
			memberInfo,
		)
	})
}
