package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"property-http-service/internal/domain/services"
	"property-http-service/internal/error/response"
)

// ClaimsKey 上下文中保存令牌声明的键
const ClaimsKey = "claims"

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// Authenticate 校验 Bearer 令牌, jwtService 为 nil 时不做鉴权
func Authenticate(jwtService services.InterfaceJWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if jwtService == nil {
			c.Next()
			return
		}

		tokenString := extractToken(c.GetHeader("Authorization"))
		if tokenString == "" {
			response.Unauthorized(c)
			return
		}

		claims, err := jwtService.ValidateToken(tokenString)
		if err != nil {
			response.Unauthorized(c)
			return
		}

		// 存储claims到上下文
		c.Set(ClaimsKey, claims)
		c.Set("username", claims.Username)
		c.Next()
	}
}
