package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/database"
	"github.com/asaabil/manajemenpaper/internal/response"
	authservice "github.com/asaabil/manajemenpaper/internal/service/auth"
)

// 认证用户在上下文中的键名
const contextUserKey = "auth_user"

// AuthRequired 认证中间件
// 解析Authorization头中的Bearer令牌，校验后把用户放入请求上下文
// 令牌缺失或无效时以401终止请求
func AuthRequired(auth authservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		user, err := auth.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// RequireRoles 角色授权中间件，必须位于AuthRequired之后
// 当前用户角色不在允许列表中时以403终止请求
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		response.Forbidden(c, "insufficient permissions")
		c.Abort()
	}
}

// CurrentUser 从请求上下文取出认证用户，未认证时返回nil
func CurrentUser(c *gin.Context) *database.User {
	if v, ok := c.Get(contextUserKey); ok {
		if user, ok := v.(*database.User); ok {
			return user
		}
	}
	return nil
}
