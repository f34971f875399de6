package handler

import (
	"github.com/gin-gonic/gin"

	"prefect-crm/pkg/jwt"
	"prefect-crm/pkg/response"
)

// 上下文键，由 JWTAuth 中间件写入
const (
	CtxUserID      = "user_id" // 当前账号的 UserProfile ID
	CtxAccountID   = "account_id"
	CtxRoles       = "roles"
	CtxIsSuperuser = "is_superuser"
	CtxClaims      = "claims"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id（UserProfile ID）。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxUserID)
}

// MustGetAccountID 从 Gin 上下文中安全提取 account_id。
func MustGetAccountID(c *gin.Context) (string, bool) {
	return mustGetString(c, CtxAccountID)
}

// MustGetClaims 从 Gin 上下文中提取完整的 Access Token Claims（登出使用）
func MustGetClaims(c *gin.Context) (*jwt.Claims, bool) {
	v, exists := c.Get(CtxClaims)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	claims, ok := v.(*jwt.Claims)
	if !ok || claims == nil {
		response.Unauthorized(c, 10002, "未认证")
		return nil, false
	}
	return claims, true
}

// IsSuperuser 当前账号是否为超级管理员，未注入时视为否
func IsSuperuser(c *gin.Context) bool {
	return c.GetBool(CtxIsSuperuser)
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "未认证")
		return "", false
	}
	return s, true
}
