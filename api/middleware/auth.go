package middleware

import (
	"net/http"
	"strings"

	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
)

const (
	AdminClaimsKey  = "adminClaims"
	MemberClaimsKey = "memberClaims"
)

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"code": status, "msg": msg})
}

// bearerToken 读取 Authorization: Bearer {token}
func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abort(c, http.StatusUnauthorized, "未登录或登录已过期")
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		abort(c, http.StatusUnauthorized, "Authorization格式应为 Bearer {token}")
		return "", false
	}
	return parts[1], true
}

// Auth 校验后台管理员令牌
func Auth(j *utils.JWT) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := j.ParseToken(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "登录已过期，请重新登录")
			return
		}
		c.Set(AdminClaimsKey, claims)
		c.Next()
	}
}

// RequirePermission 要求当前管理员拥有 perm 权限，需在 Auth 之后使用
func RequirePermission(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := CurrentAdmin(c)
		if claims == nil || !service.HasPermission(claims.Permissions, perm) {
			abort(c, http.StatusForbidden, "没有访问权限，请联系管理员授权")
			return
		}
		c.Next()
	}
}

// MemberAuth 校验会员会话令牌，会话被强退或过期时拒绝
func MemberAuth(auth *service.MemberAuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			return
		}
		claims, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "登录已过期，请重新登录")
			return
		}
		c.Set(MemberClaimsKey, claims)
		c.Next()
	}
}

func CurrentAdmin(c *gin.Context) *utils.Claims {
	v, ok := c.Get(AdminClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.Claims)
	return claims
}

func CurrentMember(c *gin.Context) *utils.SessionClaims {
	v, ok := c.Get(MemberClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.SessionClaims)
	return claims
}

// Operator 当前操作人名称，用于审计字段
func Operator(c *gin.Context) string {
	if a := CurrentAdmin(c); a != nil {
		return a.UserName
	}
	if m := CurrentMember(c); m != nil {
		return m.MemberName
	}
	return ""
}
