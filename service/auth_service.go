package service

import (
	"strings"

	"github.com/BinLe1988/member-admin/configs"
	"github.com/BinLe1988/member-admin/pkg/utils"

	"go.uber.org/zap"
)

// AllPermission 超级管理员通配权限
const AllPermission = "*:*:*"

// AuthService 后台管理员登录，账号来自配置文件
type AuthService struct {
	admins map[string]configs.AdminUser
	jwt    *utils.JWT
	logger *zap.Logger
}

func NewAuthService(admins []configs.AdminUser, jwt *utils.JWT, logger *zap.Logger) *AuthService {
	m := make(map[string]configs.AdminUser, len(admins))
	for _, a := range admins {
		m[a.Username] = a
	}
	return &AuthService{admins: m, jwt: jwt, logger: logger}
}

// Login 管理员登录，返回令牌
func (s *AuthService) Login(username, password string) (string, error) {
	admin, ok := s.admins[username]
	if !ok || !utils.CheckPassword(admin.PasswordHash, password) {
		s.logger.Info("Admin login failed", zap.String("username", username))
		return "", &ServiceError{Message: "用户名或密码错误"}
	}
	return s.jwt.GenerateToken(admin.Username, admin.Permissions)
}

// HasPermission 判断权限列表是否包含 required
// 支持 *:*:* 以及按段的通配，如 member:* 或 scales:tags:*
func HasPermission(granted []string, required string) bool {
	for _, p := range granted {
		if p == AllPermission || p == required {
			return true
		}
		if prefix, ok := strings.CutSuffix(p, "*"); ok && strings.HasPrefix(required, prefix) {
			return true
		}
	}
	return false
}
