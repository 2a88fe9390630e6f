package handlers

import (
	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth   *service.AuthService
	logger *zap.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Login 管理员登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	token, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, gin.H{"token": token})
}
