package handlers

import (
	"strings"

	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type OnlineHandler struct {
	online *service.OnlineService
	logger *zap.Logger
}

func NewOnlineHandler(online *service.OnlineService, logger *zap.Logger) *OnlineHandler {
	return &OnlineHandler{online: online, logger: logger}
}

// List 在线会员列表（不分页）
func (h *OnlineHandler) List(c *gin.Context) {
	var q models.OnlineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	sessions, err := h.online.List(c.Request.Context(), &q)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Page(c, &models.PageResult[models.OnlineMember]{Rows: sessions, Total: int64(len(sessions))})
}

func (h *OnlineHandler) ListPage(c *gin.Context) {
	var q models.OnlineQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.online.ListPage(c.Request.Context(), &q)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Page(c, page)
}

// ForceLogout 强退，路径参数为逗号分隔的会话 id
func (h *OnlineHandler) ForceLogout(c *gin.Context) {
	res, err := h.online.ForceLogout(c.Request.Context(), strings.Split(c.Param("token_ids"), ","))
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}
