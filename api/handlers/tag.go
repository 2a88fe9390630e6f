package handlers

import (
	"github.com/BinLe1988/member-admin/api/middleware"
	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TagHandler struct {
	tags     *service.TagService
	uploader *utils.Uploader
	logger   *zap.Logger
}

func NewTagHandler(tags *service.TagService, uploader *utils.Uploader, logger *zap.Logger) *TagHandler {
	return &TagHandler{tags: tags, uploader: uploader, logger: logger}
}

func (h *TagHandler) List(c *gin.Context) {
	var q models.TagQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.tags.List(c.Request.Context(), &q, true)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Page(c, page)
}

func (h *TagHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "tags_id")
	if !ok {
		return
	}
	t, err := h.tags.Detail(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, t)
}

func (h *TagHandler) Add(c *gin.Context) {
	var form models.TagForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.tags.Add(c.Request.Context(), middleware.Operator(c), &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *TagHandler) Edit(c *gin.Context) {
	var form models.TagForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.tags.Edit(c.Request.Context(), middleware.Operator(c), &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *TagHandler) Delete(c *gin.Context) {
	ids, ok := pathIDs(c, "tags_ids")
	if !ok {
		return
	}
	res, err := h.tags.Delete(c.Request.Context(), middleware.Operator(c), ids)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *TagHandler) Export(c *gin.Context) {
	var q models.TagQuery
	if err := c.ShouldBind(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.tags.List(c.Request.Context(), &q, false)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	data, err := h.tags.Export(page.Rows)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Spreadsheet(c, "tags.xlsx", data)
}

// Avatar 上传标签图标
func (h *TagHandler) Avatar(c *gin.Context) {
	id, ok := parseID(c, "tags_id")
	if !ok {
		return
	}
	url, ok := saveAvatar(c, h.uploader, h.logger, "tags")
	if !ok {
		return
	}
	res, err := h.tags.EditAvatar(c.Request.Context(), middleware.Operator(c), id, url)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, gin.H{"img_url": url, "msg": res.Message})
}
