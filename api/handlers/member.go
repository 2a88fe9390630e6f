package handlers

import (
	"github.com/BinLe1988/member-admin/api/middleware"
	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MemberHandler struct {
	members  *service.MemberService
	uploader *utils.Uploader
	logger   *zap.Logger
}

func NewMemberHandler(members *service.MemberService, uploader *utils.Uploader, logger *zap.Logger) *MemberHandler {
	return &MemberHandler{members: members, uploader: uploader, logger: logger}
}

// List 会员分页列表
func (h *MemberHandler) List(c *gin.Context) {
	var q models.MemberQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.members.List(c.Request.Context(), &q, true)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Page(c, page)
}

// Detail 会员详情
func (h *MemberHandler) Detail(c *gin.Context) {
	id, ok := parseID(c, "member_id")
	if !ok {
		return
	}
	m, err := h.members.Detail(c.Request.Context(), id)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, m)
}

func (h *MemberHandler) Add(c *gin.Context) {
	var form models.MemberForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.members.Add(c.Request.Context(), middleware.Operator(c), &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *MemberHandler) Edit(c *gin.Context) {
	var form models.MemberForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.members.Edit(c.Request.Context(), middleware.Operator(c), &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

// Delete 批量删除，路径参数为逗号分隔的会员 id
func (h *MemberHandler) Delete(c *gin.Context) {
	ids, ok := pathIDs(c, "member_ids")
	if !ok {
		return
	}
	res, err := h.members.Delete(c.Request.Context(), middleware.Operator(c), ids)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *MemberHandler) ChangeStatus(c *gin.Context) {
	var req models.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.members.ChangeStatus(c.Request.Context(), middleware.Operator(c), &req)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *MemberHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPwdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	res, err := h.members.ResetPassword(c.Request.Context(), middleware.Operator(c), &req)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

// Import 导入会员表格，update_support=true 时覆盖已存在的会员
func (h *MemberHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		Warning(c, "请选择要导入的文件")
		return
	}
	f, err := fh.Open()
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	defer f.Close()

	updateSupport := c.Query("update_support") == "true"
	res, err := h.members.Import(c.Request.Context(), middleware.Operator(c), f, updateSupport)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *MemberHandler) ImportTemplate(c *gin.Context) {
	data, err := h.members.ImportTemplate()
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Spreadsheet(c, "member_template.xlsx", data)
}

// Export 按表单查询条件导出全部会员
func (h *MemberHandler) Export(c *gin.Context) {
	var q models.MemberQuery
	if err := c.ShouldBind(&q); err != nil {
		bindError(c, err)
		return
	}
	page, err := h.members.List(c.Request.Context(), &q, false)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	data, err := h.members.Export(page.Rows)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Spreadsheet(c, "member.xlsx", data)
}

// Avatar 管理员为会员上传头像
func (h *MemberHandler) Avatar(c *gin.Context) {
	id, ok := parseID(c, "member_id")
	if !ok {
		return
	}
	url, ok := saveAvatar(c, h.uploader, h.logger, "avatar")
	if !ok {
		return
	}
	res, err := h.members.UpdateAvatar(c.Request.Context(), middleware.Operator(c), id, url)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, gin.H{"img_url": url, "msg": res.Message})
}
