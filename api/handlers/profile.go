package handlers

import (
	"github.com/BinLe1988/member-admin/api/middleware"
	"github.com/BinLe1988/member-admin/models"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MemberProfileHandler 会员端登录与个人中心
type MemberProfileHandler struct {
	auth     *service.MemberAuthService
	members  *service.MemberService
	uploader *utils.Uploader
	logger   *zap.Logger
}

func NewMemberProfileHandler(auth *service.MemberAuthService, members *service.MemberService, uploader *utils.Uploader, logger *zap.Logger) *MemberProfileHandler {
	return &MemberProfileHandler{auth: auth, members: members, uploader: uploader, logger: logger}
}

// Login 会员登录
func (h *MemberProfileHandler) Login(c *gin.Context) {
	var req models.MemberLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	meta := models.LoginMeta{
		IPAddr:    c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		VisitName: c.GetHeader("X-Visit-Name"),
	}
	token, err := h.auth.Login(c.Request.Context(), &req, meta)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, gin.H{"token": token})
}

func (h *MemberProfileHandler) Logout(c *gin.Context) {
	claims := middleware.CurrentMember(c)
	if err := h.auth.Logout(c.Request.Context(), claims.SessionID); err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, models.Success("退出成功"))
}

// Profile 当前会员资料
func (h *MemberProfileHandler) Profile(c *gin.Context) {
	claims := middleware.CurrentMember(c)
	m, err := h.members.Profile(c.Request.Context(), claims.MemberID)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, m)
}

func (h *MemberProfileHandler) UpdateProfile(c *gin.Context) {
	var form models.ProfileForm
	if err := c.ShouldBindJSON(&form); err != nil {
		bindError(c, err)
		return
	}
	claims := middleware.CurrentMember(c)
	res, err := h.members.UpdateProfile(c.Request.Context(), claims.MemberID, claims.MemberName, &form)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

func (h *MemberProfileHandler) UpdatePassword(c *gin.Context) {
	var req models.ProfilePwdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	claims := middleware.CurrentMember(c)
	res, err := h.members.UpdateProfilePwd(c.Request.Context(), claims.MemberID, req.OldPassword, req.NewPassword)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Result(c, res)
}

// Avatar 会员上传自己的头像
func (h *MemberProfileHandler) Avatar(c *gin.Context) {
	url, ok := saveAvatar(c, h.uploader, h.logger, "avatar")
	if !ok {
		return
	}
	claims := middleware.CurrentMember(c)
	res, err := h.members.UpdateAvatar(c.Request.Context(), claims.MemberName, claims.MemberID, url)
	if err != nil {
		HandleError(c, h.logger, err)
		return
	}
	Success(c, gin.H{"img_url": url, "msg": res.Message})
}
