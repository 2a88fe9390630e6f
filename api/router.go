package api

import (
	"path"

	"github.com/BinLe1988/member-admin/api/handlers"
	"github.com/BinLe1988/member-admin/api/middleware"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Auth      *handlers.AuthHandler
	Member    *handlers.MemberHandler
	Profile   *handlers.MemberProfileHandler
	Online    *handlers.OnlineHandler
	Tag       *handlers.TagHandler
	ModelType *handlers.ModelTypeHandler
	AiModel   *handlers.AiModelHandler
}

// SetupRouter 设置API路由
func SetupRouter(router *gin.Engine, h *Handlers, jwt *utils.JWT, memberAuth *service.MemberAuthService, uploader *utils.Uploader) {
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", "X-Visit-Name"},
		ExposeHeaders:   []string{"Content-Disposition"},
	}))

	// 上传文件访问
	router.Static(path.Join("/", uploader.Prefix()), uploader.Root())

	// 公共API
	router.POST("/login", h.Auth.Login)
	router.POST("/member/login", h.Profile.Login)

	// 会员端API
	profile := router.Group("/member")
	profile.Use(middleware.MemberAuth(memberAuth))
	{
		profile.GET("/profile", h.Profile.Profile)
		profile.PUT("/profile", h.Profile.UpdateProfile)
		profile.PUT("/profile/updatePwd", h.Profile.UpdatePassword)
		profile.POST("/profile/avatar", h.Profile.Avatar)
		profile.POST("/logout", h.Profile.Logout)
	}

	// 后台管理API
	admin := router.Group("")
	admin.Use(middleware.Auth(jwt))

	perm := middleware.RequirePermission

	member := admin.Group("/member")
	{
		member.GET("/list", perm("member:list"), h.Member.List)
		member.GET("/:member_id", perm("member:query"), h.Member.Detail)
		member.POST("", perm("member:add"), h.Member.Add)
		member.PUT("", perm("member:edit"), h.Member.Edit)
		member.DELETE("/:member_ids", perm("member:remove"), h.Member.Delete)
		member.PUT("/changeStatus", perm("member:edit"), h.Member.ChangeStatus)
		member.PUT("/resetPwd", perm("member:resetPwd"), h.Member.ResetPassword)
		member.POST("/importData", perm("member:import"), h.Member.Import)
		member.POST("/importTemplate", perm("member:import"), h.Member.ImportTemplate)
		member.POST("/export", perm("member:export"), h.Member.Export)
		member.POST("/avatar/:member_id", perm("member:edit"), h.Member.Avatar)

		// 在线会员
		member.GET("/online/list", perm("member:online:list"), h.Online.List)
		member.GET("/online/list/page", perm("member:online:list"), h.Online.ListPage)
		member.DELETE("/online/:token_ids", perm("member:online:forceLogout"), h.Online.ForceLogout)
	}

	tags := admin.Group("/scales/tags")
	{
		tags.GET("/list", perm("scales:tags:list"), h.Tag.List)
		tags.GET("/:tags_id", perm("scales:tags:query"), h.Tag.Detail)
		tags.POST("", perm("scales:tags:add"), h.Tag.Add)
		tags.PUT("", perm("scales:tags:edit"), h.Tag.Edit)
		tags.DELETE("/:tags_ids", perm("scales:tags:remove"), h.Tag.Delete)
		tags.POST("/export", perm("scales:tags:export"), h.Tag.Export)
		tags.POST("/avatar/:tags_id", perm("scales:tags:edit"), h.Tag.Avatar)
	}

	modelType := admin.Group("/ai/modeltype")
	{
		modelType.GET("/list", perm("ai:modeltype:list"), h.ModelType.List)
		modelType.GET("/:type_id", perm("ai:modeltype:query"), h.ModelType.Detail)
		modelType.POST("", perm("ai:modeltype:add"), h.ModelType.Add)
		modelType.PUT("", perm("ai:modeltype:edit"), h.ModelType.Edit)
		modelType.DELETE("/:type_ids", perm("ai:modeltype:remove"), h.ModelType.Delete)
		modelType.POST("/export", perm("ai:modeltype:export"), h.ModelType.Export)
	}

	aiModel := admin.Group("/ai/model")
	{
		aiModel.GET("/list", perm("ai:model:list"), h.AiModel.List)
		aiModel.GET("/:model_id", perm("ai:model:query"), h.AiModel.Detail)
		aiModel.POST("", perm("ai:model:add"), h.AiModel.Add)
		aiModel.PUT("", perm("ai:model:edit"), h.AiModel.Edit)
		aiModel.PUT("/current", perm("ai:model:edit"), h.AiModel.SetCurrent)
		aiModel.DELETE("/:model_ids", perm("ai:model:remove"), h.AiModel.Delete)
	}
}
