package main

import (
	"context"
	"log"

	"github.com/BinLe1988/member-admin/api"
	"github.com/BinLe1988/member-admin/api/handlers"
	"github.com/BinLe1988/member-admin/api/middleware"
	"github.com/BinLe1988/member-admin/configs"
	"github.com/BinLe1988/member-admin/database"
	"github.com/BinLe1988/member-admin/pkg/logger"
	"github.com/BinLe1988/member-admin/pkg/utils"
	"github.com/BinLe1988/member-admin/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := configs.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Level, cfg.Log.Format, "member-admin")
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zlog.Sync()

	// 初始化数据库连接
	db, err := database.Initialize(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer database.Close(db, zlog)

	rdb, err := database.NewRedis(context.Background(), cfg.Redis)
	if err != nil {
		zlog.Fatal("Failed to connect redis", zap.Error(err))
	}
	defer rdb.Close()

	jwt := utils.NewJWT(cfg.JWT.Secret, cfg.JWT.ExpiresIn)
	uploader := utils.NewUploader(cfg.Upload.Path, cfg.Upload.Prefix, cfg.Upload.Machine)

	memberSvc := service.NewMemberService(db, rdb, cfg.Member, zlog)
	memberAuth := service.NewMemberAuthService(db, rdb, jwt, zlog)

	h := &api.Handlers{
		Auth:      handlers.NewAuthHandler(service.NewAuthService(cfg.Admins, jwt, zlog), zlog),
		Member:    handlers.NewMemberHandler(memberSvc, uploader, zlog),
		Profile:   handlers.NewMemberProfileHandler(memberAuth, memberSvc, uploader, zlog),
		Online:    handlers.NewOnlineHandler(service.NewOnlineService(rdb, jwt, zlog), zlog),
		Tag:       handlers.NewTagHandler(service.NewTagService(db, zlog), uploader, zlog),
		ModelType: handlers.NewModelTypeHandler(service.NewModelTypeService(db, zlog), zlog),
		AiModel:   handlers.NewAiModelHandler(service.NewAiModelService(db, zlog), zlog),
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger(zlog))

	// 设置路由
	api.SetupRouter(router, h, jwt, memberAuth, uploader)

	// 启动服务器
	zlog.Info("Server starting", zap.String("port", cfg.Server.Port))
	if err := router.Run(":" + cfg.Server.Port); err != nil {
		zlog.Fatal("Failed to start server", zap.Error(err))
	}
}
