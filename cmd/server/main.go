package main

import (
	"log"

	"github.com/cruxlog/internal/config"
	"github.com/cruxlog/internal/db"
	"github.com/cruxlog/internal/handler"
	"github.com/cruxlog/internal/router"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 根据环境变量补齐管理员账号
	if err := db.EnsureStaffUser(cfg.RootUserName, cfg.RootUserPassword); err != nil {
		log.Fatalf("failed to ensure staff user: %v", err)
	}

	// 设置并运行 Gin 服务器
	api := handler.NewAPI(db.DB, cfg.UploadDir, cfg.UploadURLPath)
	r := router.SetupRouter(api, cfg.SessionSecret, cfg.UploadURLPath, cfg.UploadDir)
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
