// Package router 配置HTTP路由
// 沿用统一的/api/v1分组，认证、角色限制在分组级别声明
package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/config"
	_ "github.com/asaabil/manajemenpaper/docs" // swagger docs
	"github.com/asaabil/manajemenpaper/internal/database"
	"github.com/asaabil/manajemenpaper/internal/handler"
	"github.com/asaabil/manajemenpaper/internal/middleware"
	artifactservice "github.com/asaabil/manajemenpaper/internal/service/artifact"
	authservice "github.com/asaabil/manajemenpaper/internal/service/auth"
	fileservice "github.com/asaabil/manajemenpaper/internal/service/file"
	ossservice "github.com/asaabil/manajemenpaper/internal/service/oss"
	paperservice "github.com/asaabil/manajemenpaper/internal/service/paper"
	readinglistservice "github.com/asaabil/manajemenpaper/internal/service/readinglist"
	searchservice "github.com/asaabil/manajemenpaper/internal/service/search"
	statsservice "github.com/asaabil/manajemenpaper/internal/service/stats"
	userservice "github.com/asaabil/manajemenpaper/internal/service/user"
)

// Router 路由配置
type Router struct {
	engine *gin.Engine
}

// NewRouter 创建路由实例并完成服务装配
func NewRouter(db *gorm.DB, cfg *config.Config) (*Router, error) {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	// 初始化存储与镜像
	store, err := fileservice.NewStore(cfg.File)
	if err != nil {
		return nil, err
	}
	mirror := ossservice.NewMirrorService(db)
	store.SetMirror(mirror)

	// 初始化服务
	authService := authservice.NewService(db, cfg.JWT)
	userService := userservice.NewService(db)
	paperService := paperservice.NewService(db, store)
	artifactService := artifactservice.NewService(db, store)
	readingListService := readinglistservice.NewService(db)
	searchService := searchservice.NewService(db)
	statsService := statsservice.NewService(db)
	ossConfigService := ossservice.NewConfigService(db)

	// 初始化处理器
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	paperHandler := handler.NewPaperHandler(paperService)
	artifactHandler := handler.NewArtifactHandler(artifactService)
	readingListHandler := handler.NewReadingListHandler(readingListService)
	searchHandler := handler.NewSearchHandler(searchService)
	statsHandler := handler.NewStatsHandler(statsService)
	ossHandler := handler.NewOSSHandler(ossConfigService, mirror)

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"*"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Swagger文档路由
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// 上传文件静态访问
	engine.Static("/uploads", cfg.File.UploadDir)

	authRequired := middleware.AuthRequired(authService)
	adminOnly := middleware.RequireRoles(database.RoleAdmin)
	uploaderOnly := middleware.RequireRoles(database.RoleAdmin, database.RoleFaculty)

	api := engine.Group("/api/v1")
	{
		// 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authRequired, authHandler.Logout)
			auth.POST("/forgot-password", authHandler.ForgotPassword)
			auth.POST("/reset-password", authHandler.ResetPassword)
			auth.GET("/me", authRequired, authHandler.Me)
		}

		// 论文：读开放，写需要教师或管理员角色
		papers := api.Group("/papers")
		{
			papers.GET("", paperHandler.ListPapers)
			papers.GET("/:id", paperHandler.GetPaper)
			papers.GET("/:id/download", paperHandler.DownloadPaper)
			papers.GET("/:id/artifacts", artifactHandler.ListArtifacts)

			papers.POST("", authRequired, uploaderOnly, paperHandler.CreatePaper)
			papers.PUT("/:id", authRequired, uploaderOnly, paperHandler.UpdatePaper)
			papers.POST("/:id/versions", authRequired, uploaderOnly, paperHandler.AddVersion)
			papers.POST("/:id/artifacts", authRequired, uploaderOnly, artifactHandler.CreateArtifact)
			papers.DELETE("/:id", authRequired, uploaderOnly, paperHandler.DeletePaper)
		}

		artifacts := api.Group("/artifacts")
		{
			artifacts.GET("/:id", artifactHandler.GetArtifact)
			artifacts.GET("/:id/download", artifactHandler.DownloadArtifact)
			artifacts.PUT("/:id", authRequired, uploaderOnly, artifactHandler.UpdateArtifact)
			artifacts.DELETE("/:id", authRequired, uploaderOnly, artifactHandler.DeleteArtifact)
		}

		// 阅读列表：全部操作需要认证
		lists := api.Group("/reading-lists", authRequired)
		{
			lists.POST("", readingListHandler.CreateList)
			lists.GET("", readingListHandler.ListMyLists)
			lists.GET("/:id", readingListHandler.GetList)
			lists.PUT("/:id", readingListHandler.UpdateList)
			lists.DELETE("/:id", readingListHandler.DeleteList)
			lists.POST("/:id/papers/:paperId", readingListHandler.AddPaper)
			lists.DELETE("/:id/papers/:paperId", readingListHandler.RemovePaper)
		}

		// 检索与统计
		api.GET("/search", searchHandler.Search)
		stats := api.Group("/stats")
		{
			stats.GET("/top-downloaded", statsHandler.TopDownloaded)
			stats.GET("/top-viewed", statsHandler.TopViewed)
			stats.GET("/overview", statsHandler.Overview)
		}

		// 用户管理：仅管理员
		users := api.Group("/users", authRequired, adminOnly)
		{
			users.GET("", userHandler.ListUsers)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}

		// 存储镜像管理：仅管理员
		oss := api.Group("/oss", authRequired, adminOnly)
		{
			oss.POST("/configs", ossHandler.CreateConfig)
			oss.GET("/configs", ossHandler.ListConfigs)
			oss.GET("/configs/:id", ossHandler.GetConfig)
			oss.PUT("/configs/:id", ossHandler.UpdateConfig)
			oss.PUT("/configs/:id/activate", ossHandler.ActivateConfig)
			oss.POST("/configs/:id/test", ossHandler.TestConfig)
			oss.DELETE("/configs/:id", ossHandler.DeleteConfig)
			oss.GET("/sync-logs", ossHandler.ListSyncLogs)
		}
	}

	return &Router{engine: engine}, nil
}

// Engine 返回底层gin引擎
func (r *Router) Engine() *gin.Engine {
	return r.engine
}
