package router

import (
	"github.com/cruxlog/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, sessionSecret, uploadURL, uploadDir string) *gin.Engine {
	r := gin.Default()

	// 配置会话中间件，并在每个请求上解析当前用户
	store := cookie.NewStore([]byte(sessionSecret))
	r.Use(sessions.Sessions("cruxlog_session", store))
	r.Use(api.LoadCurrentUser())

	// 上传文件的静态访问
	r.Static(uploadURL, uploadDir)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	apiGroup := r.Group("/api")
	{
		auth := apiGroup.Group("/auth")
		{
			auth.POST("/register", api.Register)
			auth.POST("/login", api.Login)
			auth.POST("/logout", handler.AuthRequired(), api.Logout)
		}

		apiGroup.GET("/categories", api.GetCategories)
		apiGroup.POST("/categories", handler.AuthRequired(), handler.StaffRequired(), api.CreateCategory)
		apiGroup.GET("/categories/:slug", api.GetCategory)

		apiGroup.GET("/tags", api.GetTags)
		apiGroup.POST("/tags", handler.AuthRequired(), handler.StaffRequired(), api.CreateTag)
		apiGroup.GET("/tags/:slug", api.GetTag)

		articles := apiGroup.Group("/articles")
		{
			articles.GET("", api.GetArticles)
			articles.POST("", handler.AuthRequired(), api.CreateArticle)
			articles.GET("/:slug", api.GetArticle)
			articles.PUT("/:slug", handler.AuthRequired(), api.UpdateArticle)
			articles.PATCH("/:slug", handler.AuthRequired(), api.UpdateArticle)
			articles.DELETE("/:slug", handler.AuthRequired(), api.DeleteArticle)

			articles.GET("/:slug/comments", api.GetComments)
			articles.POST("/:slug/comments", handler.AuthRequired(), api.CreateComment)
			articles.GET("/:slug/comments/:id", api.GetComment)
			articles.PUT("/:slug/comments/:id", handler.AuthRequired(), api.UpdateComment)
			articles.PATCH("/:slug/comments/:id", handler.AuthRequired(), api.UpdateComment)
			articles.DELETE("/:slug/comments/:id", handler.AuthRequired(), api.DeleteComment)
		}

		apiGroup.GET("/users", handler.AuthRequired(), handler.StaffRequired(), api.GetUsers)

		apiGroup.GET("/me", handler.AuthRequired(), api.GetMe)
		apiGroup.PUT("/me", handler.AuthRequired(), api.UpdateMe)
		apiGroup.PATCH("/me", handler.AuthRequired(), api.UpdateMe)

		apiGroup.POST("/uploads", handler.AuthRequired(), api.UploadImage)
	}

	return r
}
