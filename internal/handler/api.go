package handler

import (
	"github.com/cruxlog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	articles   *service.ArticleService
	categories *service.CategoryService
	tags       *service.TagService
	comments   *service.CommentService
	users      *service.UserService
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, uploadDir, uploadURL string) *API {
	return &API{
		db:         gdb,
		articles:   service.NewArticleService(gdb),
		categories: service.NewCategoryService(gdb),
		tags:       service.NewTagService(gdb),
		comments:   service.NewCommentService(gdb),
		users:      service.NewUserService(gdb),
		uploadDir:  uploadDir,
		uploadURL:  uploadURL,
	}
}

// DB exposes the underlying gorm instance.
func (a *API) DB() *gorm.DB {
	return a.db
}
