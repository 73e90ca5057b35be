package handler

import (
	"errors"
	"net/http"

	"github.com/cruxlog/internal/service"
	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// GetCategories 获取分类列表，附带已发布文章数
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取分类列表失败")
		return
	}

	response := make([]gin.H, 0, len(categories))
	for i := range categories {
		response = append(response, categoryJSON(&categories[i]))
	}

	c.JSON(http.StatusOK, gin.H{"categories": response})
}

// GetCategory 根据 slug 获取单个分类
func (a *API) GetCategory(c *gin.Context) {
	category, err := a.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			respondError(c, http.StatusNotFound, "分类不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取分类失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": categoryJSON(category)})
}

// CreateCategory 创建新分类，仅管理员可用
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "分类名称不能为空") {
		return
	}

	category, err := a.categories.Create(req.Name, req.Description)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryExists):
			respondError(c, http.StatusConflict, "分类已存在")
		case errors.Is(err, service.ErrCategoryNameRequired):
			respondError(c, http.StatusBadRequest, "分类名称不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "创建分类失败")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "分类创建成功", "category": categoryJSON(category)})
}
