package handler

import (
	"errors"
	"net/http"

	"github.com/cruxlog/internal/service"
	"github.com/gin-gonic/gin"
)

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetTags 获取标签列表
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取标签列表失败")
		return
	}

	response := make([]gin.H, 0, len(tags))
	for i := range tags {
		response = append(response, tagJSON(&tags[i]))
	}

	c.JSON(http.StatusOK, gin.H{"tags": response})
}

// GetTag 根据 slug 获取单个标签
func (a *API) GetTag(c *gin.Context) {
	tag, err := a.tags.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			respondError(c, http.StatusNotFound, "标签不存在")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取标签失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"tag": tagJSON(tag)})
}

// CreateTag 创建新标签，仅管理员可用
func (a *API) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "标签名称不能为空") {
		return
	}

	tag, err := a.tags.Create(req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagExists):
			respondError(c, http.StatusConflict, "标签已存在")
		case errors.Is(err, service.ErrTagNameRequired):
			respondError(c, http.StatusBadRequest, "标签名称不能为空")
		default:
			respondError(c, http.StatusInternalServerError, "创建标签失败")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "标签创建成功", "tag": tagJSON(tag)})
}
