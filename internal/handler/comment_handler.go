package handler

import (
	"errors"
	"net/http"

	"github.com/cruxlog/internal/service"
	"github.com/gin-gonic/gin"
)

type commentCreateRequest struct {
	Content string `json:"content" binding:"required"`
	Parent  *uint  `json:"parent"`
}

type commentUpdateRequest struct {
	Content string `json:"content" binding:"required"`
}

// GetComments 获取文章的评论平铺列表，按创建时间升序
func (a *API) GetComments(c *gin.Context) {
	comments, err := a.comments.ListForArticle(c.Param("slug"))
	if err != nil {
		respondCommentError(c, err)
		return
	}

	response := make([]gin.H, 0, len(comments))
	for i := range comments {
		response = append(response, commentJSON(&comments[i], false))
	}

	c.JSON(http.StatusOK, gin.H{"comments": response})
}

// GetComment 获取单条评论，根评论会内联其直接回复
func (a *API) GetComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	comment, err := a.comments.Get(c.Param("slug"), id)
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": commentJSON(comment, true)})
}

// CreateComment 发表评论，作者固定为当前登录用户，
// 目标文章以路径中的 slug 为准
func (a *API) CreateComment(c *gin.Context) {
	var req commentCreateRequest
	if !bindJSON(c, &req, "评论内容不能为空") {
		return
	}

	comment, err := a.comments.Create(c.Param("slug"), req.Content, req.Parent, currentUser(c))
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "评论发表成功", "comment": commentJSON(comment, true)})
}

// UpdateComment 修改评论内容
func (a *API) UpdateComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	var req commentUpdateRequest
	if !bindJSON(c, &req, "评论内容不能为空") {
		return
	}

	comment, err := a.comments.Update(c.Param("slug"), id, req.Content, currentUser(c))
	if err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "评论更新成功", "comment": commentJSON(comment, true)})
}

// DeleteComment 删除评论，根评论连同其回复一起删除
func (a *API) DeleteComment(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的评论ID")
		return
	}

	if err := a.comments.Delete(c.Param("slug"), id, currentUser(c)); err != nil {
		respondCommentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "评论删除成功"})
}

func respondCommentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "文章不存在")
	case errors.Is(err, service.ErrCommentNotFound):
		respondError(c, http.StatusNotFound, "评论不存在")
	case errors.Is(err, service.ErrCommentForbidden):
		respondError(c, http.StatusForbidden, "只能操作自己的评论")
	case errors.Is(err, service.ErrCommentContentRequired):
		respondError(c, http.StatusBadRequest, "评论内容不能为空")
	case errors.Is(err, service.ErrCommentParentInvalid):
		respondError(c, http.StatusBadRequest, "父评论必须属于同一篇文章")
	case errors.Is(err, service.ErrCommentParentNotRoot):
		respondError(c, http.StatusBadRequest, "只能回复根评论")
	default:
		respondError(c, http.StatusInternalServerError, "评论操作失败")
	}
}
