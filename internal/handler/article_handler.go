package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/cruxlog/internal/service"
	"github.com/gin-gonic/gin"
)

type articleCreateRequest struct {
	Title    string `json:"title" binding:"required"`
	Excerpt  string `json:"excerpt"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	Status   string `json:"status"`
	Category *uint  `json:"category"`
	Tags     []uint `json:"tags"`
}

// articleUpdateRequest 部分更新请求。Category 使用 RawMessage
// 以区分「未提交」「显式置空」和「指定分类」三种情况。
type articleUpdateRequest struct {
	Title    *string         `json:"title"`
	Excerpt  *string         `json:"excerpt"`
	Content  *string         `json:"content"`
	ImageURL *string         `json:"image_url"`
	Status   *string         `json:"status"`
	Category json.RawMessage `json:"category"`
	Tags     *[]uint         `json:"tags"`
}

// GetArticles 获取文章列表，按当前身份过滤可见性
func (a *API) GetArticles(c *gin.Context) {
	filter := service.ArticleFilter{
		CategorySlug: strings.TrimSpace(c.Query("category")),
		Status:       strings.TrimSpace(c.Query("status")),
		Author:       strings.TrimSpace(c.Query("author")),
		Search:       strings.TrimSpace(c.Query("search")),
		Page:         parsePositiveInt(c.DefaultQuery("page", "1"), 1),
		PerPage:      parsePositiveInt(c.DefaultQuery("per_page", "10"), 10),
	}

	if ordering := strings.TrimSpace(c.Query("ordering")); ordering != "" {
		if strings.HasPrefix(ordering, "-") {
			filter.OrderBy = ordering[1:]
			filter.Descending = true
		} else {
			filter.OrderBy = ordering
		}
	}

	result, err := a.articles.List(filter, currentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrArticleOrderInvalid) {
			respondError(c, http.StatusBadRequest, "无效的排序字段")
			return
		}
		respondError(c, http.StatusInternalServerError, "获取文章列表失败")
		return
	}

	response := make([]gin.H, 0, len(result.Articles))
	for i := range result.Articles {
		response = append(response, articleListJSON(&result.Articles[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"articles":    response,
		"total":       result.Total,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total_pages": result.TotalPages,
	})
}

// GetArticle 获取文章详情，包含正文和根评论树
func (a *API) GetArticle(c *gin.Context) {
	article, err := a.articles.GetBySlug(c.Param("slug"), currentUser(c))
	if err != nil {
		respondArticleError(c, err)
		return
	}

	roots, err := a.comments.Roots(article.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评论失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"article": articleDetailJSON(article, roots)})
}

// CreateArticle 创建文章，作者固定为当前登录用户
func (a *API) CreateArticle(c *gin.Context) {
	var req articleCreateRequest
	if !bindJSON(c, &req, "文章标题不能为空") {
		return
	}

	input := service.ArticleInput{
		Title:      req.Title,
		Excerpt:    req.Excerpt,
		Content:    req.Content,
		ImageURL:   req.ImageURL,
		Status:     req.Status,
		CategoryID: req.Category,
		TagIDs:     req.Tags,
	}

	article, err := a.articles.Create(input, currentUser(c))
	if err != nil {
		respondArticleError(c, err)
		return
	}

	roots, err := a.comments.Roots(article.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评论失败")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "文章创建成功", "article": articleDetailJSON(article, roots)})
}

// UpdateArticle 部分更新文章，标签列表为整体替换
func (a *API) UpdateArticle(c *gin.Context) {
	var req articleUpdateRequest
	if !bindJSON(c, &req, "无效的请求内容") {
		return
	}

	input := service.ArticleUpdate{
		Title:    req.Title,
		Excerpt:  req.Excerpt,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Status:   req.Status,
	}

	if len(req.Category) > 0 {
		input.CategorySet = true
		if string(req.Category) != "null" {
			var categoryID uint
			if err := json.Unmarshal(req.Category, &categoryID); err != nil {
				respondError(c, http.StatusBadRequest, "无效的分类")
				return
			}
			input.CategoryID = &categoryID
		}
	}

	if req.Tags != nil {
		input.TagsSet = true
		input.TagIDs = *req.Tags
	}

	article, err := a.articles.Update(c.Param("slug"), input, currentUser(c))
	if err != nil {
		respondArticleError(c, err)
		return
	}

	roots, err := a.comments.Roots(article.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取评论失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章更新成功", "article": articleDetailJSON(article, roots)})
}

// DeleteArticle 删除文章及其评论和标签关联
func (a *API) DeleteArticle(c *gin.Context) {
	if err := a.articles.Delete(c.Param("slug"), currentUser(c)); err != nil {
		respondArticleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "文章删除成功"})
}

func respondArticleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrArticleNotFound):
		respondError(c, http.StatusNotFound, "文章不存在")
	case errors.Is(err, service.ErrArticleForbidden):
		respondError(c, http.StatusForbidden, "只能操作自己的文章")
	case errors.Is(err, service.ErrArticleSlugExists):
		respondError(c, http.StatusConflict, "同名文章已存在")
	case errors.Is(err, service.ErrArticleTitleRequired):
		respondError(c, http.StatusBadRequest, "文章标题不能为空")
	case errors.Is(err, service.ErrArticleStatusInvalid):
		respondError(c, http.StatusBadRequest, "无效的文章状态")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusBadRequest, "指定的分类不存在")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusBadRequest, "指定的标签不存在")
	default:
		respondError(c, http.StatusInternalServerError, "文章操作失败")
	}
}
