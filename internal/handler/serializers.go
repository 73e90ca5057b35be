package handler

import (
	"bytes"

	"github.com/cruxlog/internal/db"
	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	sanitizer = bluemonday.UGCPolicy()
)

// renderMarkdown 将文章正文渲染为经过净化的 HTML
func renderMarkdown(content string) string {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(content), &buf); err != nil {
		return ""
	}
	return sanitizer.Sanitize(buf.String())
}

// userMinimalJSON 用于嵌套展示作者信息
func userMinimalJSON(user *db.User) gin.H {
	if user == nil || user.ID == 0 {
		return nil
	}
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"avatar_url": user.Profile.AvatarURL,
	}
}

func profileJSON(profile *db.Profile) gin.H {
	return gin.H{
		"bio":        profile.Bio,
		"avatar_url": profile.AvatarURL,
		"website":    profile.Website,
	}
}

func userJSON(user *db.User) gin.H {
	return gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"is_staff":   user.IsStaff,
		"profile":    profileJSON(&user.Profile),
	}
}

func categoryJSON(category *db.Category) gin.H {
	return gin.H{
		"id":             category.ID,
		"name":           category.Name,
		"slug":           category.Slug,
		"description":    category.Description,
		"articles_count": category.ArticleCount,
	}
}

func tagJSON(tag *db.Tag) gin.H {
	return gin.H{
		"id":   tag.ID,
		"name": tag.Name,
		"slug": tag.Slug,
	}
}

// commentJSON 序列化评论。只有根评论会内联其直接回复，
// 回复本身不再向下展开。
func commentJSON(comment *db.Comment, withReplies bool) gin.H {
	payload := gin.H{
		"id":         comment.ID,
		"author":     userMinimalJSON(&comment.User),
		"content":    comment.Content,
		"parent":     comment.ParentID,
		"created_at": comment.CreatedAt,
		"updated_at": comment.UpdatedAt,
	}

	if withReplies && comment.ParentID == nil {
		replies := make([]gin.H, 0, len(comment.Replies))
		for i := range comment.Replies {
			replies = append(replies, commentJSON(&comment.Replies[i], false))
		}
		payload["replies"] = replies
	} else {
		payload["replies"] = []gin.H{}
	}

	return payload
}

func articleTagsJSON(article *db.Article) []gin.H {
	tags := make([]gin.H, 0, len(article.Tags))
	for i := range article.Tags {
		tags = append(tags, tagJSON(&article.Tags[i]))
	}
	return tags
}

func articleCategoryJSON(article *db.Article) gin.H {
	if article.Category == nil {
		return nil
	}
	return categoryJSON(article.Category)
}

// articleListJSON 列表视图：不含正文和评论，仅保留评论数
func articleListJSON(article *db.Article) gin.H {
	return gin.H{
		"id":             article.ID,
		"title":          article.Title,
		"slug":           article.Slug,
		"excerpt":        article.Excerpt,
		"image_url":      article.ImageURL,
		"author":         userMinimalJSON(&article.User),
		"category":       articleCategoryJSON(article),
		"tags":           articleTagsJSON(article),
		"status":         article.Status,
		"created_at":     article.CreatedAt,
		"published_at":   article.PublishedAt,
		"comments_count": article.CommentCount,
	}
}

// articleDetailJSON 详情视图：包含正文、渲染后的 HTML 和根评论树
func articleDetailJSON(article *db.Article, roots []db.Comment) gin.H {
	comments := make([]gin.H, 0, len(roots))
	for i := range roots {
		comments = append(comments, commentJSON(&roots[i], true))
	}

	payload := articleListJSON(article)
	payload["content"] = article.Content
	payload["content_html"] = renderMarkdown(article.Content)
	payload["updated_at"] = article.UpdatedAt
	payload["comments"] = comments
	return payload
}
