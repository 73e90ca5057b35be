package db

import (
	"time"

	"gorm.io/gorm"
)

// 文章发布状态
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article 定义了文章模型
type Article struct {
	gorm.Model
	Title       string `gorm:"not null"`
	Slug        string `gorm:"unique;not null"`
	Excerpt     string
	Content     string
	ImageURL    string
	Status      string `gorm:"not null;default:draft"`
	PublishedAt *time.Time
	UserID      uint
	User        User
	CategoryID  *uint
	Category    *Category
	Tags        []Tag     `gorm:"many2many:article_tags;"`
	Comments    []Comment `gorm:"constraint:OnDelete:CASCADE"`

	// CommentCount 为评论数量的统计值，由查询填充，不落库
	CommentCount int64 `gorm:"->;-:migration"`
}
