package db

import "gorm.io/gorm"

// Category 定义了文章分类模型（抱石、运动攀、多段、高山等）
type Category struct {
	gorm.Model
	Name        string `gorm:"unique;not null"`
	Slug        string `gorm:"unique;not null"`
	Description string
	Articles    []Article `gorm:"constraint:OnDelete:SET NULL"`

	// ArticleCount 为已发布文章数量的统计值，由查询填充，不落库
	ArticleCount int64 `gorm:"->;-:migration"`
}
