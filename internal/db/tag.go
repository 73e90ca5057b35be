package db

import "gorm.io/gorm"

// Tag 定义了标签模型
type Tag struct {
	gorm.Model
	Name     string    `gorm:"unique;not null"`
	Slug     string    `gorm:"unique;not null"`
	Articles []Article `gorm:"many2many:article_tags;"`
}
