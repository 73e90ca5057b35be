package db

import "gorm.io/gorm"

// Comment 定义了评论模型，支持一层回复（根评论与其直接回复）
type Comment struct {
	gorm.Model
	Content   string `gorm:"not null"`
	ArticleID uint   `gorm:"not null"`
	UserID    uint   `gorm:"not null"`
	User      User
	ParentID  *uint
	Replies   []Comment `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
}
