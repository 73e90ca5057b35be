package service

import (
	"errors"
	"strings"

	"github.com/cruxlog/internal/db"
	"gorm.io/gorm"
)

var (
	ErrCommentNotFound        = errors.New("comment not found")
	ErrCommentForbidden       = errors.New("not the comment author")
	ErrCommentContentRequired = errors.New("comment content is required")
	ErrCommentParentInvalid   = errors.New("parent comment does not belong to the same article")
	ErrCommentParentNotRoot   = errors.New("parent comment is itself a reply")
)

// CommentService wraps comment related database operations.
// 评论固定为两级结构：根评论与其直接回复。
type CommentService struct {
	db *gorm.DB
}

// NewCommentService creates a CommentService instance.
func NewCommentService(gdb *gorm.DB) *CommentService {
	return &CommentService{db: gdb}
}

// ListForArticle returns all comments of an article as a flat list
// ordered by creation time ascending.
func (s *CommentService) ListForArticle(articleSlug string) ([]db.Comment, error) {
	article, err := s.resolveArticle(articleSlug)
	if err != nil {
		return nil, err
	}

	var comments []db.Comment
	if err := s.db.
		Preload("User.Profile").
		Where("article_id = ?", article.ID).
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Roots returns the root comments of an article with their direct
// replies preloaded, both ordered by creation time ascending.
func (s *CommentService) Roots(articleID uint) ([]db.Comment, error) {
	var comments []db.Comment
	if err := s.db.
		Preload("User.Profile").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc, id asc").Preload("User.Profile")
		}).
		Where("article_id = ? AND parent_id IS NULL", articleID).
		Order("created_at asc, id asc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// Count returns the number of comments attached to an article.
func (s *CommentService) Count(articleID uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.Comment{}).Where("article_id = ?", articleID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create adds a comment to the article resolved from the path.
// 父评论必须属于同一篇文章且本身是根评论，否则视为非法输入。
func (s *CommentService) Create(articleSlug, content string, parentID *uint, actor *db.User) (*db.Comment, error) {
	article, err := s.resolveArticle(articleSlug)
	if err != nil {
		return nil, err
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}

	if parentID != nil {
		var parent db.Comment
		if err := s.db.First(&parent, *parentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCommentParentInvalid
			}
			return nil, err
		}
		if parent.ArticleID != article.ID {
			return nil, ErrCommentParentInvalid
		}
		if parent.ParentID != nil {
			return nil, ErrCommentParentNotRoot
		}
	}

	comment := db.Comment{
		Content:   content,
		ArticleID: article.ID,
		UserID:    actor.ID,
		ParentID:  parentID,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}

	if err := s.db.Preload("User.Profile").First(&comment, comment.ID).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// Get fetches a comment by id scoped to the article identified by slug.
func (s *CommentService) Get(articleSlug string, id uint) (*db.Comment, error) {
	article, err := s.resolveArticle(articleSlug)
	if err != nil {
		return nil, err
	}

	var comment db.Comment
	if err := s.db.
		Preload("User.Profile").
		Preload("Replies", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at asc, id asc").Preload("User.Profile")
		}).
		Where("article_id = ?", article.ID).
		First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

// Update changes the content of a comment. 仅作者本人或管理员可以修改。
func (s *CommentService) Update(articleSlug string, id uint, content string, actor *db.User) (*db.Comment, error) {
	comment, err := s.Get(articleSlug, id)
	if err != nil {
		return nil, err
	}

	if !canModify(actor, comment.UserID) {
		return nil, ErrCommentForbidden
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrCommentContentRequired
	}

	comment.Content = content
	if err := s.db.Model(comment).Update("content", content).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment and, for root comments, its direct replies.
func (s *CommentService) Delete(articleSlug string, id uint, actor *db.User) error {
	comment, err := s.Get(articleSlug, id)
	if err != nil {
		return err
	}

	if !canModify(actor, comment.UserID) {
		return ErrCommentForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("parent_id = ?", comment.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(comment).Error
	})
}

// resolveArticle 根据 slug 定位评论所属文章，路径优先于请求体
func (s *CommentService) resolveArticle(articleSlug string) (*db.Article, error) {
	var article db.Article
	if err := s.db.Where("slug = ?", articleSlug).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}
