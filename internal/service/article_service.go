package service

import (
	"errors"
	"strings"
	"time"

	"github.com/cruxlog/internal/db"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrArticleNotFound      = errors.New("article not found")
	ErrArticleSlugExists    = errors.New("article slug already exists")
	ErrArticleForbidden     = errors.New("not the article author")
	ErrArticleTitleRequired = errors.New("article title is required")
	ErrArticleStatusInvalid = errors.New("invalid article status")
	ErrArticleOrderInvalid  = errors.New("invalid ordering field")
)

// ArticleService wraps article related database operations.
type ArticleService struct {
	db *gorm.DB
}

// ArticleFilter describes filters for listing articles.
type ArticleFilter struct {
	CategorySlug string
	Status       string
	Author       string
	Search       string
	OrderBy      string
	Descending   bool
	Page         int
	PerPage      int
}

// ArticleListResult aggregates paginated list data.
type ArticleListResult struct {
	Articles   []db.Article
	Total      int64
	TotalPages int
	Page       int
	PerPage    int
}

// ArticleInput represents fields accepted when creating an article.
type ArticleInput struct {
	Title      string
	Excerpt    string
	Content    string
	ImageURL   string
	Status     string
	CategoryID *uint
	TagIDs     []uint
}

// ArticleUpdate represents the whitelist of mutable fields for partial
// updates. 指针为 nil 表示该字段未提交，保持原值。
type ArticleUpdate struct {
	Title       *string
	Excerpt     *string
	Content     *string
	ImageURL    *string
	Status      *string
	CategoryID  *uint
	CategorySet bool
	TagIDs      []uint
	TagsSet     bool
}

// 允许排序的字段白名单
var articleOrderColumns = map[string]string{
	"created_at":   "articles.created_at",
	"published_at": "articles.published_at",
	"title":        "articles.title",
}

// NewArticleService creates an ArticleService instance.
func NewArticleService(gdb *gorm.DB) *ArticleService {
	return &ArticleService{db: gdb}
}

// List provides paginated articles filtered by the caller's visibility.
// 匿名用户只能看到已发布文章，普通用户额外可见自己的草稿，管理员不受限。
func (s *ArticleService) List(filter ArticleFilter, actor *db.User) (*ArticleListResult, error) {
	result := &ArticleListResult{Page: filter.Page, PerPage: filter.PerPage}
	if result.Page <= 0 {
		result.Page = 1
	}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	orderBy, err := resolveArticleOrder(filter)
	if err != nil {
		return nil, err
	}

	countQuery := applyArticleVisibility(s.applyFilters(s.db.Model(&db.Article{}), filter), actor)
	if err := countQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	offset := (result.Page - 1) * result.PerPage

	var articles []db.Article
	dataQuery := s.db.Model(&db.Article{}).
		Select("articles.*, (SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.id AND comments.deleted_at IS NULL) AS comment_count").
		Preload("Tags").
		Preload("Category").
		Preload("User.Profile")
	dataQuery = applyArticleVisibility(s.applyFilters(dataQuery, filter), actor)

	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&articles).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Articles = articles
	return result, nil
}

// GetBySlug fetches an article by slug honoring the caller's visibility.
func (s *ArticleService) GetBySlug(slugValue string, actor *db.User) (*db.Article, error) {
	var article db.Article
	query := s.db.Model(&db.Article{}).
		Select("articles.*, (SELECT COUNT(*) FROM comments WHERE comments.article_id = articles.id AND comments.deleted_at IS NULL) AS comment_count").
		Preload("Tags").
		Preload("Category").
		Preload("User.Profile").
		Where("articles.slug = ?", slugValue)

	if err := applyArticleVisibility(query, actor).First(&article).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrArticleNotFound
		}
		return nil, err
	}
	return &article, nil
}

// Create persists an article and associates tags in a transaction.
// 作者固定为当前操作者，Slug 根据标题一次性生成，此后不可变。
func (s *ArticleService) Create(input ArticleInput, actor *db.User) (*db.Article, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrArticleTitleRequired
	}

	status := input.Status
	if status == "" {
		status = db.ArticleStatusDraft
	}
	if status != db.ArticleStatusDraft && status != db.ArticleStatusPublished {
		return nil, ErrArticleStatusInvalid
	}

	slugValue := slug.Make(title)
	var existing db.Article
	if err := s.db.Where("slug = ?", slugValue).First(&existing).Error; err == nil {
		return nil, ErrArticleSlugExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if input.CategoryID != nil {
		var category db.Category
		if err := s.db.First(&category, *input.CategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrCategoryNotFound
			}
			return nil, err
		}
	}

	article := db.Article{
		Title:      title,
		Slug:       slugValue,
		Excerpt:    strings.TrimSpace(input.Excerpt),
		Content:    input.Content,
		ImageURL:   strings.TrimSpace(input.ImageURL),
		Status:     status,
		UserID:     actor.ID,
		CategoryID: input.CategoryID,
	}
	if status == db.ArticleStatusPublished {
		now := time.Now()
		article.PublishedAt = &now
	}

	return s.saveWithTags(&article, input.TagIDs, true)
}

// Update applies a partial update to an existing article.
// 仅作者本人或管理员可以修改，标签列表为整体替换。
func (s *ArticleService) Update(slugValue string, input ArticleUpdate, actor *db.User) (*db.Article, error) {
	article, err := s.GetBySlug(slugValue, actor)
	if err != nil {
		return nil, err
	}

	if !canModify(actor, article.UserID) {
		return nil, ErrArticleForbidden
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, ErrArticleTitleRequired
		}
		// 标题可以修改，但 Slug 保持首次生成的值
		article.Title = title
	}
	if input.Excerpt != nil {
		article.Excerpt = strings.TrimSpace(*input.Excerpt)
	}
	if input.Content != nil {
		article.Content = *input.Content
	}
	if input.ImageURL != nil {
		article.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.Status != nil {
		status := *input.Status
		if status != db.ArticleStatusDraft && status != db.ArticleStatusPublished {
			return nil, ErrArticleStatusInvalid
		}
		if status == db.ArticleStatusPublished && article.PublishedAt == nil {
			now := time.Now()
			article.PublishedAt = &now
		}
		article.Status = status
	}
	if input.CategorySet {
		if input.CategoryID != nil {
			var category db.Category
			if err := s.db.First(&category, *input.CategoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return nil, ErrCategoryNotFound
				}
				return nil, err
			}
		}
		article.CategoryID = input.CategoryID
	}

	return s.saveWithTags(article, input.TagIDs, input.TagsSet)
}

// Delete removes an article together with its comments and tag links.
func (s *ArticleService) Delete(slugValue string, actor *db.User) error {
	article, err := s.GetBySlug(slugValue, actor)
	if err != nil {
		return err
	}

	if !canModify(actor, article.UserID) {
		return ErrArticleForbidden
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("article_id = ?", article.ID).Delete(&db.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Model(article).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Unscoped().Delete(article).Error
	})
}

// saveWithTags 在同一事务内保存文章并整体替换标签关联
func (s *ArticleService) saveWithTags(article *db.Article, tagIDs []uint, replaceTags bool) (*db.Article, error) {
	return article, s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Category", "User", "Comments").Save(article).Error; err != nil {
			return err
		}

		if replaceTags {
			var tags []db.Tag
			if len(tagIDs) > 0 {
				if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
					return err
				}
				if len(tags) != len(tagIDs) {
					return ErrTagNotFound
				}
			}

			if err := tx.Model(article).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}

		return tx.Preload("Tags").Preload("Category").Preload("User.Profile").First(article, article.ID).Error
	})
}

func (s *ArticleService) applyFilters(query *gorm.DB, filter ArticleFilter) *gorm.DB {
	if filter.CategorySlug != "" {
		query = query.
			Joins("JOIN categories ON categories.id = articles.category_id").
			Where("categories.slug = ?", filter.CategorySlug)
	}

	if filter.Status != "" {
		query = query.Where("articles.status = ?", filter.Status)
	}

	if filter.Author != "" {
		query = query.
			Joins("JOIN users ON users.id = articles.user_id").
			Where("users.username = ?", filter.Author)
	}

	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		query = query.Where("(articles.title LIKE ? OR articles.excerpt LIKE ? OR articles.content LIKE ?)", search, search, search)
	}

	return query
}

func applyArticleVisibility(query *gorm.DB, actor *db.User) *gorm.DB {
	switch {
	case actor == nil:
		return query.Where("articles.status = ?", db.ArticleStatusPublished)
	case actor.IsStaff:
		return query
	default:
		return query.Where("(articles.status = ? OR articles.user_id = ?)", db.ArticleStatusPublished, actor.ID)
	}
}

func resolveArticleOrder(filter ArticleFilter) (string, error) {
	if filter.OrderBy == "" {
		// 与前台展示保持一致：默认按发布时间倒序
		return "articles.published_at desc, articles.id desc", nil
	}

	column, ok := articleOrderColumns[filter.OrderBy]
	if !ok {
		return "", ErrArticleOrderInvalid
	}

	direction := "asc"
	if filter.Descending {
		direction = "desc"
	}
	return column + " " + direction + ", articles.id " + direction, nil
}
