package service

import (
	"errors"
	"strings"

	"github.com/cruxlog/internal/db"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists       = errors.New("category already exists")
	ErrCategoryNotFound     = errors.New("category not found")
	ErrCategoryNameRequired = errors.New("category name is required")
)

// CategoryService wraps category related operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// 分类统计只计入已发布文章，草稿不参与计数
func (s *CategoryService) withArticleCount(query *gorm.DB) *gorm.DB {
	return query.
		Select("categories.*, COUNT(articles.id) AS article_count").
		Joins("LEFT JOIN articles ON articles.category_id = categories.id AND articles.status = ? AND articles.deleted_at IS NULL", db.ArticleStatusPublished).
		Group("categories.id")
}

// List returns categories ordered by name with published article counts.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.withArticleCount(s.db.Model(&db.Category{})).
		Order("categories.name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug fetches a single category with its published article count.
func (s *CategoryService) GetBySlug(slugValue string) (*db.Category, error) {
	var category db.Category
	if err := s.withArticleCount(s.db.Model(&db.Category{})).
		Where("categories.slug = ?", slugValue).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category with a slug derived from the name.
// Slug 只在首次保存时生成，之后不再重算。
func (s *CategoryService) Create(name, description string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrCategoryNameRequired
	}

	slugValue := slug.Make(name)

	var existing db.Category
	if err := s.db.Where("name = ? OR slug = ?", name, slugValue).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	category := db.Category{
		Name:        name,
		Slug:        slugValue,
		Description: strings.TrimSpace(description),
	}
	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}

	return &category, nil
}
