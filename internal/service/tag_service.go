package service

import (
	"errors"
	"strings"

	"github.com/cruxlog/internal/db"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrTagExists       = errors.New("tag already exists")
	ErrTagNotFound     = errors.New("tag not found")
	ErrTagNameRequired = errors.New("tag name is required")
)

// TagService wraps tag related operations.
type TagService struct {
	db *gorm.DB
}

// NewTagService creates a TagService instance.
func NewTagService(gdb *gorm.DB) *TagService {
	return &TagService{db: gdb}
}

// List returns all tags ordered by name.
func (s *TagService) List() ([]db.Tag, error) {
	var tags []db.Tag
	if err := s.db.Order("name asc").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// GetBySlug fetches a single tag by its slug.
func (s *TagService) GetBySlug(slugValue string) (*db.Tag, error) {
	var tag db.Tag
	if err := s.db.Where("slug = ?", slugValue).First(&tag).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTagNotFound
		}
		return nil, err
	}
	return &tag, nil
}

// Create inserts a new tag with a slug derived from the name.
// Slug 只在首次保存时生成，之后不再重算。
func (s *TagService) Create(name string) (*db.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrTagNameRequired
	}

	slugValue := slug.Make(name)

	var existing db.Tag
	if err := s.db.Where("name = ? OR slug = ?", name, slugValue).First(&existing).Error; err == nil {
		return nil, ErrTagExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	tag := db.Tag{Name: name, Slug: slugValue}
	if err := s.db.Create(&tag).Error; err != nil {
		return nil, err
	}

	return &tag, nil
}
