package service

import (
	"errors"
	"testing"

	"github.com/cruxlog/internal/db"
)

func TestCategoryCreateDerivesSlugOnce(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	category, err := svc.Create("Grande Voie", "多段线路")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	if category.Slug != "grande-voie" {
		t.Fatalf("unexpected slug: %s", category.Slug)
	}

	// 重命名后 slug 保持不变
	if err := gdb.Model(category).Update("name", "Grandes Voies").Error; err != nil {
		t.Fatalf("rename category: %v", err)
	}

	reloaded, err := svc.GetBySlug("grande-voie")
	if err != nil {
		t.Fatalf("get renamed category by original slug: %v", err)
	}
	if reloaded.Name != "Grandes Voies" {
		t.Fatalf("unexpected name after rename: %s", reloaded.Name)
	}
}

func TestCategoryCreateDuplicateName(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	if _, err := svc.Create("Bloc", ""); err != nil {
		t.Fatalf("create category: %v", err)
	}

	if _, err := svc.Create("Bloc", ""); !errors.Is(err, ErrCategoryExists) {
		t.Fatalf("expected ErrCategoryExists, got %v", err)
	}
}

func TestCategoryListCountsPublishedOnly(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	author := seedUser(t, gdb, "alex", false)

	svc := NewCategoryService(gdb)
	category, err := svc.Create("Alpinisme", "")
	if err != nil {
		t.Fatalf("create category: %v", err)
	}

	articles := []db.Article{
		{Title: "Published A", Slug: "published-a", Status: db.ArticleStatusPublished, UserID: author.ID, CategoryID: &category.ID},
		{Title: "Published B", Slug: "published-b", Status: db.ArticleStatusPublished, UserID: author.ID, CategoryID: &category.ID},
		{Title: "Draft", Slug: "draft", Status: db.ArticleStatusDraft, UserID: author.ID, CategoryID: &category.ID},
	}
	if err := gdb.Create(&articles).Error; err != nil {
		t.Fatalf("seed articles: %v", err)
	}

	list, err := svc.List()
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 category, got %d", len(list))
	}
	if list[0].ArticleCount != 2 {
		t.Fatalf("expected article_count=2 (drafts excluded), got %d", list[0].ArticleCount)
	}

	single, err := svc.GetBySlug("alpinisme")
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if single.ArticleCount != 2 {
		t.Fatalf("expected article_count=2 on detail, got %d", single.ArticleCount)
	}
}

func TestCategoryGetBySlugNotFound(t *testing.T) {
	gdb, cleanup := setupServiceTestDB(t)
	defer cleanup()

	svc := NewCategoryService(gdb)
	if _, err := svc.GetBySlug("missing"); !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}
