package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cruxlog/internal/db"
	"github.com/gin-gonic/gin"
)

func createTestArticle(t *testing.T, api *API, user *db.User, payload map[string]any) string {
	t.Helper()

	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/articles", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	c, w := newTestContext(t, req, user)
	api.CreateArticle(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201 creating article, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Article struct {
			Slug string `json:"slug"`
		} `json:"article"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	return resp.Article.Slug
}

func TestCreateArticleForcesAuthor(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	author := seedTestUser(t, api, "alex", false)
	intruder := seedTestUser(t, api, "intruder", false)

	// payload 中无法指定作者，作者始终是当前登录用户
	slug := createTestArticle(t, api, author, map[string]any{
		"title":  "Mon Topo",
		"author": intruder.ID,
	})

	var created db.Article
	if err := api.DB().Where("slug = ?", slug).First(&created).Error; err != nil {
		t.Fatalf("failed to load created article: %v", err)
	}
	if created.UserID != author.ID {
		t.Fatalf("author must be the requester, got %d", created.UserID)
	}
}

func TestAnonymousListOnlyPublished(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	author := seedTestUser(t, api, "alex", false)
	createTestArticle(t, api, author, map[string]any{"title": "Publié", "status": "published"})
	createTestArticle(t, api, author, map[string]any{"title": "Brouillon", "status": "draft"})

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	c, w := newTestContext(t, req, nil)
	api.GetArticles(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var resp struct {
		Articles []struct {
			Title  string `json:"title"`
			Status string `json:"status"`
		} `json:"articles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Articles) != 1 || resp.Articles[0].Title != "Publié" {
		t.Fatalf("anonymous callers must only see published articles: %+v", resp.Articles)
	}
}

func TestDraftHiddenFromOtherUsers(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	owner := seedTestUser(t, api, "owner", false)
	other := seedTestUser(t, api, "other", false)
	createTestArticle(t, api, owner, map[string]any{"title": "Secret", "status": "draft"})

	list := func(user *db.User) int {
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		c, w := newTestContext(t, req, user)
		api.GetArticles(c)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var resp struct {
			Articles []json.RawMessage `json:"articles"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return len(resp.Articles)
	}

	if got := list(other); got != 0 {
		t.Fatalf("other users must not see the draft, got %d articles", got)
	}
	if got := list(owner); got != 1 {
		t.Fatalf("the owner must see their own draft, got %d articles", got)
	}
}

func TestArticleListOmitsContentDetailIncludesIt(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	author := seedTestUser(t, api, "alex", false)
	slug := createTestArticle(t, api, author, map[string]any{
		"title":   "Avec Contenu",
		"content": "# Titre\nLe corps de l'article.",
		"status":  "published",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
	c, w := newTestContext(t, req, nil)
	api.GetArticles(c)

	var listResp struct {
		Articles []map[string]json.RawMessage `json:"articles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(listResp.Articles) != 1 {
		t.Fatalf("expected 1 article, got %d", len(listResp.Articles))
	}
	if _, exists := listResp.Articles[0]["content"]; exists {
		t.Fatalf("list view must not carry the content field")
	}
	if _, exists := listResp.Articles[0]["comments"]; exists {
		t.Fatalf("list view must not carry the comment tree")
	}

	detailReq := httptest.NewRequest(http.MethodGet, "/api/articles/"+slug, nil)
	c, w = newTestContext(t, detailReq, nil)
	c.Params = gin.Params{gin.Param{Key: "slug", Value: slug}}
	api.GetArticle(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var detailResp struct {
		Article map[string]json.RawMessage `json:"article"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &detailResp); err != nil {
		t.Fatalf("failed to decode detail response: %v", err)
	}
	if _, exists := detailResp.Article["content"]; !exists {
		t.Fatalf("detail view must carry the content field")
	}
	if _, exists := detailResp.Article["content_html"]; !exists {
		t.Fatalf("detail view must carry rendered HTML")
	}
	if _, exists := detailResp.Article["comments"]; !exists {
		t.Fatalf("detail view must carry the comment tree")
	}
}

func TestUpdateArticleForbiddenForNonAuthor(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	owner := seedTestUser(t, api, "owner", false)
	other := seedTestUser(t, api, "other", false)
	slug := createTestArticle(t, api, owner, map[string]any{"title": "Protégé", "status": "published"})

	payload := map[string]any{"title": "Piraté"}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPatch, "/api/articles/"+slug, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	c, w := newTestContext(t, req, other)
	c.Params = gin.Params{gin.Param{Key: "slug", Value: slug}}
	api.UpdateArticle(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}
}

func TestDeleteArticleForbiddenKeepsArticle(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	owner := seedTestUser(t, api, "owner", false)
	other := seedTestUser(t, api, "other", false)
	slug := createTestArticle(t, api, owner, map[string]any{"title": "Durable", "status": "published"})

	req := httptest.NewRequest(http.MethodDelete, "/api/articles/"+slug, nil)
	c, w := newTestContext(t, req, other)
	c.Params = gin.Params{gin.Param{Key: "slug", Value: slug}}
	api.DeleteArticle(c)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", w.Code)
	}

	var count int64
	api.DB().Model(&db.Article{}).Where("slug = ?", slug).Count(&count)
	if count != 1 {
		t.Fatalf("article must persist after a forbidden delete")
	}
}

func TestUpdateArticleClearsCategoryWithNull(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	author := seedTestUser(t, api, "alex", false)
	category := db.Category{Name: "Bloc", Slug: "bloc"}
	if err := api.DB().Create(&category).Error; err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	slug := createTestArticle(t, api, author, map[string]any{
		"title":    "Catégorisé",
		"category": category.ID,
	})

	body := []byte(`{"category": null}`)
	req := httptest.NewRequest(http.MethodPatch, "/api/articles/"+slug, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	c, w := newTestContext(t, req, author)
	c.Params = gin.Params{gin.Param{Key: "slug", Value: slug}}
	api.UpdateArticle(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var article db.Article
	if err := api.DB().Where("slug = ?", slug).First(&article).Error; err != nil {
		t.Fatalf("failed to reload article: %v", err)
	}
	if article.CategoryID != nil {
		t.Fatalf("category should be cleared by an explicit null")
	}
}
