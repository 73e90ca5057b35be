package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/cruxlog/internal/db"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func setupTestDB(t *testing.T) (*API, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:handler-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Profile{}, &db.Category{}, &db.Tag{}, &db.Article{}, &db.Comment{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	db.DB = gdb

	return NewAPI(gdb, "data/uploads", "/uploads"), func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}

func seedTestUser(t *testing.T, api *API, username string, staff bool) *db.User {
	t.Helper()

	user := db.User{Username: username, Password: "hashed", IsStaff: staff}
	if err := api.DB().Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	if err := api.DB().Create(&db.Profile{UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed to seed profile for %s: %v", username, err)
	}
	return &user
}

// newTestContext 构造一个携带请求和可选登录身份的测试上下文
func newTestContext(t *testing.T, req *http.Request, user *db.User) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	if user != nil {
		c.Set(currentUserKey, user)
	}
	return c, w
}
