package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/cruxlog/internal/db"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupServiceTestDB(t *testing.T) (*gorm.DB, func()) {
	t.Helper()

	dsn := fmt.Sprintf("file:service-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := gdb.AutoMigrate(&db.User{}, &db.Profile{}, &db.Category{}, &db.Tag{}, &db.Article{}, &db.Comment{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	return gdb, func() {
		sqlDB, err := gdb.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	}
}

func seedUser(t *testing.T, gdb *gorm.DB, username string, staff bool) *db.User {
	t.Helper()

	user := db.User{Username: username, Password: "hashed", IsStaff: staff}
	if err := gdb.Create(&user).Error; err != nil {
		t.Fatalf("failed to seed user %s: %v", username, err)
	}
	if err := gdb.Create(&db.Profile{UserID: user.ID}).Error; err != nil {
		t.Fatalf("failed to seed profile for %s: %v", username, err)
	}
	return &user
}
