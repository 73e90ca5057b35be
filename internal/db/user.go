package db

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User 定义了用户模型
type User struct {
	gorm.Model
	Username  string `gorm:"unique;not null"`
	Email     string
	FirstName string
	LastName  string
	Password  string `gorm:"not null"`
	IsStaff   bool
	Profile   Profile   `gorm:"constraint:OnDelete:CASCADE"`
	Articles  []Article `gorm:"constraint:OnDelete:CASCADE"`
	Comments  []Comment `gorm:"constraint:OnDelete:CASCADE"`
}

// Profile 定义了用户的扩展资料，与用户一一对应
type Profile struct {
	gorm.Model
	UserID    uint `gorm:"uniqueIndex;not null"`
	Bio       string
	AvatarURL string
	Website   string
}

// EnsureStaffUser 存在性检查：若提供的用户名与密码均非空且不存在对应账号，
// 则创建一个 bcrypt 哈希的管理员用户及其空白资料。
func EnsureStaffUser(username, password string) error {
	trimmedUser := strings.TrimSpace(username)
	trimmedPassword := strings.TrimSpace(password)
	if trimmedUser == "" || trimmedPassword == "" {
		return nil
	}

	if DB == nil {
		return errors.New("database not initialized")
	}

	var existing User
	if err := DB.Where("username = ?", trimmedUser).First(&existing).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(trimmedPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}

		return DB.Transaction(func(tx *gorm.DB) error {
			user := User{Username: trimmedUser, Password: string(hashed), IsStaff: true}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return tx.Create(&Profile{UserID: user.ID}).Error
		})
	}

	return nil
}
