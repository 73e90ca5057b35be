package service

import (
	"errors"
	"strings"

	"github.com/cruxlog/internal/db"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserExists         = errors.New("username already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserInputRequired  = errors.New("username and password are required")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserService wraps user and profile related operations.
type UserService struct {
	db *gorm.DB
}

// ProfileUpdate 描述资料子对象中可修改的字段，指针为 nil 表示未提交
type ProfileUpdate struct {
	Bio       *string
	AvatarURL *string
	Website   *string
}

// MeUpdate 描述当前用户可修改的字段。
// Profile 为 nil 时表示请求中未携带资料子对象，资料保持不变。
type MeUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Profile   *ProfileUpdate
}

// NewUserService creates a UserService instance.
func NewUserService(gdb *gorm.DB) *UserService {
	return &UserService{db: gdb}
}

// Register creates a user together with an empty profile in one
// transaction. 资料与用户同时创建，保证一一对应。
func (s *UserService) Register(username, email, password string) (*db.User, error) {
	username = strings.TrimSpace(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return nil, ErrUserInputRequired
	}

	var existing db.User
	if err := s.db.Where("username = ?", username).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := db.User{
		Username: username,
		Email:    strings.TrimSpace(email),
		Password: string(hashed),
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		return tx.Create(&db.Profile{UserID: user.ID}).Error
	}); err != nil {
		return nil, err
	}

	return s.GetByID(user.ID)
}

// Authenticate verifies the credentials and returns the matching user.
func (s *UserService) Authenticate(username, password string) (*db.User, error) {
	var user db.User
	if err := s.db.Preload("Profile").Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// GetByID fetches a user with the profile preloaded.
func (s *UserService) GetByID(id uint) (*db.User, error) {
	var user db.User
	if err := s.db.Preload("Profile").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users ordered by registration time, newest first.
func (s *UserService) List() ([]db.User, error) {
	var users []db.User
	if err := s.db.Preload("Profile").Order("created_at desc, id desc").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateMe applies a partial update to the user's own identity fields
// and, when the profile sub-object is present, to the profile fields.
// 用户字段与资料字段在同一事务内一起落库。
func (s *UserService) UpdateMe(userID uint, input MeUpdate) (*db.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
	}
	if input.FirstName != nil {
		user.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		user.LastName = strings.TrimSpace(*input.LastName)
	}

	if input.Profile != nil {
		if input.Profile.Bio != nil {
			user.Profile.Bio = strings.TrimSpace(*input.Profile.Bio)
		}
		if input.Profile.AvatarURL != nil {
			user.Profile.AvatarURL = strings.TrimSpace(*input.Profile.AvatarURL)
		}
		if input.Profile.Website != nil {
			user.Profile.Website = strings.TrimSpace(*input.Profile.Website)
		}
	}

	if err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Profile", "Articles", "Comments").Save(user).Error; err != nil {
			return err
		}
		if input.Profile != nil {
			return tx.Save(&user.Profile).Error
		}
		return nil
	}); err != nil {
		return nil, err
	}

	return user, nil
}
