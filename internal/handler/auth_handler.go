package handler

import (
	"errors"
	"net/http"

	"github.com/cruxlog/internal/db"
	"github.com/cruxlog/internal/service"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	sessionUserIDKey = "user_id"
	currentUserKey   = "__current_user"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 注册新用户，同时创建对应的空白资料
func (a *API) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req, "用户名和密码不能为空") {
		return
	}

	user, err := a.users.Register(req.Username, req.Email, req.Password)
	if err != nil {
		respondAuthError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "注册成功", "user": userJSON(user)})
}

// Login 处理用户登录请求并写入会话
func (a *API) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "用户名和密码不能为空") {
		return
	}

	user, err := a.users.Authenticate(req.Username, req.Password)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserIDKey, user.ID)
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "登录成功", "user": userJSON(user)})
}

// Logout 清除会话，处理用户登出
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// LoadCurrentUser 从会话解析当前用户并放入请求上下文。
// 匿名请求不会被拦截，后续处理按未登录身份执行。
func (a *API) LoadCurrentUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		rawID := session.Get(sessionUserIDKey)
		if rawID == nil {
			c.Next()
			return
		}

		userID, ok := rawID.(uint)
		if !ok {
			c.Next()
			return
		}

		user, err := a.users.GetByID(userID)
		if err != nil {
			// 会话指向的用户已不存在，按匿名处理
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// AuthRequired 要求请求携带有效的登录身份
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c) == nil {
			respondError(c, http.StatusUnauthorized, "请先登录")
			c.Abort()
			return
		}
		c.Next()
	}
}

// StaffRequired 要求当前用户为管理员
func StaffRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil || !user.IsStaff {
			respondError(c, http.StatusForbidden, "需要管理员权限")
			c.Abort()
			return
		}
		c.Next()
	}
}

// currentUser 返回上下文中的当前用户，匿名请求返回 nil
func currentUser(c *gin.Context) *db.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*db.User)
	if !ok {
		return nil
	}
	return user
}

func respondAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserExists):
		respondError(c, http.StatusConflict, "用户名已被占用")
	case errors.Is(err, service.ErrUserInputRequired):
		respondError(c, http.StatusBadRequest, "用户名和密码不能为空")
	default:
		respondError(c, http.StatusInternalServerError, "注册失败")
	}
}
