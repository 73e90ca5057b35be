package handler

import (
	"net/http"

	"github.com/cruxlog/internal/service"
	"github.com/gin-gonic/gin"
)

type profileUpdateRequest struct {
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
	Website   *string `json:"website"`
}

type meUpdateRequest struct {
	Email     *string               `json:"email"`
	FirstName *string               `json:"first_name"`
	LastName  *string               `json:"last_name"`
	Profile   *profileUpdateRequest `json:"profile"`
}

// GetUsers 枚举全部用户，按注册时间倒序，仅管理员可用
func (a *API) GetUsers(c *gin.Context) {
	users, err := a.users.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取用户列表失败")
		return
	}

	response := make([]gin.H, 0, len(users))
	for i := range users {
		response = append(response, userJSON(&users[i]))
	}

	c.JSON(http.StatusOK, gin.H{"users": response})
}

// GetMe 返回当前登录用户及其资料
func (a *API) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": userJSON(currentUser(c))})
}

// UpdateMe 更新当前用户的身份字段，资料子对象存在时一并更新
func (a *API) UpdateMe(c *gin.Context) {
	var req meUpdateRequest
	if !bindJSON(c, &req, "无效的请求内容") {
		return
	}

	input := service.MeUpdate{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	}
	if req.Profile != nil {
		input.Profile = &service.ProfileUpdate{
			Bio:       req.Profile.Bio,
			AvatarURL: req.Profile.AvatarURL,
			Website:   req.Profile.Website,
		}
	}

	user, err := a.users.UpdateMe(currentUser(c).ID, input)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "更新个人信息失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "个人信息更新成功", "user": userJSON(user)})
}
