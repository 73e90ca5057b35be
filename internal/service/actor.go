package service

import "github.com/cruxlog/internal/db"

// canModify 判断操作者是否为资源作者本人或管理员
func canModify(actor *db.User, ownerID uint) bool {
	return actor != nil && (actor.IsStaff || actor.ID == ownerID)
}
