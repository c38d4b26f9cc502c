// Package authz 提供无状态的资源授权判定
package authz

import (
	"github.com/asaabil/manajemenpaper/internal/database"
)

// CanMutate 判断操作者是否可以修改归属于ownerID的资源
// 仅资源所有者本人或持有管理员角色的用户可以修改，无任何I/O
func CanMutate(actor *database.User, ownerID string) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.UserID == ownerID
}
