// Package database 定义了用户相关的数据库模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// 用户角色常量
// 系统识别三个授权层级：管理员、教师、学生
const (
	RoleAdmin   = "admin"   // 管理员，可操作任意资源
	RoleFaculty = "faculty" // 教师，可上传和管理自己的论文
	RoleStudent = "student" // 学生，仅可浏览与管理阅读列表
)

// User 用户模型
// 存储注册用户的身份信息、角色和登录凭证哈希
type User struct {
	ID           uint           `gorm:"primarykey" json:"-"`                          // 主键ID，自增
	UserID       string         `gorm:"uniqueIndex;not null;size:36" json:"user_id"`  // 用户唯一标识符（UUID格式）
	Name         string         `gorm:"not null;size:100" json:"name"`                // 用户姓名，必填
	Email        string         `gorm:"uniqueIndex;not null;size:255" json:"email"`   // 邮箱地址，必填且唯一
	PasswordHash string         `gorm:"not null;size:100" json:"-"`                   // 密码哈希（bcrypt），响应中永不返回
	Role         string         `gorm:"not null;size:20;default:'student'" json:"role"` // 用户角色：admin、faculty、student
	Affiliation  string         `gorm:"size:200" json:"affiliation"`                  // 所属机构，可选
	ResetToken   string         `gorm:"index;size:36" json:"-"`                       // 密码重置令牌，未发起重置时为空
	ResetExpires *time.Time     `json:"-"`                                            // 重置令牌过期时间
	CreatedAt    time.Time      `json:"created_at"`                                   // 记录创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                                   // 记录最后更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                               // 软删除时间戳，支持逻辑删除
}

// TableName 指定User模型对应的数据库表名
func (User) TableName() string {
	return "users"
}

// IsAdmin 判断用户是否为管理员
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PublicUser 用户公开信息
// 嵌入在论文等资源的响应中，仅包含可公开的字段
type PublicUser struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Public 返回用户的公开信息视图
func (u *User) Public() PublicUser {
	return PublicUser{
		UserID: u.UserID,
		Name:   u.Name,
		Email:  u.Email,
	}
}
