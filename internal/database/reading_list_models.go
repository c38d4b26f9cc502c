// Package database 定义了阅读列表相关的数据库模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// ReadingList 阅读列表模型
// 用户自建的论文引用集合，支持公开/私有可见性
type ReadingList struct {
	ID          uint           `gorm:"primarykey" json:"-"`                         // 主键ID，自增
	ListID      string         `gorm:"uniqueIndex;not null;size:36" json:"list_id"` // 列表唯一标识符（UUID格式）
	OwnerID     string         `gorm:"not null;index;size:36" json:"owner_id"`      // 所有者用户ID
	Name        string         `gorm:"not null;size:200" json:"name"`               // 列表名称，必填
	Description string         `gorm:"size:500" json:"description"`                 // 列表描述，可选
	IsPublic    bool           `gorm:"default:false" json:"is_public"`              // 是否公开，默认私有
	CreatedAt   time.Time      `json:"created_at"`                                  // 记录创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                  // 记录最后更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                              // 软删除时间戳，支持逻辑删除

	// 关联关系
	Items []ReadingListItem `gorm:"foreignKey:ListID;references:ListID" json:"items,omitempty"` // 列表条目

	// 按需装配的瞬态字段
	Papers []Paper `gorm:"-" json:"papers,omitempty"` // 条目引用的论文，已删除的论文被过滤
}

// TableName 指定ReadingList模型对应的数据库表名
func (ReadingList) TableName() string {
	return "reading_lists"
}

// ReadingListItem 阅读列表条目模型
// 记录列表与论文的引用关系及加入时间
type ReadingListItem struct {
	ID      uint      `gorm:"primarykey" json:"-"`                    // 主键ID，自增
	ListID  string    `gorm:"not null;index;size:36" json:"list_id"`  // 所属列表ID
	PaperID string    `gorm:"not null;index;size:36" json:"paper_id"` // 引用的论文ID
	AddedAt time.Time `gorm:"autoCreateTime" json:"added_at"`         // 加入时间
}

// TableName 指定ReadingListItem模型对应的数据库表名
func (ReadingListItem) TableName() string {
	return "reading_list_items"
}
