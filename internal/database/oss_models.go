// Package database 定义了存储镜像相关的数据库模型
// 包含对象存储配置和镜像操作日志等数据模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// OSSConfig 对象存储镜像配置模型
// 管理不同云服务商的对象存储配置，镜像上传的论文与附属资源文件
// 系统中同一时刻至多一个激活配置
type OSSConfig struct {
	ID        uint           `gorm:"primarykey" json:"id"`                          // 主键ID，自增
	Name      string         `gorm:"not null;size:100" json:"name"`                 // 配置名称
	Provider  string         `gorm:"not null;size:20" json:"provider"`              // 服务提供商：aliyun、tencent、qiniu
	Region    string         `gorm:"not null;size:50" json:"region"`                // 服务区域
	Bucket    string         `gorm:"not null;size:100" json:"bucket"`               // 存储桶名称
	AccessKey string         `gorm:"not null;size:100" json:"access_key"`           // 访问密钥ID
	SecretKey string         `gorm:"not null;size:200" json:"secret_key,omitempty"` // 访问密钥Secret，敏感信息
	Endpoint  string         `gorm:"size:200" json:"endpoint"`                      // 自定义服务端点，可选
	Prefix    string         `gorm:"size:200;default:'uploads'" json:"prefix"`      // 对象键前缀
	IsActive  bool           `gorm:"default:false" json:"is_active"`                // 是否为当前激活配置
	IsEnabled bool           `gorm:"default:true" json:"is_enabled"`                // 配置是否启用
	CreatedAt time.Time      `json:"created_at"`                                    // 配置创建时间
	UpdatedAt time.Time      `json:"updated_at"`                                    // 配置最后修改时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间戳
}

// TableName 指定OSSConfig模型对应的数据库表名
func (OSSConfig) TableName() string {
	return "oss_configs"
}

// 镜像操作类型常量
const (
	SyncActionUpload = "upload" // 镜像上传
	SyncActionDelete = "delete" // 镜像删除
)

// 镜像操作状态常量
const (
	SyncStatusSuccess = "success" // 成功
	SyncStatusFailed  = "failed"  // 失败
)

// SyncLog 镜像操作日志模型
// 记录本地文件与对象存储之间的镜像操作历史，用于排查最终一致性缺口
type SyncLog struct {
	ID          uint           `gorm:"primarykey" json:"id"`                               // 主键ID，自增
	LocalPath   string         `gorm:"not null;size:500" json:"local_path"`                // 本地文件路径
	ObjectKey   string         `gorm:"size:500" json:"object_key"`                         // 对象存储中的键名
	OSSConfigID uint           `gorm:"not null" json:"oss_config_id"`                      // 关联的镜像配置ID
	OSSConfig   OSSConfig      `gorm:"foreignKey:OSSConfigID" json:"oss_config,omitempty"` // 关联的镜像配置对象
	Action      string         `gorm:"not null;size:20" json:"action"`                     // 操作类型：upload、delete
	Status      string         `gorm:"not null;size:20" json:"status"`                     // 操作状态：success、failed
	ErrorMsg    string         `gorm:"type:text" json:"error_msg"`                         // 失败时的详细错误信息
	FileSize    int64          `json:"file_size"`                                          // 文件大小，单位为字节
	Duration    int64          `json:"duration"`                                           // 操作耗时，单位为毫秒
	CreatedAt   time.Time      `json:"created_at"`                                         // 日志创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                         // 日志最后更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                     // 软删除时间戳
}

// TableName 指定SyncLog模型对应的数据库表名
func (SyncLog) TableName() string {
	return "sync_logs"
}
