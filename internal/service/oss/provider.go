// Package oss 提供对象存储镜像服务
// 本地文件存储的远端副本：支持阿里云OSS、腾讯云COS和七牛云Kodo，
// 镜像操作全部异步执行并记录操作日志，失败不影响本地存储的主路径
package oss

import (
	"io"

	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
)

// 支持的提供商标识
const (
	ProviderAliyun  = "aliyun"
	ProviderTencent = "tencent"
	ProviderQiniu   = "qiniu"
)

// Provider 对象存储提供商接口
// 各云服务商SDK的最小统一抽象
type Provider interface {
	// UploadObject 上传对象
	UploadObject(objectKey string, reader io.Reader, contentType string) error
	// DeleteObject 删除对象
	DeleteObject(objectKey string) error
	// ObjectExists 检查对象是否存在
	ObjectExists(objectKey string) (bool, error)
	// TestConnection 测试配置可用性
	TestConnection() error
}

// NewProvider 按配置创建对应的提供商实例
func NewProvider(cfg *database.OSSConfig) (Provider, error) {
	switch cfg.Provider {
	case ProviderAliyun:
		return newAliyunProvider(cfg)
	case ProviderTencent:
		return newTencentProvider(cfg)
	case ProviderQiniu:
		return newQiniuProvider(cfg)
	default:
		return nil, apperrors.ErrOSSProviderNotSupportedError.WithDetails(cfg.Provider)
	}
}
