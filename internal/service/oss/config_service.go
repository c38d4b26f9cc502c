package oss

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
	"github.com/asaabil/manajemenpaper/internal/logger"
)

// CreateConfigRequest 创建镜像配置的请求参数
type CreateConfigRequest struct {
	Name      string `json:"name" binding:"required"`
	Provider  string `json:"provider" binding:"required"`
	Region    string `json:"region" binding:"required"`
	Bucket    string `json:"bucket" binding:"required"`
	AccessKey string `json:"access_key" binding:"required"`
	SecretKey string `json:"secret_key" binding:"required"`
	Endpoint  string `json:"endpoint"`
	Prefix    string `json:"prefix"`
}

// UpdateConfigRequest 更新镜像配置的请求参数，未提供的字段保持不变
type UpdateConfigRequest struct {
	Name      *string `json:"name"`
	Region    *string `json:"region"`
	Bucket    *string `json:"bucket"`
	AccessKey *string `json:"access_key"`
	SecretKey *string `json:"secret_key"`
	Endpoint  *string `json:"endpoint"`
	Prefix    *string `json:"prefix"`
	IsEnabled *bool   `json:"is_enabled"`
}

// ConfigService 镜像配置管理服务接口
// 同一时刻至多一个激活配置，激活新配置自动取消旧配置
type ConfigService interface {
	// CreateConfig 创建镜像配置
	CreateConfig(req *CreateConfigRequest) (*database.OSSConfig, error)
	// UpdateConfig 更新镜像配置，provider不可变更
	UpdateConfig(id uint, req *UpdateConfigRequest) (*database.OSSConfig, error)
	// ListConfigs 查询全部镜像配置
	ListConfigs() ([]database.OSSConfig, error)
	// GetConfigByID 按ID查询镜像配置
	GetConfigByID(id uint) (*database.OSSConfig, error)
	// ActivateConfig 激活指定配置并取消其它激活配置
	ActivateConfig(id uint) error
	// DeleteConfig 删除镜像配置，激活中的配置不可删除
	DeleteConfig(id uint) error
	// TestConfig 用真实凭证测试配置连通性
	TestConfig(id uint) error
	// GetSyncLogs 分页查询镜像操作日志
	GetSyncLogs(page, limit int) ([]database.SyncLog, int64, error)
}

type configService struct {
	db *gorm.DB
}

// NewConfigService 创建镜像配置管理服务实例
func NewConfigService(db *gorm.DB) ConfigService {
	return &configService{db: db}
}

func (s *configService) CreateConfig(req *CreateConfigRequest) (*database.OSSConfig, error) {
	switch req.Provider {
	case ProviderAliyun, ProviderTencent, ProviderQiniu:
	default:
		return nil, apperrors.ErrOSSProviderNotSupportedError.WithDetails(req.Provider)
	}

	cfg := &database.OSSConfig{
		Name:      strings.TrimSpace(req.Name),
		Provider:  req.Provider,
		Region:    strings.TrimSpace(req.Region),
		Bucket:    strings.TrimSpace(req.Bucket),
		AccessKey: strings.TrimSpace(req.AccessKey),
		SecretKey: strings.TrimSpace(req.SecretKey),
		Endpoint:  strings.TrimSpace(req.Endpoint),
		Prefix:    strings.Trim(strings.TrimSpace(req.Prefix), "/"),
		IsEnabled: true,
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "uploads"
	}
	if err := s.db.Create(cfg).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to create oss config", err)
	}
	logger.Infof("OSS config %q (%s) created", cfg.Name, cfg.Provider)
	return cfg, nil
}

func (s *configService) UpdateConfig(id uint, req *UpdateConfigRequest) (*database.OSSConfig, error) {
	cfg, err := s.GetConfigByID(id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		cfg.Name = strings.TrimSpace(*req.Name)
	}
	if req.Region != nil {
		cfg.Region = strings.TrimSpace(*req.Region)
	}
	if req.Bucket != nil {
		cfg.Bucket = strings.TrimSpace(*req.Bucket)
	}
	if req.AccessKey != nil {
		cfg.AccessKey = strings.TrimSpace(*req.AccessKey)
	}
	if req.SecretKey != nil {
		cfg.SecretKey = strings.TrimSpace(*req.SecretKey)
	}
	if req.Endpoint != nil {
		cfg.Endpoint = strings.TrimSpace(*req.Endpoint)
	}
	if req.Prefix != nil {
		cfg.Prefix = strings.Trim(strings.TrimSpace(*req.Prefix), "/")
	}
	if req.IsEnabled != nil {
		if cfg.IsActive && !*req.IsEnabled {
			return nil, apperrors.ErrInvalidParameters.WithDetails("cannot disable the active config")
		}
		cfg.IsEnabled = *req.IsEnabled
	}

	if err := s.db.Save(cfg).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to update oss config", err)
	}
	logger.Infof("OSS config %q updated", cfg.Name)
	return cfg, nil
}

func (s *configService) ListConfigs() ([]database.OSSConfig, error) {
	var configs []database.OSSConfig
	if err := s.db.Order("created_at DESC").Find(&configs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to list oss configs", err)
	}
	return configs, nil
}

func (s *configService) GetConfigByID(id uint) (*database.OSSConfig, error) {
	var cfg database.OSSConfig
	if err := s.db.First(&cfg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrOSSConfigNotFoundError
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to query oss config", err)
	}
	return &cfg, nil
}

func (s *configService) ActivateConfig(id uint) error {
	cfg, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}
	if !cfg.IsEnabled {
		return apperrors.ErrInvalidParameters.WithDetails("config is disabled")
	}

	// 取消激活与激活在同一事务内完成，保证至多一个激活配置
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&database.OSSConfig{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(cfg).Update("is_active", true).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to activate oss config", err)
	}
	logger.Infof("OSS config %q activated", cfg.Name)
	return nil
}

func (s *configService) DeleteConfig(id uint) error {
	cfg, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}
	if cfg.IsActive {
		return apperrors.ErrInvalidParameters.WithDetails("cannot delete the active config")
	}
	if err := s.db.Delete(cfg).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to delete oss config", err)
	}
	return nil
}

func (s *configService) TestConfig(id uint) error {
	cfg, err := s.GetConfigByID(id)
	if err != nil {
		return err
	}
	provider, err := NewProvider(cfg)
	if err != nil {
		return err
	}
	if err := provider.TestConnection(); err != nil {
		return apperrors.Wrap(apperrors.ErrOSSConnectionFailed, "connection test failed", err)
	}
	return nil
}

func (s *configService) GetSyncLogs(page, limit int) ([]database.SyncLog, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	var total int64
	if err := s.db.Model(&database.SyncLog{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, "failed to count sync logs", err)
	}
	var logs []database.SyncLog
	if err := s.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, "failed to list sync logs", err)
	}
	return logs, total, nil
}
