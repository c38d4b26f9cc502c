package oss

import (
	"errors"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/database"
	"github.com/asaabil/manajemenpaper/internal/logger"
)

// MirrorService 存储镜像服务
// 实现本地文件存储的远端镜像钩子：上传与删除在独立goroutine中执行，
// 每次操作写一条SyncLog日志；没有激活配置时静默跳过
// 镜像是尽力而为的最终一致副本，任何失败都不回传给本地存储
type MirrorService struct {
	db *gorm.DB

	mu       sync.Mutex
	provider Provider
	cfg      *database.OSSConfig
}

// NewMirrorService 创建存储镜像服务实例
func NewMirrorService(db *gorm.DB) *MirrorService {
	return &MirrorService{db: db}
}

// MirrorUpload 将本地文件镜像到激活的对象存储
func (s *MirrorService) MirrorUpload(localPath, category string) {
	provider, cfg := s.activeProvider()
	if provider == nil {
		return
	}

	start := time.Now()
	objectKey := s.objectKey(cfg, localPath)
	entry := &database.SyncLog{
		LocalPath:   localPath,
		ObjectKey:   objectKey,
		OSSConfigID: cfg.ID,
		Action:      database.SyncActionUpload,
		Status:      database.SyncStatusSuccess,
	}

	f, err := os.Open(localPath)
	if err != nil {
		s.finishLog(entry, start, err)
		return
	}
	defer f.Close()
	if info, err := f.Stat(); err == nil {
		entry.FileSize = info.Size()
	}

	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	err = provider.UploadObject(objectKey, f, contentType)
	s.finishLog(entry, start, err)
}

// MirrorDelete 删除对象存储中的镜像副本
func (s *MirrorService) MirrorDelete(localPath string) {
	provider, cfg := s.activeProvider()
	if provider == nil {
		return
	}

	start := time.Now()
	objectKey := s.objectKey(cfg, localPath)
	entry := &database.SyncLog{
		LocalPath:   localPath,
		ObjectKey:   objectKey,
		OSSConfigID: cfg.ID,
		Action:      database.SyncActionDelete,
		Status:      database.SyncStatusSuccess,
	}
	err := provider.DeleteObject(objectKey)
	s.finishLog(entry, start, err)
}

// Invalidate 丢弃缓存的提供商实例，配置变更后由下一次镜像操作重建
func (s *MirrorService) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = nil
	s.cfg = nil
}

// activeProvider 返回激活配置对应的提供商，无激活配置时返回nil
// 实例按配置缓存，避免每次镜像操作都重建客户端
func (s *MirrorService) activeProvider() (Provider, *database.OSSConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var cfg database.OSSConfig
	err := s.db.Where("is_active = ? AND is_enabled = ?", true, true).First(&cfg).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warnf("Failed to load active OSS config: %v", err)
		}
		return nil, nil
	}

	if s.provider != nil && s.cfg != nil && s.cfg.ID == cfg.ID && s.cfg.UpdatedAt.Equal(cfg.UpdatedAt) {
		return s.provider, s.cfg
	}

	provider, err := NewProvider(&cfg)
	if err != nil {
		logger.Warnf("Failed to create OSS provider %s: %v", cfg.Provider, err)
		return nil, nil
	}
	s.provider = provider
	s.cfg = &cfg
	return provider, &cfg
}

// objectKey 由本地路径推导对象键: <前缀>/<类别目录>/<文件名>
func (s *MirrorService) objectKey(cfg *database.OSSConfig, localPath string) string {
	category := filepath.Base(filepath.Dir(localPath))
	return path.Join(cfg.Prefix, category, filepath.Base(localPath))
}

func (s *MirrorService) finishLog(entry *database.SyncLog, start time.Time, opErr error) {
	entry.Duration = time.Since(start).Milliseconds()
	if opErr != nil {
		entry.Status = database.SyncStatusFailed
		entry.ErrorMsg = opErr.Error()
		logger.Warnf("Mirror %s of %s failed: %v", entry.Action, entry.LocalPath, opErr)
	}
	if err := s.db.Create(entry).Error; err != nil {
		logger.Warnf("Failed to write sync log for %s: %v", entry.LocalPath, err)
	}
}
