// Package file 提供本地文件存储服务
// 负责上传文件的落盘、命名防冲突、按类别分目录以及尽力而为的删除
// 所有写入都先经过大小校验，生成的存储名包含时间戳与随机段以避免并发冲突
package file

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/asaabil/manajemenpaper/config"
	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
	"github.com/asaabil/manajemenpaper/internal/logger"
)

// 存储类别，决定子目录与大小限额
const (
	// CategoryPapers 论文主文件与历史版本
	CategoryPapers = "papers"
	// CategoryArtifacts 论文附属资源文件
	CategoryArtifacts = "artifacts"
)

// Mirror 远端存储镜像钩子
// 由OSS同步服务实现，本地存储在落盘/删除后异步通知镜像
type Mirror interface {
	// MirrorUpload 将本地文件异步上传到远端存储
	MirrorUpload(localPath, category string)
	// MirrorDelete 异步删除远端存储中的对应对象
	MirrorDelete(localPath string)
}

// Store 文件存储接口
type Store interface {
	// SaveUpload 保存上传文件到指定类别目录，返回落盘后的文件描述
	SaveUpload(fh *multipart.FileHeader, category string) (database.StoredFile, error)
	// Remove 尽力而为地删除本地文件，失败仅记录日志、从不向调用方返回错误
	Remove(path string)
	// SetMirror 注册远端镜像钩子
	SetMirror(m Mirror)
}

type store struct {
	cfg    config.FileConfig
	mirror Mirror
}

// NewStore 创建文件存储服务并确保各类别目录存在
func NewStore(cfg config.FileConfig) (Store, error) {
	for _, sub := range []string{CategoryPapers, CategoryArtifacts} {
		dir := filepath.Join(cfg.UploadDir, sub)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, apperrors.Wrap(apperrors.ErrFileSaveFailed, "failed to create upload directory", err)
		}
	}
	return &store{cfg: cfg}, nil
}

func (s *store) SetMirror(m Mirror) {
	s.mirror = m
}

func (s *store) SaveUpload(fh *multipart.FileHeader, category string) (database.StoredFile, error) {
	var zero database.StoredFile
	if fh == nil {
		return zero, apperrors.New(apperrors.ErrInvalidParams, "no file provided")
	}

	maxSize := s.cfg.MaxPaperSize
	if category == CategoryArtifacts {
		maxSize = s.cfg.MaxArtifactSize
	}
	if maxSize > 0 && fh.Size > maxSize {
		return zero, apperrors.New(apperrors.ErrFileTooLarge, "file size exceeds limit").
			WithDetails(fmt.Sprintf("max %d bytes, got %d", maxSize, fh.Size))
	}

	dst := filepath.Join(s.cfg.UploadDir, category, s.storageName(fh.Filename, category))

	src, err := fh.Open()
	if err != nil {
		return zero, apperrors.Wrap(apperrors.ErrFileSaveFailed, "failed to open uploaded file", err)
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return zero, apperrors.Wrap(apperrors.ErrFileSaveFailed, "failed to create stored file", err)
	}
	written, err := io.Copy(out, src)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(dst)
		return zero, apperrors.Wrap(apperrors.ErrFileSaveFailed, "failed to write stored file", err)
	}

	logger.Debugf("Stored uploaded file: %s (%d bytes)", dst, written)
	if s.mirror != nil {
		go s.mirror.MirrorUpload(dst, category)
	}

	return database.StoredFile{
		Path:     dst,
		Filename: fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     written,
	}, nil
}

func (s *store) Remove(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		if !os.IsNotExist(err) {
			logger.Warnf("Failed to delete stored file %s: %v", path, err)
		}
		return
	}
	logger.Debugf("Deleted stored file: %s", path)
	if s.mirror != nil {
		go s.mirror.MirrorDelete(path)
	}
}

// storageName 生成防冲突的存储文件名: <类别>-<纳秒时间戳>-<随机段><原扩展名>
func (s *store) storageName(original, category string) string {
	ext := filepath.Ext(original)
	return fmt.Sprintf("%s-%d-%s%s", category, time.Now().UnixNano(), uuid.New().String()[:8], ext)
}
