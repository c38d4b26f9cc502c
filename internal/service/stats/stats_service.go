// Package stats 提供内容统计服务
package stats

import (
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
)

// 排行榜长度
const topLimit = 10

// Overview 内容概览统计
type Overview struct {
	TotalPapers    int64 `json:"total_papers"`
	TotalUsers     int64 `json:"total_users"`
	TotalArtifacts int64 `json:"total_artifacts"`
	TotalViews     int64 `json:"total_views"`
	TotalDownloads int64 `json:"total_downloads"`
}

// Service 统计服务接口
type Service interface {
	// TopDownloaded 按下载次数排序的前十篇论文
	TopDownloaded() ([]database.Paper, error)
	// TopViewed 按查看次数排序的前十篇论文
	TopViewed() ([]database.Paper, error)
	// GetOverview 汇总论文、用户、附属资源数量与累计计数
	GetOverview() (*Overview, error)
}

type statsService struct {
	db *gorm.DB
}

// NewService 创建统计服务实例
func NewService(db *gorm.DB) Service {
	return &statsService{db: db}
}

func (s *statsService) TopDownloaded() ([]database.Paper, error) {
	return s.topBy("download_count DESC")
}

func (s *statsService) TopViewed() ([]database.Paper, error) {
	return s.topBy("view_count DESC")
}

func (s *statsService) topBy(order string) ([]database.Paper, error) {
	var papers []database.Paper
	if err := s.db.Order(order).Limit(topLimit).Find(&papers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to load top papers", err)
	}
	return papers, nil
}

func (s *statsService) GetOverview() (*Overview, error) {
	var o Overview
	if err := s.db.Model(&database.Paper{}).Count(&o.TotalPapers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to count papers", err)
	}
	if err := s.db.Model(&database.User{}).Count(&o.TotalUsers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to count users", err)
	}
	if err := s.db.Model(&database.Artifact{}).Count(&o.TotalArtifacts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to count artifacts", err)
	}

	type sums struct {
		Views     int64
		Downloads int64
	}
	var agg sums
	if err := s.db.Model(&database.Paper{}).
		Select("COALESCE(SUM(view_count),0) AS views, COALESCE(SUM(download_count),0) AS downloads").
		Scan(&agg).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to aggregate counters", err)
	}
	o.TotalViews = agg.Views
	o.TotalDownloads = agg.Downloads
	return &o, nil
}
