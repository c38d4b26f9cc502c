// Package search 提供论文检索服务
// 空查询不是"匹配全部"：返回空结果，浏览全部请使用论文列表接口
package search

import (
	"strings"

	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
)

// Result 检索结果
type Result struct {
	Papers []database.Paper `json:"papers"`
	Total  int64            `json:"total"`
	Page   int              `json:"page"`
	Limit  int              `json:"limit"`
}

// Service 检索服务接口
type Service interface {
	// Search 在标题、摘要、作者、关键词和分类上做大小写不敏感的子串匹配
	// 查询串为空或全空白时返回空结果
	Search(query string, page, limit int) (*Result, error)
}

type searchService struct {
	db *gorm.DB
}

// NewService 创建检索服务实例
func NewService(db *gorm.DB) Service {
	return &searchService{db: db}
}

func (s *searchService) Search(query string, page, limit int) (*Result, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	q := strings.TrimSpace(query)
	if q == "" {
		return &Result{Papers: []database.Paper{}, Page: page, Limit: limit}, nil
	}

	pattern := "%" + strings.ToLower(q) + "%"
	tx := s.db.Model(&database.Paper{}).Where(
		"LOWER(title) LIKE ? OR LOWER(abstract) LIKE ? OR LOWER(authors) LIKE ? OR LOWER(keywords) LIKE ? OR LOWER(categories) LIKE ?",
		pattern, pattern, pattern, pattern, pattern,
	)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to count search results", err)
	}
	var papers []database.Paper
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&papers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to search papers", err)
	}

	return &Result{Papers: papers, Total: total, Page: page, Limit: limit}, nil
}
