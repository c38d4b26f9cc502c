// Package readinglist 提供阅读列表服务
// 用户收藏论文的命名集合：所有者可增删条目，公开列表任何人可读
// 已被删除的论文在装配时自动过滤，不会出现在列表内容中
package readinglist

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/authz"
	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
	"github.com/asaabil/manajemenpaper/internal/logger"
)

// CreateRequest 创建阅读列表的请求参数
type CreateRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

// UpdateRequest 更新阅读列表的请求参数，仅提供的字段被修改
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

// Service 阅读列表服务接口
type Service interface {
	// Create 为当前用户创建阅读列表
	Create(req *CreateRequest, actor *database.User) (*database.ReadingList, error)
	// ListForUser 查询当前用户的全部阅读列表
	ListForUser(actor *database.User) ([]database.ReadingList, error)
	// GetByID 查询阅读列表并装配其论文内容
	// 非公开列表仅所有者与管理员可读
	GetByID(listID string, actor *database.User) (*database.ReadingList, error)
	// Update 部分更新阅读列表元数据
	Update(listID string, req *UpdateRequest, actor *database.User) (*database.ReadingList, error)
	// Delete 删除阅读列表及其全部条目，不影响论文本身
	Delete(listID string, actor *database.User) error
	// AddPaper 向列表添加论文，重复添加返回冲突错误
	AddPaper(listID, paperID string, actor *database.User) (*database.ReadingList, error)
	// RemovePaper 从列表移除论文
	RemovePaper(listID, paperID string, actor *database.User) (*database.ReadingList, error)
}

type readingListService struct {
	db *gorm.DB
}

// NewService 创建阅读列表服务实例
func NewService(db *gorm.DB) Service {
	return &readingListService{db: db}
}

func (s *readingListService) Create(req *CreateRequest, actor *database.User) (*database.ReadingList, error) {
	list := &database.ReadingList{
		ListID:      uuid.New().String(),
		OwnerID:     actor.UserID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		IsPublic:    req.IsPublic,
	}
	if list.Name == "" {
		return nil, apperrors.ErrInvalidParameters.WithDetails("name is required")
	}
	if err := s.db.Create(list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to create reading list", err)
	}
	logger.Infof("Reading list %s created by %s", list.ListID, actor.UserID)
	return list, nil
}

func (s *readingListService) ListForUser(actor *database.User) ([]database.ReadingList, error) {
	var lists []database.ReadingList
	if err := s.db.Where("owner_id = ?", actor.UserID).
		Order("created_at DESC").
		Find(&lists).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to list reading lists", err)
	}
	return lists, nil
}

func (s *readingListService) GetByID(listID string, actor *database.User) (*database.ReadingList, error) {
	list, err := s.findByPublicID(listID)
	if err != nil {
		return nil, err
	}
	if !list.IsPublic && !authz.CanMutate(actor, list.OwnerID) {
		return nil, apperrors.ErrNotAuthorizedError
	}
	if err := s.attachPapers(list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *readingListService) Update(listID string, req *UpdateRequest, actor *database.User) (*database.ReadingList, error) {
	list, err := s.findByPublicID(listID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, list.OwnerID) {
		return nil, apperrors.ErrNotAuthorizedError
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		list.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		list.Description = strings.TrimSpace(*req.Description)
	}
	if req.IsPublic != nil {
		list.IsPublic = *req.IsPublic
	}

	if err := s.db.Save(list).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to update reading list", err)
	}
	return list, nil
}

func (s *readingListService) Delete(listID string, actor *database.User) error {
	list, err := s.findByPublicID(listID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actor, list.OwnerID) {
		return apperrors.ErrNotAuthorizedError
	}

	if err := s.db.Where("list_id = ?", list.ListID).Delete(&database.ReadingListItem{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to delete reading list items", err)
	}
	if err := s.db.Delete(list).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to delete reading list", err)
	}
	return nil
}

func (s *readingListService) AddPaper(listID, paperID string, actor *database.User) (*database.ReadingList, error) {
	list, err := s.findByPublicID(listID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, list.OwnerID) {
		return nil, apperrors.ErrNotAuthorizedError
	}

	var paper database.Paper
	if err := s.db.Where("paper_id = ?", paperID).First(&paper).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaperNotFoundError
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to query paper", err)
	}

	var count int64
	if err := s.db.Model(&database.ReadingListItem{}).
		Where("list_id = ? AND paper_id = ?", list.ListID, paper.PaperID).
		Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to check reading list item", err)
	}
	if count > 0 {
		return nil, apperrors.ErrPaperAlreadyInListError
	}

	item := &database.ReadingListItem{ListID: list.ListID, PaperID: paper.PaperID}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to add paper to reading list", err)
	}

	if err := s.attachPapers(list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *readingListService) RemovePaper(listID, paperID string, actor *database.User) (*database.ReadingList, error) {
	list, err := s.findByPublicID(listID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, list.OwnerID) {
		return nil, apperrors.ErrNotAuthorizedError
	}

	if err := s.db.Where("list_id = ? AND paper_id = ?", list.ListID, paperID).
		Delete(&database.ReadingListItem{}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to remove paper from reading list", err)
	}

	if err := s.attachPapers(list); err != nil {
		return nil, err
	}
	return list, nil
}

func (s *readingListService) findByPublicID(listID string) (*database.ReadingList, error) {
	var list database.ReadingList
	if err := s.db.Where("list_id = ?", listID).First(&list).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrReadingListNotFoundError
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to query reading list", err)
	}
	return &list, nil
}

// attachPapers 装配列表引用的论文
// 按加入顺序排列；软删除的论文被查询自然过滤，残留条目不产生空洞
func (s *readingListService) attachPapers(list *database.ReadingList) error {
	var items []database.ReadingListItem
	if err := s.db.Where("list_id = ?", list.ListID).
		Order("added_at ASC").
		Find(&items).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to load reading list items", err)
	}
	list.Items = items
	list.Papers = make([]database.Paper, 0, len(items))
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].PaperID)
	}
	var papers []database.Paper
	if err := s.db.Where("paper_id IN ?", ids).Find(&papers).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to load reading list papers", err)
	}
	byID := make(map[string]database.Paper, len(papers))
	for i := range papers {
		byID[papers[i].PaperID] = papers[i]
	}
	for i := range items {
		if p, ok := byID[items[i].PaperID]; ok {
			list.Papers = append(list.Papers, p)
		}
	}
	return nil
}
