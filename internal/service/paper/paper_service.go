// Package paper 提供论文聚合管理服务
// 论文记录与其主文件、历史版本和附属资源作为一个聚合被统一管理：
// 创建与更新接收multipart表单并重建附属资源意图，更新对附属资源做整体替换，
// 删除级联清理附属资源及其文件，查看与下载同步累加计数
package paper

import (
	"errors"
	"math"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/authz"
	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
	"github.com/asaabil/manajemenpaper/internal/logger"
	fileservice "github.com/asaabil/manajemenpaper/internal/service/file"
)

// 论文主文件字段名，表单中此名称的上传文件被识别为主PDF
const PrimaryFileField = "paperFile"

// ListResult 分页查询结果
type ListResult struct {
	Papers      []database.Paper `json:"papers"`
	Total       int64            `json:"total"`
	Page        int              `json:"page"`
	Limit       int              `json:"limit"`
	TotalPages  int              `json:"totalPages"`
	HasNextPage bool             `json:"hasNextPage"`
	HasPrevPage bool             `json:"hasPrevPage"`
}

// Service 论文聚合服务接口
type Service interface {
	// Create 创建论文及其附属资源
	// 表单必须包含名为paperFile的PDF主文件，缺失或类型不符时整个操作失败且不落任何记录
	// 附属资源意图从同一表单重建，单个资源落库失败不阻断论文创建
	Create(form map[string][]string, files []UploadedFile, actor *database.User) (*database.Paper, error)
	// Update 部分更新论文元数据并整体替换附属资源
	// 仅补丁表单中出现的字段；表单携带新主文件时旧文件在持久化成功后删除；
	// 附属资源集合以本次表单重建结果为准，旧集合连同其文件一并清除
	Update(paperID string, form map[string][]string, files []UploadedFile, actor *database.User) (*database.Paper, error)
	// AddVersion 追加一个不可变的历史版本快照，不影响当前主文件
	AddVersion(paperID string, fh *multipart.FileHeader, note string, actor *database.User) (*database.Paper, error)
	// Delete 删除论文，级联清理全部附属资源、历史版本及其文件
	// 文件删除尽力而为，失败不阻断记录删除
	Delete(paperID string, actor *database.User) error
	// GetByID 按公开ID查询论文并同步累加查看计数，装配附属资源与所有者信息
	GetByID(paperID string) (*database.Paper, error)
	// Download 查询论文并同步累加下载计数
	Download(paperID string) (*database.Paper, error)
	// List 分页查询论文，query非空时在标题、摘要、作者、关键词和分类上做大小写不敏感匹配
	List(page, limit int, query string) (*ListResult, error)
}

type paperService struct {
	db    *gorm.DB
	store fileservice.Store
}

// NewService 创建论文聚合服务实例
func NewService(db *gorm.DB, store fileservice.Store) Service {
	return &paperService{db: db, store: store}
}

func (s *paperService) Create(form map[string][]string, files []UploadedFile, actor *database.User) (*database.Paper, error) {
	primary := findUpload(files, PrimaryFileField)
	if primary == nil {
		return nil, apperrors.ErrPaperFileRequiredError
	}
	if !isPDF(primary) {
		return nil, apperrors.ErrPaperFileTypeError
	}

	title := strings.TrimSpace(firstValue(form, "title"))
	abstract := strings.TrimSpace(firstValue(form, "abstract"))
	if title == "" {
		return nil, apperrors.ErrInvalidParameters.WithDetails("title is required")
	}
	if abstract == "" {
		return nil, apperrors.ErrInvalidParameters.WithDetails("abstract is required")
	}

	stored, err := s.store.SaveUpload(primary, fileservice.CategoryPapers)
	if err != nil {
		return nil, err
	}

	p := &database.Paper{
		PaperID:     uuid.New().String(),
		OwnerID:     actor.UserID,
		Title:       title,
		Abstract:    abstract,
		Authors:     toStringList(form["authors"]),
		Keywords:    toStringList(form["keywords"]),
		Categories:  toStringList(form["categories"]),
		Institution: strings.TrimSpace(firstValue(form, "institution")),
		File:        stored,
		IsPublic:    firstValue(form, "isPublic") == "true",
	}
	if parsed := parseFlexibleDate(firstValue(form, "publicationDate")); parsed != nil {
		p.PublicationDate = parsed
	}

	if err := s.db.Create(p).Error; err != nil {
		// 主记录没有落库，已保存的主文件不能成为孤儿
		s.store.Remove(stored.Path)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to create paper", err)
	}

	p.Artifacts = s.persistArtifacts(p.PaperID, ReconstructArtifacts(form, files))
	owner := actor.Public()
	p.Owner = &owner

	logger.WithFields(map[string]interface{}{
		"paper_id":  p.PaperID,
		"owner_id":  p.OwnerID,
		"artifacts": len(p.Artifacts),
	}).Info("Paper created")
	return p, nil
}

func (s *paperService) Update(paperID string, form map[string][]string, files []UploadedFile, actor *database.User) (*database.Paper, error) {
	p, err := s.findByPublicID(paperID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, p.OwnerID) {
		return nil, apperrors.ErrNotAuthorizedError
	}

	if v := strings.TrimSpace(firstValue(form, "title")); v != "" {
		p.Title = v
	}
	if v := strings.TrimSpace(firstValue(form, "abstract")); v != "" {
		p.Abstract = v
	}
	if v := strings.TrimSpace(firstValue(form, "institution")); v != "" {
		p.Institution = v
	}
	if hasField(form, "authors") {
		p.Authors = toStringList(form["authors"])
	}
	if hasField(form, "keywords") {
		p.Keywords = toStringList(form["keywords"])
	}
	if hasField(form, "categories") {
		p.Categories = toStringList(form["categories"])
	}
	if hasField(form, "isPublic") {
		p.IsPublic = firstValue(form, "isPublic") == "true"
	}
	if parsed := parseFlexibleDate(firstValue(form, "publicationDate")); parsed != nil {
		p.PublicationDate = parsed
	}

	// 主文件替换：新文件先落盘并替换记录上的描述符，旧文件在持久化成功后才删除
	oldFilePath := ""
	if primary := findUpload(files, PrimaryFileField); primary != nil {
		if !isPDF(primary) {
			return nil, apperrors.ErrPaperFileTypeError
		}
		stored, err := s.store.SaveUpload(primary, fileservice.CategoryPapers)
		if err != nil {
			return nil, err
		}
		oldFilePath = p.File.Path
		p.File = stored
	}

	// 附属资源整体替换：旧集合连同文件一并清除，再按本次表单重建
	var oldArtifacts []database.Artifact
	if err := s.db.Where("paper_id = ?", p.PaperID).Find(&oldArtifacts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to load artifacts", err)
	}
	for i := range oldArtifacts {
		if oldArtifacts[i].HasFile() {
			s.store.Remove(oldArtifacts[i].File.Path)
		}
	}
	if err := s.db.Where("paper_id = ?", p.PaperID).Delete(&database.Artifact{}).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to replace artifacts", err)
	}

	if err := s.db.Save(p).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to update paper", err)
	}
	if oldFilePath != "" {
		s.store.Remove(oldFilePath)
	}

	p.Artifacts = s.persistArtifacts(p.PaperID, ReconstructArtifacts(form, files))
	s.attachOwner(p)

	logger.WithFields(map[string]interface{}{
		"paper_id":  p.PaperID,
		"artifacts": len(p.Artifacts),
	}).Info("Paper updated")
	return p, nil
}

func (s *paperService) AddVersion(paperID string, fh *multipart.FileHeader, note string, actor *database.User) (*database.Paper, error) {
	if fh == nil {
		return nil, apperrors.ErrPaperFileRequiredError
	}
	if !isPDF(fh) {
		return nil, apperrors.ErrPaperFileTypeError
	}
	p, err := s.findByPublicID(paperID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, p.OwnerID) {
		return nil, apperrors.ErrNotAuthorizedError
	}

	stored, err := s.store.SaveUpload(fh, fileservice.CategoryPapers)
	if err != nil {
		return nil, err
	}
	version := &database.PaperVersion{
		PaperID: p.PaperID,
		File:    stored,
		Note:    strings.TrimSpace(note),
	}
	if err := s.db.Create(version).Error; err != nil {
		s.store.Remove(stored.Path)
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to add version", err)
	}

	if err := s.db.Where("paper_id = ?", p.PaperID).Order("created_at ASC").Find(&p.Versions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to load versions", err)
	}
	s.attachOwner(p)
	logger.Infof("Version added to paper %s", p.PaperID)
	return p, nil
}

func (s *paperService) Delete(paperID string, actor *database.User) error {
	p, err := s.findByPublicID(paperID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actor, p.OwnerID) {
		return apperrors.ErrNotAuthorizedError
	}

	// 级联顺序：附属资源（文件+记录）→ 历史版本（文件+记录）→ 主文件 → 论文记录
	var artifacts []database.Artifact
	if err := s.db.Where("paper_id = ?", p.PaperID).Find(&artifacts).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to load artifacts", err)
	}
	for i := range artifacts {
		if artifacts[i].HasFile() {
			s.store.Remove(artifacts[i].File.Path)
		}
	}
	if err := s.db.Where("paper_id = ?", p.PaperID).Delete(&database.Artifact{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to delete artifacts", err)
	}

	var versions []database.PaperVersion
	if err := s.db.Where("paper_id = ?", p.PaperID).Find(&versions).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to load versions", err)
	}
	for i := range versions {
		s.store.Remove(versions[i].File.Path)
	}
	if err := s.db.Where("paper_id = ?", p.PaperID).Delete(&database.PaperVersion{}).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to delete versions", err)
	}

	s.store.Remove(p.File.Path)
	if err := s.db.Delete(p).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to delete paper", err)
	}

	logger.WithFields(map[string]interface{}{
		"paper_id":  p.PaperID,
		"artifacts": len(artifacts),
		"versions":  len(versions),
	}).Info("Paper deleted")
	return nil
}

func (s *paperService) GetByID(paperID string) (*database.Paper, error) {
	p, err := s.findByPublicID(paperID)
	if err != nil {
		return nil, err
	}

	// 查看计数在返回前同步累加，本次响应即包含累加后的值
	if err := s.db.Model(p).Update("view_count", gorm.Expr("view_count + 1")).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to increment view count", err)
	}
	p.ViewCount++

	if err := s.db.Where("paper_id = ?", p.PaperID).Order("created_at ASC").Find(&p.Artifacts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to load artifacts", err)
	}
	if err := s.db.Where("paper_id = ?", p.PaperID).Order("created_at ASC").Find(&p.Versions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to load versions", err)
	}
	s.attachOwner(p)
	return p, nil
}

func (s *paperService) Download(paperID string) (*database.Paper, error) {
	p, err := s.findByPublicID(paperID)
	if err != nil {
		return nil, err
	}
	if err := s.db.Model(p).Update("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to increment download count", err)
	}
	p.DownloadCount++
	return p, nil
}

func (s *paperService) List(page, limit int, query string) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	tx := s.db.Model(&database.Paper{})
	if q := strings.TrimSpace(query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(title) LIKE ? OR LOWER(abstract) LIKE ? OR LOWER(authors) LIKE ? OR LOWER(keywords) LIKE ? OR LOWER(categories) LIKE ?",
			pattern, pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to count papers", err)
	}

	var papers []database.Paper
	if err := tx.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&papers).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to list papers", err)
	}
	s.attachOwners(papers)

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	return &ListResult{
		Papers:      papers,
		Total:       total,
		Page:        page,
		Limit:       limit,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

// persistArtifacts 按附属资源意图逐条落库
// file来源的意图在此阶段落盘，单条失败只记录日志并继续，不阻断论文操作
func (s *paperService) persistArtifacts(paperID string, intents []ArtifactIntent) []database.Artifact {
	created := make([]database.Artifact, 0, len(intents))
	for _, intent := range intents {
		a := database.Artifact{
			ArtifactID: uuid.New().String(),
			PaperID:    paperID,
			Type:       intent.Type,
			Name:       intent.Name,
			SourceType: intent.SourceType,
		}
		switch intent.SourceType {
		case database.SourceTypeLink:
			a.URL = intent.URL
		case database.SourceTypeFile:
			stored, err := s.store.SaveUpload(intent.File, fileservice.CategoryArtifacts)
			if err != nil {
				logger.Warnf("Skipping artifact %d of paper %s: %v", intent.Index, paperID, err)
				continue
			}
			a.File = stored
		}
		if err := s.db.Create(&a).Error; err != nil {
			if a.HasFile() {
				s.store.Remove(a.File.Path)
			}
			logger.Warnf("Failed to persist artifact %d of paper %s: %v", intent.Index, paperID, err)
			continue
		}
		created = append(created, a)
	}
	return created
}

func (s *paperService) findByPublicID(paperID string) (*database.Paper, error) {
	var p database.Paper
	if err := s.db.Where("paper_id = ?", paperID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaperNotFoundError
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to query paper", err)
	}
	return &p, nil
}

func (s *paperService) attachOwner(p *database.Paper) {
	var owner database.User
	if err := s.db.Where("user_id = ?", p.OwnerID).First(&owner).Error; err != nil {
		return
	}
	pub := owner.Public()
	p.Owner = &pub
}

// attachOwners 批量装配所有者公开信息，避免按篇查询
func (s *paperService) attachOwners(papers []database.Paper) {
	if len(papers) == 0 {
		return
	}
	ids := make([]string, 0, len(papers))
	for i := range papers {
		ids = append(ids, papers[i].OwnerID)
	}
	var owners []database.User
	if err := s.db.Where("user_id IN ?", ids).Find(&owners).Error; err != nil {
		return
	}
	byID := make(map[string]database.PublicUser, len(owners))
	for i := range owners {
		byID[owners[i].UserID] = owners[i].Public()
	}
	for i := range papers {
		if pub, ok := byID[papers[i].OwnerID]; ok {
			p := pub
			papers[i].Owner = &p
		}
	}
}

// isPDF 校验主文件类型，按声明的媒体类型或扩展名判断
func isPDF(fh *multipart.FileHeader) bool {
	if strings.EqualFold(fh.Header.Get("Content-Type"), "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(fh.Filename), ".pdf")
}
