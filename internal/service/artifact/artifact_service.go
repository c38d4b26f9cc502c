// Package artifact 提供附属资源的独立管理服务
// 资源附着于且仅附着于一篇论文，修改权限始终穿透到父论文的所有者判定
package artifact

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/authz"
	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
	"github.com/asaabil/manajemenpaper/internal/logger"
	fileservice "github.com/asaabil/manajemenpaper/internal/service/file"
)

// CreateRequest 创建附属资源的请求参数
// 来源为上传文件或外部链接二选一，由服务据此决定sourceType
type CreateRequest struct {
	Type string `form:"type" binding:"required"`
	Name string `form:"name"`
	URL  string `form:"url"`
}

// UpdateRequest 更新附属资源的请求参数
// 浅合并：仅提供的字段被修改，来源类型创建后不可变
type UpdateRequest struct {
	Type *string `json:"type"`
	Name *string `json:"name"`
	URL  *string `json:"url"`
}

// Service 附属资源服务接口
type Service interface {
	// Create 为指定论文创建附属资源，需要对父论文的修改权限
	Create(paperID string, req *CreateRequest, fh *multipart.FileHeader, actor *database.User) (*database.Artifact, error)
	// ListForPaper 查询论文的全部附属资源，按创建时间排序
	ListForPaper(paperID string) ([]database.Artifact, error)
	// GetByID 按公开ID查询附属资源
	GetByID(artifactID string) (*database.Artifact, error)
	// Download 查询附属资源并同步累加下载计数
	// 资源既无文件也无链接时返回无内容错误
	Download(artifactID string) (*database.Artifact, error)
	// Update 浅合并更新附属资源元数据，需要对父论文的修改权限
	Update(artifactID string, req *UpdateRequest, actor *database.User) (*database.Artifact, error)
	// Delete 删除附属资源，连同其存储文件一并清理
	Delete(artifactID string, actor *database.User) error
}

type artifactService struct {
	db    *gorm.DB
	store fileservice.Store
}

// NewService 创建附属资源服务实例
func NewService(db *gorm.DB, store fileservice.Store) Service {
	return &artifactService{db: db, store: store}
}

func (s *artifactService) Create(paperID string, req *CreateRequest, fh *multipart.FileHeader, actor *database.User) (*database.Artifact, error) {
	p, err := s.findPaper(paperID)
	if err != nil {
		return nil, err
	}
	if !authz.CanMutate(actor, p.OwnerID) {
		return nil, apperrors.ErrNotAuthorizedError
	}

	a := &database.Artifact{
		ArtifactID: uuid.New().String(),
		PaperID:    p.PaperID,
		Type:       strings.TrimSpace(req.Type),
		Name:       strings.TrimSpace(req.Name),
	}
	switch {
	case fh != nil:
		stored, err := s.store.SaveUpload(fh, fileservice.CategoryArtifacts)
		if err != nil {
			return nil, err
		}
		a.SourceType = database.SourceTypeFile
		a.File = stored
	case strings.TrimSpace(req.URL) != "":
		a.SourceType = database.SourceTypeLink
		a.URL = strings.TrimSpace(req.URL)
	default:
		return nil, apperrors.ErrInvalidParameters.WithDetails("either a file or a url must be provided")
	}

	if err := s.db.Create(a).Error; err != nil {
		if a.HasFile() {
			s.store.Remove(a.File.Path)
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to create artifact", err)
	}
	logger.Infof("Artifact %s created for paper %s", a.ArtifactID, p.PaperID)
	return a, nil
}

func (s *artifactService) ListForPaper(paperID string) ([]database.Artifact, error) {
	if _, err := s.findPaper(paperID); err != nil {
		return nil, err
	}
	var artifacts []database.Artifact
	if err := s.db.Where("paper_id = ?", paperID).Order("created_at ASC").Find(&artifacts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to list artifacts", err)
	}
	return artifacts, nil
}

func (s *artifactService) GetByID(artifactID string) (*database.Artifact, error) {
	return s.findByPublicID(artifactID)
}

func (s *artifactService) Download(artifactID string) (*database.Artifact, error) {
	a, err := s.findByPublicID(artifactID)
	if err != nil {
		return nil, err
	}
	if !a.HasFile() && a.URL == "" {
		return nil, apperrors.ErrArtifactNoContentError
	}
	if err := s.db.Model(a).Update("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to increment download count", err)
	}
	a.DownloadCount++
	return a, nil
}

func (s *artifactService) Update(artifactID string, req *UpdateRequest, actor *database.User) (*database.Artifact, error) {
	a, err := s.findByPublicID(artifactID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(a, actor); err != nil {
		return nil, err
	}

	if req.Type != nil && strings.TrimSpace(*req.Type) != "" {
		a.Type = strings.TrimSpace(*req.Type)
	}
	if req.Name != nil {
		a.Name = strings.TrimSpace(*req.Name)
	}
	// URL仅对链接来源有意义，文件来源的资源不携带URL
	if req.URL != nil && a.SourceType == database.SourceTypeLink {
		a.URL = strings.TrimSpace(*req.URL)
	}

	if err := s.db.Save(a).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to update artifact", err)
	}
	return a, nil
}

func (s *artifactService) Delete(artifactID string, actor *database.User) error {
	a, err := s.findByPublicID(artifactID)
	if err != nil {
		return err
	}
	if err := s.authorize(a, actor); err != nil {
		return err
	}

	if a.HasFile() {
		s.store.Remove(a.File.Path)
	}
	if err := s.db.Delete(a).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to delete artifact", err)
	}
	logger.Infof("Artifact %s deleted", a.ArtifactID)
	return nil
}

// authorize 通过父论文的所有者判定修改权限
func (s *artifactService) authorize(a *database.Artifact, actor *database.User) error {
	p, err := s.findPaper(a.PaperID)
	if err != nil {
		return err
	}
	if !authz.CanMutate(actor, p.OwnerID) {
		return apperrors.ErrNotAuthorizedError
	}
	return nil
}

func (s *artifactService) findPaper(paperID string) (*database.Paper, error) {
	var p database.Paper
	if err := s.db.Where("paper_id = ?", paperID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPaperNotFoundError
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to query paper", err)
	}
	return &p, nil
}

func (s *artifactService) findByPublicID(artifactID string) (*database.Artifact, error) {
	var a database.Artifact
	if err := s.db.Where("artifact_id = ?", artifactID).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrArtifactNotFoundError
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to query artifact", err)
	}
	return &a, nil
}
