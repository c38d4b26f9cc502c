// Package user 提供用户账户管理服务
// 列表、查询、更新和删除操作均面向管理员接口
package user

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
	"github.com/asaabil/manajemenpaper/internal/logger"
)

// UpdateRequest 更新用户的请求参数，仅提供的字段被修改
type UpdateRequest struct {
	Name        *string `json:"name"`
	Email       *string `json:"email"`
	Role        *string `json:"role"`
	Affiliation *string `json:"affiliation"`
}

// Service 用户管理服务接口
type Service interface {
	// List 分页查询用户列表
	List(page, limit int) ([]database.User, int64, error)
	// GetByID 按公开ID查询用户
	GetByID(userID string) (*database.User, error)
	// Update 部分更新用户信息，角色必须是已知角色之一
	Update(userID string, req *UpdateRequest) (*database.User, error)
	// Delete 删除用户账户（软删除），不影响其已上传的论文
	Delete(userID string) error
}

type userService struct {
	db *gorm.DB
}

// NewService 创建用户管理服务实例
func NewService(db *gorm.DB) Service {
	return &userService{db: db}
}

func (s *userService) List(page, limit int) ([]database.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := s.db.Model(&database.User{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, "failed to count users", err)
	}
	var users []database.User
	if err := s.db.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&users).Error; err != nil {
		return nil, 0, apperrors.Wrap(apperrors.ErrInternalServer, "failed to list users", err)
	}
	return users, total, nil
}

func (s *userService) GetByID(userID string) (*database.User, error) {
	var user database.User
	if err := s.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFoundError
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to query user", err)
	}
	return &user, nil
}

func (s *userService) Update(userID string, req *UpdateRequest) (*database.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		user.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		switch *req.Role {
		case database.RoleAdmin, database.RoleFaculty, database.RoleStudent:
			user.Role = *req.Role
		default:
			return nil, apperrors.ErrInvalidParameters.WithDetails("unknown role")
		}
	}
	if req.Affiliation != nil {
		user.Affiliation = strings.TrimSpace(*req.Affiliation)
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to update user", err)
	}
	return user, nil
}

func (s *userService) Delete(userID string) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(user).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to delete user", err)
	}
	logger.Infof("User deleted: %s", user.Email)
	return nil
}
