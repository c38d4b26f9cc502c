// Package auth 提供用户认证服务
// 负责注册、登录、JWT令牌的签发与校验以及启动时的管理员播种
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/config"
	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
	"github.com/asaabil/manajemenpaper/internal/logger"
)

// RegisterRequest 注册请求参数
type RegisterRequest struct {
	Name        string `json:"name" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role"`
	Affiliation string `json:"affiliation"`
}

// Claims JWT载荷
// sub为用户公开ID，附带邮箱与角色便于中间件快速判定
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Service 认证服务接口
type Service interface {
	// Register 注册新用户并签发令牌
	// 邮箱唯一；角色仅接受faculty或student，缺省为student，管理员不可自助注册
	Register(req *RegisterRequest) (*database.User, string, error)
	// Login 校验邮箱与密码并签发令牌
	Login(email, password string) (*database.User, string, error)
	// GenerateToken 为用户签发JWT令牌
	GenerateToken(user *database.User) (string, error)
	// VerifyToken 校验令牌并加载对应用户
	VerifyToken(token string) (*database.User, error)
	// ForgotPassword 为邮箱对应的用户生成密码重置令牌
	// 邮箱不存在时同样返回成功，避免暴露账户是否存在
	ForgotPassword(email string) error
	// ResetPassword 用重置令牌设置新密码，令牌一次性有效
	ResetPassword(token, newPassword string) error
	// SeedAdmin 按配置确保管理员账户存在，已存在时不做任何修改
	SeedAdmin(cfg config.AdminConfig) error
}

type authService struct {
	db  *gorm.DB
	cfg config.JWTConfig
}

// NewService 创建认证服务实例
func NewService(db *gorm.DB, cfg config.JWTConfig) Service {
	return &authService{db: db, cfg: cfg}
}

func (s *authService) Register(req *RegisterRequest) (*database.User, string, error) {
	role := strings.TrimSpace(req.Role)
	switch role {
	case "":
		role = database.RoleStudent
	case database.RoleFaculty, database.RoleStudent:
	default:
		return nil, "", apperrors.ErrInvalidParameters.WithDetails("role must be faculty or student")
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	var count int64
	if err := s.db.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, "failed to check email", err)
	}
	if count > 0 {
		return nil, "", apperrors.ErrUserExistsError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, "failed to hash password", err)
	}

	user := &database.User{
		UserID:       uuid.New().String(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Affiliation:  strings.TrimSpace(req.Affiliation),
	}
	if err := s.db.Create(user).Error; err != nil {
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, "failed to create user", err)
	}

	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}
	logger.Infof("User registered: %s (%s)", user.Email, user.Role)
	return user, token, nil
}

func (s *authService) Login(email, password string) (*database.User, string, error) {
	var user database.User
	err := s.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperrors.ErrInvalidCredentialsError
		}
		return nil, "", apperrors.Wrap(apperrors.ErrInternalServer, "failed to query user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", apperrors.ErrInvalidCredentialsError
	}

	token, err := s.GenerateToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *authService) GenerateToken(user *database.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.cfg.ExpiresIn) * time.Second)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, "failed to sign token", err)
	}
	return token, nil
}

func (s *authService) VerifyToken(tokenString string) (*database.User, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.ErrInvalidTokenError
	}

	var user database.User
	if err := s.db.Where("user_id = ?", claims.Subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidTokenError
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, "failed to load user", err)
	}
	return &user, nil
}

// resetTokenTTL 重置令牌有效期
const resetTokenTTL = time.Hour

func (s *authService) ForgotPassword(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return apperrors.ErrInvalidParameters.WithDetails("email is required")
	}

	var user database.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// 不暴露邮箱是否注册
			return nil
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to query user", err)
	}

	token := uuid.New().String()
	expires := time.Now().Add(resetTokenTTL)
	updates := map[string]interface{}{
		"reset_token":   token,
		"reset_expires": expires,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to save reset token", err)
	}

	// 邮件通道未接入，令牌写入日志供运维转发
	logger.Infof("Password reset requested for %s, token %s (valid until %s)",
		email, token, expires.Format(time.RFC3339))
	return nil
}

func (s *authService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.ErrInvalidParameters.WithDetails("reset token is required")
	}
	if len(newPassword) < 6 {
		return apperrors.ErrInvalidParameters.WithDetails("password must be at least 6 characters")
	}

	var user database.User
	if err := s.db.Where("reset_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrInvalidTokenError
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to query user", err)
	}
	if user.ResetExpires == nil || time.Now().After(*user.ResetExpires) {
		return apperrors.ErrInvalidTokenError
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to hash password", err)
	}
	updates := map[string]interface{}{
		"password_hash": string(hash),
		"reset_token":   "",
		"reset_expires": nil,
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to update password", err)
	}
	logger.Infof("Password reset completed for %s", user.Email)
	return nil
}

func (s *authService) SeedAdmin(cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warnf("Admin seeding skipped: email or password not configured")
		return nil
	}

	var count int64
	if err := s.db.Model(&database.User{}).Where("email = ?", strings.ToLower(cfg.Email)).Count(&count).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to check admin account", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to hash admin password", err)
	}
	admin := &database.User{
		UserID:       uuid.New().String(),
		Name:         cfg.Name,
		Email:        strings.ToLower(cfg.Email),
		PasswordHash: string(hash),
		Role:         database.RoleAdmin,
	}
	if err := s.db.Create(admin).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, "failed to seed admin", err)
	}
	logger.Infof("Admin account seeded: %s", admin.Email)
	return nil
}
