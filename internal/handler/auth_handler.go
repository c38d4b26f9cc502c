package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/middleware"
	"github.com/asaabil/manajemenpaper/internal/response"
	authservice "github.com/asaabil/manajemenpaper/internal/service/auth"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService authservice.Service
}

// NewAuthHandler 创建认证处理器实例
func NewAuthHandler(authService authservice.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 注册新用户并返回访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body authservice.RegisterRequest true "注册信息"
// @Success 201 {object} response.Envelope "注册成功"
// @Failure 400 {object} response.Envelope "请求参数错误"
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req authservice.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid registration payload")
		return
	}

	user, token, err := h.authService.Register(&req)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Created(c, gin.H{"user": user, "token": token})
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验邮箱与密码并返回访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Envelope "登录成功"
// @Failure 401 {object} response.Envelope "凭证无效"
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"user": user, "token": token})
}

// Me 查询当前用户
// @Summary 查询当前用户
// @Description 返回令牌对应的用户信息
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope "当前用户"
// @Failure 401 {object} response.Envelope "未认证"
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	response.Success(c, middleware.CurrentUser(c))
}

// Logout 退出登录
// @Summary 退出登录
// @Description 令牌为无状态JWT，服务端不保存会话，客户端丢弃令牌即完成退出
// @Tags 认证
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope "退出成功"
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{"message": "logged out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// ForgotPassword 申请密码重置
// @Summary 申请密码重置
// @Description 为邮箱生成重置令牌，邮箱未注册时同样返回成功
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body forgotPasswordRequest true "邮箱"
// @Success 200 {object} response.Envelope "申请成功"
// @Router /api/v1/auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid email")
		return
	}
	if err := h.authService.ForgotPassword(req.Email); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"message": "password reset email sent"})
}

// ResetPassword 重置密码
// @Summary 重置密码
// @Description 用重置令牌设置新密码，令牌一次性有效
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body resetPasswordRequest true "令牌与新密码"
// @Success 200 {object} response.Envelope "重置成功"
// @Failure 401 {object} response.Envelope "令牌无效或已过期"
// @Router /api/v1/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid reset payload")
		return
	}
	if err := h.authService.ResetPassword(req.Token, req.Password); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"message": "password reset successfully"})
}
