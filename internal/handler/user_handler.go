package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/response"
	userservice "github.com/asaabil/manajemenpaper/internal/service/user"
)

// UserHandler 用户管理处理器，全部接口仅管理员可用
type UserHandler struct {
	userService userservice.Service
}

// NewUserHandler 创建用户管理处理器实例
func NewUserHandler(userService userservice.Service) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Envelope "用户列表"
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	page, limit := parsePagination(c)
	users, total, err := h.userService.List(page, limit)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.SuccessWithPage(c, users, total, page, limit)
}

// GetUser 用户详情
// @Summary 用户详情
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} response.Envelope "用户详情"
// @Failure 404 {object} response.Envelope "用户不存在"
// @Router /api/v1/users/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetByID(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, user)
}

// UpdateUser 更新用户
// @Summary 更新用户
// @Description 部分更新用户信息，可调整角色
// @Tags 用户管理
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Param request body userservice.UpdateRequest true "更新字段"
// @Success 200 {object} response.Envelope "更新成功"
// @Failure 404 {object} response.Envelope "用户不存在"
// @Router /api/v1/users/{id} [put]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var req userservice.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid update payload")
		return
	}

	user, err := h.userService.Update(c.Param("id"), &req)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Tags 用户管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "用户ID"
// @Success 200 {object} response.Envelope "删除成功"
// @Failure 404 {object} response.Envelope "用户不存在"
// @Router /api/v1/users/{id} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.userService.Delete(c.Param("id")); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
