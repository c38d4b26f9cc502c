package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/middleware"
	"github.com/asaabil/manajemenpaper/internal/response"
	readinglistservice "github.com/asaabil/manajemenpaper/internal/service/readinglist"
)

// ReadingListHandler 阅读列表处理器
type ReadingListHandler struct {
	listService readinglistservice.Service
}

// NewReadingListHandler 创建阅读列表处理器实例
func NewReadingListHandler(listService readinglistservice.Service) *ReadingListHandler {
	return &ReadingListHandler{listService: listService}
}

// CreateList 创建阅读列表
// @Summary 创建阅读列表
// @Tags 阅读列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body readinglistservice.CreateRequest true "列表信息"
// @Success 201 {object} response.Envelope "创建成功"
// @Router /api/v1/reading-lists [post]
func (h *ReadingListHandler) CreateList(c *gin.Context) {
	var req readinglistservice.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "name is required")
		return
	}

	list, err := h.listService.Create(&req, middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Created(c, list)
}

// ListMyLists 查询我的阅读列表
// @Summary 查询我的阅读列表
// @Tags 阅读列表
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope "阅读列表集合"
// @Router /api/v1/reading-lists [get]
func (h *ReadingListHandler) ListMyLists(c *gin.Context) {
	lists, err := h.listService.ListForUser(middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, lists)
}

// GetList 阅读列表详情
// @Summary 阅读列表详情
// @Description 返回列表及其论文内容，非公开列表仅所有者可读
// @Tags 阅读列表
// @Produce json
// @Security BearerAuth
// @Param id path string true "列表ID"
// @Success 200 {object} response.Envelope "列表详情"
// @Failure 404 {object} response.Envelope "列表不存在"
// @Router /api/v1/reading-lists/{id} [get]
func (h *ReadingListHandler) GetList(c *gin.Context) {
	list, err := h.listService.GetByID(c.Param("id"), middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, list)
}

// UpdateList 更新阅读列表
// @Summary 更新阅读列表
// @Tags 阅读列表
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "列表ID"
// @Param request body readinglistservice.UpdateRequest true "更新字段"
// @Success 200 {object} response.Envelope "更新成功"
// @Router /api/v1/reading-lists/{id} [put]
func (h *ReadingListHandler) UpdateList(c *gin.Context) {
	var req readinglistservice.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid update payload")
		return
	}

	list, err := h.listService.Update(c.Param("id"), &req, middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, list)
}

// DeleteList 删除阅读列表
// @Summary 删除阅读列表
// @Tags 阅读列表
// @Produce json
// @Security BearerAuth
// @Param id path string true "列表ID"
// @Success 200 {object} response.Envelope "删除成功"
// @Router /api/v1/reading-lists/{id} [delete]
func (h *ReadingListHandler) DeleteList(c *gin.Context) {
	if err := h.listService.Delete(c.Param("id"), middleware.CurrentUser(c)); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// AddPaper 向阅读列表添加论文
// @Summary 向阅读列表添加论文
// @Tags 阅读列表
// @Produce json
// @Security BearerAuth
// @Param id path string true "列表ID"
// @Param paperId path string true "论文ID"
// @Success 200 {object} response.Envelope "添加成功"
// @Failure 400 {object} response.Envelope "论文已在列表中"
// @Router /api/v1/reading-lists/{id}/papers/{paperId} [post]
func (h *ReadingListHandler) AddPaper(c *gin.Context) {
	list, err := h.listService.AddPaper(c.Param("id"), c.Param("paperId"), middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, list)
}

// RemovePaper 从阅读列表移除论文
// @Summary 从阅读列表移除论文
// @Tags 阅读列表
// @Produce json
// @Security BearerAuth
// @Param id path string true "列表ID"
// @Param paperId path string true "论文ID"
// @Success 200 {object} response.Envelope "移除成功"
// @Router /api/v1/reading-lists/{id}/papers/{paperId} [delete]
func (h *ReadingListHandler) RemovePaper(c *gin.Context) {
	list, err := h.listService.RemovePaper(c.Param("id"), c.Param("paperId"), middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, list)
}
