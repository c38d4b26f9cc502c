package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/response"
	ossservice "github.com/asaabil/manajemenpaper/internal/service/oss"
)

// OSSHandler 存储镜像配置处理器，全部接口仅管理员可用
type OSSHandler struct {
	configService ossservice.ConfigService
	mirror        *ossservice.MirrorService
}

// NewOSSHandler 创建存储镜像配置处理器实例
func NewOSSHandler(configService ossservice.ConfigService, mirror *ossservice.MirrorService) *OSSHandler {
	return &OSSHandler{configService: configService, mirror: mirror}
}

func parseConfigID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "invalid config id")
		return 0, false
	}
	return uint(id), true
}

// CreateConfig 创建镜像配置
// @Summary 创建镜像配置
// @Tags 存储镜像
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ossservice.CreateConfigRequest true "配置信息"
// @Success 201 {object} response.Envelope "创建成功"
// @Router /api/v1/oss/configs [post]
func (h *OSSHandler) CreateConfig(c *gin.Context) {
	var req ossservice.CreateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid config payload")
		return
	}

	cfg, err := h.configService.CreateConfig(&req)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Created(c, cfg)
}

// ListConfigs 镜像配置列表
// @Summary 镜像配置列表
// @Tags 存储镜像
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope "配置列表"
// @Router /api/v1/oss/configs [get]
func (h *OSSHandler) ListConfigs(c *gin.Context) {
	configs, err := h.configService.ListConfigs()
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, configs)
}

// GetConfig 镜像配置详情
// @Summary 镜像配置详情
// @Tags 存储镜像
// @Produce json
// @Security BearerAuth
// @Param id path int true "配置ID"
// @Success 200 {object} response.Envelope "配置详情"
// @Failure 404 {object} response.Envelope "配置不存在"
// @Router /api/v1/oss/configs/{id} [get]
func (h *OSSHandler) GetConfig(c *gin.Context) {
	id, ok := parseConfigID(c)
	if !ok {
		return
	}
	cfg, err := h.configService.GetConfigByID(id)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, cfg)
}

// UpdateConfig 更新镜像配置
// @Summary 更新镜像配置
// @Description 按字段更新配置，未提供的字段保持不变，provider不可变更
// @Tags 存储镜像
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "配置ID"
// @Param request body ossservice.UpdateConfigRequest true "更新内容"
// @Success 200 {object} response.Envelope "更新成功"
// @Failure 404 {object} response.Envelope "配置不存在"
// @Router /api/v1/oss/configs/{id} [put]
func (h *OSSHandler) UpdateConfig(c *gin.Context) {
	id, ok := parseConfigID(c)
	if !ok {
		return
	}
	var req ossservice.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid config payload")
		return
	}
	cfg, err := h.configService.UpdateConfig(id, &req)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	h.mirror.Invalidate()
	response.Success(c, cfg)
}

// ActivateConfig 激活镜像配置
// @Summary 激活镜像配置
// @Description 激活指定配置并取消其它激活配置，后续镜像操作使用新配置
// @Tags 存储镜像
// @Produce json
// @Security BearerAuth
// @Param id path int true "配置ID"
// @Success 200 {object} response.Envelope "激活成功"
// @Router /api/v1/oss/configs/{id}/activate [put]
func (h *OSSHandler) ActivateConfig(c *gin.Context) {
	id, ok := parseConfigID(c)
	if !ok {
		return
	}
	if err := h.configService.ActivateConfig(id); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	h.mirror.Invalidate()
	response.Success(c, gin.H{"activated": true})
}

// TestConfig 测试镜像配置
// @Summary 测试镜像配置
// @Description 用真实凭证测试配置的连通性
// @Tags 存储镜像
// @Produce json
// @Security BearerAuth
// @Param id path int true "配置ID"
// @Success 200 {object} response.Envelope "连接正常"
// @Failure 500 {object} response.Envelope "连接失败"
// @Router /api/v1/oss/configs/{id}/test [post]
func (h *OSSHandler) TestConfig(c *gin.Context) {
	id, ok := parseConfigID(c)
	if !ok {
		return
	}
	if err := h.configService.TestConfig(id); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"connected": true})
}

// DeleteConfig 删除镜像配置
// @Summary 删除镜像配置
// @Tags 存储镜像
// @Produce json
// @Security BearerAuth
// @Param id path int true "配置ID"
// @Success 200 {object} response.Envelope "删除成功"
// @Router /api/v1/oss/configs/{id} [delete]
func (h *OSSHandler) DeleteConfig(c *gin.Context) {
	id, ok := parseConfigID(c)
	if !ok {
		return
	}
	if err := h.configService.DeleteConfig(id); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// ListSyncLogs 镜像操作日志
// @Summary 镜像操作日志
// @Tags 存储镜像
// @Produce json
// @Security BearerAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Envelope "日志列表"
// @Router /api/v1/oss/sync-logs [get]
func (h *OSSHandler) ListSyncLogs(c *gin.Context) {
	page, limit := parsePagination(c)
	logs, total, err := h.configService.GetSyncLogs(page, limit)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.SuccessWithPage(c, logs, total, page, limit)
}
