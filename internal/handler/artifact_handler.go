package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/middleware"
	"github.com/asaabil/manajemenpaper/internal/response"
	artifactservice "github.com/asaabil/manajemenpaper/internal/service/artifact"
)

// ArtifactHandler 附属资源处理器
type ArtifactHandler struct {
	artifactService artifactservice.Service
}

// NewArtifactHandler 创建附属资源处理器实例
func NewArtifactHandler(artifactService artifactservice.Service) *ArtifactHandler {
	return &ArtifactHandler{artifactService: artifactService}
}

// CreateArtifact 创建附属资源
// @Summary 创建附属资源
// @Description 为论文添加数据集、源代码等附属资源，来源为上传文件或外部链接二选一
// @Tags 附属资源
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "论文ID"
// @Param type formData string true "资源类型"
// @Param name formData string false "显示名称"
// @Param url formData string false "外部链接"
// @Param file formData file false "资源文件"
// @Success 201 {object} response.Envelope "创建成功"
// @Failure 404 {object} response.Envelope "论文不存在"
// @Router /api/v1/papers/{id}/artifacts [post]
func (h *ArtifactHandler) CreateArtifact(c *gin.Context) {
	var req artifactservice.CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.BadRequest(c, "type is required")
		return
	}
	fh, err := c.FormFile("file")
	if err != nil {
		fh = nil
	}

	artifact, err := h.artifactService.Create(c.Param("id"), &req, fh, middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Created(c, artifact)
}

// ListArtifacts 论文附属资源列表
// @Summary 论文附属资源列表
// @Description 查询论文的全部附属资源
// @Tags 附属资源
// @Produce json
// @Param id path string true "论文ID"
// @Success 200 {object} response.Envelope "附属资源列表"
// @Failure 404 {object} response.Envelope "论文不存在"
// @Router /api/v1/papers/{id}/artifacts [get]
func (h *ArtifactHandler) ListArtifacts(c *gin.Context) {
	artifacts, err := h.artifactService.ListForPaper(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, artifacts)
}

// GetArtifact 附属资源详情
// @Summary 附属资源详情
// @Tags 附属资源
// @Produce json
// @Param id path string true "附属资源ID"
// @Success 200 {object} response.Envelope "附属资源详情"
// @Failure 404 {object} response.Envelope "附属资源不存在"
// @Router /api/v1/artifacts/{id} [get]
func (h *ArtifactHandler) GetArtifact(c *gin.Context) {
	artifact, err := h.artifactService.GetByID(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, artifact)
}

// DownloadArtifact 下载附属资源
// @Summary 下载附属资源
// @Description 文件来源返回文件内容，链接来源重定向到外部地址，两者均累加下载计数
// @Tags 附属资源
// @Produce octet-stream
// @Param id path string true "附属资源ID"
// @Success 200 {file} file "资源文件"
// @Failure 404 {object} response.Envelope "附属资源不存在"
// @Router /api/v1/artifacts/{id}/download [get]
func (h *ArtifactHandler) DownloadArtifact(c *gin.Context) {
	artifact, err := h.artifactService.Download(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	if artifact.HasFile() {
		c.FileAttachment(artifact.File.Path, artifact.File.Filename)
		return
	}
	c.Redirect(302, artifact.URL)
}

// UpdateArtifact 更新附属资源
// @Summary 更新附属资源
// @Description 浅合并更新资源元数据，仅父论文所有者或管理员可操作
// @Tags 附属资源
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "附属资源ID"
// @Param request body artifactservice.UpdateRequest true "更新字段"
// @Success 200 {object} response.Envelope "更新成功"
// @Failure 403 {object} response.Envelope "无权操作"
// @Router /api/v1/artifacts/{id} [put]
func (h *ArtifactHandler) UpdateArtifact(c *gin.Context) {
	var req artifactservice.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid update payload")
		return
	}

	artifact, err := h.artifactService.Update(c.Param("id"), &req, middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, artifact)
}

// DeleteArtifact 删除附属资源
// @Summary 删除附属资源
// @Description 删除资源记录及其存储文件
// @Tags 附属资源
// @Produce json
// @Security BearerAuth
// @Param id path string true "附属资源ID"
// @Success 200 {object} response.Envelope "删除成功"
// @Failure 403 {object} response.Envelope "无权操作"
// @Router /api/v1/artifacts/{id} [delete]
func (h *ArtifactHandler) DeleteArtifact(c *gin.Context) {
	if err := h.artifactService.Delete(c.Param("id"), middleware.CurrentUser(c)); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
