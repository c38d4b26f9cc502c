package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/middleware"
	"github.com/asaabil/manajemenpaper/internal/response"
	paperservice "github.com/asaabil/manajemenpaper/internal/service/paper"
)

// PaperHandler 论文处理器
type PaperHandler struct {
	paperService paperservice.Service
}

// NewPaperHandler 创建论文处理器实例
func NewPaperHandler(paperService paperservice.Service) *PaperHandler {
	return &PaperHandler{paperService: paperService}
}

// collectMultipart 展开multipart表单的文本字段与上传文件
// 文件保留其表单字段名，附属资源的按名关联依赖于此
func collectMultipart(c *gin.Context) (map[string][]string, []paperservice.UploadedFile, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, err
	}
	files := make([]paperservice.UploadedFile, 0, len(form.File))
	for field, headers := range form.File {
		for _, h := range headers {
			files = append(files, paperservice.UploadedFile{FieldName: field, Header: h})
		}
	}
	return form.Value, files, nil
}

// CreatePaper 创建论文
// @Summary 创建论文
// @Description 上传论文PDF及其附属资源，附属资源支持结构化数组与扁平键两种表单形态
// @Tags 论文管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param paperFile formData file true "论文PDF文件"
// @Param title formData string true "论文标题"
// @Param abstract formData string true "摘要"
// @Success 201 {object} response.Envelope "创建成功"
// @Failure 400 {object} response.Envelope "请求参数错误"
// @Router /api/v1/papers [post]
func (h *PaperHandler) CreatePaper(c *gin.Context) {
	values, files, err := collectMultipart(c)
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	paper, err := h.paperService.Create(values, files, middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Created(c, paper)
}

// ListPapers 论文列表
// @Summary 论文列表
// @Description 分页查询论文，可选关键字过滤
// @Tags 论文管理
// @Produce json
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param q query string false "过滤关键字"
// @Success 200 {object} response.Envelope "论文列表"
// @Router /api/v1/papers [get]
func (h *PaperHandler) ListPapers(c *gin.Context) {
	page, limit := parsePagination(c)
	result, err := h.paperService.List(page, limit, c.Query("q"))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, result)
}

// GetPaper 论文详情
// @Summary 论文详情
// @Description 查询单篇论文并累加查看计数
// @Tags 论文管理
// @Produce json
// @Param id path string true "论文ID"
// @Success 200 {object} response.Envelope "论文详情"
// @Failure 404 {object} response.Envelope "论文不存在"
// @Router /api/v1/papers/{id} [get]
func (h *PaperHandler) GetPaper(c *gin.Context) {
	paper, err := h.paperService.GetByID(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, paper)
}

// UpdatePaper 更新论文
// @Summary 更新论文
// @Description 部分更新论文元数据并整体替换附属资源，仅所有者或管理员可操作
// @Tags 论文管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "论文ID"
// @Success 200 {object} response.Envelope "更新成功"
// @Failure 403 {object} response.Envelope "无权操作"
// @Failure 404 {object} response.Envelope "论文不存在"
// @Router /api/v1/papers/{id} [put]
func (h *PaperHandler) UpdatePaper(c *gin.Context) {
	values, files, err := collectMultipart(c)
	if err != nil {
		response.BadRequest(c, "invalid multipart form")
		return
	}

	paper, err := h.paperService.Update(c.Param("id"), values, files, middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, paper)
}

// AddVersion 追加论文版本
// @Summary 追加论文版本
// @Description 上传新的PDF作为不可变历史版本，不替换当前主文件
// @Tags 论文管理
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "论文ID"
// @Param paperFile formData file true "版本PDF文件"
// @Param note formData string false "版本备注"
// @Success 200 {object} response.Envelope "版本已追加"
// @Failure 404 {object} response.Envelope "论文不存在"
// @Router /api/v1/papers/{id}/versions [post]
func (h *PaperHandler) AddVersion(c *gin.Context) {
	fh, err := c.FormFile(paperservice.PrimaryFileField)
	if err != nil {
		fh = nil
	}
	paper, err := h.paperService.AddVersion(c.Param("id"), fh, c.PostForm("note"), middleware.CurrentUser(c))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, paper)
}

// DeletePaper 删除论文
// @Summary 删除论文
// @Description 删除论文及其全部附属资源、历史版本和文件
// @Tags 论文管理
// @Produce json
// @Security BearerAuth
// @Param id path string true "论文ID"
// @Success 200 {object} response.Envelope "删除成功"
// @Failure 403 {object} response.Envelope "无权操作"
// @Failure 404 {object} response.Envelope "论文不存在"
// @Router /api/v1/papers/{id} [delete]
func (h *PaperHandler) DeletePaper(c *gin.Context) {
	if err := h.paperService.Delete(c.Param("id"), middleware.CurrentUser(c)); err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}

// DownloadPaper 下载论文
// @Summary 下载论文
// @Description 下载论文主文件并累加下载计数
// @Tags 论文管理
// @Produce application/pdf
// @Param id path string true "论文ID"
// @Success 200 {file} file "论文PDF文件"
// @Failure 404 {object} response.Envelope "论文不存在"
// @Router /api/v1/papers/{id}/download [get]
func (h *PaperHandler) DownloadPaper(c *gin.Context) {
	paper, err := h.paperService.Download(c.Param("id"))
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	c.FileAttachment(paper.File.Path, paper.File.Filename)
}
