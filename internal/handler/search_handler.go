package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/response"
	searchservice "github.com/asaabil/manajemenpaper/internal/service/search"
)

// SearchHandler 检索处理器
type SearchHandler struct {
	searchService searchservice.Service
}

// NewSearchHandler 创建检索处理器实例
func NewSearchHandler(searchService searchservice.Service) *SearchHandler {
	return &SearchHandler{searchService: searchService}
}

// Search 论文检索
// @Summary 论文检索
// @Description 关键字检索论文，空查询返回空结果
// @Tags 检索
// @Produce json
// @Param q query string false "检索关键字"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} response.Envelope "检索结果"
// @Router /api/v1/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	page, limit := parsePagination(c)
	result, err := h.searchService.Search(c.Query("q"), page, limit)
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, result)
}
