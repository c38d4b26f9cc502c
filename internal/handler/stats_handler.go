package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/response"
	statsservice "github.com/asaabil/manajemenpaper/internal/service/stats"
)

// StatsHandler 统计处理器
type StatsHandler struct {
	statsService statsservice.Service
}

// NewStatsHandler 创建统计处理器实例
func NewStatsHandler(statsService statsservice.Service) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// TopDownloaded 下载排行
// @Summary 下载排行
// @Description 按下载次数排序的前十篇论文
// @Tags 统计
// @Produce json
// @Success 200 {object} response.Envelope "论文列表"
// @Router /api/v1/stats/top-downloaded [get]
func (h *StatsHandler) TopDownloaded(c *gin.Context) {
	papers, err := h.statsService.TopDownloaded()
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, papers)
}

// TopViewed 查看排行
// @Summary 查看排行
// @Description 按查看次数排序的前十篇论文
// @Tags 统计
// @Produce json
// @Success 200 {object} response.Envelope "论文列表"
// @Router /api/v1/stats/top-viewed [get]
func (h *StatsHandler) TopViewed(c *gin.Context) {
	papers, err := h.statsService.TopViewed()
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, papers)
}

// Overview 内容概览
// @Summary 内容概览
// @Description 论文、用户、附属资源数量与累计查看下载次数
// @Tags 统计
// @Produce json
// @Success 200 {object} response.Envelope "概览统计"
// @Router /api/v1/stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	overview, err := h.statsService.GetOverview()
	if err != nil {
		response.FailWithError(c, err, fallbackStatus)
		return
	}
	response.Success(c, overview)
}
