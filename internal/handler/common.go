// Package handler 提供HTTP请求处理器
// 处理器只负责参数解析与响应封装，业务规则全部下沉到service层
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// parsePagination 解析分页参数
// 非法或缺失时回退默认值，limit上限100
func parsePagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// fallbackStatus 非AppError错误的默认HTTP状态码
const fallbackStatus = http.StatusInternalServerError
