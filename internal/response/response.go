// Package response 提供统一的API响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asaabil/manajemenpaper/internal/errors"
)

// Envelope API统一响应结构体
// @Description API统一响应格式
type Envelope struct {
	// 请求是否成功
	Success bool `json:"success"`
	// 响应数据，仅成功时返回
	Data interface{} `json:"data,omitempty"`
	// 错误信息，仅失败时返回
	Error *ErrorBody `json:"error,omitempty"`
}

// ErrorBody 错误响应体
type ErrorBody struct {
	// 错误消息
	Message string `json:"message"`
}

// PageData 分页数据结构体
// @Description 分页响应数据格式
type PageData struct {
	// 数据列表
	List interface{} `json:"list"`
	// 总数
	Total int64 `json:"total" example:"100"`
	// 当前页码
	Page int `json:"page" example:"1"`
	// 每页大小
	PageSize int `json:"page_size" example:"10"`
	// 总页数
	TotalPages int `json:"total_pages" example:"10"`
}

// Success 200成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{
		Success: true,
		Data:    data,
	})
}

// Created 201成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Data:    data,
	})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, list interface{}, total int64, page, pageSize int) {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}

	Success(c, PageData{
		List:       list,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	})
}

// Fail 错误响应
func Fail(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Envelope{
		Success: false,
		Error:   &ErrorBody{Message: message},
	})
}

// FailWithError 根据错误类型返回错误响应
// AppError按其错误码映射状态码，其余错误按给定的默认状态码处理
func FailWithError(c *gin.Context, err error, fallbackStatus int) {
	if appErr, ok := errors.GetAppError(err); ok {
		Fail(c, appErr.HTTPStatus(), appErr.Message)
		return
	}
	Fail(c, fallbackStatus, err.Error())
}

// BadRequest 400错误响应
func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, message)
}

// Unauthorized 401错误响应
func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, message)
}

// Forbidden 403错误响应
func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, message)
}

// NotFound 404错误响应
func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, message)
}

// InternalServerError 500错误响应
func InternalServerError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, message)
}
