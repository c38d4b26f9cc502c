// Package errors 定义应用程序统一错误类型与错误码
package errors

import (
	"fmt"
	"net/http"

	"github.com/asaabil/manajemenpaper/internal/i18n"
)

// ErrorCode 错误码类型
type ErrorCode int

// 定义错误码常量
const (
	// 通用错误码 (1000-1999)
	ErrSuccess        ErrorCode = 0    // 成功
	ErrInternalServer ErrorCode = 1000 // 服务器内部错误
	ErrInvalidParams  ErrorCode = 1001 // 参数错误
	ErrUnauthorized   ErrorCode = 1002 // 未授权
	ErrForbidden      ErrorCode = 1003 // 禁止访问
	ErrNotFound       ErrorCode = 1004 // 资源未找到

	// 认证与用户相关错误码 (2000-2999)
	ErrInvalidCredentials ErrorCode = 2000 // 邮箱或密码错误
	ErrInvalidToken       ErrorCode = 2001 // 令牌无效
	ErrUserExists         ErrorCode = 2002 // 用户已存在
	ErrUserNotFound       ErrorCode = 2003 // 用户未找到

	// 论文相关错误码 (3000-3999)
	ErrPaperNotFound     ErrorCode = 3000 // 论文未找到
	ErrPaperFileRequired ErrorCode = 3001 // 缺少论文文件
	ErrPaperFileType     ErrorCode = 3002 // 论文文件类型无效
	ErrNotAuthorized     ErrorCode = 3003 // 无权操作资源

	// 附属资源相关错误码 (4000-4999)
	ErrArtifactNotFound  ErrorCode = 4000 // 附属资源未找到
	ErrArtifactNoContent ErrorCode = 4001 // 附属资源没有可下载内容

	// 阅读列表相关错误码 (5000-5999)
	ErrReadingListNotFound ErrorCode = 5000 // 阅读列表未找到
	ErrPaperAlreadyInList  ErrorCode = 5001 // 论文已在阅读列表中

	// 文件存储相关错误码 (7000-7999)
	ErrFileSaveFailed   ErrorCode = 7000 // 文件保存失败
	ErrFileDeleteFailed ErrorCode = 7001 // 文件删除失败
	ErrFileTooLarge     ErrorCode = 7002 // 文件大小超限

	// 存储镜像相关错误码 (8000-8999)
	ErrOSSConfigNotFound       ErrorCode = 8000 // 镜像配置未找到
	ErrOSSConnectionFailed     ErrorCode = 8001 // 镜像连接失败
	ErrOSSProviderNotSupported ErrorCode = 8002 // 镜像提供商不支持

	// 数据库相关错误码 (9000-9999)
	ErrRecordNotFound ErrorCode = 9000 // 记录未找到
)

// AppError 应用错误结构体
// @Description 应用程序统一错误格式
type AppError struct {
	// 错误码
	Code ErrorCode `json:"code"`
	// 错误消息
	Message string `json:"message"`
	// 详细错误信息
	Details string `json:"details,omitempty"`
	// 原始错误
	OriginalError error `json:"-"`
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%d] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap 返回原始错误，支持errors.Is/As链
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// Is 按错误码匹配，使WithDetails产生的副本仍与预定义错误等值
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Code == e.Code
}

// WithDetails 添加详细错误信息
func (e *AppError) WithDetails(details string) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// HTTPStatus 返回错误码对应的HTTP状态码
// 边界层据此将类型化错误映射为响应状态
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrInvalidParams, ErrPaperFileRequired, ErrPaperFileType,
		ErrUserExists, ErrPaperAlreadyInList, ErrFileTooLarge:
		return http.StatusBadRequest
	case ErrUnauthorized, ErrInvalidCredentials, ErrInvalidToken:
		return http.StatusUnauthorized
	case ErrForbidden, ErrNotAuthorized:
		return http.StatusForbidden
	case ErrNotFound, ErrUserNotFound, ErrPaperNotFound, ErrArtifactNotFound,
		ErrArtifactNoContent, ErrReadingListNotFound, ErrRecordNotFound,
		ErrOSSConfigNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap 包装原始错误
func Wrap(code ErrorCode, message string, err error) *AppError {
	appErr := &AppError{
		Code:          code,
		Message:       message,
		OriginalError: err,
	}
	if err != nil {
		appErr.Details = err.Error()
	}
	return appErr
}

// GetAppError 从错误中提取应用错误
func GetAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}

// 预定义的常用错误
var (
	ErrInternalServerError = New(ErrInternalServer, GetErrorMessage(ErrInternalServer))
	ErrInvalidParameters   = New(ErrInvalidParams, GetErrorMessage(ErrInvalidParams))
	ErrUnauthorizedAccess  = New(ErrUnauthorized, GetErrorMessage(ErrUnauthorized))
	ErrForbiddenAccess     = New(ErrForbidden, GetErrorMessage(ErrForbidden))
	ErrResourceNotFound    = New(ErrNotFound, GetErrorMessage(ErrNotFound))

	ErrInvalidCredentialsError = New(ErrInvalidCredentials, GetErrorMessage(ErrInvalidCredentials))
	ErrInvalidTokenError       = New(ErrInvalidToken, GetErrorMessage(ErrInvalidToken))
	ErrUserExistsError         = New(ErrUserExists, GetErrorMessage(ErrUserExists))
	ErrUserNotFoundError       = New(ErrUserNotFound, GetErrorMessage(ErrUserNotFound))

	ErrPaperNotFoundError     = New(ErrPaperNotFound, GetErrorMessage(ErrPaperNotFound))
	ErrPaperFileRequiredError = New(ErrPaperFileRequired, GetErrorMessage(ErrPaperFileRequired))
	ErrPaperFileTypeError     = New(ErrPaperFileType, GetErrorMessage(ErrPaperFileType))
	ErrNotAuthorizedError     = New(ErrNotAuthorized, GetErrorMessage(ErrNotAuthorized))

	ErrArtifactNotFoundError  = New(ErrArtifactNotFound, GetErrorMessage(ErrArtifactNotFound))
	ErrArtifactNoContentError = New(ErrArtifactNoContent, GetErrorMessage(ErrArtifactNoContent))

	ErrReadingListNotFoundError = New(ErrReadingListNotFound, GetErrorMessage(ErrReadingListNotFound))
	ErrPaperAlreadyInListError  = New(ErrPaperAlreadyInList, GetErrorMessage(ErrPaperAlreadyInList))

	ErrOSSConfigNotFoundError       = New(ErrOSSConfigNotFound, GetErrorMessage(ErrOSSConfigNotFound))
	ErrOSSConnectionFailedError     = New(ErrOSSConnectionFailed, GetErrorMessage(ErrOSSConnectionFailed))
	ErrOSSProviderNotSupportedError = New(ErrOSSProviderNotSupported, GetErrorMessage(ErrOSSProviderNotSupported))
)

// 错误码到i18n键的映射
var errorCodeToKeyMap = map[ErrorCode]string{
	ErrSuccess:        "success",
	ErrInternalServer: "internal_server_error",
	ErrInvalidParams:  "invalid_params",
	ErrUnauthorized:   "unauthorized",
	ErrForbidden:      "forbidden",
	ErrNotFound:       "not_found",

	ErrInvalidCredentials: "invalid_credentials",
	ErrInvalidToken:       "invalid_token",
	ErrUserExists:         "user_exists",
	ErrUserNotFound:       "user_not_found",

	ErrPaperNotFound:     "paper_not_found",
	ErrPaperFileRequired: "paper_file_required",
	ErrPaperFileType:     "paper_file_type",
	ErrNotAuthorized:     "not_authorized",

	ErrArtifactNotFound:  "artifact_not_found",
	ErrArtifactNoContent: "artifact_no_content",

	ErrReadingListNotFound: "reading_list_not_found",
	ErrPaperAlreadyInList:  "paper_already_in_list",

	ErrFileSaveFailed:   "file_save_failed",
	ErrFileDeleteFailed: "file_delete_failed",
	ErrFileTooLarge:     "file_too_large",

	ErrOSSConfigNotFound:       "oss_config_not_found",
	ErrOSSConnectionFailed:     "oss_connection_failed",
	ErrOSSProviderNotSupported: "oss_provider_not_supported",

	ErrRecordNotFound: "record_not_found",
}

// GetErrorMessage 根据错误码获取错误消息（使用默认语言）
func GetErrorMessage(code ErrorCode) string {
	return GetErrorMessageWithLang(code, i18n.GetInstance().GetDefaultLanguage())
}

// GetErrorMessageWithLang 根据错误码和语言获取错误消息
func GetErrorMessageWithLang(code ErrorCode, lang string) string {
	key, exists := errorCodeToKeyMap[code]
	if !exists {
		key = "unknown_error"
	}
	return i18n.GetInstance().Translate(key, lang)
}
