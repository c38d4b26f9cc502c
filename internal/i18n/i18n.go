// Package i18n 提供国际化支持
// 负责管理应用程序的语言包和错误消息翻译
package i18n

import (
	"sync"
)

// 支持的语言
const (
	LangZhCN = "zh-CN"
	LangEnUS = "en-US"
)

var (
	instance *I18n
	once     sync.Once

	// 语言包存储
	translations = map[string]map[string]string{
		LangZhCN: {
			"success":               "成功",
			"internal_server_error": "服务器内部错误",
			"invalid_params":        "参数错误",
			"unauthorized":          "未授权",
			"forbidden":             "禁止访问",
			"not_found":             "资源未找到",

			"invalid_credentials": "邮箱或密码错误",
			"invalid_token":       "令牌无效",
			"user_exists":         "用户已存在",
			"user_not_found":      "用户未找到",

			"paper_not_found":        "论文未找到",
			"paper_file_required":    "缺少论文文件",
			"paper_file_type":        "论文文件类型无效，仅支持PDF",
			"not_authorized":         "无权操作该资源",
			"artifact_not_found":     "附属资源未找到",
			"artifact_no_content":    "附属资源没有可下载内容",
			"reading_list_not_found": "阅读列表未找到",
			"paper_already_in_list":  "论文已在该阅读列表中",

			"file_save_failed":   "文件保存失败",
			"file_delete_failed": "文件删除失败",
			"file_too_large":     "文件大小超限",

			"oss_config_not_found":       "存储镜像配置未找到",
			"oss_connection_failed":      "存储镜像连接失败",
			"oss_provider_not_supported": "存储镜像提供商不支持",

			"record_not_found": "记录未找到",
			"unknown_error":    "未知错误",
		},
		LangEnUS: {
			"success":               "Success",
			"internal_server_error": "Internal Server Error",
			"invalid_params":        "Invalid Parameters",
			"unauthorized":          "Unauthorized",
			"forbidden":             "Forbidden",
			"not_found":             "Resource Not Found",

			"invalid_credentials": "Invalid email or password",
			"invalid_token":       "Token is not valid",
			"user_exists":         "User already exists",
			"user_not_found":      "User not found",

			"paper_not_found":        "Paper not found",
			"paper_file_required":    "Paper file is required",
			"paper_file_type":        "Invalid paper file type. Only PDF is allowed",
			"not_authorized":         "Not authorized to access this resource",
			"artifact_not_found":     "Artifact not found",
			"artifact_no_content":    "No downloadable content for this artifact",
			"reading_list_not_found": "Reading list not found",
			"paper_already_in_list":  "Paper already in this reading list",

			"file_save_failed":   "Failed to save file",
			"file_delete_failed": "Failed to delete file",
			"file_too_large":     "File size exceeds the limit",

			"oss_config_not_found":       "Storage mirror config not found",
			"oss_connection_failed":      "Storage mirror connection failed",
			"oss_provider_not_supported": "Storage mirror provider is not supported",

			"record_not_found": "Record not found",
			"unknown_error":    "Unknown error",
		},
	}
)

// I18n 国际化管理器
type I18n struct {
	defaultLanguage string
	mu              sync.RWMutex
}

// GetInstance 获取国际化管理器单例
func GetInstance() *I18n {
	once.Do(func() {
		instance = &I18n{
			defaultLanguage: LangEnUS,
		}
	})
	return instance
}

// GetDefaultLanguage 获取默认语言
func (i *I18n) GetDefaultLanguage() string {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.defaultLanguage
}

// SetDefaultLanguage 设置默认语言
func (i *I18n) SetDefaultLanguage(lang string) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if _, ok := translations[lang]; ok {
		i.defaultLanguage = lang
	}
}

// Translate 翻译指定键的消息
// 语言未收录或键不存在时回退到默认语言，再回退到键本身
func (i *I18n) Translate(key, lang string) string {
	if msgs, ok := translations[lang]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	if msgs, ok := translations[i.GetDefaultLanguage()]; ok {
		if msg, ok := msgs[key]; ok {
			return msg
		}
	}
	return key
}
