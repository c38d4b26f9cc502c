// Package database 定义了论文相关的数据库模型
// 包含论文主体、历史版本和附属资源等核心数据模型
package database

import (
	"time"

	"gorm.io/gorm"
)

// 附属资源类型常量
const (
	ArtifactTypeDataset    = "dataset"     // 数据集
	ArtifactTypeSourceCode = "source_code" // 源代码
	ArtifactTypeDiagram    = "diagram"     // 图表
	ArtifactTypeOther      = "other"       // 其他，需提供显示名称
)

// 附属资源来源类型常量
const (
	SourceTypeFile = "file" // 上传文件
	SourceTypeLink = "link" // 外部链接
)

// StoredFile 存储文件描述符
// 作为嵌入结构体使用，记录磁盘上一个文件的位置与元信息
type StoredFile struct {
	Path     string `gorm:"size:500" json:"path"`      // 文件在存储系统中的完整路径
	Filename string `gorm:"size:255" json:"filename"`  // 原始文件名，仅作为展示元信息
	MimeType string `gorm:"size:100" json:"mime_type"` // 媒体类型
	Size     int64  `json:"size"`                      // 文件大小，单位为字节
}

// IsZero 判断描述符是否为空
func (f StoredFile) IsZero() bool {
	return f.Path == ""
}

// Paper 论文模型
// 存储上传的学术文献及其主文件描述符、统计计数和可见性
// 每篇论文始终持有且仅持有一个主文件描述符
type Paper struct {
	ID              uint           `gorm:"primarykey" json:"-"`                            // 主键ID，自增
	PaperID         string         `gorm:"uniqueIndex;not null;size:36" json:"paper_id"`   // 论文唯一标识符（UUID格式）
	OwnerID         string         `gorm:"not null;index;size:36" json:"owner_id"`         // 所有者用户ID，创建后不可变
	Title           string         `gorm:"not null;size:500" json:"title"`                 // 论文标题，必填
	Abstract        string         `gorm:"not null;type:text" json:"abstract"`             // 摘要，必填
	Authors         []string       `gorm:"serializer:json;type:text" json:"authors"`       // 作者列表，保序
	Institution     string         `gorm:"size:200" json:"institution"`                    // 所属机构，可选
	Keywords        []string       `gorm:"serializer:json;type:text" json:"keywords"`      // 关键词列表，保序
	PublicationDate *time.Time     `json:"publication_date"`                               // 发表日期，可为空（区别于解析失败）
	Categories      []string       `gorm:"serializer:json;type:text" json:"categories"`    // 分类列表，保序
	File            StoredFile     `gorm:"embedded;embeddedPrefix:file_" json:"file"`      // 主文件描述符（PDF），必填
	ViewCount       int64          `gorm:"default:0" json:"view_count"`                    // 查看次数统计，单调不减
	DownloadCount   int64          `gorm:"default:0" json:"download_count"`                // 下载次数统计，单调不减
	IsPublic        bool           `json:"is_public"`                                      // 是否公开，服务层按表单值显式设置
	CreatedAt       time.Time      `json:"created_at"`                                     // 记录创建时间
	UpdatedAt       time.Time      `json:"updated_at"`                                     // 记录最后更新时间
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`                                 // 软删除时间戳，支持逻辑删除

	// 关联关系
	Versions []PaperVersion `gorm:"foreignKey:PaperID;references:PaperID" json:"versions,omitempty"` // 历史版本快照，仅追加

	// 按需装配的瞬态字段，由服务层显式填充（见仓库的显式关联装配约定）
	Artifacts []Artifact  `gorm:"-" json:"artifacts,omitempty"` // 附属资源列表
	Owner     *PublicUser `gorm:"-" json:"owner,omitempty"`     // 所有者公开信息
}

// TableName 指定Paper模型对应的数据库表名
func (Paper) TableName() string {
	return "papers"
}

// PaperVersion 论文版本快照模型
// 主文件被替换时保留的不可变历史副本，只追加、不修改、不重排
type PaperVersion struct {
	ID        uint       `gorm:"primarykey" json:"-"`                       // 主键ID，自增
	PaperID   string     `gorm:"not null;index;size:36" json:"paper_id"`    // 所属论文ID
	File      StoredFile `gorm:"embedded;embeddedPrefix:file_" json:"file"` // 版本文件描述符
	Note      string     `gorm:"size:500" json:"note"`                      // 版本备注，可选
	CreatedAt time.Time  `json:"created_at"`                                // 版本创建时间
}

// TableName 指定PaperVersion模型对应的数据库表名
func (PaperVersion) TableName() string {
	return "paper_versions"
}

// Artifact 附属资源模型
// 附着于且仅附着于一篇论文的支撑资源，来源为上传文件或外部链接二选一
// (type, source_type)组合必须内部一致：文件来源不携带URL，链接来源不携带文件
type Artifact struct {
	ID            uint           `gorm:"primarykey" json:"-"`                             // 主键ID，自增
	ArtifactID    string         `gorm:"uniqueIndex;not null;size:36" json:"artifact_id"` // 附属资源唯一标识符（UUID格式）
	PaperID       string         `gorm:"not null;index;size:36" json:"paper_id"`          // 所属论文ID，创建后不可变
	Type          string         `gorm:"not null;size:20" json:"type"`                    // 资源类型：dataset、source_code、diagram、other
	Name          string         `gorm:"size:255" json:"name"`                            // 显示名称，type为other时必填
	SourceType    string         `gorm:"not null;size:10" json:"source_type"`             // 来源类型：file、link
	File          StoredFile     `gorm:"embedded;embeddedPrefix:file_" json:"file"`       // 文件描述符，仅file来源时填充
	URL           string         `gorm:"size:1000" json:"url"`                            // 外部链接，仅link来源时填充
	DownloadCount int64          `gorm:"default:0" json:"download_count"`                 // 下载次数统计
	CreatedAt     time.Time      `json:"created_at"`                                      // 记录创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                      // 记录最后更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                  // 软删除时间戳，支持逻辑删除
}

// TableName 指定Artifact模型对应的数据库表名
func (Artifact) TableName() string {
	return "artifacts"
}

// HasFile 判断附属资源是否携带存储文件
func (a *Artifact) HasFile() bool {
	return !a.File.IsZero()
}
