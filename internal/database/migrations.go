// Package database 提供数据库迁移和初始化功能
package database

import (
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/logger"
)

// Migrate 执行全部表结构的自动迁移并建立索引
func Migrate(db *gorm.DB) error {
	logger.Info("running database migrations")

	err := db.AutoMigrate(
		&User{},            // 用户表
		&Paper{},           // 论文主表
		&PaperVersion{},    // 论文版本快照表
		&Artifact{},        // 附属资源表
		&ReadingList{},     // 阅读列表表
		&ReadingListItem{}, // 阅读列表条目表
		&OSSConfig{},       // 存储镜像配置表
		&SyncLog{},         // 镜像操作日志表
	)
	if err != nil {
		return err
	}

	if err := createIndexes(db); err != nil {
		return err
	}

	logger.Info("database migrations completed")
	return nil
}

// createIndexes 创建复合索引以优化查询性能
func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// 按所有者和时间浏览论文
		"CREATE INDEX IF NOT EXISTS idx_papers_owner_created ON papers(owner_id, created_at DESC) WHERE deleted_at IS NULL",
		// 公开论文列表
		"CREATE INDEX IF NOT EXISTS idx_papers_public_created ON papers(is_public, created_at DESC) WHERE deleted_at IS NULL",
		// 统计排行
		"CREATE INDEX IF NOT EXISTS idx_papers_downloads ON papers(download_count DESC) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_papers_views ON papers(view_count DESC) WHERE deleted_at IS NULL",
		// 论文的附属资源与版本查询
		"CREATE INDEX IF NOT EXISTS idx_artifacts_paper ON artifacts(paper_id, created_at) WHERE deleted_at IS NULL",
		"CREATE INDEX IF NOT EXISTS idx_paper_versions_paper ON paper_versions(paper_id, created_at)",
		// 阅读列表条目去重查询
		"CREATE INDEX IF NOT EXISTS idx_reading_list_items_list_paper ON reading_list_items(list_id, paper_id)",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return err
		}
	}
	return nil
}
