// Package database 定义了数据库相关的模型和结构体
// 包含用户、论文、附属资源、阅读列表和存储镜像等核心数据模型
package database

// 此文件保留作为数据库模型包的入口文件
// 具体的模型定义已拆分到以下文件：
// - user_models.go: 用户相关模型（User）
// - paper_models.go: 论文相关模型（Paper, PaperVersion, Artifact）
// - reading_list_models.go: 阅读列表相关模型（ReadingList, ReadingListItem）
// - oss_models.go: 存储镜像相关模型（OSSConfig, SyncLog）
