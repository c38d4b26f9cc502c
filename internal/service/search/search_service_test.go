package search

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/database"
)

func setupService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(db), db
}

func seedPaper(t *testing.T, db *gorm.DB, title, abstract string, authors, keywords []string) {
	t.Helper()
	require.NoError(t, db.Create(&database.Paper{
		PaperID:  uuid.New().String(),
		OwnerID:  uuid.New().String(),
		Title:    title,
		Abstract: abstract,
		Authors:  authors,
		Keywords: keywords,
	}).Error)
}

func TestSearch(t *testing.T) {
	t.Run("空查询返回空结果而不是全部", func(t *testing.T) {
		svc, db := setupService(t)
		seedPaper(t, db, "有一篇论文", "摘要", nil, nil)

		for _, q := range []string{"", "   "} {
			result, err := svc.Search(q, 1, 10)
			require.NoError(t, err)
			assert.Empty(t, result.Papers)
			assert.Zero(t, result.Total)
		}
	})

	t.Run("大小写不敏感的子串匹配", func(t *testing.T) {
		svc, db := setupService(t)
		seedPaper(t, db, "Attention Is All You Need", "transformer架构", nil, []string{"attention"})
		seedPaper(t, db, "别的论文", "别的摘要", nil, nil)

		result, err := svc.Search("ATTENTION", 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, result.Total)
		require.Len(t, result.Papers, 1)
		assert.Equal(t, "Attention Is All You Need", result.Papers[0].Title)
	})

	t.Run("作者字段可被匹配", func(t *testing.T) {
		svc, db := setupService(t)
		seedPaper(t, db, "某论文", "摘要", []string{"Yoshua Bengio"}, nil)

		result, err := svc.Search("bengio", 1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, result.Total)
	})

	t.Run("分页截断", func(t *testing.T) {
		svc, db := setupService(t)
		for i := 0; i < 7; i++ {
			seedPaper(t, db, "graph neural network", "摘要", nil, nil)
		}

		result, err := svc.Search("graph", 2, 3)
		require.NoError(t, err)
		assert.EqualValues(t, 7, result.Total)
		assert.Len(t, result.Papers, 3)
		assert.Equal(t, 2, result.Page)
	})

	t.Run("无匹配时返回空结果", func(t *testing.T) {
		svc, db := setupService(t)
		seedPaper(t, db, "论文", "摘要", nil, nil)

		result, err := svc.Search("不存在的关键词xyz", 1, 10)
		require.NoError(t, err)
		assert.Empty(t, result.Papers)
		assert.Zero(t, result.Total)
	})
}
