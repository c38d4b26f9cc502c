package readinglist

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
)

func setupService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(db), db
}

func testUser(t *testing.T, db *gorm.DB, role string) *database.User {
	t.Helper()
	user := &database.User{
		UserID:       uuid.New().String(),
		Name:         "测试用户",
		Email:        uuid.New().String() + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func testPaper(t *testing.T, db *gorm.DB, owner *database.User, title string) *database.Paper {
	t.Helper()
	p := &database.Paper{
		PaperID:  uuid.New().String(),
		OwnerID:  owner.UserID,
		Title:    title,
		Abstract: "摘要",
	}
	require.NoError(t, db.Create(p).Error)
	return p
}

func TestReadingListCRUD(t *testing.T) {
	t.Run("创建与查询", func(t *testing.T) {
		svc, db := setupService(t)
		owner := testUser(t, db, database.RoleStudent)

		list, err := svc.Create(&CreateRequest{Name: "毕业论文参考", Description: "相关文献"}, owner)
		require.NoError(t, err)
		assert.NotEmpty(t, list.ListID)
		assert.False(t, list.IsPublic)

		got, err := svc.GetByID(list.ListID, owner)
		require.NoError(t, err)
		assert.Equal(t, "毕业论文参考", got.Name)
		assert.Empty(t, got.Papers)
	})

	t.Run("非公开列表对他人不可见", func(t *testing.T) {
		svc, db := setupService(t)
		owner := testUser(t, db, database.RoleStudent)
		other := testUser(t, db, database.RoleStudent)
		list, err := svc.Create(&CreateRequest{Name: "私人列表"}, owner)
		require.NoError(t, err)

		_, err = svc.GetByID(list.ListID, other)
		assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedError)
	})

	t.Run("公开列表任何人可读但不可改", func(t *testing.T) {
		svc, db := setupService(t)
		owner := testUser(t, db, database.RoleStudent)
		other := testUser(t, db, database.RoleStudent)
		list, err := svc.Create(&CreateRequest{Name: "公开列表", IsPublic: true}, owner)
		require.NoError(t, err)

		_, err = svc.GetByID(list.ListID, other)
		assert.NoError(t, err)

		name := "越权改名"
		_, err = svc.Update(list.ListID, &UpdateRequest{Name: &name}, other)
		assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedError)
	})

	t.Run("删除列表不影响论文", func(t *testing.T) {
		svc, db := setupService(t)
		owner := testUser(t, db, database.RoleStudent)
		faculty := testUser(t, db, database.RoleFaculty)
		p := testPaper(t, db, faculty, "留下的论文")
		list, err := svc.Create(&CreateRequest{Name: "短命列表"}, owner)
		require.NoError(t, err)
		_, err = svc.AddPaper(list.ListID, p.PaperID, owner)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(list.ListID, owner))
		_, err = svc.GetByID(list.ListID, owner)
		assert.ErrorIs(t, err, apperrors.ErrReadingListNotFoundError)

		var papers int64
		require.NoError(t, db.Model(&database.Paper{}).Count(&papers).Error)
		assert.EqualValues(t, 1, papers)
	})
}

func TestReadingListItems(t *testing.T) {
	t.Run("添加与移除论文", func(t *testing.T) {
		svc, db := setupService(t)
		owner := testUser(t, db, database.RoleStudent)
		faculty := testUser(t, db, database.RoleFaculty)
		p1 := testPaper(t, db, faculty, "论文一")
		p2 := testPaper(t, db, faculty, "论文二")
		list, err := svc.Create(&CreateRequest{Name: "列表"}, owner)
		require.NoError(t, err)

		_, err = svc.AddPaper(list.ListID, p1.PaperID, owner)
		require.NoError(t, err)
		got, err := svc.AddPaper(list.ListID, p2.PaperID, owner)
		require.NoError(t, err)
		require.Len(t, got.Papers, 2)
		assert.Equal(t, "论文一", got.Papers[0].Title)

		got, err = svc.RemovePaper(list.ListID, p1.PaperID, owner)
		require.NoError(t, err)
		require.Len(t, got.Papers, 1)
		assert.Equal(t, "论文二", got.Papers[0].Title)
	})

	t.Run("重复添加返回冲突", func(t *testing.T) {
		svc, db := setupService(t)
		owner := testUser(t, db, database.RoleStudent)
		faculty := testUser(t, db, database.RoleFaculty)
		p := testPaper(t, db, faculty, "论文")
		list, err := svc.Create(&CreateRequest{Name: "列表"}, owner)
		require.NoError(t, err)

		_, err = svc.AddPaper(list.ListID, p.PaperID, owner)
		require.NoError(t, err)
		_, err = svc.AddPaper(list.ListID, p.PaperID, owner)
		assert.ErrorIs(t, err, apperrors.ErrPaperAlreadyInListError)
	})

	t.Run("不存在的论文无法添加", func(t *testing.T) {
		svc, db := setupService(t)
		owner := testUser(t, db, database.RoleStudent)
		list, err := svc.Create(&CreateRequest{Name: "列表"}, owner)
		require.NoError(t, err)

		_, err = svc.AddPaper(list.ListID, uuid.New().String(), owner)
		assert.ErrorIs(t, err, apperrors.ErrPaperNotFoundError)
	})

	t.Run("已删除论文从内容中过滤", func(t *testing.T) {
		svc, db := setupService(t)
		owner := testUser(t, db, database.RoleStudent)
		faculty := testUser(t, db, database.RoleFaculty)
		p1 := testPaper(t, db, faculty, "保留")
		p2 := testPaper(t, db, faculty, "将被删除")
		list, err := svc.Create(&CreateRequest{Name: "列表"}, owner)
		require.NoError(t, err)
		_, err = svc.AddPaper(list.ListID, p1.PaperID, owner)
		require.NoError(t, err)
		_, err = svc.AddPaper(list.ListID, p2.PaperID, owner)
		require.NoError(t, err)

		require.NoError(t, db.Delete(p2).Error)

		got, err := svc.GetByID(list.ListID, owner)
		require.NoError(t, err)
		require.Len(t, got.Papers, 1)
		assert.Equal(t, "保留", got.Papers[0].Title)
	})
}
