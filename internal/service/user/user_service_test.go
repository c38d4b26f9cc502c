package user

import (
	"fmt"
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
	u := &database.User{
		UserID:       uuid.New().String(),
		Name:         "测试用户",
		Email:        fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func TestListUsers(t *testing.T) {
	t.Run("分页返回用户", func(t *testing.T) {
		svc, db := setupService(t)
		for i := 0; i < 15; i++ {
			testUser(t, db, database.RoleStudent)
		}

		users, total, err := svc.List(1, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 15, total)
		assert.Len(t, users, 10)

		users, _, err = svc.List(2, 10)
		require.NoError(t, err)
		assert.Len(t, users, 5)
	})
}

func TestGetUser(t *testing.T) {
	t.Run("按公开ID查询", func(t *testing.T) {
		svc, db := setupService(t)
		u := testUser(t, db, database.RoleFaculty)

		got, err := svc.GetByID(u.UserID)
		require.NoError(t, err)
		assert.Equal(t, u.Email, got.Email)
	})

	t.Run("不存在的用户", func(t *testing.T) {
		svc, _ := setupService(t)
		_, err := svc.GetByID(uuid.New().String())
		assert.ErrorIs(t, err, apperrors.ErrUserNotFoundError)
	})
}

func TestUpdateUser(t *testing.T) {
	t.Run("仅更新提供的字段", func(t *testing.T) {
		svc, db := setupService(t)
		u := testUser(t, db, database.RoleStudent)

		name := "新名字"
		updated, err := svc.Update(u.UserID, &UpdateRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "新名字", updated.Name)
		assert.Equal(t, u.Email, updated.Email)
		assert.Equal(t, database.RoleStudent, updated.Role)
	})

	t.Run("邮箱归一化为小写", func(t *testing.T) {
		svc, db := setupService(t)
		u := testUser(t, db, database.RoleStudent)

		email := "Mixed@Example.COM"
		updated, err := svc.Update(u.UserID, &UpdateRequest{Email: &email})
		require.NoError(t, err)
		assert.Equal(t, "mixed@example.com", updated.Email)
	})

	t.Run("角色升级为教师", func(t *testing.T) {
		svc, db := setupService(t)
		u := testUser(t, db, database.RoleStudent)

		role := database.RoleFaculty
		updated, err := svc.Update(u.UserID, &UpdateRequest{Role: &role})
		require.NoError(t, err)
		assert.Equal(t, database.RoleFaculty, updated.Role)
	})

	t.Run("未知角色被拒绝", func(t *testing.T) {
		svc, db := setupService(t)
		u := testUser(t, db, database.RoleStudent)

		role := "superuser"
		_, err := svc.Update(u.UserID, &UpdateRequest{Role: &role})
		assert.ErrorIs(t, err, apperrors.ErrInvalidParameters)

		got, err := svc.GetByID(u.UserID)
		require.NoError(t, err)
		assert.Equal(t, database.RoleStudent, got.Role)
	})

	t.Run("更新不存在的用户", func(t *testing.T) {
		svc, _ := setupService(t)
		name := "无人"
		_, err := svc.Update(uuid.New().String(), &UpdateRequest{Name: &name})
		assert.ErrorIs(t, err, apperrors.ErrUserNotFoundError)
	})
}

func TestDeleteUser(t *testing.T) {
	t.Run("软删除后不可再查询", func(t *testing.T) {
		svc, db := setupService(t)
		u := testUser(t, db, database.RoleStudent)

		require.NoError(t, svc.Delete(u.UserID))

		_, err := svc.GetByID(u.UserID)
		assert.ErrorIs(t, err, apperrors.ErrUserNotFoundError)

		// 软删除保留行，deleted_at被置位
		var count int64
		require.NoError(t, db.Unscoped().
			Model(&database.User{}).
			Where("user_id = ? AND deleted_at IS NOT NULL", u.UserID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("删除用户保留其论文", func(t *testing.T) {
		svc, db := setupService(t)
		u := testUser(t, db, database.RoleFaculty)
		paper := &database.Paper{
			PaperID: uuid.New().String(),
			OwnerID: u.UserID,
			Title:   "遗留论文",
		}
		require.NoError(t, db.Create(paper).Error)

		require.NoError(t, svc.Delete(u.UserID))

		var count int64
		require.NoError(t, db.Model(&database.Paper{}).
			Where("paper_id = ?", paper.PaperID).
			Count(&count).Error)
		assert.EqualValues(t, 1, count)
	})

	t.Run("删除不存在的用户", func(t *testing.T) {
		svc, _ := setupService(t)
		err := svc.Delete(uuid.New().String())
		assert.ErrorIs(t, err, apperrors.ErrUserNotFoundError)
	})
}
