package paper

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/asaabil/manajemenpaper/config"
	"github.com/asaabil/manajemenpaper/internal/database"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
	fileservice "github.com/asaabil/manajemenpaper/internal/service/file"
)

// setupTestDB 设置内存数据库
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// setupService 设置论文服务与临时文件存储
func setupService(t *testing.T) (Service, *gorm.DB, string) {
	t.Helper()
	db := setupTestDB(t)
	uploadDir := t.TempDir()
	store, err := fileservice.NewStore(config.FileConfig{UploadDir: uploadDir})
	require.NoError(t, err)
	return NewService(db, store), db, uploadDir
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

// createForm 构造一份携带主文件与两个附属资源的创建表单
func createForm(t *testing.T) (map[string][]string, []UploadedFile) {
	t.Helper()
	form := map[string][]string{
		"title":                    {"深度学习综述"},
		"abstract":                 {"关于深度学习的一篇综述"},
		"authors":                  {"张三, 李四"},
		"keywords":                 {"deep learning,survey"},
		"categories":               {"cs.LG"},
		"institution":              {"某大学"},
		"publicationDate":          {"2023-06-15"},
		"isPublic":                 {"true"},
		"artifacts[0][type]":       {"dataset"},
		"artifacts[0][name]":       {"数据集"},
		"artifacts[0][sourceType]": {"link"},
		"artifacts[0][value]":      {"https://example.com/data.zip"},
		"artifacts[1][type]":       {"source_code"},
		"artifacts[1][sourceType]": {"file"},
	}
	files := []UploadedFile{
		{FieldName: PrimaryFileField, Header: makeFileHeader(t, PrimaryFileField, "paper.pdf", "application/pdf", "%PDF-1.4 fake")},
		upload(t, "artifacts[1][value]", "code.tar.gz"),
	}
	return form, files
}

func TestCreatePaper(t *testing.T) {
	t.Run("创建论文并持久化附属资源", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)

		p, err := svc.Create(form, files, owner)
		require.NoError(t, err)
		assert.NotEmpty(t, p.PaperID)
		assert.Equal(t, owner.UserID, p.OwnerID)
		assert.Equal(t, []string{"张三", "李四"}, p.Authors)
		assert.Equal(t, []string{"deep learning", "survey"}, p.Keywords)
		require.NotNil(t, p.PublicationDate)
		assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), *p.PublicationDate)
		assert.True(t, p.IsPublic)
		assert.FileExists(t, p.File.Path)
		require.NotNil(t, p.Owner)
		assert.Equal(t, owner.UserID, p.Owner.UserID)

		require.Len(t, p.Artifacts, 2)
		assert.Equal(t, "dataset", p.Artifacts[0].Type)
		assert.Equal(t, "https://example.com/data.zip", p.Artifacts[0].URL)
		assert.Equal(t, "source_code", p.Artifacts[1].Type)
		assert.FileExists(t, p.Artifacts[1].File.Path)

		var count int64
		require.NoError(t, db.Model(&database.Artifact{}).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})

	t.Run("缺少主文件时不落任何记录", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		files = files[1:] // 去掉主文件，保留附属资源文件

		_, err := svc.Create(form, files, owner)
		assert.ErrorIs(t, err, apperrors.ErrPaperFileRequiredError)

		var papers, artifacts int64
		require.NoError(t, db.Model(&database.Paper{}).Count(&papers).Error)
		require.NoError(t, db.Model(&database.Artifact{}).Count(&artifacts).Error)
		assert.Zero(t, papers)
		assert.Zero(t, artifacts)
	})

	t.Run("主文件类型不是PDF时拒绝", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, _ := createForm(t)
		files := []UploadedFile{
			{FieldName: PrimaryFileField, Header: makeFileHeader(t, PrimaryFileField, "paper.docx", "application/msword", "not a pdf")},
		}

		_, err := svc.Create(form, files, owner)
		assert.ErrorIs(t, err, apperrors.ErrPaperFileTypeError)
	})

	t.Run("非法日期静默置空", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		form["publicationDate"] = []string{"June 2023"}

		p, err := svc.Create(form, files, owner)
		require.NoError(t, err)
		assert.Nil(t, p.PublicationDate)
	})

	t.Run("isPublic缺席时默认不公开", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		delete(form, "isPublic")

		p, err := svc.Create(form, files, owner)
		require.NoError(t, err)
		assert.False(t, p.IsPublic)

		// 落库的行同样必须是私有
		var stored database.Paper
		require.NoError(t, db.Where("paper_id = ?", p.PaperID).First(&stored).Error)
		assert.False(t, stored.IsPublic)
	})

	t.Run("isPublic为false时持久化为私有", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		form["isPublic"] = []string{"false"}

		p, err := svc.Create(form, files, owner)
		require.NoError(t, err)
		assert.False(t, p.IsPublic)

		var stored database.Paper
		require.NoError(t, db.Where("paper_id = ?", p.PaperID).First(&stored).Error)
		assert.False(t, stored.IsPublic)
	})
}

func TestGetPaper(t *testing.T) {
	t.Run("每次查询同步累加查看计数", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)

		for i := 1; i <= 5; i++ {
			p, err := svc.GetByID(created.PaperID)
			require.NoError(t, err)
			assert.EqualValues(t, i, p.ViewCount)
		}

		var stored database.Paper
		require.NoError(t, db.Where("paper_id = ?", created.PaperID).First(&stored).Error)
		assert.EqualValues(t, 5, stored.ViewCount)
	})

	t.Run("不存在的论文返回未找到", func(t *testing.T) {
		svc, _, _ := setupService(t)
		_, err := svc.GetByID(uuid.New().String())
		assert.ErrorIs(t, err, apperrors.ErrPaperNotFoundError)
	})
}

func TestDownloadPaper(t *testing.T) {
	svc, db, _ := setupService(t)
	owner := testUser(t, db, database.RoleFaculty)
	form, files := createForm(t)
	created, err := svc.Create(form, files, owner)
	require.NoError(t, err)

	p, err := svc.Download(created.PaperID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, p.DownloadCount)
}

func TestUpdatePaper(t *testing.T) {
	t.Run("非所有者且非管理员被拒绝", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		other := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)

		_, err = svc.Update(created.PaperID, map[string][]string{"title": {"改名"}}, nil, other)
		assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedError)
	})

	t.Run("管理员可以修改任意论文", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		admin := testUser(t, db, database.RoleAdmin)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)

		updated, err := svc.Update(created.PaperID, map[string][]string{"title": {"管理员改名"}}, nil, admin)
		require.NoError(t, err)
		assert.Equal(t, "管理员改名", updated.Title)
		assert.Equal(t, owner.UserID, updated.OwnerID)
	})

	t.Run("仅补丁出现的字段", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)

		updated, err := svc.Update(created.PaperID, map[string][]string{
			"abstract": {"新摘要"},
			"keywords": {"updated"},
		}, nil, owner)
		require.NoError(t, err)
		assert.Equal(t, created.Title, updated.Title)
		assert.Equal(t, "新摘要", updated.Abstract)
		assert.Equal(t, []string{"updated"}, updated.Keywords)
		assert.Equal(t, created.Authors, updated.Authors)
	})

	t.Run("附属资源整体替换", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)
		require.Len(t, created.Artifacts, 2)
		oldFilePath := created.Artifacts[1].File.Path

		updated, err := svc.Update(created.PaperID, map[string][]string{
			"artifacts[0][type]":       {"diagram"},
			"artifacts[0][name]":       {"新图表"},
			"artifacts[0][sourceType]": {"link"},
			"artifacts[0][value]":      {"https://example.com/new"},
		}, nil, owner)
		require.NoError(t, err)
		require.Len(t, updated.Artifacts, 1)
		assert.Equal(t, "diagram", updated.Artifacts[0].Type)

		var count int64
		require.NoError(t, db.Model(&database.Artifact{}).Count(&count).Error)
		assert.EqualValues(t, 1, count)
		assert.NoFileExists(t, oldFilePath)
	})

	t.Run("表单不含附属资源时清空集合", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)

		updated, err := svc.Update(created.PaperID, map[string][]string{"title": {"只改标题"}}, nil, owner)
		require.NoError(t, err)
		assert.Empty(t, updated.Artifacts)
	})

	t.Run("替换主文件后旧文件被删除", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)
		oldPath := created.File.Path

		newFiles := []UploadedFile{
			{FieldName: PrimaryFileField, Header: makeFileHeader(t, PrimaryFileField, "v2.pdf", "application/pdf", "%PDF-1.4 v2")},
		}
		updated, err := svc.Update(created.PaperID, map[string][]string{}, newFiles, owner)
		require.NoError(t, err)
		assert.NotEqual(t, oldPath, updated.File.Path)
		assert.FileExists(t, updated.File.Path)
		assert.NoFileExists(t, oldPath)
	})
}

func TestAddVersion(t *testing.T) {
	svc, db, _ := setupService(t)
	owner := testUser(t, db, database.RoleFaculty)
	form, files := createForm(t)
	created, err := svc.Create(form, files, owner)
	require.NoError(t, err)

	fh := makeFileHeader(t, PrimaryFileField, "v2.pdf", "application/pdf", "%PDF-1.4 v2")
	p, err := svc.AddVersion(created.PaperID, fh, "第二版", owner)
	require.NoError(t, err)
	require.Len(t, p.Versions, 1)
	assert.Equal(t, "第二版", p.Versions[0].Note)
	assert.FileExists(t, p.Versions[0].File.Path)
	// 主文件保持不变
	assert.Equal(t, created.File.Path, p.File.Path)
}

func TestDeletePaper(t *testing.T) {
	t.Run("级联删除附属资源与文件", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)
		primaryPath := created.File.Path
		artifactPath := created.Artifacts[1].File.Path

		require.NoError(t, svc.Delete(created.PaperID, owner))

		_, err = svc.GetByID(created.PaperID)
		assert.ErrorIs(t, err, apperrors.ErrPaperNotFoundError)
		var artifacts int64
		require.NoError(t, db.Model(&database.Artifact{}).Count(&artifacts).Error)
		assert.Zero(t, artifacts)
		assert.NoFileExists(t, primaryPath)
		assert.NoFileExists(t, artifactPath)
	})

	t.Run("非所有者删除被拒绝", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		other := testUser(t, db, database.RoleStudent)
		form, files := createForm(t)
		created, err := svc.Create(form, files, owner)
		require.NoError(t, err)

		err = svc.Delete(created.PaperID, other)
		assert.ErrorIs(t, err, apperrors.ErrNotAuthorizedError)
		_, err = os.Stat(created.File.Path)
		assert.NoError(t, err)
	})
}

func TestListPapers(t *testing.T) {
	seed := func(t *testing.T, db *gorm.DB, owner *database.User, n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			require.NoError(t, db.Create(&database.Paper{
				PaperID:  uuid.New().String(),
				OwnerID:  owner.UserID,
				Title:    fmt.Sprintf("论文 %03d", i),
				Abstract: "摘要",
				IsPublic: true,
			}).Error)
		}
	}

	t.Run("分页游标字段计算", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		seed(t, db, owner, 95)

		first, err := svc.List(1, 10, "")
		require.NoError(t, err)
		assert.EqualValues(t, 95, first.Total)
		assert.Equal(t, 10, first.TotalPages)
		assert.Len(t, first.Papers, 10)
		assert.True(t, first.HasNextPage)
		assert.False(t, first.HasPrevPage)

		last, err := svc.List(10, 10, "")
		require.NoError(t, err)
		assert.Len(t, last.Papers, 5)
		assert.False(t, last.HasNextPage)
		assert.True(t, last.HasPrevPage)
	})

	t.Run("关键字大小写不敏感匹配", func(t *testing.T) {
		svc, db, _ := setupService(t)
		owner := testUser(t, db, database.RoleFaculty)
		require.NoError(t, db.Create(&database.Paper{
			PaperID:  uuid.New().String(),
			OwnerID:  owner.UserID,
			Title:    "Neural Machine Translation",
			Abstract: "摘要",
			Keywords: []string{"NMT"},
		}).Error)
		seed(t, db, owner, 3)

		result, err := svc.List(1, 10, "neural")
		require.NoError(t, err)
		assert.EqualValues(t, 1, result.Total)
		require.Len(t, result.Papers, 1)
		assert.Equal(t, "Neural Machine Translation", result.Papers[0].Title)
		require.NotNil(t, result.Papers[0].Owner)
		assert.Equal(t, owner.UserID, result.Papers[0].Owner.UserID)
	})
}
