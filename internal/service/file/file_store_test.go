package file

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaabil/manajemenpaper/config"
	apperrors "github.com/asaabil/manajemenpaper/internal/errors"
)

func makeFileHeader(t *testing.T, filename, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
	h.Set("Content-Type", "application/pdf")
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestSaveUpload(t *testing.T) {
	t.Run("保存上传文件并生成防冲突文件名", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewStore(config.FileConfig{UploadDir: dir})
		require.NoError(t, err)

		stored, err := store.SaveUpload(makeFileHeader(t, "paper.pdf", "content"), CategoryPapers)
		require.NoError(t, err)
		assert.Equal(t, "paper.pdf", stored.Filename)
		assert.Equal(t, "application/pdf", stored.MimeType)
		assert.EqualValues(t, len("content"), stored.Size)
		assert.FileExists(t, stored.Path)
		assert.Equal(t, filepath.Join(dir, CategoryPapers), filepath.Dir(stored.Path))
		assert.NotEqual(t, "paper.pdf", filepath.Base(stored.Path))

		data, err := os.ReadFile(stored.Path)
		require.NoError(t, err)
		assert.Equal(t, "content", string(data))
	})

	t.Run("同名文件互不覆盖", func(t *testing.T) {
		store, err := NewStore(config.FileConfig{UploadDir: t.TempDir()})
		require.NoError(t, err)

		first, err := store.SaveUpload(makeFileHeader(t, "same.pdf", "a"), CategoryPapers)
		require.NoError(t, err)
		second, err := store.SaveUpload(makeFileHeader(t, "same.pdf", "b"), CategoryPapers)
		require.NoError(t, err)
		assert.NotEqual(t, first.Path, second.Path)
		assert.FileExists(t, first.Path)
		assert.FileExists(t, second.Path)
	})

	t.Run("超过大小限制时拒绝", func(t *testing.T) {
		store, err := NewStore(config.FileConfig{UploadDir: t.TempDir(), MaxPaperSize: 3})
		require.NoError(t, err)

		_, err = store.SaveUpload(makeFileHeader(t, "big.pdf", "too large"), CategoryPapers)
		require.Error(t, err)
		appErr, ok := apperrors.GetAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrFileTooLarge, appErr.Code)
	})
}

func TestRemove(t *testing.T) {
	t.Run("删除已存在的文件", func(t *testing.T) {
		store, err := NewStore(config.FileConfig{UploadDir: t.TempDir()})
		require.NoError(t, err)
		stored, err := store.SaveUpload(makeFileHeader(t, "gone.pdf", "x"), CategoryArtifacts)
		require.NoError(t, err)

		store.Remove(stored.Path)
		assert.NoFileExists(t, stored.Path)
	})

	t.Run("文件不存在时静默返回", func(t *testing.T) {
		store, err := NewStore(config.FileConfig{UploadDir: t.TempDir()})
		require.NoError(t, err)

		store.Remove(filepath.Join(t.TempDir(), "missing.pdf"))
		store.Remove("")
	})
}
