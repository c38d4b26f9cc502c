package paper

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asaabil/manajemenpaper/internal/database"
)

// makeFileHeader 构造一个真实的multipart文件头
func makeFileHeader(t *testing.T, field, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	require.Len(t, form.File[field], 1)
	return form.File[field][0]
}

func upload(t *testing.T, field, filename string) UploadedFile {
	t.Helper()
	return UploadedFile{
		FieldName: field,
		Header:    makeFileHeader(t, field, filename, "application/octet-stream", "data"),
	}
}

func TestReconstructArtifacts(t *testing.T) {
	t.Run("扁平键形态重建链接资源", func(t *testing.T) {
		form := map[string][]string{
			"artifacts[0][type]":       {"dataset"},
			"artifacts[0][name]":       {"训练数据"},
			"artifacts[0][sourceType]": {"link"},
			"artifacts[0][value]":      {"https://example.com/data.zip"},
		}

		intents := ReconstructArtifacts(form, nil)
		require.Len(t, intents, 1)
		assert.Equal(t, "dataset", intents[0].Type)
		assert.Equal(t, "训练数据", intents[0].Name)
		assert.Equal(t, database.SourceTypeLink, intents[0].SourceType)
		assert.Equal(t, "https://example.com/data.zip", intents[0].URL)
		assert.Nil(t, intents[0].File)
	})

	t.Run("文件来源按字段名关联上传文件", func(t *testing.T) {
		form := map[string][]string{
			"artifacts[0][type]":       {"source_code"},
			"artifacts[0][sourceType]": {"file"},
		}
		files := []UploadedFile{
			upload(t, "paperFile", "main.pdf"),
			upload(t, "artifacts[0][value]", "code.tar.gz"),
		}

		intents := ReconstructArtifacts(form, files)
		require.Len(t, intents, 1)
		require.NotNil(t, intents[0].File)
		assert.Equal(t, "code.tar.gz", intents[0].File.Filename)
	})

	t.Run("结构化JSON数组形态与扁平形态等价", func(t *testing.T) {
		files := []UploadedFile{upload(t, "artifacts[1][value]", "figure.png")}

		flat := map[string][]string{
			"artifacts[0][type]":       {"dataset"},
			"artifacts[0][sourceType]": {"link"},
			"artifacts[0][value]":      {"https://example.com/a"},
			"artifacts[1][type]":       {"diagram"},
			"artifacts[1][name]":       {"架构图"},
			"artifacts[1][sourceType]": {"file"},
		}
		structured := map[string][]string{
			"artifacts": {`[
				{"type":"dataset","sourceType":"link","value":"https://example.com/a"},
				{"type":"diagram","name":"架构图","sourceType":"file"}
			]`},
		}

		fromFlat := ReconstructArtifacts(flat, files)
		fromJSON := ReconstructArtifacts(structured, files)
		require.Len(t, fromFlat, 2)
		require.Len(t, fromJSON, 2)
		for i := range fromFlat {
			assert.Equal(t, fromFlat[i].Type, fromJSON[i].Type)
			assert.Equal(t, fromFlat[i].Name, fromJSON[i].Name)
			assert.Equal(t, fromFlat[i].SourceType, fromJSON[i].SourceType)
			assert.Equal(t, fromFlat[i].URL, fromJSON[i].URL)
			assert.Equal(t, fromFlat[i].File == nil, fromJSON[i].File == nil)
		}
	})

	t.Run("索引不连续时保持升序且不补洞", func(t *testing.T) {
		form := map[string][]string{
			"artifacts[5][type]":       {"other"},
			"artifacts[5][name]":       {"B"},
			"artifacts[5][sourceType]": {"link"},
			"artifacts[5][value]":      {"https://example.com/b"},
			"artifacts[2][type]":       {"dataset"},
			"artifacts[2][name]":       {"A"},
			"artifacts[2][sourceType]": {"link"},
			"artifacts[2][value]":      {"https://example.com/a"},
		}

		intents := ReconstructArtifacts(form, nil)
		require.Len(t, intents, 2)
		assert.Equal(t, 2, intents[0].Index)
		assert.Equal(t, "A", intents[0].Name)
		assert.Equal(t, 5, intents[1].Index)
		assert.Equal(t, "B", intents[1].Name)
	})

	t.Run("缺少type键的索引不产生条目", func(t *testing.T) {
		form := map[string][]string{
			"artifacts[0][name]":       {"没有类型"},
			"artifacts[0][sourceType]": {"link"},
			"artifacts[0][value]":      {"https://example.com/x"},
		}
		assert.Empty(t, ReconstructArtifacts(form, nil))
	})

	t.Run("链接来源缺少URL被静默丢弃", func(t *testing.T) {
		form := map[string][]string{
			"artifacts[0][type]":       {"dataset"},
			"artifacts[0][sourceType]": {"link"},
			"artifacts[0][value]":      {"   "},
		}
		assert.Empty(t, ReconstructArtifacts(form, nil))
	})

	t.Run("文件来源无匹配上传被静默丢弃", func(t *testing.T) {
		form := map[string][]string{
			"artifacts[0][type]":       {"dataset"},
			"artifacts[0][sourceType]": {"file"},
		}
		files := []UploadedFile{upload(t, "artifacts[9][value]", "wrong-slot.bin")}
		assert.Empty(t, ReconstructArtifacts(form, files))
	})

	t.Run("未知sourceType被静默丢弃", func(t *testing.T) {
		form := map[string][]string{
			"artifacts[0][type]":       {"dataset"},
			"artifacts[0][sourceType]": {"ftp"},
			"artifacts[0][value]":      {"ftp://example.com/x"},
		}
		assert.Empty(t, ReconstructArtifacts(form, nil))
	})

	t.Run("合法与非法条目混合时仅保留合法条目", func(t *testing.T) {
		form := map[string][]string{
			"artifacts[0][type]":       {"dataset"},
			"artifacts[0][sourceType]": {"link"},
			"artifacts[0][value]":      {"https://example.com/keep"},
			"artifacts[1][type]":       {"diagram"},
			"artifacts[1][sourceType]": {"file"},
			"artifacts[2][type]":       {""},
			"artifacts[2][sourceType]": {"link"},
			"artifacts[2][value]":      {"https://example.com/no-type"},
		}

		intents := ReconstructArtifacts(form, nil)
		require.Len(t, intents, 1)
		assert.Equal(t, "https://example.com/keep", intents[0].URL)
	})

	t.Run("artifacts字段不是合法JSON时回退到扁平形态", func(t *testing.T) {
		form := map[string][]string{
			"artifacts":                {"not-json"},
			"artifacts[0][type]":       {"dataset"},
			"artifacts[0][sourceType]": {"link"},
			"artifacts[0][value]":      {"https://example.com/fallback"},
		}

		intents := ReconstructArtifacts(form, nil)
		require.Len(t, intents, 1)
		assert.Equal(t, "https://example.com/fallback", intents[0].URL)
	})
}
