package paper

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/asaabil/manajemenpaper/internal/database"
)

// UploadedFile 本次请求中上传的一个文件及其表单字段名
type UploadedFile struct {
	FieldName string
	Header    *multipart.FileHeader
}

// ArtifactIntent 归一化的附属资源意图
// 两种表单形态重建后的统一中间表示，尚未持久化
// link来源携带URL，file来源携带按字段名匹配到的上传文件
type ArtifactIntent struct {
	Index      int
	Type       string
	Name       string
	SourceType string
	URL        string
	File       *multipart.FileHeader
}

// structuredArtifact 结构化JSON数组形态中的单个条目
type structuredArtifact struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	SourceType string `json:"sourceType"`
	Value      string `json:"value"`
}

var artifactTypeKeyRe = regexp.MustCompile(`^artifacts\[(\d+)\]\[type\]$`)

// ReconstructArtifacts 从multipart表单重建附属资源意图列表
// 优先识别artifacts字段中的结构化JSON数组，缺席或无法解析时回退到
// 扁平的artifacts[<i>][<字段>]键形态；两种形态不混用
// file来源的条目按字段名artifacts[<i>][value]关联上传文件
// 缺少type或sourceType、link无URL、file无匹配文件的条目被静默丢弃
func ReconstructArtifacts(form map[string][]string, files []UploadedFile) []ArtifactIntent {
	if raw := strings.TrimSpace(firstValue(form, "artifacts")); raw != "" {
		var entries []structuredArtifact
		if err := json.Unmarshal([]byte(raw), &entries); err == nil {
			return fromStructured(entries, files)
		}
	}
	return fromFlattened(form, files)
}

func fromStructured(entries []structuredArtifact, files []UploadedFile) []ArtifactIntent {
	intents := make([]ArtifactIntent, 0, len(entries))
	for i, e := range entries {
		intent := ArtifactIntent{
			Index:      i,
			Type:       strings.TrimSpace(e.Type),
			Name:       strings.TrimSpace(e.Name),
			SourceType: strings.TrimSpace(e.SourceType),
		}
		switch intent.SourceType {
		case database.SourceTypeLink:
			intent.URL = strings.TrimSpace(e.Value)
		case database.SourceTypeFile:
			intent.File = findUpload(files, valueFieldName(i))
		}
		if intent.valid() {
			intents = append(intents, intent)
		}
	}
	return intents
}

func fromFlattened(form map[string][]string, files []UploadedFile) []ArtifactIntent {
	// 仅type键决定条目索引集合，索引可以不连续
	seen := make(map[int]bool)
	var indices []int
	for key := range form {
		m := artifactTypeKeyRe.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil || seen[idx] {
			continue
		}
		seen[idx] = true
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	intents := make([]ArtifactIntent, 0, len(indices))
	for _, idx := range indices {
		intent := ArtifactIntent{
			Index:      idx,
			Type:       strings.TrimSpace(firstValue(form, artifactFieldName(idx, "type"))),
			Name:       strings.TrimSpace(firstValue(form, artifactFieldName(idx, "name"))),
			SourceType: strings.TrimSpace(firstValue(form, artifactFieldName(idx, "sourceType"))),
		}
		switch intent.SourceType {
		case database.SourceTypeLink:
			intent.URL = strings.TrimSpace(firstValue(form, valueFieldName(idx)))
		case database.SourceTypeFile:
			intent.File = findUpload(files, valueFieldName(idx))
		}
		if intent.valid() {
			intents = append(intents, intent)
		}
	}
	return intents
}

// valid 判断意图是否满足持久化前提
// type与sourceType必须同时存在，且link来源有URL、file来源有匹配文件
func (in ArtifactIntent) valid() bool {
	if in.Type == "" || in.SourceType == "" {
		return false
	}
	switch in.SourceType {
	case database.SourceTypeLink:
		return in.URL != ""
	case database.SourceTypeFile:
		return in.File != nil
	}
	return false
}

func artifactFieldName(idx int, field string) string {
	return fmt.Sprintf("artifacts[%d][%s]", idx, field)
}

func valueFieldName(idx int) string {
	return artifactFieldName(idx, "value")
}

func findUpload(files []UploadedFile, fieldName string) *multipart.FileHeader {
	for _, f := range files {
		if f.FieldName == fieldName {
			return f.Header
		}
	}
	return nil
}
