package paper

import (
	"regexp"
	"strings"
	"time"
)

var (
	fullDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearOnlyRe = regexp.MustCompile(`^\d{4}$`)
)

// parseFlexibleDate 宽容的日期解析
// 接受YYYY-MM-DD或YYYY（解释为当年1月1日），其余输入返回nil且不报错
func parseFlexibleDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	switch {
	case fullDateRe.MatchString(raw):
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return nil
		}
		return &t
	case yearOnlyRe.MatchString(raw):
		t, err := time.Parse("2006", raw)
		if err != nil {
			return nil
		}
		return &t
	}
	return nil
}

// toStringList 宽容的列表解析
// 字段重复出现时按多值处理，单值时按逗号拆分，各项去除首尾空白、丢弃空串
func toStringList(values []string) []string {
	if len(values) == 1 {
		values = strings.Split(values[0], ",")
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// firstValue 返回表单字段的第一个值，字段缺席时返回空串
func firstValue(form map[string][]string, key string) string {
	if vals, ok := form[key]; ok && len(vals) > 0 {
		return vals[0]
	}
	return ""
}

func hasField(form map[string][]string, key string) bool {
	vals, ok := form[key]
	return ok && len(vals) > 0
}
