package paper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlexibleDate(t *testing.T) {
	t.Run("完整日期", func(t *testing.T) {
		parsed := parseFlexibleDate("2023-06-15")
		require.NotNil(t, parsed)
		assert.Equal(t, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), *parsed)
	})

	t.Run("仅年份解释为当年1月1日", func(t *testing.T) {
		parsed := parseFlexibleDate("2021")
		require.NotNil(t, parsed)
		assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), *parsed)
	})

	t.Run("其它格式静默返回nil", func(t *testing.T) {
		for _, raw := range []string{"", "June 2023", "2023/06/15", "15-06-2023", "202", "20233", "2023-6-1"} {
			assert.Nil(t, parseFlexibleDate(raw), "input: %q", raw)
		}
	})
}

func TestToStringList(t *testing.T) {
	t.Run("单值按逗号拆分并去空白", func(t *testing.T) {
		assert.Equal(t, []string{"ai", "nlp", "ir"}, toStringList([]string{" ai, nlp ,ir "}))
	})

	t.Run("重复字段按多值处理", func(t *testing.T) {
		assert.Equal(t, []string{"alice", "bob"}, toStringList([]string{"alice", "bob"}))
	})

	t.Run("空串与空白项被丢弃", func(t *testing.T) {
		assert.Empty(t, toStringList([]string{"  "}))
		assert.Equal(t, []string{"x"}, toStringList([]string{"x", "", " "}))
	})

	t.Run("缺席字段返回空列表", func(t *testing.T) {
		assert.Empty(t, toStringList(nil))
	})
}
