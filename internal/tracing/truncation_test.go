package tracing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaskPII(t *testing.T) {
	assert.Equal(t, "****", MaskPII("abc"))
	assert.Equal(t, "****", MaskPII(""))
	assert.Equal(t, "zh****om", MaskPII("zhang@example.com"))
}

func TestTruncateString(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))

	long := strings.Repeat("a", 300)
	got := TruncateString(long, 0) // 0落到默认长度
	assert.Equal(t, DefaultMaxLength+3, len(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestSafeAttributeValue(t *testing.T) {
	// 属性名分段命中敏感关键字时走掩码而不是截断
	assert.Equal(t, "se****23", SafeAttributeValue("user.email", "secret123", 100))
	assert.Equal(t, "se****23", SafeAttributeValue("azure_primary_key", "secret123", 100))

	// "filename"含"name"子串但不是独立分段，不掩码
	assert.Equal(t, "plain value", SafeAttributeValue("resume.filename", "plain value", 100))
	assert.Equal(t, "plain value", SafeAttributeValue("bulk.file_count", "plain value", 100))
}

func TestSafeResumeContent(t *testing.T) {
	long := strings.Repeat("简历内容", 100)
	got := SafeResumeContent(long)
	assert.LessOrEqual(t, len([]rune(got)), MaxResumeLength+3)
}
