package tracing

import (
	"strings"
)

const (
	// DefaultMaxLength 默认最大属性长度
	DefaultMaxLength = 200

	// MaxResumeLength 简历内容最大长度
	MaxResumeLength = 150
)

// maskPIILookup 需要掩码处理的关键字映射
var maskPIILookup = map[string]bool{
	"email":    true,
	"phone":    true,
	"password": true,
	"name":     true,
	"secret":   true,
	"token":    true,
	"key":      true,
}

// SafeAttributeValue 确保属性值安全：属性名按分段匹配敏感关键字，命中掩码，否则过长截断
// 按段比较而不是子串包含，"filename"不会因为含"name"被误掩码
func SafeAttributeValue(name string, value string, maxLength int) string {
	segments := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '.' || r == '_' || r == '-'
	})
	for _, segment := range segments {
		if maskPIILookup[segment] {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII 对个人敏感信息进行掩码处理，保留首尾各2个字符
func MaskPII(value string) string {
	runes := []rune(value)
	if len(runes) <= 4 {
		return "****"
	}
	return string(runes[:2]) + "****" + string(runes[len(runes)-2:])
}

// TruncateString 截断超长字符串并添加省略号
func TruncateString(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	return string(runes[:maxLength]) + "..."
}

// SafeResumeContent 截断简历内容，span中只保留片段
func SafeResumeContent(content string) string {
	return TruncateString(content, MaxResumeLength)
}
