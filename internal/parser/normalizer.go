package parser

import (
	"regexp"
	"strings"
)

// 匹配用文本归一化使用的正则，进程启动时编译一次
var (
	// URL片段: http(s)://... 或 www....
	urlPattern = regexp.MustCompile(`https?://\S+|www\.\S+`)
	// 邮箱片段: token@token
	emailPattern = regexp.MustCompile(`\S+@\S+`)
	// 白名单外的字符: 保留小写字母、数字、空白和常见技术符号 + . # / -
	nonWhitelistPattern = regexp.MustCompile(`[^a-z0-9\s+.#/-]`)
	// 连续空白
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Normalize 将原始文本归一化为匹配用文本
// 小写化、去URL和邮箱、过滤白名单外字符、折叠空白并裁剪首尾
// 对任意输入有定义（空串返回空串），且满足幂等性
func Normalize(text string) string {
	t := strings.ToLower(text)
	t = urlPattern.ReplaceAllString(t, " ")
	t = emailPattern.ReplaceAllString(t, " ")
	t = nonWhitelistPattern.ReplaceAllString(t, " ")
	t = whitespacePattern.ReplaceAllString(t, " ")
	return strings.TrimSpace(t)
}
