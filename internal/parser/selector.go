package parser

import (
	"strings"

	"resume-match-go/internal/types"
)

// SelectMatchText 从分类结果中挑出参与JD匹配的文本并归一化
// 按固定顺序拼接 SUMMARY、SKILLS、EXPERIENCE、PROJECTS 的非空内容
// 四个章节全部为空时回退到完整原始文本，保证分类失败也有非空信号
func SelectMatchText(sections types.ClassifiedSections, rawText string) string {
	var parts []string
	for _, label := range types.MatchSectionLabels() {
		if v := strings.TrimSpace(sections[label]); v != "" {
			parts = append(parts, v)
		}
	}
	if len(parts) == 0 {
		parts = []string{rawText}
	}
	return Normalize(strings.Join(parts, "\n\n"))
}
