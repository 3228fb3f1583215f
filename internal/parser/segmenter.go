package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resume-match-go/internal/types"
)

// sectionHeadings 固定的章节标题词表
// 顺序即正则备选顺序，长短语在同一位置优先于其包含的短短语
var sectionHeadings = []string{
	"Summary", "Professional Summary", "Education", "Certifications", "Skills",
	"Experience", "Projects", "Awards", "Accomplishments", "Interests",
	"Languages", "Technical Skills", "Internship Experience",
}

// minChunkContentLen 章节正文的最小长度
// 不超过该长度的块按标题词误匹配处理，直接丢弃
const minChunkContentLen = 20

// headingPattern 标题匹配正则：整词、大小写不敏感，可带冒号或换行
var headingPattern = buildHeadingPattern()

func buildHeadingPattern() *regexp.Regexp {
	quoted := make([]string, len(sectionHeadings))
	for i, title := range sectionHeadings {
		quoted[i] = regexp.QuoteMeta(title)
	}
	return regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b[:\n]?`)
}

// Segment 将原始提取文本切分为章节块
// 文档中每个标题词出现处开启一个新块，标题之前的导语文本被丢弃
// 同一标签可以重复出现；空输入或无标题命中时返回空序列，由调用方兜底
func Segment(text string) []types.SectionChunk {
	matches := headingPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	chunks := make([]types.SectionChunk, 0, len(matches))
	for i, m := range matches {
		label := strings.ToUpper(strings.TrimSpace(text[m[2]:m[3]]))

		contentStart := m[1]
		contentEnd := len(text)
		if i+1 < len(matches) {
			contentEnd = matches[i+1][0]
		}
		content := strings.TrimSpace(text[contentStart:contentEnd])

		if utf8.RuneCountInString(content) <= minChunkContentLen {
			continue
		}

		chunks = append(chunks, types.SectionChunk{
			Label:   label,
			Content: content,
		})
	}

	return chunks
}
