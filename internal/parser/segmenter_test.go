package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/types"
)

func TestSegmentEmptyInput(t *testing.T) {
	assert.Empty(t, Segment(""))
}

func TestSegmentNoHeadings(t *testing.T) {
	text := "John Doe\nSenior Software Engineer\nPhone 123-456-7890"
	assert.Empty(t, Segment(text))
}

func TestSegmentDropsShortContent(t *testing.T) {
	// 标题词后内容过短，按误匹配处理
	assert.Empty(t, Segment("Skills: ok"))
}

func TestSegmentBasicSections(t *testing.T) {
	text := "John Doe\n" +
		"Summary\nExperienced Go developer with a strong backend background.\n" +
		"Skills\nGo, Python, Kubernetes, Docker, PostgreSQL, Redis\n" +
		"Experience\nAcme Corp - built and operated backend services for 5 years."

	chunks := Segment(text)
	require.Len(t, chunks, 3)

	assert.Equal(t, "SUMMARY", chunks[0].Label)
	assert.Contains(t, chunks[0].Content, "Experienced Go developer")

	assert.Equal(t, "SKILLS", chunks[1].Label)
	assert.Contains(t, chunks[1].Content, "Kubernetes")

	assert.Equal(t, "EXPERIENCE", chunks[2].Label)
	assert.Contains(t, chunks[2].Content, "Acme Corp")

	// 第一个标题之前的导语被丢弃
	for _, c := range chunks {
		assert.NotContains(t, c.Content, "John Doe")
	}
}

func TestSegmentCaseInsensitiveWithColon(t *testing.T) {
	text := "EDUCATION:\nB.S. in Computer Science, Example University, 2020"
	chunks := Segment(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, "EDUCATION", chunks[0].Label)
	assert.Equal(t, "B.S. in Computer Science, Example University, 2020", chunks[0].Content)
}

func TestSegmentCompositeHeading(t *testing.T) {
	// 复合标题短语应整体匹配，而不是只命中其中的单词
	text := "Professional Summary\nBackend engineer focused on distributed systems and APIs."
	chunks := Segment(text)
	require.Len(t, chunks, 1)
	assert.Equal(t, "PROFESSIONAL SUMMARY", chunks[0].Label)
}

func TestSegmentRepeatedHeadings(t *testing.T) {
	text := "Experience\nFirst position at a product company, two years of Go.\n" +
		"Education\nB.S. Computer Science from a public university.\n" +
		"Experience\nSecond position at a startup, platform team for three years."

	chunks := Segment(text)
	require.Len(t, chunks, 3)

	labels := make([]string, 0, len(chunks))
	for _, c := range chunks {
		labels = append(labels, c.Label)
	}
	assert.Equal(t, []string{"EXPERIENCE", "EDUCATION", "EXPERIENCE"}, labels)
}

func TestSegmentChunkType(t *testing.T) {
	text := "Skills\nGo, Rust, SQL, Kafka, gRPC and other backend tooling"
	chunks := Segment(text)
	require.Len(t, chunks, 1)
	assert.IsType(t, types.SectionChunk{}, chunks[0])
}
