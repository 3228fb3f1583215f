package types

import "sort"

// SectionLabel 规范化的简历章节标签
type SectionLabel string

const (
	// LabelSummary 个人总结章节
	LabelSummary SectionLabel = "SUMMARY"
	// LabelSkills 技能章节
	LabelSkills SectionLabel = "SKILLS"
	// LabelExperience 工作经历章节
	LabelExperience SectionLabel = "EXPERIENCE"
	// LabelEducation 教育经历章节
	LabelEducation SectionLabel = "EDUCATION"
	// LabelProjects 项目经历章节
	LabelProjects SectionLabel = "PROJECTS"
	// LabelCertifications 证书章节
	LabelCertifications SectionLabel = "CERTIFICATIONS"
	// LabelAwards 获奖章节
	LabelAwards SectionLabel = "AWARDS"
	// LabelAccomplishments 个人成就章节
	LabelAccomplishments SectionLabel = "ACCOMPLISHMENTS"
	// LabelInterests 兴趣爱好章节
	LabelInterests SectionLabel = "INTERESTS"
	// LabelLanguages 语言能力章节
	LabelLanguages SectionLabel = "LANGUAGES"
)

// CanonicalLabels 返回全部10个规范标签，顺序固定
func CanonicalLabels() []SectionLabel {
	return []SectionLabel{
		LabelSummary,
		LabelSkills,
		LabelExperience,
		LabelEducation,
		LabelProjects,
		LabelCertifications,
		LabelAwards,
		LabelAccomplishments,
		LabelInterests,
		LabelLanguages,
	}
}

// MatchSectionLabels 参与JD匹配文本拼接的章节，顺序固定
func MatchSectionLabels() []SectionLabel {
	return []SectionLabel{
		LabelSummary,
		LabelSkills,
		LabelExperience,
		LabelProjects,
	}
}

// IsCanonicalLabel 判断标签是否属于规范标签集
func IsCanonicalLabel(label string) bool {
	for _, l := range CanonicalLabels() {
		if string(l) == label {
			return true
		}
	}
	return false
}

// SectionChunk 分段器产出的一个章节块
// Label 是大写的章节标题词，Content 是该标题到下一个标题之间的正文
type SectionChunk struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// ClassifiedSections 规范标签到聚合内容的总映射
// 构造后10个规范标签全部存在，未命中的标签值为空字符串
type ClassifiedSections map[SectionLabel]string

// NewClassifiedSections 创建一个全标签、全空值的映射
func NewClassifiedSections() ClassifiedSections {
	sections := make(ClassifiedSections, len(CanonicalLabels()))
	for _, label := range CanonicalLabels() {
		sections[label] = ""
	}
	return sections
}

// SortedLabels 按标签名升序返回映射中的标签，用于确定性遍历
func (s ClassifiedSections) SortedLabels() []SectionLabel {
	labels := make([]SectionLabel, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	return labels
}

// ResumeVector 一份简历的向量表示，ID由调用方决定（通常为文件名）
type ResumeVector struct {
	ID     string
	Vector []float64
}

// RankedResume 批量匹配结果中的一项
type RankedResume struct {
	FileName string  `json:"filename"`
	Score    float64 `json:"score"`
}

// BulkFailure 批量匹配中单份简历的失败记录
type BulkFailure struct {
	FileName string `json:"filename"`
	Reason   string `json:"reason"`
}
