package parser

import (
	"math"
	"sort"

	"resume-match-go/internal/types"
)

// CosineSimilarity 计算两个向量的余弦相似度
// 任一向量范数为零时返回0.0，"无信号"是合法结果而不是错误
// 长度不一致时点积只在公共维度上计算，结果仍有界
func CosineSimilarity(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}

	denom := math.Sqrt(normA) * math.Sqrt(normB)
	if denom == 0 {
		return 0.0
	}
	return dot / denom
}

// MatchScore 将余弦相似度换算为 [0,10] 区间、保留2位小数的匹配分
// 负相似度截断到0；相同输入恒产生相同输出
func MatchScore(a, b []float64) float64 {
	score := CosineSimilarity(a, b) * 10.0
	score = math.Max(0.0, math.Min(10.0, score))
	return math.Round(score*100) / 100
}

// RankBulk 对一批简历向量按同一个JD向量打分并排序
// 只保留 score >= minScore 的条目，按分数降序排列
// 分数相同时保持输入顺序（稳定排序）
func RankBulk(jdVector []float64, resumes []types.ResumeVector, minScore float64) []types.RankedResume {
	ranked := make([]types.RankedResume, 0, len(resumes))
	for _, r := range resumes {
		score := MatchScore(r.Vector, jdVector)
		if score >= minScore {
			ranked = append(ranked, types.RankedResume{
				FileName: r.ID,
				Score:    score,
			})
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}
