package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/types"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"相同向量", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"正交向量", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"反向向量", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"零向量", []float64{0, 0}, []float64{1, 2}, 0.0},
		{"双空向量", nil, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMatchScoreSelfSimilarity(t *testing.T) {
	v := []float64{0.3, -0.7, 1.2, 0.05}
	assert.Equal(t, 10.0, MatchScore(v, v))
}

func TestMatchScoreRange(t *testing.T) {
	// 负相似度被截断到0，满分不超过10
	assert.Equal(t, 0.0, MatchScore([]float64{1, 0}, []float64{-1, 0}))
	assert.Equal(t, 0.0, MatchScore([]float64{0, 0}, []float64{1, 1}))

	score := MatchScore([]float64{1, 1}, []float64{1, 0})
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 10.0)
}

func TestMatchScoreTwoDecimals(t *testing.T) {
	// cos(45°)≈0.70710678 → 7.0710678 → 7.07
	assert.Equal(t, 7.07, MatchScore([]float64{1, 1}, []float64{1, 0}))
}

func TestMatchScoreUnequalLengths(t *testing.T) {
	// 长度不一致时结果仍然有界，不会panic
	score := MatchScore([]float64{1, 2, 3, 4}, []float64{1, 2})
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 10.0)
}

func TestRankBulk(t *testing.T) {
	jd := []float64{1, 0}
	resumes := []types.ResumeVector{
		{ID: "a.pdf", Vector: []float64{1, 0.2}},  // 高分
		{ID: "b.pdf", Vector: []float64{0.1, 1}},  // 低分，被过滤
		{ID: "c.pdf", Vector: []float64{1, 0.65}}, // 中分
	}

	ranked := RankBulk(jd, resumes, 7.0)
	require.Len(t, ranked, 2)

	// 按分数降序
	assert.Equal(t, "a.pdf", ranked[0].FileName)
	assert.Equal(t, "c.pdf", ranked[1].FileName)
	assert.GreaterOrEqual(t, ranked[0].Score, ranked[1].Score)
	for _, r := range ranked {
		assert.GreaterOrEqual(t, r.Score, 7.0)
	}
}

func TestRankBulkEmptyInput(t *testing.T) {
	assert.Empty(t, RankBulk([]float64{1, 0}, nil, 7.0))
}

func TestRankBulkAllBelowMinScore(t *testing.T) {
	ranked := RankBulk([]float64{1, 0}, []types.ResumeVector{
		{ID: "x.pdf", Vector: []float64{0, 1}},
	}, 7.0)
	assert.Empty(t, ranked)
}
