package processor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-match-go/internal/parser"
	"resume-match-go/internal/types"
)

// mockExtractor 按文件名返回预置文本的提取器
type mockExtractor struct {
	texts   map[string]string
	failOn  map[string]bool
	mu      sync.Mutex
	callLog []string
}

func (m *mockExtractor) ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error) {
	m.mu.Lock()
	m.callLog = append(m.callLog, uri)
	m.mu.Unlock()

	if m.failOn[uri] {
		return "", nil, fmt.Errorf("corrupt pdf: %s", uri)
	}
	return m.texts[uri], map[string]interface{}{"source_uri": uri}, nil
}

// mockEmbedder 按文本返回预置向量，记录每条文本的请求次数
type mockEmbedder struct {
	vectors map[string][]float64
	failOn  map[string]bool
	mu      sync.Mutex
	calls   map[string]int
}

func (m *mockEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}

	out := make([][]float64, 0, len(texts))
	for _, text := range texts {
		m.calls[text]++
		if m.failOn[text] {
			return nil, fmt.Errorf("%w: endpoint down", parser.ErrEmbeddingService)
		}
		// 与Azure客户端一致：空文本返回零向量
		if text == "" {
			out = append(out, []float64{0})
			continue
		}
		if vec, ok := m.vectors[text]; ok {
			out = append(out, vec)
			continue
		}
		out = append(out, []float64{1, 1})
	}
	return out, nil
}

func (m *mockEmbedder) callCount(text string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[text]
}

// stubPredictor 任何文本都归入SKILLS
type stubPredictor struct{}

func (stubPredictor) Predict(ctx context.Context, text string) (map[string]float64, error) {
	return map[string]float64{"SKILLS": 0.9}, nil
}

// mockCache 内存向量缓存
type mockCache struct {
	mu   sync.Mutex
	data map[string][]float64
	hits int
	puts int
}

func (m *mockCache) GetCachedEmbedding(ctx context.Context, text string) ([]float64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	vec, ok := m.data[text]
	if ok {
		m.hits++
	}
	return vec, ok, nil
}

func (m *mockCache) CacheEmbedding(ctx context.Context, text string, vector []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = make(map[string][]float64)
	}
	m.data[text] = vector
	m.puts++
	return nil
}

func newTestClassifier(t *testing.T) *parser.ChunkClassifier {
	t.Helper()
	classifier, err := parser.NewChunkClassifier(stubPredictor{})
	require.NoError(t, err)
	return classifier
}

func TestParseResume(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{
		"cv.pdf": "Skills\nGo, Kubernetes, PostgreSQL and five years of backend work",
	}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), &mockEmbedder{})
	require.NoError(t, err)

	parsed, err := pipeline.ParseResume(context.Background(), []byte("%PDF"), "cv.pdf")
	require.NoError(t, err)

	assert.Contains(t, parsed.RawText, "Kubernetes")
	assert.Contains(t, parsed.Sections[types.LabelSkills], "Go, Kubernetes")
	assert.Equal(t, "cv.pdf", parsed.Metadata["source_uri"])

	// 全部10个规范标签都在
	assert.Len(t, parsed.Sections, 10)
}

func TestParseResumeExtractorFailure(t *testing.T) {
	extractor := &mockExtractor{failOn: map[string]bool{"bad.pdf": true}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), &mockEmbedder{})
	require.NoError(t, err)

	_, err = pipeline.ParseResume(context.Background(), []byte("%PDF"), "bad.pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrExtractTextFailed))
}

func TestMatchResumeSelfSimilarity(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{
		"cv.pdf": "plain resume text without any headings",
	}}
	// 两端返回相同向量，分数应为满分
	embedder := &mockEmbedder{vectors: map[string][]float64{
		"plain resume text without any headings": {0.5, 0.5},
		"backend go developer":                   {0.5, 0.5},
	}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), embedder)
	require.NoError(t, err)

	result, err := pipeline.MatchResume(context.Background(), []byte("%PDF"), "cv.pdf", "Backend Go Developer")
	require.NoError(t, err)
	assert.Equal(t, 10.0, result.Score)
	assert.Equal(t, "cv.pdf", result.FileName)
}

func TestMatchResumeEmptyJobTextScoresZero(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{
		"cv.pdf": "plain resume text without any headings",
	}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), &mockEmbedder{})
	require.NoError(t, err)

	// 空岗位描述按零向量处理，得分0而不是报错
	result, err := pipeline.MatchResume(context.Background(), []byte("%PDF"), "cv.pdf", "")
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.Score)
}

func TestMatchResumeEmbedderFailure(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{"cv.pdf": "some resume text"}}
	embedder := &mockEmbedder{failOn: map[string]bool{"job text": true}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), embedder)
	require.NoError(t, err)

	_, err = pipeline.MatchResume(context.Background(), []byte("%PDF"), "cv.pdf", "Job Text")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmbedTextFailed))
}

func TestBulkMatchRanksAndFilters(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{
		"a.pdf": "alpha resume",
		"b.pdf": "beta resume",
		"c.pdf": "gamma resume",
	}}
	embedder := &mockEmbedder{vectors: map[string][]float64{
		"job text":     {1, 0},
		"alpha resume": {1, 0},    // 10.0
		"beta resume":  {0, 1},    // 0.0 被过滤
		"gamma resume": {1, 0.65}, // ≈8.38
	}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), embedder)
	require.NoError(t, err)

	files := []BulkFile{
		{FileName: "a.pdf", Data: []byte("%PDF")},
		{FileName: "b.pdf", Data: []byte("%PDF")},
		{FileName: "c.pdf", Data: []byte("%PDF")},
	}
	result, err := pipeline.BulkMatch(context.Background(), files, "Job Text", 7.0)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 2)
	assert.Equal(t, "a.pdf", result.Ranked[0].FileName)
	assert.Equal(t, "c.pdf", result.Ranked[1].FileName)
	assert.Empty(t, result.Failures)

	// 岗位描述只向量化一次
	assert.Equal(t, 1, embedder.callCount("job text"))
}

func TestBulkMatchIsolatesPerItemFailures(t *testing.T) {
	extractor := &mockExtractor{
		texts:  map[string]string{"good.pdf": "good resume"},
		failOn: map[string]bool{"bad.pdf": true},
	}
	embedder := &mockEmbedder{vectors: map[string][]float64{
		"job text":    {1, 0},
		"good resume": {1, 0},
	}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), embedder)
	require.NoError(t, err)

	files := []BulkFile{
		{FileName: "good.pdf", Data: []byte("%PDF")},
		{FileName: "bad.pdf", Data: []byte("%PDF")},
	}
	result, err := pipeline.BulkMatch(context.Background(), files, "Job Text", 7.0)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, "good.pdf", result.Ranked[0].FileName)

	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bad.pdf", result.Failures[0].FileName)
	assert.Contains(t, result.Failures[0].Reason, "corrupt pdf")
}

func TestBulkMatchFailFast(t *testing.T) {
	extractor := &mockExtractor{failOn: map[string]bool{"bad.pdf": true}}
	embedder := &mockEmbedder{vectors: map[string][]float64{"job text": {1, 0}}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), embedder, WithBulkFailFast(true))
	require.NoError(t, err)

	_, err = pipeline.BulkMatch(context.Background(), []BulkFile{
		{FileName: "bad.pdf", Data: []byte("%PDF")},
	}, "Job Text", 7.0)
	assert.Error(t, err)
}

func TestBulkMatchEmptyJobTextScoresZero(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{"cv.pdf": "plain resume text"}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), &mockEmbedder{})
	require.NoError(t, err)

	result, err := pipeline.BulkMatch(context.Background(), []BulkFile{
		{FileName: "cv.pdf", Data: []byte("%PDF")},
	}, "", 0)
	require.NoError(t, err)

	require.Len(t, result.Ranked, 1)
	assert.Equal(t, 0.0, result.Ranked[0].Score)
}

func TestBulkMatchDefaultMinScore(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{"mid.pdf": "middling resume"}}
	embedder := &mockEmbedder{vectors: map[string][]float64{
		"job text":        {1, 0},
		"middling resume": {1, 1}, // ≈7.07，默认阈值7.0下入选
	}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), embedder)
	require.NoError(t, err)

	// -1表示未显式指定阈值，落到默认的7.0
	result, err := pipeline.BulkMatch(context.Background(), []BulkFile{
		{FileName: "mid.pdf", Data: []byte("%PDF")},
	}, "Job Text", -1)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 1)
	assert.Equal(t, 7.07, result.Ranked[0].Score)
}

func TestBulkMatchExplicitZeroMinScore(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{"far.pdf": "unrelated resume"}}
	embedder := &mockEmbedder{vectors: map[string][]float64{
		"job text":         {1, 0},
		"unrelated resume": {0, 1}, // 得分0.0
	}}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), embedder)
	require.NoError(t, err)

	// 显式的0不被默认阈值覆盖，0分条目也保留
	result, err := pipeline.BulkMatch(context.Background(), []BulkFile{
		{FileName: "far.pdf", Data: []byte("%PDF")},
	}, "Job Text", 0)
	require.NoError(t, err)
	require.Len(t, result.Ranked, 1)
	assert.Equal(t, 0.0, result.Ranked[0].Score)
}

func TestEmbedCacheAvoidsRepeatCalls(t *testing.T) {
	extractor := &mockExtractor{texts: map[string]string{"cv.pdf": "cached resume text"}}
	embedder := &mockEmbedder{vectors: map[string][]float64{
		"job text":           {1, 0},
		"cached resume text": {1, 0},
	}}
	cache := &mockCache{}
	pipeline, err := NewResumePipeline(extractor, newTestClassifier(t), embedder, WithVectorCache(cache))
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := pipeline.MatchResume(context.Background(), []byte("%PDF"), "cv.pdf", "Job Text")
		require.NoError(t, err)
	}

	// 首次未命中后写入缓存，后续两轮全部命中
	assert.Equal(t, 1, embedder.callCount("job text"))
	assert.Equal(t, 1, embedder.callCount("cached resume text"))
	assert.Equal(t, 4, cache.hits)
}
