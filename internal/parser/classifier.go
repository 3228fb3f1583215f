package parser

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"strings"

	"resume-match-go/internal/types"
)

// SectionPredictor 章节分类协作方
// 对一段文本返回 {标签: 置信度} 映射，词表可以是规范10标签的超集
// 实现必须是无状态且幂等的
type SectionPredictor interface {
	Predict(ctx context.Context, text string) (map[string]float64, error)
}

// ChunkClassifier 章节块分类器
// 每个块只贡献给置信度最高的一个规范标签，低于阈值的块整体丢弃
type ChunkClassifier struct {
	predictor SectionPredictor
	threshold float64
	logger    *log.Logger
}

// ChunkClassifierOption 分类器的配置选项
type ChunkClassifierOption func(*ChunkClassifier)

// WithClassifierLogger 配置自定义日志记录器
func WithClassifierLogger(logger *log.Logger) ChunkClassifierOption {
	return func(c *ChunkClassifier) {
		c.logger = logger
	}
}

// WithClassifierThreshold 覆盖默认的置信度阈值
func WithClassifierThreshold(threshold float64) ChunkClassifierOption {
	return func(c *ChunkClassifier) {
		c.threshold = threshold
	}
}

// NewChunkClassifier 创建章节块分类器，默认阈值0.5
func NewChunkClassifier(predictor SectionPredictor, options ...ChunkClassifierOption) (*ChunkClassifier, error) {
	if predictor == nil {
		return nil, fmt.Errorf("分类协作方不能为空")
	}

	classifier := &ChunkClassifier{
		predictor: predictor,
		threshold: 0.5,
		logger:    log.New(io.Discard, "", 0),
	}

	for _, option := range options {
		option(classifier)
	}

	return classifier, nil
}

// Threshold 返回当前的置信度阈值
func (c *ChunkClassifier) Threshold() float64 {
	return c.threshold
}

// Classify 将章节块归入10个规范标签
// 返回的映射总是包含全部规范标签，未命中的标签值为空字符串
// 分类服务不可用时返回包装了 ErrClassifierUnavailable 的错误，绝不静默返回空结果
func (c *ChunkClassifier) Classify(ctx context.Context, chunks []types.SectionChunk) (types.ClassifiedSections, error) {
	accumulated := make(map[types.SectionLabel][]string)

	for i, chunk := range chunks {
		scores, err := c.predictor.Predict(ctx, chunk.Content)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
		}
		if len(scores) == 0 {
			return nil, fmt.Errorf("%w: 块 %d 的置信度映射为空", ErrClassifierUnavailable, i)
		}

		bestLabel, bestScore, ok := bestCanonicalLabel(scores)
		if !ok {
			// 词表超集中没有任何规范标签，按无法归类处理
			c.logger.Printf("块 %d 的置信度映射不含规范标签，丢弃", i)
			continue
		}

		if bestScore < c.threshold {
			c.logger.Printf("块 %d 最高置信度 %.3f 低于阈值 %.2f，丢弃", i, bestScore, c.threshold)
			continue
		}

		accumulated[bestLabel] = append(accumulated[bestLabel], chunk.Content)
	}

	sections := types.NewClassifiedSections()
	for _, label := range types.CanonicalLabels() {
		sections[label] = strings.TrimSpace(strings.Join(accumulated[label], "\n\n"))
	}

	return sections, nil
}

// bestCanonicalLabel 从置信度映射中选出分数最高的规范标签
// 分数相同时按标签名字典序取最小者，保证与映射遍历顺序无关的确定性结果
func bestCanonicalLabel(scores map[string]float64) (types.SectionLabel, float64, bool) {
	candidates := make([]string, 0, len(scores))
	for label := range scores {
		if types.IsCanonicalLabel(label) {
			candidates = append(candidates, label)
		}
	}
	if len(candidates) == 0 {
		return "", 0, false
	}
	sort.Strings(candidates)

	best := candidates[0]
	for _, label := range candidates[1:] {
		if scores[label] > scores[best] {
			best = label
		}
	}
	return types.SectionLabel(best), scores[best], true
}
