package processor

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-match-go/internal/constants"
	"resume-match-go/internal/parser"
	"resume-match-go/internal/tracing"
	"resume-match-go/internal/types"
)

// ParsedResume 简历解析结果
type ParsedResume struct {
	RawText  string                   `json:"raw_text"`
	Sections types.ClassifiedSections `json:"sections"`
	Metadata map[string]interface{}   `json:"metadata,omitempty"`
}

// MatchResult 单份简历与岗位描述的匹配结果
type MatchResult struct {
	FileName string                   `json:"filename"`
	Score    float64                  `json:"score"`
	Sections types.ClassifiedSections `json:"sections,omitempty"`
}

// BulkFile 批量匹配的单个输入文件
type BulkFile struct {
	FileName string
	Data     []byte
}

// BulkMatchResult 批量匹配结果：按分数降序的通过名单加失败清单
type BulkMatchResult struct {
	Ranked   []types.RankedResume `json:"ranked"`
	Failures []types.BulkFailure  `json:"failures,omitempty"`
}

// ResumePipeline 简历处理流水线：提取文本、切分章节、分类聚合、向量化打分
type ResumePipeline struct {
	extractor  PDFExtractor
	classifier *parser.ChunkClassifier
	embedder   TextEmbedder
	cache      VectorCache // 可为nil，nil时每次都请求向量端点
	logger     *log.Logger
	tracer     trace.Tracer

	bulkConcurrency int
	bulkFailFast    bool
	defaultMinScore float64
}

// NewResumePipeline 创建简历处理流水线
func NewResumePipeline(extractor PDFExtractor, classifier *parser.ChunkClassifier, embedder TextEmbedder, options ...PipelineOption) (*ResumePipeline, error) {
	if extractor == nil {
		return nil, fmt.Errorf("PDF提取器不能为空")
	}
	if classifier == nil {
		return nil, fmt.Errorf("章节分类器不能为空")
	}
	if embedder == nil {
		return nil, fmt.Errorf("向量化组件不能为空")
	}

	p := &ResumePipeline{
		extractor:       extractor,
		classifier:      classifier,
		embedder:        embedder,
		logger:          log.New(os.Stderr, "[ResumePipeline] ", log.LstdFlags),
		tracer:          otel.Tracer("resume-pipeline"),
		bulkConcurrency: 4,
		defaultMinScore: constants.DefaultBulkMinScore,
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

// ParseResume 提取简历全文并按章节分类聚合
func (p *ResumePipeline) ParseResume(ctx context.Context, data []byte, fileName string) (*ParsedResume, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.ParseResume",
		trace.WithAttributes(attribute.String("resume.filename", fileName)))
	defer span.End()

	rawText, metadata, err := p.extractor.ExtractTextFromBytes(ctx, data, fileName)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeExtraction)
		return nil, NewExtractError(fileName, err.Error())
	}

	chunks := parser.Segment(rawText)
	span.SetAttributes(
		attribute.Int("resume.text_length", len(rawText)),
		attribute.Int("resume.chunk_count", len(chunks)),
		attribute.String("resume.text_preview", tracing.SafeResumeContent(rawText)),
	)

	sections, err := p.classifier.Classify(ctx, chunks)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeClassifier)
		return nil, NewClassifyError(fileName, err.Error())
	}

	p.logger.Printf("简历解析完成: %s 文本%d字符 切出%d个块", fileName, len(rawText), len(chunks))
	return &ParsedResume{
		RawText:  rawText,
		Sections: sections,
		Metadata: metadata,
	}, nil
}

// MatchResume 计算单份简历与岗位描述的匹配分数
func (p *ResumePipeline) MatchResume(ctx context.Context, data []byte, fileName, jobText string) (*MatchResult, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.MatchResume",
		trace.WithAttributes(
			attribute.String("resume.filename", fileName),
			attribute.String("match.job_text_preview", tracing.SafeResumeContent(jobText)),
		))
	defer span.End()

	parsed, err := p.ParseResume(ctx, data, fileName)
	if err != nil {
		return nil, err
	}

	// 空岗位描述向量化为零向量，得分为0，不报错
	jdVector, err := p.embedNormalized(ctx, parser.Normalize(jobText))
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeEmbedding)
		return nil, NewEmbedError(fileName, err.Error())
	}

	matchText := parser.SelectMatchText(parsed.Sections, parsed.RawText)
	resumeVector, err := p.embedNormalized(ctx, matchText)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeEmbedding)
		return nil, NewEmbedError(fileName, err.Error())
	}

	score := parser.MatchScore(jdVector, resumeVector)
	span.SetAttributes(attribute.Float64("match.score", score))

	return &MatchResult{
		FileName: fileName,
		Score:    score,
		Sections: parsed.Sections,
	}, nil
}

// BulkMatch 批量匹配：岗位描述只向量化一次，简历并发处理
// 单份简历失败默认不中断整批，记入失败清单；failFast模式下首个失败即返回
func (p *ResumePipeline) BulkMatch(ctx context.Context, files []BulkFile, jobText string, minScore float64) (*BulkMatchResult, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.BulkMatch",
		trace.WithAttributes(attribute.Int("bulk.file_count", len(files))))
	defer span.End()

	// 负数表示调用方未显式给出阈值，落到默认值；0是合法的显式取值，保留所有结果
	if minScore < 0 {
		minScore = p.defaultMinScore
	}

	jdVector, err := p.embedNormalized(ctx, parser.Normalize(jobText))
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeEmbedding)
		return nil, NewEmbedError("bulk", err.Error())
	}

	type itemResult struct {
		vector  []float64
		failure *types.BulkFailure
		err     error
	}

	results := make([]itemResult, len(files))
	cancelCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	concurrency := p.bulkConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for i := range files {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-cancelCtx.Done():
				results[idx] = itemResult{failure: &types.BulkFailure{
					FileName: files[idx].FileName,
					Reason:   cancelCtx.Err().Error(),
				}}
				return
			}

			vec, itemErr := p.resumeVectorFor(cancelCtx, files[idx])
			if itemErr != nil {
				p.logger.Printf("批量匹配单项失败: %s: %v", files[idx].FileName, itemErr)
				results[idx] = itemResult{
					failure: &types.BulkFailure{
						FileName: files[idx].FileName,
						Reason:   itemErr.Error(),
					},
					err: itemErr,
				}
				if p.bulkFailFast {
					cancel()
				}
				return
			}
			results[idx] = itemResult{vector: vec}
		}(i)
	}
	wg.Wait()

	var failures []types.BulkFailure
	var firstErr error
	vectors := make([]types.ResumeVector, 0, len(files))
	for i, r := range results {
		if r.failure != nil {
			failures = append(failures, *r.failure)
			if firstErr == nil && r.err != nil {
				firstErr = r.err
			}
			continue
		}
		vectors = append(vectors, types.ResumeVector{ID: files[i].FileName, Vector: r.vector})
	}

	if p.bulkFailFast && len(failures) > 0 {
		if firstErr != nil {
			tracing.RecordError(span, firstErr, tracing.ErrorTypeInternal)
			return nil, firstErr
		}
		return nil, fmt.Errorf("批量匹配中止: %s: %s", failures[0].FileName, failures[0].Reason)
	}

	ranked := parser.RankBulk(jdVector, vectors, minScore)
	span.SetAttributes(
		attribute.Int("bulk.ranked_count", len(ranked)),
		attribute.Int("bulk.failure_count", len(failures)),
	)

	return &BulkMatchResult{Ranked: ranked, Failures: failures}, nil
}

// resumeVectorFor 解析单份简历并返回其匹配文本的向量
func (p *ResumePipeline) resumeVectorFor(ctx context.Context, file BulkFile) ([]float64, error) {
	parsed, err := p.ParseResume(ctx, file.Data, file.FileName)
	if err != nil {
		return nil, err
	}
	return p.embedNormalized(ctx, parser.SelectMatchText(parsed.Sections, parsed.RawText))
}

// embedNormalized 向量化一段已归一化文本，命中缓存时跳过端点请求
func (p *ResumePipeline) embedNormalized(ctx context.Context, text string) ([]float64, error) {
	if p.cache != nil {
		if vec, ok, err := p.cache.GetCachedEmbedding(ctx, text); err != nil {
			// 缓存故障只降级，不阻塞主流程
			p.logger.Printf("读取向量缓存失败: %v", err)
		} else if ok {
			return vec, nil
		}
	}

	vectors, err := p.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("向量端点未返回结果")
	}

	if p.cache != nil {
		if err := p.cache.CacheEmbedding(ctx, text, vectors[0]); err != nil {
			p.logger.Printf("写入向量缓存失败: %v", err)
		}
	}
	return vectors[0], nil
}
