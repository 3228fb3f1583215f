package processor

import (
	"io"
	"log"
)

// PipelineOption 流水线的配置选项
type PipelineOption func(*ResumePipeline)

// WithPipelineLogger 设置自定义日志记录器
func WithPipelineLogger(logger *log.Logger) PipelineOption {
	return func(p *ResumePipeline) {
		if logger != nil {
			p.logger = logger
		} else {
			// 传入nil时落到丢弃日志，防止panic
			p.logger = log.New(io.Discard, "[ResumePipeline] ", log.LstdFlags)
		}
	}
}

// WithVectorCache 设置向量缓存，通常注入Redis适配器
func WithVectorCache(cache VectorCache) PipelineOption {
	return func(p *ResumePipeline) {
		p.cache = cache
	}
}

// WithBulkConcurrency 设置批量匹配的最大并发数
func WithBulkConcurrency(n int) PipelineOption {
	return func(p *ResumePipeline) {
		if n > 0 {
			p.bulkConcurrency = n
		}
	}
}

// WithBulkFailFast 批量匹配遇到首个失败即整批返回错误
func WithBulkFailFast(failFast bool) PipelineOption {
	return func(p *ResumePipeline) {
		p.bulkFailFast = failFast
	}
}

// WithDefaultMinScore 设置批量匹配未显式指定时的最低入选分数
func WithDefaultMinScore(score float64) PipelineOption {
	return func(p *ResumePipeline) {
		if score > 0 {
			p.defaultMinScore = score
		}
	}
}
