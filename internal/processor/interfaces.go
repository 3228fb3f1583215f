package processor

import (
	"context"

	"github.com/cloudwego/eino/components/embedding"
)

// PDFExtractor PDF文本提取组件接口
type PDFExtractor interface {
	// ExtractTextFromBytes 从字节数组提取文本和元数据
	ExtractTextFromBytes(ctx context.Context, data []byte, uri string) (string, map[string]interface{}, error)
}

// TextEmbedder 文本向量化组件接口
// 与 cloudwego/eino 的 embedding.Embedder 签名一致，AzureEmbedder可直接注入
type TextEmbedder interface {
	EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error)
}

// VectorCache 向量缓存接口，避免同一文本重复请求向量端点
type VectorCache interface {
	// GetCachedEmbedding 按文本查询缓存向量，未命中返回 (nil, false, nil)
	GetCachedEmbedding(ctx context.Context, text string) ([]float64, bool, error)
	// CacheEmbedding 写入文本对应的向量
	CacheEmbedding(ctx context.Context, text string, vector []float64) error
}
