package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/embedding"

	"resume-match-go/internal/config"
)

// AzureEmbedder Azure ML打分端点的向量客户端，实现 embedding.Embedder 接口
// 端点返回 {"embedding": [...]} 或裸数值数组，偶尔会把JSON再包一层字符串
type AzureEmbedder struct {
	scoringURI string
	primaryKey string
	authStyle  string // "bearer" 或 "api-key"
	httpClient *http.Client
	logger     *log.Logger
}

// AzureEmbedderOption 向量客户端的配置选项
type AzureEmbedderOption func(*AzureEmbedder)

// WithAzureLogger 配置自定义日志记录器
func WithAzureLogger(logger *log.Logger) AzureEmbedderOption {
	return func(a *AzureEmbedder) {
		a.logger = logger
	}
}

// WithAzureHTTPClient 替换HTTP客户端（主要用于测试）
func WithAzureHTTPClient(client *http.Client) AzureEmbedderOption {
	return func(a *AzureEmbedder) {
		a.httpClient = client
	}
}

// NewAzureEmbedder 创建Azure向量客户端
func NewAzureEmbedder(cfg config.AzureConfig, options ...AzureEmbedderOption) (*AzureEmbedder, error) {
	if cfg.ScoringURI == "" {
		return nil, fmt.Errorf("打分端点地址不能为空")
	}
	if cfg.PrimaryKey == "" {
		return nil, fmt.Errorf("访问密钥不能为空")
	}

	authStyle := strings.ToLower(cfg.AuthStyle)
	if authStyle == "" {
		authStyle = "bearer"
	}
	if authStyle != "bearer" && authStyle != "api-key" {
		return nil, fmt.Errorf("不支持的认证风格: %s", cfg.AuthStyle)
	}

	timeout := 60 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	embedder := &AzureEmbedder{
		scoringURI: cfg.ScoringURI,
		primaryKey: cfg.PrimaryKey,
		authStyle:  authStyle,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.New(os.Stderr, "[AzureEmbedder] ", log.LstdFlags),
	}

	for _, option := range options {
		option(embedder)
	}

	return embedder, nil
}

// azureEmbeddingRequest 打分端点请求体
type azureEmbeddingRequest struct {
	Text string `json:"text"`
}

// EmbedStrings 将文本逐条转换为向量, 实现 cloudwego/eino embedding.Embedder 接口
func (a *AzureEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	// Azure端点没有可覆盖的通用选项，消费掉即可
	embedding.GetCommonOptions(&embedding.Options{}, opts...)

	vectors := make([][]float64, 0, len(texts))
	for _, text := range texts {
		vec, err := a.embedOne(ctx, text)
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

// embedOne 请求一条文本的向量
// 空文本直接返回一维零向量：相似度为0，调用链不崩溃
func (a *AzureEmbedder) embedOne(ctx context.Context, text string) ([]float64, error) {
	if text == "" {
		return []float64{0}, nil
	}

	payload, err := json.Marshal(azureEmbeddingRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("序列化请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.scoringURI, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	a.applyAuthHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: 发送请求失败: %v", ErrEmbeddingService, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: 读取响应体失败: %v", ErrEmbeddingService, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		a.logger.Printf("打分端点返回非成功状态 %d: %.300s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("%w: 状态码 %d: %.300s", ErrEmbeddingService, resp.StatusCode, string(body))
	}

	vec, err := decodeVectorPayload(body)
	if err != nil {
		return nil, err
	}
	return vec, nil
}

// applyAuthHeaders 按配置的认证风格设置请求头
func (a *AzureEmbedder) applyAuthHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if a.authStyle == "api-key" {
		req.Header.Set("Authorization", a.primaryKey)
		req.Header.Set("api-key", a.primaryKey)
		return
	}
	req.Header.Set("Authorization", "Bearer "+a.primaryKey)
}

// decodeVectorPayload 解析端点响应中的向量
// 第一次解码得到字符串说明响应被双重编码，再解一次；最多补救一次，避免无限循环
// 接受 {"embedding": [...]} 和裸数值数组两种形状
func decodeVectorPayload(body []byte) ([]float64, error) {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: 响应不是合法JSON: %.300s", ErrEmbeddingService, string(body))
	}

	if inner, ok := payload.(string); ok {
		if err := json.Unmarshal([]byte(inner), &payload); err != nil {
			return nil, fmt.Errorf("%w: 双重编码响应二次解码失败: %.300s", ErrEmbeddingService, inner)
		}
		if _, stillString := payload.(string); stillString {
			return nil, fmt.Errorf("%w: 二次解码后仍为字符串", ErrEmbeddingService)
		}
	}

	switch v := payload.(type) {
	case map[string]interface{}:
		raw, ok := v["embedding"]
		if !ok {
			return nil, fmt.Errorf("%w: 响应缺少 embedding 字段", ErrEmbeddingService)
		}
		items, ok := raw.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%w: embedding 字段不是数组", ErrEmbeddingService)
		}
		return toFloatSlice(items)
	case []interface{}:
		return toFloatSlice(v)
	default:
		return nil, fmt.Errorf("%w: 响应形状无法识别", ErrEmbeddingService)
	}
}

// toFloatSlice 将JSON数组元素转换为float64向量
func toFloatSlice(items []interface{}) ([]float64, error) {
	vec := make([]float64, 0, len(items))
	for _, item := range items {
		f, ok := item.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: 向量元素不是数值: %v", ErrEmbeddingService, item)
		}
		vec = append(vec, f)
	}
	return vec, nil
}
