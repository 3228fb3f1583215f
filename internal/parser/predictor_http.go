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
	"time"

	"resume-match-go/internal/config"
)

// HTTPSectionPredictor 文本分类服务的HTTP客户端，实现 SectionPredictor 接口
// 服务端是训练好的章节分类模型，返回 {"cats": {标签: 置信度}}
type HTTPSectionPredictor struct {
	endpointURL string
	httpClient  *http.Client
	logger      *log.Logger
}

// HTTPSectionPredictorOption 分类客户端的配置选项
type HTTPSectionPredictorOption func(*HTTPSectionPredictor)

// WithPredictorLogger 配置自定义日志记录器
func WithPredictorLogger(logger *log.Logger) HTTPSectionPredictorOption {
	return func(p *HTTPSectionPredictor) {
		p.logger = logger
	}
}

// WithPredictorHTTPClient 替换HTTP客户端（主要用于测试）
func WithPredictorHTTPClient(client *http.Client) HTTPSectionPredictorOption {
	return func(p *HTTPSectionPredictor) {
		p.httpClient = client
	}
}

// NewHTTPSectionPredictor 创建章节分类服务客户端
func NewHTTPSectionPredictor(cfg config.ClassifierConfig, options ...HTTPSectionPredictorOption) (*HTTPSectionPredictor, error) {
	if cfg.EndpointURL == "" {
		return nil, fmt.Errorf("分类服务地址不能为空")
	}

	timeout := 30 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	predictor := &HTTPSectionPredictor{
		endpointURL: cfg.EndpointURL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      log.New(os.Stderr, "[SectionPredictor] ", log.LstdFlags),
	}

	for _, option := range options {
		option(predictor)
	}

	return predictor, nil
}

// predictRequest 分类请求体
type predictRequest struct {
	Text string `json:"text"`
}

// predictResponse 分类响应体
type predictResponse struct {
	Cats map[string]float64 `json:"cats"`
}

// Predict 请求一段文本的 {标签: 置信度} 映射
func (p *HTTPSectionPredictor) Predict(ctx context.Context, text string) (map[string]float64, error) {
	payload, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("序列化分类请求失败: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpointURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("分类服务请求失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取分类响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.logger.Printf("分类服务返回非成功状态 %d: %.300s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("分类服务状态码 %d: %.300s", resp.StatusCode, string(body))
	}

	var parsed predictResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析分类响应失败: %w", err)
	}
	if parsed.Cats == nil {
		// 容忍直接返回裸映射的服务端实现
		var bare map[string]float64
		if err := json.Unmarshal(body, &bare); err != nil || len(bare) == 0 {
			return nil, fmt.Errorf("分类响应缺少 cats 字段: %.300s", string(body))
		}
		return bare, nil
	}

	return parsed.Cats, nil
}
