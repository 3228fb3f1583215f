package parser

import "errors"

// 定义外部协作方的基础错误类型
// 分类服务不可用与"块低于阈值"是两种不同情况，后者不产生错误
var (
	// ErrClassifierUnavailable 章节分类服务不可达或返回了畸形的置信度映射
	ErrClassifierUnavailable = errors.New("章节分类服务不可用")

	// ErrEmbeddingService 向量服务返回非成功状态、响应不可解析或缺少向量字段
	ErrEmbeddingService = errors.New("向量服务调用失败")
)
