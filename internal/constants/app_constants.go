package constants

import "time"

const (
	// DefaultClassifyThreshold 章节分类的默认置信度阈值
	DefaultClassifyThreshold = 0.5

	// DefaultBulkMinScore 批量匹配默认的最低保留分数
	DefaultBulkMinScore = 7.0

	// DefaultSourceChannel 未指定来源渠道时的默认值
	DefaultSourceChannel = "web_upload"

	// EmbeddingCacheDuration 向量缓存的过期时间
	EmbeddingCacheDuration = 24 * time.Hour

	// JDCacheDuration JD文本缓存的过期时间
	JDCacheDuration = 24 * time.Hour

	// MD5RecordDefaultExpireDays 去重MD5记录的默认过期天数
	MD5RecordDefaultExpireDays = 365
)
