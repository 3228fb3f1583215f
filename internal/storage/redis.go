package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"

	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
)

// ErrNotFound Redis键不存在时返回，包装底层的 redis.Nil
var ErrNotFound = redis.Nil

// Redis 键值存储适配器
type Redis struct {
	Client *redis.Client
	config *config.RedisConfig
}

// NewRedisAdapter 创建Redis客户端连接
func NewRedisAdapter(cfg *config.RedisConfig) (*Redis, error) {
	if cfg == nil {
		return nil, fmt.Errorf("redis配置不能为空")
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("redis地址不能为空")
	}

	opt := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,

		// 连接池设置
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,

		// 超时设置
		DialTimeout:  time.Duration(cfg.DialTimeoutSeconds) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,

		// 重试设置
		MaxRetries:      cfg.MaxRetries,
		MinRetryBackoff: time.Duration(cfg.MinRetryBackoffMS) * time.Millisecond,
		MaxRetryBackoff: time.Duration(cfg.MaxRetryBackoffMS) * time.Millisecond,

		// 连接生命周期
		ConnMaxLifetime: time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute,
		ConnMaxIdleTime: time.Duration(cfg.ConnMaxIdleTimeMinutes) * time.Minute,
	}

	client := redis.NewClient(opt)

	// 添加OpenTelemetry钩子，记录所有Redis操作
	if err := redisotel.InstrumentTracing(client); err != nil {
		return nil, fmt.Errorf("为Redis注册OpenTelemetry钩子失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("连接Redis失败 (%s): %w", cfg.Address, err)
	}

	return &Redis{
		Client: client,
		config: cfg,
	}, nil
}

// Close 关闭Redis连接
func (r *Redis) Close() error {
	if r.Client != nil {
		return r.Client.Close()
	}
	return nil
}

// Ping 检查Redis连接
func (r *Redis) Ping(ctx context.Context) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}
	return r.Client.Ping(ctx).Err()
}

// textMD5 计算文本的MD5十六进制串，作为缓存键的一部分
func textMD5(text string) string {
	sum := md5.Sum([]byte(text))
	return hex.EncodeToString(sum[:])
}

// GetCachedEmbedding 按文本查询缓存向量，实现流水线的向量缓存接口
// 未命中返回 (nil, false, nil)
func (r *Redis) GetCachedEmbedding(ctx context.Context, text string) ([]float64, bool, error) {
	if r.Client == nil {
		return nil, false, fmt.Errorf("redis客户端未初始化")
	}

	key := fmt.Sprintf(constants.KeyEmbeddingVector, textMD5(text))
	raw, err := r.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("读取向量缓存失败: %w", err)
	}

	var vector []float64
	if err := json.Unmarshal([]byte(raw), &vector); err != nil {
		// 缓存内容损坏按未命中处理，由上层重新生成覆盖
		return nil, false, nil
	}
	return vector, true, nil
}

// CacheEmbedding 写入文本对应的向量，带过期时间
func (r *Redis) CacheEmbedding(ctx context.Context, text string, vector []float64) error {
	if r.Client == nil {
		return fmt.Errorf("redis客户端未初始化")
	}

	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("序列化向量失败: %w", err)
	}

	key := fmt.Sprintf(constants.KeyEmbeddingVector, textMD5(text))
	return r.Client.Set(ctx, key, data, constants.EmbeddingCacheDuration).Err()
}

// CacheJobText 缓存JD原文，按MD5寻址
func (r *Redis) CacheJobText(ctx context.Context, jobText string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis客户端未初始化")
	}

	jdMD5 := textMD5(jobText)
	key := fmt.Sprintf(constants.KeyJobDescriptionText, jdMD5)
	if err := r.Client.Set(ctx, key, jobText, constants.JDCacheDuration).Err(); err != nil {
		return "", err
	}
	return jdMD5, nil
}

// GetJobText 按MD5读取缓存的JD原文
func (r *Redis) GetJobText(ctx context.Context, jdMD5 string) (string, error) {
	if r.Client == nil {
		return "", fmt.Errorf("redis客户端未初始化")
	}
	key := fmt.Sprintf(constants.KeyJobDescriptionText, jdMD5)
	return r.Client.Get(ctx, key).Result()
}

// md5ExpireDuration 去重MD5记录的过期时间
func (r *Redis) md5ExpireDuration() time.Duration {
	days := r.config.MD5RecordExpireDays
	if days <= 0 {
		days = constants.MD5RecordDefaultExpireDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// CheckAndAddRawFileMD5 原子检查并登记原始文件MD5
// 返回true表示这是新文件，false表示MD5已存在（重复上传）
func (r *Redis) CheckAndAddRawFileMD5(ctx context.Context, md5Hex string) (bool, error) {
	if r.Client == nil {
		return false, fmt.Errorf("redis客户端未初始化")
	}
	if md5Hex == "" {
		return false, fmt.Errorf("md5不能为空")
	}

	added, err := r.Client.SAdd(ctx, constants.KeyRawFileDedupSet, md5Hex).Result()
	if err != nil {
		return false, fmt.Errorf("登记文件MD5失败: %w", err)
	}

	// 每次写入都刷新集合过期时间
	if err := r.Client.Expire(ctx, constants.KeyRawFileDedupSet, r.md5ExpireDuration()).Err(); err != nil {
		return false, fmt.Errorf("设置MD5集合过期时间失败: %w", err)
	}

	return added > 0, nil
}
