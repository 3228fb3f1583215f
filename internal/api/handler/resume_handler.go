package handler

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/gofrs/uuid/v5"
	googleuuid "github.com/google/uuid"

	"resume-match-go/internal/config"
	"resume-match-go/internal/constants"
	"resume-match-go/internal/logger"
	"resume-match-go/internal/processor"
	"resume-match-go/internal/storage"
	"resume-match-go/internal/storage/models"
	"resume-match-go/internal/types"
	"resume-match-go/pkg/utils"
)

// ResumeHandler 简历处理器，协调上传、解析、匹配流程
type ResumeHandler struct {
	cfg      *config.Config
	storage  *storage.Storage
	pipeline *processor.ResumePipeline
}

// NewResumeHandler 创建简历处理器
func NewResumeHandler(cfg *config.Config, storage *storage.Storage, pipeline *processor.ResumePipeline) *ResumeHandler {
	return &ResumeHandler{
		cfg:      cfg,
		storage:  storage,
		pipeline: pipeline,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	SubmissionUUID string                   `json:"submission_uuid"`
	Status         string                   `json:"status"`
	Sections       types.ClassifiedSections `json:"sections,omitempty"`
}

// MatchResponse 单份简历匹配响应
type MatchResponse struct {
	FileName string                   `json:"filename"`
	Score    float64                  `json:"score"`
	Sections types.ClassifiedSections `json:"sections,omitempty"`
}

// BulkMatchResponse 批量匹配响应
type BulkMatchResponse struct {
	BatchID  string               `json:"batch_id"`
	Ranked   []types.RankedResume `json:"ranked"`
	Failures []types.BulkFailure  `json:"failures,omitempty"`
}

// EnvCheckResponse 环境配置自检响应
type EnvCheckResponse struct {
	AzureConfigured      bool   `json:"azure_configured"`
	AzureError           string `json:"azure_error,omitempty"`
	ClassifierConfigured bool   `json:"classifier_configured"`
	RedisAvailable       bool   `json:"redis_available"`
	MySQLAvailable       bool   `json:"mysql_available"`
	MinIOAvailable       bool   `json:"minio_available"`
	RabbitMQAvailable    bool   `json:"rabbitmq_available"`
}

// HandleResumeUpload 处理简历上传：去重、解析、落库、发事件
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, filename string, sourceChannel string) (*ResumeUploadResponse, error) {
	if sourceChannel == "" {
		sourceChannel = constants.DefaultSourceChannel
	}

	// reader只能读一次，先整体读入再算MD5
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}
	fileMD5 := utils.CalculateMD5(fileBytes)

	// 文件级去重
	if h.storage != nil && h.storage.Redis != nil {
		isNew, err := h.storage.Redis.CheckAndAddRawFileMD5(ctx, fileMD5)
		if err != nil {
			logger.Error().Err(err).Str("md5", fileMD5).Msg("查询文件MD5去重集合失败")
			return nil, fmt.Errorf("检查文件MD5重复性失败: %w", err)
		}
		if !isNew {
			logger.Info().Str("md5", fileMD5).Str("filename", filename).Msg("检测到重复的文件MD5，跳过处理")
			return &ResumeUploadResponse{
				Status: models.StatusUploadDuplicate,
			}, nil
		}
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}
	submissionUUID := uuidV7.String()

	// 解析：提取文本、切分章节、分类聚合
	parsed, err := h.pipeline.ParseResume(ctx, fileBytes, filename)
	if err != nil {
		h.markParseFailed(ctx, submissionUUID, filename, fileMD5, sourceChannel)
		return nil, err
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}

	// 归档原始文件
	var objectKey string
	if h.storage != nil && h.storage.MinIO != nil {
		objectKey, err = h.storage.MinIO.UploadResumeFileBytes(ctx, submissionUUID, ext, fileBytes)
		if err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("上传简历到MinIO失败")
		}
	}

	// 落库
	if h.storage != nil && h.storage.MySQL != nil {
		submission := &models.ResumeSubmission{
			SubmissionUUID:   submissionUUID,
			FileName:         filename,
			FileMD5:          fileMD5,
			MinIOPath:        objectKey,
			RawTextLength:    len(parsed.RawText),
			SectionsJSON:     utils.SectionsToJSON(parsed.Sections),
			ProcessingStatus: models.StatusParsed,
			SourceChannel:    sourceChannel,
		}
		if err := h.storage.MySQL.CreateResumeSubmission(ctx, submission); err != nil {
			logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("插入简历提交记录失败")
			return nil, fmt.Errorf("持久化简历记录失败: %w", err)
		}
	}

	// 发布解析完成事件，失败只告警不影响主流程
	if h.storage != nil && h.storage.RabbitMQ != nil {
		msg := &storage.ResumeParsedMessage{
			SubmissionUUID: submissionUUID,
			FileName:       filename,
			FileMD5:        fileMD5,
			MinIOPath:      objectKey,
			RawTextLength:  len(parsed.RawText),
			SourceChannel:  sourceChannel,
			ParsedAt:       time.Now(),
		}
		if err := h.storage.RabbitMQ.PublishResumeParsed(ctx, msg); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("发布简历解析完成事件失败")
		}
	}

	logger.Info().
		Str("submission_uuid", submissionUUID).
		Str("filename", filename).
		Int("raw_text_length", len(parsed.RawText)).
		Msg("简历上传处理完成")

	return &ResumeUploadResponse{
		SubmissionUUID: submissionUUID,
		Status:         models.StatusParsed,
		Sections:       parsed.Sections,
	}, nil
}

// markParseFailed 尽力记录解析失败状态
func (h *ResumeHandler) markParseFailed(ctx context.Context, submissionUUID, filename, fileMD5, sourceChannel string) {
	if h.storage == nil || h.storage.MySQL == nil {
		return
	}
	submission := &models.ResumeSubmission{
		SubmissionUUID:   submissionUUID,
		FileName:         filename,
		FileMD5:          fileMD5,
		ProcessingStatus: models.StatusParseFailed,
		SourceChannel:    sourceChannel,
	}
	if err := h.storage.MySQL.CreateResumeSubmission(ctx, submission); err != nil {
		logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("记录解析失败状态失败")
	}
}

// HandleMatch 处理单份简历与岗位描述的匹配
func (h *ResumeHandler) HandleMatch(ctx context.Context, reader io.Reader, filename string, jobText string) (*MatchResponse, error) {
	fileBytes, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取上传文件内容失败: %w", err)
	}

	result, err := h.pipeline.MatchResume(ctx, fileBytes, filename, jobText)
	if err != nil {
		return nil, err
	}

	jdMD5 := utils.CalculateMD5([]byte(jobText))
	h.cacheJobText(ctx, jobText)
	h.persistMatchRecords(ctx, "", jdMD5, []types.RankedResume{{FileName: result.FileName, Score: result.Score}})

	return &MatchResponse{
		FileName: result.FileName,
		Score:    result.Score,
		Sections: result.Sections,
	}, nil
}

// HandleBulkMatch 处理批量简历匹配
func (h *ResumeHandler) HandleBulkMatch(ctx context.Context, files []processor.BulkFile, jobText string, minScore float64) (*BulkMatchResponse, error) {
	result, err := h.pipeline.BulkMatch(ctx, files, jobText, minScore)
	if err != nil {
		return nil, err
	}

	batchID := googleuuid.NewString()
	jdMD5 := utils.CalculateMD5([]byte(jobText))
	h.cacheJobText(ctx, jobText)
	h.persistMatchRecords(ctx, batchID, jdMD5, result.Ranked)

	logger.Info().
		Str("batch_id", batchID).
		Int("input_count", len(files)).
		Int("ranked_count", len(result.Ranked)).
		Int("failure_count", len(result.Failures)).
		Msg("批量匹配完成")

	return &BulkMatchResponse{
		BatchID:  batchID,
		Ranked:   result.Ranked,
		Failures: result.Failures,
	}, nil
}

// cacheJobText 缓存JD原文，失败只告警
func (h *ResumeHandler) cacheJobText(ctx context.Context, jobText string) {
	if h.storage == nil || h.storage.Redis == nil {
		return
	}
	if _, err := h.storage.Redis.CacheJobText(ctx, jobText); err != nil {
		logger.Warn().Err(err).Msg("缓存JD文本失败")
	}
}

// persistMatchRecords 落库匹配打分记录，失败只告警
func (h *ResumeHandler) persistMatchRecords(ctx context.Context, batchID, jdMD5 string, ranked []types.RankedResume) {
	if h.storage == nil || h.storage.MySQL == nil || len(ranked) == 0 {
		return
	}

	records := make([]models.MatchRecord, 0, len(ranked))
	for _, r := range ranked {
		records = append(records, models.MatchRecord{
			BatchID:    batchID,
			FileName:   r.FileName,
			JobTextMD5: jdMD5,
			Score:      r.Score,
		})
	}
	if err := h.storage.MySQL.BatchInsertMatchRecords(ctx, records); err != nil {
		logger.Warn().Err(err).Str("batch_id", batchID).Msg("落库匹配记录失败")
	}
}

// HandleEnvCheck 环境配置自检，启动排障用
func (h *ResumeHandler) HandleEnvCheck(ctx context.Context) *EnvCheckResponse {
	resp := &EnvCheckResponse{
		ClassifierConfigured: h.cfg.Classifier.EndpointURL != "",
	}

	if err := h.cfg.ValidateAzure(); err != nil {
		resp.AzureError = err.Error()
	} else {
		resp.AzureConfigured = true
	}

	if h.storage != nil {
		resp.MinIOAvailable = h.storage.MinIO != nil
		resp.MySQLAvailable = h.storage.MySQL != nil
		resp.RabbitMQAvailable = h.storage.RabbitMQ != nil
		if h.storage.Redis != nil {
			resp.RedisAvailable = h.storage.Redis.Ping(ctx) == nil
		}
	}

	return resp
}
