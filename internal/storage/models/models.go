package models

import (
	"time"

	"gorm.io/datatypes"
)

// 处理状态常量
const (
	StatusUploaded        = "UPLOADED"     // 已上传，待解析
	StatusParsed          = "PARSED"       // 文本提取和章节分类完成
	StatusParseFailed     = "PARSE_FAILED" // 解析失败
	StatusMatched         = "MATCHED"      // 已完成至少一次匹配
	StatusUploadDuplicate = "DUPLICATE"    // 文件MD5重复，跳过处理
)

// ResumeSubmission 一次简历上传及其解析产物
type ResumeSubmission struct {
	SubmissionUUID   string         `gorm:"type:varchar(36);primaryKey" json:"submission_uuid"`
	FileName         string         `gorm:"type:varchar(255);not null" json:"file_name"`
	FileMD5          string         `gorm:"type:varchar(32);index" json:"file_md5"`
	MinIOPath        string         `gorm:"type:varchar(512)" json:"minio_path"`
	RawTextLength    int            `gorm:"default:0" json:"raw_text_length"`
	SectionsJSON     datatypes.JSON `gorm:"type:json" json:"sections_json"` // 10个规范标签到聚合文本的映射
	ProcessingStatus string         `gorm:"type:varchar(32);index;default:'UPLOADED'" json:"processing_status"`
	SourceChannel    string         `gorm:"type:varchar(64);default:'web_upload'" json:"source_channel"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName 指定表名
func (ResumeSubmission) TableName() string {
	return "resume_submissions"
}

// MatchRecord 一次简历与岗位描述的匹配打分记录
type MatchRecord struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	SubmissionUUID string    `gorm:"type:varchar(36);index" json:"submission_uuid"`
	BatchID        string    `gorm:"type:varchar(36);index" json:"batch_id"` // 批量匹配时的批次ID，单次匹配为空
	FileName       string    `gorm:"type:varchar(255)" json:"file_name"`
	JobTextMD5     string    `gorm:"type:varchar(32);index" json:"job_text_md5"`
	Score          float64   `gorm:"type:decimal(4,2)" json:"score"`
	CreatedAt      time.Time `json:"created_at"`
}

// TableName 指定表名
func (MatchRecord) TableName() string {
	return "match_records"
}
