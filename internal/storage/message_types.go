package storage

import "time"

// ResumeParsedMessage 简历解析完成后发布到事件交换机的消息体
type ResumeParsedMessage struct {
	SubmissionUUID string    `json:"submission_uuid"`
	FileName       string    `json:"file_name"`
	FileMD5        string    `json:"file_md5"`
	MinIOPath      string    `json:"minio_path"`
	RawTextLength  int       `json:"raw_text_length"`
	SourceChannel  string    `json:"source_channel"`
	ParsedAt       time.Time `json:"parsed_at"`
}
