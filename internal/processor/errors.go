package processor

import (
	"errors"
	"fmt"
)

// 定义基础错误类型
var (
	ErrExtractTextFailed = errors.New("提取简历文本失败")
	ErrClassifyFailed    = errors.New("简历章节分类失败")
	ErrEmbedTextFailed   = errors.New("文本向量化失败")
	ErrStoreResumeFailed = errors.New("持久化简历失败")
)

// PipelineError 包含详细错误信息的自定义错误
type PipelineError struct {
	SubmissionUUID string
	Op             string
	BaseErr        error
	Detail         string
}

func (e *PipelineError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, UUID:%s): %s", e.BaseErr, e.Op, e.SubmissionUUID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, UUID:%s)", e.BaseErr, e.Op, e.SubmissionUUID)
}

func (e *PipelineError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *PipelineError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewExtractError(uuid, detail string) error {
	return &PipelineError{
		SubmissionUUID: uuid,
		Op:             "extract",
		BaseErr:        ErrExtractTextFailed,
		Detail:         detail,
	}
}

func NewClassifyError(uuid, detail string) error {
	return &PipelineError{
		SubmissionUUID: uuid,
		Op:             "classify",
		BaseErr:        ErrClassifyFailed,
		Detail:         detail,
	}
}

func NewEmbedError(uuid, detail string) error {
	return &PipelineError{
		SubmissionUUID: uuid,
		Op:             "embed",
		BaseErr:        ErrEmbedTextFailed,
		Detail:         detail,
	}
}

func NewStoreError(uuid, detail string) error {
	return &PipelineError{
		SubmissionUUID: uuid,
		Op:             "store",
		BaseErr:        ErrStoreResumeFailed,
		Detail:         detail,
	}
}
