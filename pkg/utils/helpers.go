package utils

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"

	"gorm.io/datatypes"

	"resume-match-go/internal/types"
)

// CalculateMD5 计算字节切片的MD5十六进制串
func CalculateMD5(data []byte) string {
	hasher := md5.New()
	hasher.Write(data)
	return hex.EncodeToString(hasher.Sum(nil))
}

// SectionsToJSON 将分类后的章节映射转换为JSON列，序列化失败时落到空对象
func SectionsToJSON(sections types.ClassifiedSections) datatypes.JSON {
	if sections == nil {
		return datatypes.JSON("{}")
	}
	jsonBytes, err := json.Marshal(sections)
	if err != nil {
		return datatypes.JSON("{}")
	}
	return datatypes.JSON(jsonBytes)
}
