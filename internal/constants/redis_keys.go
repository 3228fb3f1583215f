package constants

// Redis Key 前缀和格式常量
// 统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// MatchModulePrefix 匹配模块
	MatchModulePrefix = "match"
	// JobModulePrefix 岗位模块
	JobModulePrefix = "job"
	// FileModulePrefix 文件模块
	FileModulePrefix = "file"

	// EntityVector 向量实体
	EntityVector = "vector"
	// EntityText 文本实体
	EntityText = "text"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"

	// KeyEmbeddingVector 归一化文本的向量缓存 (STRING, JSON数组)
	// 格式: app:match:vector:{textMD5}
	KeyEmbeddingVector = AppPrefix + ":" + MatchModulePrefix + ":" + EntityVector + ":%s"

	// KeyJobDescriptionText JD文本缓存 (STRING)
	// 格式: app:job:text:{jdMD5}
	KeyJobDescriptionText = AppPrefix + ":" + JobModulePrefix + ":" + EntityText + ":%s"

	// KeyRawFileDedupSet 原始简历文件MD5去重集合 (SET)
	// 格式: app:file:dedup_set:raw
	KeyRawFileDedupSet = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet + ":raw"
)
