package core

// RecommendContext 承载一次推荐请求的全部中间状态，贯穿整个 Pipeline 透传。
//
// 每个请求独占一个 RecommendContext，各 Node 顺序读写，不需要加锁。
type RecommendContext struct {
	RequestID string
	UserID    UserID
	Params    Params

	// Source 是本次请求使用的用户数据源
	Source UserSource

	// Library 是目标用户的游戏库快照
	Library Library

	// TopItems / Owned 由抽取阶段填充
	TopItems []ItemID
	Owned    ItemSet

	// Similar 由扫描阶段填充：先是按扫描顺序的全部命中，TopK 选择后按分数排序
	Similar []SimilarUser

	// UsersScanned 是扫描阶段检查过的候选用户数
	UsersScanned int

	// Recommendations 由聚合阶段填充，过滤/截断阶段继续修改
	Recommendations []Recommendation
}
