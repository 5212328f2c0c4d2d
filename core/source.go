package core

import "context"

// UserSource 是推荐核心唯一依赖的数据接口（分页用户数据源）。
//
// 设计原则：
//   - 定义在领域层（core），由 recall.StoreSource 等基础设施实现
//   - 核心链路不感知存储技术，之后可替换为倒排索引（item → users）实现而不改动打分/聚合
//
// 实现：
//   - recall.StoreSource（基于 core.KeyValueStore）
//   - recall.BreakerSource（熔断装饰器）
type UserSource interface {
	// GetLibrary 获取用户游戏库，用户不存在时返回 ErrUserNotFound
	GetLibrary(ctx context.Context, userID UserID) (Library, error)

	// FetchPage 按稳定顺序分页获取候选用户。
	// exclude 在分页之前剔除，因此返回条数少于 limit 即表示已到末尾。
	FetchPage(ctx context.Context, offset, limit int, exclude UserID) ([]Candidate, error)
}
