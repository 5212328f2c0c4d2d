package pipeline

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// Kind 用于标记 Node 类型，方便观测/治理/编排（例如按阶段打点）。
type Kind string

const (
	KindExtract Kind = "extract" // 抽取阶段：目标用户 Top 游戏与拥有集合
	KindRecall  Kind = "recall"  // 召回阶段：扫描用户全集，找相似用户
	KindRank    Kind = "rank"    // 排序阶段：加权聚合候选游戏
	KindFilter  Kind = "filter"  // 过滤阶段：按规则剔除推荐
	KindReRank  Kind = "rerank"  // 重排阶段：截断等最终调整
)

// Node 是 Pipeline 的最小可扩展单元。
// 统一采用"读写 RecommendContext"的形态，前一阶段的输出即后一阶段的输入。
type Node interface {
	Name() string
	Kind() Kind

	Process(ctx context.Context, rctx *core.RecommendContext) error
}
