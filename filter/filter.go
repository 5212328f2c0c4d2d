package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// Filter 是过滤器的抽象接口，用于判断一条推荐是否应该被过滤掉。
// 返回 true 表示应该过滤（移除），false 表示保留。
type Filter interface {
	// Name 返回过滤器名称
	Name() string

	// ShouldFilter 判断 rec 是否应该被过滤
	ShouldFilter(ctx context.Context, rctx *core.RecommendContext, rec core.Recommendation) (bool, error)
}

// Loader 是过滤器的可选接口：过滤开始前为本次请求读取一次数据（如存储中的黑名单），
// 返回绑定到该请求的过滤器，避免逐条推荐访问存储。返回 nil 表示本次不过滤。
type Loader interface {
	Load(ctx context.Context, rctx *core.RecommendContext) (Filter, error)
}
