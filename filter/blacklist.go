package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// BlacklistStore 是黑名单存储接口。
type BlacklistStore interface {
	// GetBlacklist 获取黑名单游戏列表
	GetBlacklist(ctx context.Context) ([]core.ItemID, error)
}

// BlacklistFilter 是黑名单过滤器，过滤掉存储中全局黑名单里的游戏。
// 黑名单每次请求读取一次（见 Loader），运营修改后下一次请求即生效。
type BlacklistFilter struct {
	Store BlacklistStore
}

// NewBlacklistFilter 创建一个黑名单过滤器。
func NewBlacklistFilter(s BlacklistStore) *BlacklistFilter {
	return &BlacklistFilter{Store: s}
}

func (f *BlacklistFilter) Name() string {
	return "filter.blacklist"
}

// Load 读取黑名单，返回本次请求使用的过滤器。
func (f *BlacklistFilter) Load(ctx context.Context, _ *core.RecommendContext) (Filter, error) {
	if f.Store == nil {
		return nil, nil
	}
	ids, err := f.Store.GetBlacklist(ctx)
	if err != nil {
		return nil, err
	}
	return &ExcludeItems{Items: core.NewItemSet(ids...), name: f.Name()}, nil
}

// ShouldFilter 未经 Load 直接调用时逐条读取黑名单。
func (f *BlacklistFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, rec core.Recommendation) (bool, error) {
	bound, err := f.Load(ctx, rctx)
	if err != nil || bound == nil {
		return false, err
	}
	return bound.ShouldFilter(ctx, rctx, rec)
}
