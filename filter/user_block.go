package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
)

// UserBlockStore 是用户屏蔽列表的存储接口。
type UserBlockStore interface {
	// GetUserBlocks 获取用户标记为"不感兴趣"的游戏
	GetUserBlocks(ctx context.Context, userID core.UserID) ([]core.ItemID, error)
}

// UserBlockFilter 过滤掉目标用户自己屏蔽的游戏。
type UserBlockFilter struct {
	Store UserBlockStore
}

// NewUserBlockFilter 创建一个用户屏蔽过滤器。
func NewUserBlockFilter(s UserBlockStore) *UserBlockFilter {
	return &UserBlockFilter{Store: s}
}

func (f *UserBlockFilter) Name() string {
	return "filter.user_block"
}

// Load 读取目标用户的屏蔽列表，返回本次请求使用的过滤器。
func (f *UserBlockFilter) Load(ctx context.Context, rctx *core.RecommendContext) (Filter, error) {
	if f.Store == nil || rctx == nil {
		return nil, nil
	}
	ids, err := f.Store.GetUserBlocks(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	return &ExcludeItems{Items: core.NewItemSet(ids...), name: f.Name()}, nil
}

func (f *UserBlockFilter) ShouldFilter(ctx context.Context, rctx *core.RecommendContext, rec core.Recommendation) (bool, error) {
	bound, err := f.Load(ctx, rctx)
	if err != nil || bound == nil {
		return false, err
	}
	return bound.ShouldFilter(ctx, rctx, rec)
}
