package filter

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
)

// FilterNode 是过滤 Node，可以组合多个过滤器进行过滤。
// 如果任何一个过滤器返回 true，该推荐就会被移除；剩余推荐保持原有顺序。
type FilterNode struct {
	Filters []Filter
	Logger  zerolog.Logger
}

func (n *FilterNode) Name() string {
	return "filter.node"
}

func (n *FilterNode) Kind() pipeline.Kind {
	return pipeline.KindFilter
}

func (n *FilterNode) Process(ctx context.Context, rctx *core.RecommendContext) error {
	if len(n.Filters) == 0 || len(rctx.Recommendations) == 0 {
		return nil
	}

	filters := n.load(ctx, rctx)
	out := make([]core.Recommendation, 0, len(rctx.Recommendations))
	filtered := 0

	for _, rec := range rctx.Recommendations {
		drop := false
		for _, f := range filters {
			ok, err := f.ShouldFilter(ctx, rctx, rec)
			if err != nil {
				// 过滤器错误时记录但不中断流程
				n.Logger.Warn().Str("filter", f.Name()).Int64("item_id", int64(rec.ItemID)).Err(err).Msg("filter failed")
				continue
			}
			if ok {
				drop = true
				break
			}
		}
		if drop {
			filtered++
			continue
		}
		out = append(out, rec)
	}

	if filtered > 0 {
		n.Logger.Debug().Int("filtered", filtered).Int("kept", len(out)).Msg("recommendations filtered")
	}
	rctx.Recommendations = out
	return nil
}

// load 为实现了 Loader 的过滤器读取本次请求的数据。
// 读取失败时记录日志并跳过该过滤器，不中断流程。
func (n *FilterNode) load(ctx context.Context, rctx *core.RecommendContext) []Filter {
	out := make([]Filter, 0, len(n.Filters))
	for _, f := range n.Filters {
		l, ok := f.(Loader)
		if !ok {
			out = append(out, f)
			continue
		}
		bound, err := l.Load(ctx, rctx)
		if err != nil {
			n.Logger.Warn().Str("filter", f.Name()).Err(err).Msg("filter load failed")
			continue
		}
		if bound != nil {
			out = append(out, bound)
		}
	}
	return out
}
