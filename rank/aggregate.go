package rank

import (
	"context"
	"sort"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
)

// Aggregate 把相似用户拥有、目标用户没有的游戏按相似度加权累计，输出排序后的推荐。
//
// 约定：
//   - similar 已由调用方截断为 TopK，并按分数降序稳定排序
//   - 每个游戏的得分 = 拥有它的相似用户分数之和；贡献用户按处理顺序记录
//   - 得分相同时先出现的游戏排前面，结果完全由输入决定
//   - limit <= 0 时不截断
//
// 纯函数，不修改任何入参。
func Aggregate(similar []core.SimilarUser, owned core.ItemSet, limit int) []core.Recommendation {
	index := make(map[core.ItemID]int)
	var out []core.Recommendation

	for _, su := range similar {
		for _, id := range su.Owned.Items() {
			if owned.Contains(id) {
				continue
			}
			i, ok := index[id]
			if !ok {
				i = len(out)
				index[id] = i
				out = append(out, core.Recommendation{ItemID: id})
			}
			out[i].Score += su.Score
			out[i].Contributors = append(out[i].Contributors, su.UserID)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AggregateNode 是聚合阶段的 Node，产出全部候选推荐（截断交给 rerank.TopNNode）。
type AggregateNode struct{}

func (n *AggregateNode) Name() string        { return "rank.weighted_tally" }
func (n *AggregateNode) Kind() pipeline.Kind { return pipeline.KindRank }

func (n *AggregateNode) Process(_ context.Context, rctx *core.RecommendContext) error {
	rctx.Recommendations = Aggregate(rctx.Similar, rctx.Owned, 0)
	return nil
}
