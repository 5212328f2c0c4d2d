package rerank

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
)

// TopNNode 是一个 Top-N 截断节点，用于在聚合/过滤后截取前 N 条推荐。
//
// 示例：
//
//	pipeline := &pipeline.Pipeline{
//	    Nodes: []pipeline.Node{
//	        &rank.AggregateNode{},    // 加权累计
//	        &filter.FilterNode{...},  // 规则过滤
//	        &rerank.TopNNode{},       // 截取 MaxRecommendations 条
//	    },
//	}
type TopNNode struct {
	// N 要保留的推荐数量
	// 如果 N <= 0，使用请求参数中的 MaxRecommendations
	// 两者都 <= 0 时不截断
	N int
}

func (n *TopNNode) Name() string {
	return "rerank.topn"
}

func (n *TopNNode) Kind() pipeline.Kind {
	return pipeline.KindReRank
}

func (n *TopNNode) Process(_ context.Context, rctx *core.RecommendContext) error {
	limit := n.N
	if limit <= 0 {
		limit = rctx.Params.MaxRecommendations
	}
	rctx.Recommendations = TopN(rctx.Recommendations, limit)
	return nil
}

// TopN 截取前 n 条，n <= 0 时原样返回。
func TopN(recs []core.Recommendation, n int) []core.Recommendation {
	if n <= 0 || len(recs) <= n {
		return recs
	}
	return recs[:n]
}
