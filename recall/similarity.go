package recall

import "github.com/rushteam/gamerec/core"

// Scorer 计算候选用户与目标用户的相似度。
//
//	score = top_overlap * TopOverlapWeight + total_overlap
//
// 命中目标用户的一个 Top 游戏，比任意一个普通共同游戏更能说明口味相近，
// 所以 Top 重合单独加权（默认 10，可配置）。
type Scorer struct {
	TopOverlapWeight float64
}

// NewScorer 创建打分器。weight 为 0 时只按共同游戏数打分，负数时使用默认权重。
func NewScorer(weight float64) Scorer {
	if weight < 0 {
		weight = core.DefaultTopOverlapWeight
	}
	return Scorer{TopOverlapWeight: weight}
}

// Score 对一个候选用户打分；与目标 Top 游戏没有交集时返回 false。
//
// Top 重合先算：绝大多数候选在这一步被拒绝，只需要遍历 len(top) 次成员判断。
// 纯函数，不修改任何入参。
func (s Scorer) Score(top core.ItemSet, owned core.ItemSet, cand core.Candidate) (core.SimilarUser, bool) {
	topOverlap := 0
	for _, id := range top.Items() {
		if cand.Owned.Contains(id) {
			topOverlap++
		}
	}
	if topOverlap == 0 {
		return core.SimilarUser{}, false
	}

	totalOverlap := owned.IntersectCount(cand.Owned)
	return core.SimilarUser{
		UserID:       cand.UserID,
		Score:        float64(topOverlap)*s.TopOverlapWeight + float64(totalOverlap),
		TopOverlap:   topOverlap,
		TotalOverlap: totalOverlap,
		Owned:        cand.Owned,
	}, true
}
