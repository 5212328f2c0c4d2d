package recall

import (
	"sort"

	"github.com/rushteam/gamerec/core"
)

// SelectSimilar 从扫描结果中选出 TopK 相似用户。
// 按分数降序稳定排序（分数相同保持扫描顺序），再截断到 k；k <= 0 时不截断。
// 返回新切片，不修改 records。
func SelectSimilar(records []core.SimilarUser, k int) []core.SimilarUser {
	out := make([]core.SimilarUser, len(records))
	copy(out, records)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
