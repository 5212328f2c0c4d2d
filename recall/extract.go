package recall

import (
	"sort"

	"github.com/rushteam/gamerec/core"
)

// Extract 从游戏库中抽取 Top 游戏与拥有集合。
//
//   - owned：时长 > 0 的全部游戏，按游戏库顺序
//   - top：时长 >= minPlaytime（且 > 0）的游戏，按时长降序稳定排序后取前 topN 个
//
// 游戏库为空或没有游戏达到门槛时返回 core.ErrInsufficientPlaytime。
// 纯函数，不修改 lib。
func Extract(lib core.Library, topN int, minPlaytime int64) ([]core.ItemID, core.ItemSet, error) {
	owned := OwnedSet(lib)

	qualified := make([]core.LibraryEntry, 0, len(lib))
	for _, e := range lib {
		if e.Minutes > 0 && e.Minutes >= minPlaytime {
			qualified = append(qualified, e)
		}
	}
	if len(qualified) == 0 {
		return nil, owned, core.ErrInsufficientPlaytime
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		return qualified[i].Minutes > qualified[j].Minutes
	})
	if topN < 0 {
		topN = 0
	}
	if len(qualified) > topN {
		qualified = qualified[:topN]
	}

	top := make([]core.ItemID, 0, len(qualified))
	for _, e := range qualified {
		top = append(top, e.ItemID)
	}
	return top, owned, nil
}

// OwnedSet 返回时长 > 0 的游戏集合，保持游戏库顺序。
func OwnedSet(lib core.Library) core.ItemSet {
	owned := core.NewItemSet()
	for _, e := range lib {
		if e.Minutes > 0 {
			owned.Add(e.ItemID)
		}
	}
	return owned
}
