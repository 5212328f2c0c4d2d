package recall

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/store"
)

// 采集阶段的默认过滤门槛：游戏太少或总时长太短的用户对相似度没有贡献。
const (
	DefaultImportMinGames         = 7
	DefaultImportMinTotalPlaytime = 1200 // 分钟
)

// ImportOptions 控制快照导入时的用户过滤，0 表示不过滤。
type ImportOptions struct {
	MinGames         int   `koanf:"min_games" validate:"gte=0"`
	MinTotalPlaytime int64 `koanf:"min_total_playtime" validate:"gte=0"`
}

// DefaultImportOptions 返回默认导入门槛。
func DefaultImportOptions() ImportOptions {
	return ImportOptions{
		MinGames:         DefaultImportMinGames,
		MinTotalPlaytime: DefaultImportMinTotalPlaytime,
	}
}

// ImportStats 是一次导入的统计。
type ImportStats struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ImportSnapshot 把快照写入数据源，按快照顺序追加到用户全集。
// 已存在的用户只更新游戏库，不改变其在全集中的位置。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func ImportSnapshot(ctx context.Context, src *StoreSource, snap *store.Snapshot, opts ImportOptions, logger zerolog.Logger) (ImportStats, error) {
	var stats ImportStats
	if snap == nil {
		return stats, nil
	}

	for _, u := range snap.Users {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if !opts.accept(u.Games) {
			stats.Skipped++
			logger.Trace().
				Int64("user_id", int64(u.UserID)).
				Int("games", len(u.Games)).
				Int64("total_minutes", u.Games.TotalMinutes()).
				Msg("user skipped by import filter")
			continue
		}
		if err := src.PutLibrary(ctx, u.UserID, u.Games); err != nil {
			return stats, fmt.Errorf("put library of user %d: %w", u.UserID, err)
		}
		stats.Imported++
	}

	logger.Info().
		Int("imported", stats.Imported).
		Int("skipped", stats.Skipped).
		Msg("snapshot imported")
	return stats, nil
}

func (o ImportOptions) accept(lib core.Library) bool {
	if o.MinGames > 0 && len(lib) < o.MinGames {
		return false
	}
	if o.MinTotalPlaytime > 0 && lib.TotalMinutes() < o.MinTotalPlaytime {
		return false
	}
	return true
}
