package recall

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pipeline"
)

// ExtractNode 读取目标用户游戏库，抽取 Top 游戏与拥有集合。
//
// 错误：
//   - 用户不存在：core.ErrUserNotFound（由数据源返回）
//   - 游戏库为空：core.ErrEmptyLibrary
//   - 没有游戏达到门槛：core.ErrInsufficientPlaytime
type ExtractNode struct{}

func (n *ExtractNode) Name() string        { return "extract.library" }
func (n *ExtractNode) Kind() pipeline.Kind { return pipeline.KindExtract }

func (n *ExtractNode) Process(ctx context.Context, rctx *core.RecommendContext) error {
	if rctx.Library == nil {
		if rctx.Source == nil {
			return fmt.Errorf("no user source configured")
		}
		lib, err := rctx.Source.GetLibrary(ctx, rctx.UserID)
		if err != nil {
			return libraryErr(ctx, rctx.UserID, err)
		}
		rctx.Library = lib
	}
	if len(rctx.Library) == 0 {
		return core.ErrEmptyLibrary
	}

	top, owned, err := Extract(rctx.Library, rctx.Params.GetTopNItems(), rctx.Params.GetMinPlaytime())
	rctx.Owned = owned
	if err != nil {
		return err
	}
	rctx.TopItems = top
	return nil
}

// libraryErr 区分读取游戏库的错误：用户不存在与调用方取消原样返回，
// 其余（存储故障、数据损坏）归为 core.ErrSourceUnavailable。
func libraryErr(ctx context.Context, userID core.UserID, err error) error {
	switch {
	case core.IsNotFound(err), core.IsUnavailable(err):
		return err
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return err
	default:
		return core.ErrSourceUnavailable.Wrap(fmt.Errorf("get library of user %d: %w", userID, err))
	}
}

// ScanNode 扫描用户全集找相似用户（u2u），并选出 TopK。
// 没有任何相似用户时返回 core.ErrNoSimilarUsers，此时 UsersScanned 已填充。
type ScanNode struct {
	Logger zerolog.Logger
}

func (n *ScanNode) Name() string        { return "recall.u2u_scan" }
func (n *ScanNode) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *ScanNode) Process(ctx context.Context, rctx *core.RecommendContext) error {
	if rctx.Source == nil {
		return fmt.Errorf("no user source configured")
	}
	scanner := NewScanner(rctx.Params, n.Logger)
	top := core.NewItemSet(rctx.TopItems...)

	found, processed, err := scanner.Scan(ctx, top, rctx.Owned, rctx.Source, rctx.UserID)
	rctx.UsersScanned = processed
	if err != nil {
		return err
	}
	if len(found) == 0 {
		return core.ErrNoSimilarUsers
	}
	rctx.Similar = SelectSimilar(found, rctx.Params.MaxSimilarUsers)
	return nil
}
