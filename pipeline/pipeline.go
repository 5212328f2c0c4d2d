package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/core"
)

// Pipeline 把推荐逻辑拆成可组合的 Node 链，按顺序执行，任一 Node 出错即停止。
type Pipeline struct {
	Nodes  []Node
	Logger zerolog.Logger
}

// Run 顺序执行所有 Node。
// Node 返回的错误原样向上传递（保留 errors.Is 语义），只附加阶段名。
func (p *Pipeline) Run(ctx context.Context, rctx *core.RecommendContext) error {
	for _, node := range p.Nodes {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		if err := node.Process(ctx, rctx); err != nil {
			p.Logger.Debug().
				Str("node", node.Name()).
				Str("kind", string(node.Kind())).
				Err(err).
				Msg("node failed")
			return fmt.Errorf("%s: %w", node.Name(), err)
		}
		p.Logger.Trace().
			Str("node", node.Name()).
			Dur("took", time.Since(start)).
			Msg("node done")
	}
	return nil
}
