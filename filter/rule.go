package filter

import (
	"context"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/dsl"
)

// RuleFilter 用 CEL 表达式描述的保留规则做过滤：表达式为 false 的推荐被移除。
//
// 示例：
//
//	f, err := filter.NewRuleFilter("rec.contributor_count >= 2")
type RuleFilter struct {
	prg *dsl.Program
}

// NewRuleFilter 编译保留规则。
func NewRuleFilter(expr string) (*RuleFilter, error) {
	prg, err := dsl.Compile(expr)
	if err != nil {
		return nil, core.ErrInvalidInput.Wrap(err)
	}
	return &RuleFilter{prg: prg}, nil
}

func (f *RuleFilter) Name() string {
	return "filter.rule(" + f.prg.String() + ")"
}

func (f *RuleFilter) ShouldFilter(_ context.Context, rctx *core.RecommendContext, rec core.Recommendation) (bool, error) {
	keep, err := f.prg.Evaluate(rec, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}

// ExcludeItems 移除指定游戏（如运营屏蔽列表）。
type ExcludeItems struct {
	Items core.ItemSet

	name string
}

// NewExcludeItems 创建屏蔽列表过滤器。
func NewExcludeItems(ids ...core.ItemID) *ExcludeItems {
	return &ExcludeItems{Items: core.NewItemSet(ids...)}
}

func (f *ExcludeItems) Name() string {
	if f.name != "" {
		return f.name
	}
	return "filter.exclude_items"
}

func (f *ExcludeItems) ShouldFilter(_ context.Context, _ *core.RecommendContext, rec core.Recommendation) (bool, error) {
	return f.Items.Contains(rec.ItemID), nil
}
