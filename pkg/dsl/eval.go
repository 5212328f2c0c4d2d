package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/gamerec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once
)

// initCELEnv 初始化 CEL 环境，定义变量
func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("rec", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("rctx", cel.MapType(cel.StringType, cel.DynType)),
	)
}

// getCELEnv 获取或创建 CEL 环境
func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译好的规则表达式，可并发复用。
//
// 表达式语法（CEL 标准语法）：
//   - 推荐：rec.item_id / rec.score / rec.contributor_count
//   - 请求：rctx.user_id / rctx.top_items / rctx.similar_users
//
// 示例：
//   - `rec.contributor_count >= 2` → 至少两个相似用户拥有
//   - `rec.score > 20.0 && !(rec.item_id in [730, 570])` → 分数足够且不在黑名单
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式，要求结果为布尔值。
func Compile(expr string) (*Program, error) {
	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Program{expr: expr, prg: prg}, nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Evaluate 对一条推荐求值。
func (p *Program) Evaluate(rec core.Recommendation, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(rec, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Eval 编译并执行一次表达式，空表达式视为 true。
// 同一表达式需要多次执行时用 Compile。
func Eval(expr string, rec core.Recommendation, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Evaluate(rec, rctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(rec core.Recommendation, rctx *core.RecommendContext) map[string]any {
	contributors := make([]int64, len(rec.Contributors))
	for i, u := range rec.Contributors {
		contributors[i] = int64(u)
	}

	ctxInput := map[string]any{}
	if rctx != nil {
		top := make([]int64, len(rctx.TopItems))
		for i, id := range rctx.TopItems {
			top[i] = int64(id)
		}
		ctxInput["user_id"] = int64(rctx.UserID)
		ctxInput["top_items"] = top
		ctxInput["similar_users"] = int64(len(rctx.Similar))
	}

	return map[string]any{
		"rec": map[string]any{
			"item_id":           int64(rec.ItemID),
			"score":             rec.Score,
			"contributors":      contributors,
			"contributor_count": int64(rec.ContributorCount()),
		},
		"rctx": ctxInput,
	}
}
