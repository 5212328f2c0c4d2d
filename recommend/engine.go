package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/metrics"
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/rank"
	"github.com/rushteam/gamerec/recall"
	"github.com/rushteam/gamerec/rerank"
)

// DefaultConcurrency 是 RecommendMany 的默认并发数。
const DefaultConcurrency = 4

// Engine 编排一次协同过滤推荐：抽取 → 扫描 → 聚合 → 过滤 → 截断 → 组装结果。
//
// 错误约定：
//   - 任何失败都返回格式完整的失败结果（Success 为 false，集合字段为空数组）
//   - 数据不足（用户不存在、游戏库为空、时长不足、没有相似用户）时 error 为 nil
//   - 基础设施错误（数据源不可用、调用方取消、参数非法）同时返回失败结果与 error
//
// Engine 可并发使用，每个请求使用独立的 RecommendContext。
type Engine struct {
	source      core.UserSource
	logger      zerolog.Logger
	validate    *validator.Validate
	defaults    core.Params
	filters     []filter.Filter
	concurrency int
}

// Option 是 Engine 的可选配置。
type Option func(*Engine)

// WithLogger 设置 logger。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithDefaults 设置请求参数零值字段的默认值（通常来自配置文件）。
func WithDefaults(p core.Params) Option {
	return func(e *Engine) {
		e.defaults = p.WithDefaults(core.DefaultParams())
	}
}

// WithFilters 在聚合之后、截断之前追加过滤器。
func WithFilters(filters ...filter.Filter) Option {
	return func(e *Engine) {
		e.filters = append(e.filters, filters...)
	}
}

// WithConcurrency 设置 RecommendMany 的最大并发数。
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine 创建推荐引擎。
func NewEngine(source core.UserSource, opts ...Option) *Engine {
	e := &Engine{
		source:      source,
		logger:      zerolog.Nop(),
		validate:    validator.New(),
		defaults:    core.DefaultParams(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With().Str("component", "recommend").Logger()
	return e
}

// pipeline 组装本次请求的 Node 链。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func (e *Engine) pipeline(logger zerolog.Logger) *pipeline.Pipeline {
	nodes := []pipeline.Node{
		&recall.ExtractNode{},
		&recall.ScanNode{Logger: logger},
		&rank.AggregateNode{},
	}
	if len(e.filters) > 0 {
		nodes = append(nodes, &filter.FilterNode{Filters: e.filters, Logger: logger})
	}
	nodes = append(nodes, &rerank.TopNNode{})
	return &pipeline.Pipeline{Nodes: nodes, Logger: logger}
}

// Recommend 为一个用户生成推荐。
func (e *Engine) Recommend(ctx context.Context, userID core.UserID, params core.Params) (*Result, error) {
	start := time.Now()
	requestID := uuid.NewString()
	logger := e.logger.With().Str("request_id", requestID).Int64("user_id", int64(userID)).Logger()

	if err := e.validate.Struct(params); err != nil {
		e.observe(metrics.OutcomeError, start)
		logger.Debug().Err(err).Msg("invalid params")
		res := newFailure(userID, ReasonInvalidRequest)
		res.RequestID = requestID
		return res, core.ErrInvalidInput.Wrap(err)
	}

	rctx := &core.RecommendContext{
		RequestID: requestID,
		UserID:    userID,
		Params:    params.WithDefaults(e.defaults),
		Source:    e.source,
	}

	err := e.pipeline(logger).Run(ctx, rctx)
	switch {
	case err == nil:
		res := compose(rctx)
		e.observe(metrics.OutcomeSuccess, start)
		logger.Info().
			Int("recommendations", len(res.Recommendations)).
			Int("similar_users", res.SimilarUsersFound).
			Int("scanned", res.PopulationScanned).
			Dur("took", time.Since(start)).
			Msg("recommendation completed")
		return res, nil

	case IsDomainFailure(err):
		res := composeFailure(rctx, err)
		e.observe(outcomeOf(err), start)
		logger.Info().Str("reason", res.Error).Int("scanned", res.PopulationScanned).Msg("recommendation degraded")
		return res, nil

	default:
		e.observe(metrics.OutcomeError, start)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			logger.Debug().Err(err).Msg("recommendation cancelled")
		} else {
			logger.Error().Err(err).Msg("recommendation failed")
		}
		return composeFailure(rctx, err), fmt.Errorf("recommend user %d: %w", userID, err)
	}
}

// RecommendMany 并发地为多个用户生成推荐，结果顺序与 userIDs 一致。
//
// 请求之间相互独立：单个请求的基础设施错误只体现为该位置的失败结果，不影响其他请求。
// 只有调用方取消时才返回 error。
func (e *Engine) RecommendMany(ctx context.Context, userIDs []core.UserID, params core.Params) ([]*Result, error) {
	results := make([]*Result, len(userIDs))

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for i, id := range userIDs {
		g.Go(func() error {
			res, err := e.Recommend(ctx, id, params)
			if res == nil {
				res = FailureFromError(err)
				res.UserID = id
			}
			results[i] = res
			return nil
		})
	}

	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

func (e *Engine) observe(outcome string, start time.Time) {
	metrics.RecommendRequests.WithLabelValues(outcome).Inc()
	metrics.RecommendDuration.Observe(time.Since(start).Seconds())
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		return metrics.OutcomeUserNotFound
	case errors.Is(err, core.ErrEmptyLibrary):
		return metrics.OutcomeEmptyLibrary
	case errors.Is(err, core.ErrInsufficientPlaytime):
		return metrics.OutcomeInsufficientPlaytime
	case errors.Is(err, core.ErrNoSimilarUsers):
		return metrics.OutcomeNoSimilarUsers
	default:
		return metrics.OutcomeError
	}
}
