package recall

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/metrics"
)

// BreakerConfig 是数据源熔断配置。
type BreakerConfig struct {
	Name string

	// MaxRequests 半开状态下允许通过的请求数
	MaxRequests uint32

	// Interval 关闭状态下清零计数的周期
	Interval time.Duration

	// Timeout 打开状态持续多久后进入半开
	Timeout time.Duration

	// FailureThreshold 连续失败多少次后打开
	FailureThreshold uint32
}

// DefaultBreakerConfig 返回默认熔断配置。
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Name:             "user_source",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerSource 为 core.UserSource 加上熔断。
//
// 熔断打开时所有调用直接返回 core.ErrSourceUnavailable，不再访问底层存储。
// 用户不存在、调用方取消与调用方超时不计为失败。
type BreakerSource struct {
	next core.UserSource
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerSource 创建熔断数据源。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewBreakerSource(next core.UserSource, cfg BreakerConfig, logger zerolog.Logger) *BreakerSource {
	def := DefaultBreakerConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}

	logger = logger.With().Str("component", "source_breaker").Str("breaker", cfg.Name).Logger()
	threshold := cfg.FailureThreshold

	metrics.SourceBreakerState.WithLabelValues(cfg.Name).Set(float64(gobreaker.StateClosed))

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SourceBreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("source circuit breaker state changed")
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				core.IsNotFound(err) ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, context.DeadlineExceeded)
		},
	}

	return &BreakerSource{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[any](settings),
	}
}

// State 返回当前熔断状态。
func (b *BreakerSource) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerSource) GetLibrary(ctx context.Context, userID core.UserID) (core.Library, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.GetLibrary(ctx, userID)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	lib, _ := v.(core.Library)
	return lib, nil
}

func (b *BreakerSource) FetchPage(ctx context.Context, offset, limit int, exclude core.UserID) ([]core.Candidate, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.FetchPage(ctx, offset, limit, exclude)
	})
	if err != nil {
		return nil, breakerErr(err)
	}
	page, _ := v.([]core.Candidate)
	return page, nil
}

func breakerErr(err error) error {
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return core.ErrSourceUnavailable.Wrap(err)
	}
	return err
}

var _ core.UserSource = (*BreakerSource)(nil)
