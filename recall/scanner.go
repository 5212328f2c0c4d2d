package recall

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/metrics"
)

// Scanner 分批扫描用户全集，对每个候选用户打分，收集相似用户。
//
// 扫描流程（严格顺序，不并发拉取分页）：
//  1. 拉取 offset 处的一页候选（BatchSize 个，数据源已剔除目标用户）
//  2. 对整页候选打分，命中的按扫描顺序追加
//  3. 决定是否继续：命中数 >= EarlyStopThreshold、offset >= MaxUsersToProcess、
//     或本页不满（全集已扫完），任一成立即停止
//
// 相似度与扫描顺序无关，所以阈值是 TopK 的若干倍，给后续 TopK 选择留出余量。
// 分页失败不重试，直接中止扫描，避免把不完整的扫描当作完整结果返回。
type Scanner struct {
	Scorer Scorer

	// BatchSize 每页用户数
	BatchSize int

	// MaxUsersToProcess offset 上限
	MaxUsersToProcess int

	// EarlyStopThreshold 命中数达到该值后不再拉取下一页（<= 0 表示不提前停止）
	EarlyStopThreshold int

	Logger zerolog.Logger
}

// NewScanner 按请求参数创建扫描器。
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewScanner(p core.Params, logger zerolog.Logger) *Scanner {
	p = p.WithDefaults(core.DefaultParams())
	return &Scanner{
		Scorer:             NewScorer(p.GetTopOverlapWeight()),
		BatchSize:          p.BatchSize,
		MaxUsersToProcess:  p.MaxUsersToProcess,
		EarlyStopThreshold: p.EarlyStopThreshold(),
		Logger:             logger,
	}
}

// Scan 扫描用户全集，返回按扫描顺序排列的相似用户以及检查过的候选数。
//
// 调用方取消时立即停止拉取并返回 ctx 的错误；分页失败返回包装了原因的
// core.ErrSourceUnavailable。两种情况都不会返回部分结果。
func (s *Scanner) Scan(
	ctx context.Context,
	top core.ItemSet,
	owned core.ItemSet,
	source core.UserSource,
	exclude core.UserID,
) ([]core.SimilarUser, int, error) {
	batch := s.BatchSize
	if batch <= 0 {
		batch = core.DefaultBatchSize
	}
	maxUsers := s.MaxUsersToProcess
	if maxUsers <= 0 {
		maxUsers = core.DefaultMaxUsersToProcess
	}

	var (
		found     []core.SimilarUser
		processed int
		pages     int
		offset    int
		reason    string
	)

	for {
		if offset >= maxUsers {
			reason = metrics.StopMaxUsers
			break
		}
		if err := ctx.Err(); err != nil {
			metrics.ScanStops.WithLabelValues(metrics.StopCancelled).Inc()
			return nil, processed, err
		}

		page, err := source.FetchPage(ctx, offset, batch, exclude)
		if err != nil {
			return nil, processed, s.fetchFailed(ctx, offset, err)
		}
		pages++
		metrics.ScanPages.Inc()
		metrics.ScanUsers.Add(float64(len(page)))

		for _, cand := range page {
			if cand.UserID == exclude || cand.Owned.Len() == 0 {
				continue
			}
			if rec, ok := s.Scorer.Score(top, owned, cand); ok {
				found = append(found, rec)
			}
		}
		processed += len(page)
		offset += batch

		if s.EarlyStopThreshold > 0 && len(found) >= s.EarlyStopThreshold {
			reason = metrics.StopEarly
			break
		}
		if len(page) < batch {
			reason = metrics.StopExhausted
			break
		}
	}

	metrics.ScanStops.WithLabelValues(reason).Inc()
	s.Logger.Debug().
		Int64("user_id", int64(exclude)).
		Int("pages", pages).
		Int("processed", processed).
		Int("similar", len(found)).
		Str("stop", reason).
		Msg("population scan finished")

	return found, processed, nil
}

func (s *Scanner) fetchFailed(ctx context.Context, offset int, err error) error {
	if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		metrics.ScanStops.WithLabelValues(metrics.StopCancelled).Inc()
		return err
	}
	metrics.ScanStops.WithLabelValues(metrics.StopError).Inc()
	s.Logger.Warn().Int("offset", offset).Err(err).Msg("population page fetch failed")
	if errors.Is(err, core.ErrSourceUnavailable) {
		return err
	}
	return core.ErrSourceUnavailable.Wrap(fmt.Errorf("fetch page at offset %d: %w", offset, err))
}
