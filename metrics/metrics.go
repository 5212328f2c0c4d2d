// Package metrics 定义推荐链路的 Prometheus 指标。
//
// 指标通过 promauto 注册到默认 Registry，由宿主进程决定是否暴露 /metrics。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 扫描停止原因
const (
	StopEarly     = "early_stop" // 相似用户数达到阈值
	StopMaxUsers  = "max_users"  // offset 达到扫描上限
	StopExhausted = "exhausted"  // 用户全集扫描完毕（短页）
	StopError     = "error"      // 分页读取失败
	StopCancelled = "cancelled"  // 调用方取消
)

// 请求结果
const (
	OutcomeSuccess              = "success"
	OutcomeUserNotFound         = "user_not_found"
	OutcomeEmptyLibrary         = "empty_library"
	OutcomeInsufficientPlaytime = "insufficient_playtime"
	OutcomeNoSimilarUsers       = "no_similar_users"
	OutcomeError                = "error"
)

var (
	// Scan Metrics
	ScanPages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamerec_scan_pages_total",
			Help: "Total number of population pages fetched",
		},
	)

	ScanUsers = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gamerec_scan_users_total",
			Help: "Total number of candidate users examined",
		},
	)

	ScanStops = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_scan_stops_total",
			Help: "Total number of finished scans by stop reason",
		},
		[]string{"reason"},
	)

	// Request Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gamerec_recommend_requests_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gamerec_recommend_duration_seconds",
			Help:    "Recommendation request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	// Source Metrics
	SourceBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gamerec_source_breaker_state",
			Help: "Circuit breaker state of the user source (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
