package core

// 默认参数，与线上接口保持一致。
const (
	DefaultTopNItems           = 5
	DefaultMinPlaytime         = 600 // 分钟
	DefaultMaxSimilarUsers     = 10
	DefaultMaxRecommendations  = 20
	DefaultBatchSize           = 500
	DefaultMaxUsersToProcess   = 10000
	DefaultTopOverlapWeight    = 10.0
	DefaultEarlyStopMultiplier = 10
)

// Params 是一次推荐请求的可调参数；校验规则由 validator 标签描述。
//
// TopNItems、MinPlaytime、TopOverlapWeight 的 0 是合法取值，因此用指针表示，
// nil 表示未设置。其余字段的 0 没有意义，零值即未设置。
// 未设置的字段由 WithDefaults 填充。
type Params struct {
	// TopNItems 用于找相似用户的 Top 游戏数
	TopNItems *int `json:"top_n_items,omitempty" koanf:"top_n_items" validate:"omitempty,gte=0"`

	// MinPlaytime 计入 Top 游戏的最低时长（分钟）
	MinPlaytime *int64 `json:"min_playtime,omitempty" koanf:"min_playtime" validate:"omitempty,gte=0"`

	// MaxSimilarUsers 参与聚合的相似用户数（TopK）
	MaxSimilarUsers int `json:"max_similar_users" koanf:"max_similar_users" validate:"gte=0,lte=1000"`

	// MaxRecommendations 返回的推荐数
	MaxRecommendations int `json:"max_recommendations" koanf:"max_recommendations" validate:"gte=0,lte=500"`

	// BatchSize 每页扫描的用户数
	BatchSize int `json:"batch_size" koanf:"batch_size" validate:"gte=0,lte=10000"`

	// MaxUsersToProcess 扫描 offset 上限
	MaxUsersToProcess int `json:"max_users_to_process" koanf:"max_users_to_process" validate:"gte=0"`

	// TopOverlapWeight 命中一个 Top 游戏相对普通共同游戏的权重
	TopOverlapWeight *float64 `json:"top_overlap_weight,omitempty" koanf:"top_overlap_weight" validate:"omitempty,gte=0"`

	// EarlyStopMultiplier 提前停止阈值 = MaxSimilarUsers * EarlyStopMultiplier
	EarlyStopMultiplier int `json:"early_stop_multiplier" koanf:"early_stop_multiplier" validate:"gte=0"`
}

// DefaultParams 返回全部默认参数。
func DefaultParams() Params {
	return Params{
		TopNItems:           Ptr(DefaultTopNItems),
		MinPlaytime:         Ptr(int64(DefaultMinPlaytime)),
		MaxSimilarUsers:     DefaultMaxSimilarUsers,
		MaxRecommendations:  DefaultMaxRecommendations,
		BatchSize:           DefaultBatchSize,
		MaxUsersToProcess:   DefaultMaxUsersToProcess,
		TopOverlapWeight:    Ptr(DefaultTopOverlapWeight),
		EarlyStopMultiplier: DefaultEarlyStopMultiplier,
	}
}

// Ptr 返回 v 的指针，用于设置 Params 的可选字段。
func Ptr[T any](v T) *T {
	return &v
}

// WithDefaults 用 base 中的值填充 p 的未设置字段，负值保留给校验报错。
func (p Params) WithDefaults(base Params) Params {
	if p.TopNItems == nil {
		p.TopNItems = base.TopNItems
	}
	if p.MinPlaytime == nil {
		p.MinPlaytime = base.MinPlaytime
	}
	if p.MaxSimilarUsers == 0 {
		p.MaxSimilarUsers = base.MaxSimilarUsers
	}
	if p.MaxRecommendations == 0 {
		p.MaxRecommendations = base.MaxRecommendations
	}
	if p.BatchSize == 0 {
		p.BatchSize = base.BatchSize
	}
	if p.MaxUsersToProcess == 0 {
		p.MaxUsersToProcess = base.MaxUsersToProcess
	}
	if p.TopOverlapWeight == nil {
		p.TopOverlapWeight = base.TopOverlapWeight
	}
	if p.EarlyStopMultiplier == 0 {
		p.EarlyStopMultiplier = base.EarlyStopMultiplier
	}
	return p
}

// EarlyStopThreshold 返回提前停止所需的相似用户数。
func (p Params) EarlyStopThreshold() int {
	return p.MaxSimilarUsers * p.EarlyStopMultiplier
}

// GetTopNItems 返回 TopNItems，未设置时为 DefaultTopNItems。
func (p Params) GetTopNItems() int {
	if p.TopNItems == nil {
		return DefaultTopNItems
	}
	return *p.TopNItems
}

// GetMinPlaytime 返回 MinPlaytime，未设置时为 DefaultMinPlaytime。
func (p Params) GetMinPlaytime() int64 {
	if p.MinPlaytime == nil {
		return DefaultMinPlaytime
	}
	return *p.MinPlaytime
}

// GetTopOverlapWeight 返回 TopOverlapWeight，未设置时为 DefaultTopOverlapWeight。
func (p Params) GetTopOverlapWeight() float64 {
	if p.TopOverlapWeight == nil {
		return DefaultTopOverlapWeight
	}
	return *p.TopOverlapWeight
}
