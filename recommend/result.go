package recommend

import (
	"context"
	"errors"

	"github.com/rushteam/gamerec/core"
)

// 失败原因，与线上接口返回的 error 字段保持一致。
const (
	ReasonUserNotFound         = "User not found in database"
	ReasonEmptyLibrary         = "No games data found for user"
	ReasonInsufficientPlaytime = "No games with sufficient playtime found"
	ReasonNoSimilarUsers       = "No similar users found"

	ReasonSourceUnavailable = "Source unavailable"
	ReasonCancelled         = "Request cancelled"
	ReasonInvalidRequest    = "Invalid request"
	ReasonInternal          = "Internal error"
)

// Result 是一次推荐的最终结果。
// 失败时 Success 为 false、Error 为失败原因，集合字段为空数组而不是 null，
// 下游可以直接渲染降级结果。
type Result struct {
	Success           bool                  `json:"success"`
	RequestID         string                `json:"request_id,omitempty"`
	UserID            core.UserID           `json:"user_id"`
	Error             string                `json:"error,omitempty"`
	Recommendations   []RecommendationEntry `json:"recommendations"`
	SimilarUsers      []SimilarUserSummary  `json:"similar_users"`
	UserTopItems      []core.ItemID         `json:"user_top_items"`
	PopulationScanned int                   `json:"population_scanned"`
	SimilarUsersFound int                   `json:"similar_users_found"`
}

// RecommendationEntry 是输出中的一条推荐。
type RecommendationEntry struct {
	ItemID           core.ItemID   `json:"appid"`
	Score            float64       `json:"recommendation_score"`
	RecommendedBy    []core.UserID `json:"recommended_by"`
	ContributorCount int           `json:"recommended_by_count"`
}

// SimilarUserSummary 是输出中的相似用户（不含拥有集合）。
type SimilarUserSummary struct {
	UserID       core.UserID `json:"steam_id"`
	Score        float64     `json:"similarity_score"`
	TopOverlap   int         `json:"top_games_overlap"`
	TotalOverlap int         `json:"total_overlap"`
}

func newFailure(userID core.UserID, reason string) *Result {
	return &Result{
		Success:         false,
		UserID:          userID,
		Error:           reason,
		Recommendations: []RecommendationEntry{},
		SimilarUsers:    []SimilarUserSummary{},
		UserTopItems:    []core.ItemID{},
	}
}

// FailureFromError 把任意错误转换为失败结果，外层只需要渲染 Result，不需要处理原始错误。
// err 为 nil 时返回 nil。
func FailureFromError(err error) *Result {
	if err == nil {
		return nil
	}
	return newFailure(0, reasonOf(err))
}

// IsDomainFailure 判断错误是否属于"数据不足"类失败（以失败结果返回而不是作为错误）。
func IsDomainFailure(err error) bool {
	return errors.Is(err, core.ErrUserNotFound) ||
		errors.Is(err, core.ErrEmptyLibrary) ||
		errors.Is(err, core.ErrInsufficientPlaytime) ||
		errors.Is(err, core.ErrNoSimilarUsers)
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, core.ErrUserNotFound):
		return ReasonUserNotFound
	case errors.Is(err, core.ErrEmptyLibrary):
		return ReasonEmptyLibrary
	case errors.Is(err, core.ErrInsufficientPlaytime):
		return ReasonInsufficientPlaytime
	case errors.Is(err, core.ErrNoSimilarUsers):
		return ReasonNoSimilarUsers
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCancelled
	case errors.Is(err, core.ErrSourceUnavailable):
		return ReasonSourceUnavailable
	case errors.Is(err, core.ErrInvalidInput):
		return ReasonInvalidRequest
	default:
		return ReasonInternal
	}
}

func compose(rctx *core.RecommendContext) *Result {
	res := &Result{
		Success:           true,
		RequestID:         rctx.RequestID,
		UserID:            rctx.UserID,
		Recommendations:   make([]RecommendationEntry, 0, len(rctx.Recommendations)),
		SimilarUsers:      make([]SimilarUserSummary, 0, len(rctx.Similar)),
		UserTopItems:      topItems(rctx),
		PopulationScanned: rctx.UsersScanned,
		SimilarUsersFound: len(rctx.Similar),
	}
	for _, r := range rctx.Recommendations {
		by := make([]core.UserID, len(r.Contributors))
		copy(by, r.Contributors)
		res.Recommendations = append(res.Recommendations, RecommendationEntry{
			ItemID:           r.ItemID,
			Score:            r.Score,
			RecommendedBy:    by,
			ContributorCount: r.ContributorCount(),
		})
	}
	for _, su := range rctx.Similar {
		res.SimilarUsers = append(res.SimilarUsers, SimilarUserSummary{
			UserID:       su.UserID,
			Score:        su.Score,
			TopOverlap:   su.TopOverlap,
			TotalOverlap: su.TotalOverlap,
		})
	}
	return res
}

// composeFailure 生成失败结果，保留流水线已经算出的 Top 游戏与扫描人数。
func composeFailure(rctx *core.RecommendContext, err error) *Result {
	res := newFailure(rctx.UserID, reasonOf(err))
	res.RequestID = rctx.RequestID
	res.UserTopItems = topItems(rctx)
	res.PopulationScanned = rctx.UsersScanned
	return res
}

func topItems(rctx *core.RecommendContext) []core.ItemID {
	out := make([]core.ItemID, len(rctx.TopItems))
	copy(out, rctx.TopItems)
	return out
}
