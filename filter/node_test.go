package filter

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/core"
)

type errFilter struct{}

func (errFilter) Name() string { return "err" }
func (errFilter) ShouldFilter(context.Context, *core.RecommendContext, core.Recommendation) (bool, error) {
	return true, errors.New("boom")
}

func TestFilterNode_Process(t *testing.T) {
	rule, err := NewRuleFilter("rec.contributor_count >= 2")
	if err != nil {
		t.Fatalf("NewRuleFilter() error = %v", err)
	}

	in := []core.Recommendation{
		{ItemID: 1, Score: 30, Contributors: []core.UserID{11, 12}},
		{ItemID: 2, Score: 20, Contributors: []core.UserID{11}},
		{ItemID: 3, Score: 15, Contributors: []core.UserID{12, 13}},
		{ItemID: 4, Score: 10, Contributors: []core.UserID{11, 13}},
	}

	tests := []struct {
		name    string
		filters []Filter
		want    []core.ItemID
	}{
		{name: "no filters", want: []core.ItemID{1, 2, 3, 4}},
		{name: "rule", filters: []Filter{rule}, want: []core.ItemID{1, 3, 4}},
		{name: "rule and exclude", filters: []Filter{rule, NewExcludeItems(3)}, want: []core.ItemID{1, 4}},
		{name: "filter errors keep the item", filters: []Filter{errFilter{}}, want: []core.ItemID{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rctx := &core.RecommendContext{Recommendations: append([]core.Recommendation(nil), in...)}
			n := &FilterNode{Filters: tt.filters, Logger: zerolog.Nop()}
			if err := n.Process(context.Background(), rctx); err != nil {
				t.Fatalf("Process() error = %v", err)
			}
			if len(rctx.Recommendations) != len(tt.want) {
				t.Fatalf("got %d recommendations, want %v", len(rctx.Recommendations), tt.want)
			}
			for i, id := range tt.want {
				if rctx.Recommendations[i].ItemID != id {
					t.Errorf("got[%d] = %d, want %d", i, rctx.Recommendations[i].ItemID, id)
				}
			}
		})
	}
}

func TestNewRuleFilter_Invalid(t *testing.T) {
	_, err := NewRuleFilter("rec.score >")
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Errorf("NewRuleFilter() error = %v, want ErrInvalidInput", err)
	}
}
