package rank

import (
	"context"
	"reflect"
	"testing"

	"github.com/rushteam/gamerec/core"
)

func similar(id core.UserID, score float64, items ...core.ItemID) core.SimilarUser {
	return core.SimilarUser{UserID: id, Score: score, Owned: core.NewItemSet(items...)}
}

func TestAggregate(t *testing.T) {
	owned := core.NewItemSet(1, 2, 3)

	tests := []struct {
		name    string
		similar []core.SimilarUser
		limit   int
		want    []core.Recommendation
	}{
		{
			name: "tally across users",
			similar: []core.SimilarUser{
				similar(11, 11, 1, 4, 5),
				similar(12, 5, 4),
			},
			want: []core.Recommendation{
				{ItemID: 4, Score: 16, Contributors: []core.UserID{11, 12}},
				{ItemID: 5, Score: 11, Contributors: []core.UserID{11}},
			},
		},
		{
			name: "ties keep first-seen order",
			similar: []core.SimilarUser{
				similar(11, 10, 7, 6),
				similar(12, 10, 6, 7, 8),
			},
			want: []core.Recommendation{
				{ItemID: 7, Score: 20, Contributors: []core.UserID{11, 12}},
				{ItemID: 6, Score: 20, Contributors: []core.UserID{11, 12}},
				{ItemID: 8, Score: 10, Contributors: []core.UserID{12}},
			},
		},
		{
			name: "truncate",
			similar: []core.SimilarUser{
				similar(11, 12, 4, 5, 6),
				similar(12, 11, 6),
			},
			limit: 2,
			want: []core.Recommendation{
				{ItemID: 6, Score: 23, Contributors: []core.UserID{11, 12}},
				{ItemID: 4, Score: 12, Contributors: []core.UserID{11}},
			},
		},
		{
			name:    "similar users own nothing new",
			similar: []core.SimilarUser{similar(11, 11, 1, 2)},
			want:    nil,
		},
		{
			name: "no similar users",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Aggregate(tt.similar, owned, tt.limit)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Aggregate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregate_NeverRecommendsOwned(t *testing.T) {
	owned := core.NewItemSet(1, 2, 3, 4)
	recs := Aggregate([]core.SimilarUser{
		similar(11, 30, 1, 2, 3, 4, 5),
		similar(12, 20, 4, 6),
		similar(13, 10, 2, 7, 5),
	}, owned, 0)

	for _, r := range recs {
		if owned.Contains(r.ItemID) {
			t.Errorf("recommended owned item %d", r.ItemID)
		}
		if r.ContributorCount() != len(r.Contributors) {
			t.Errorf("ContributorCount() = %d, want %d", r.ContributorCount(), len(r.Contributors))
		}
	}
	if len(recs) != 3 {
		t.Errorf("len = %d, want 3", len(recs))
	}
}

func TestAggregate_Deterministic(t *testing.T) {
	owned := core.NewItemSet(1)
	in := []core.SimilarUser{
		similar(11, 5, 9, 8, 7, 6),
		similar(12, 5, 6, 7, 8, 9),
		similar(13, 5, 10, 11),
	}
	first := Aggregate(in, owned, 0)
	for i := 0; i < 20; i++ {
		if got := Aggregate(in, owned, 0); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d differs: %+v vs %+v", i, got, first)
		}
	}
}

func TestAggregateNode_Process(t *testing.T) {
	rctx := &core.RecommendContext{
		Owned:   core.NewItemSet(1),
		Similar: []core.SimilarUser{similar(11, 11, 1, 4), similar(12, 5, 4)},
		Params:  core.Params{MaxRecommendations: 1},
	}
	if err := (&AggregateNode{}).Process(context.Background(), rctx); err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(rctx.Recommendations) != 1 || rctx.Recommendations[0].Score != 16 {
		t.Errorf("Recommendations = %+v", rctx.Recommendations)
	}
}
