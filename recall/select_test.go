package recall

import (
	"testing"

	"github.com/rushteam/gamerec/core"
)

func TestSelectSimilar(t *testing.T) {
	records := []core.SimilarUser{
		{UserID: 1, Score: 11},
		{UserID: 2, Score: 23},
		{UserID: 3, Score: 11},
		{UserID: 4, Score: 5},
		{UserID: 5, Score: 23},
	}

	tests := []struct {
		name string
		k    int
		want []core.UserID
	}{
		{name: "top 3 ties keep scan order", k: 3, want: []core.UserID{2, 5, 1}},
		{name: "k larger than input", k: 10, want: []core.UserID{2, 5, 1, 3, 4}},
		{name: "k zero keeps all", k: 0, want: []core.UserID{2, 5, 1, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectSimilar(records, tt.k)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i, id := range tt.want {
				if got[i].UserID != id {
					t.Errorf("got[%d] = %d, want %d", i, got[i].UserID, id)
				}
			}
		})
	}

	if records[0].UserID != 1 || records[1].UserID != 2 {
		t.Errorf("input reordered: %+v", records)
	}
}
