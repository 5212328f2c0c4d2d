package core

import (
	"reflect"
	"testing"
)

func TestItemSet(t *testing.T) {
	s := NewItemSet(3, 1, 3, 2)
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if !reflect.DeepEqual(s.Items(), []ItemID{3, 1, 2}) {
		t.Errorf("Items() = %v, want insertion order [3 1 2]", s.Items())
	}
	if !s.Contains(1) || s.Contains(9) {
		t.Error("Contains() wrong")
	}

	var zero ItemSet
	if zero.Contains(1) || zero.Len() != 0 {
		t.Error("zero ItemSet not empty")
	}
	zero.Add(5)
	if !zero.Contains(5) {
		t.Error("Add() on zero ItemSet failed")
	}
}

func TestItemSet_IntersectCount(t *testing.T) {
	tests := []struct {
		name string
		a, b []ItemID
		want int
	}{
		{name: "disjoint", a: []ItemID{1, 2}, b: []ItemID{3}, want: 0},
		{name: "partial", a: []ItemID{1, 2, 3}, b: []ItemID{2, 3, 4, 5}, want: 2},
		{name: "empty", a: nil, b: []ItemID{1}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := NewItemSet(tt.a...), NewItemSet(tt.b...)
			if got := a.IntersectCount(b); got != tt.want {
				t.Errorf("a∩b = %d, want %d", got, tt.want)
			}
			if got := b.IntersectCount(a); got != tt.want {
				t.Errorf("b∩a = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLibrary_TotalMinutes(t *testing.T) {
	lib := Library{{ItemID: 1, Minutes: 700}, {ItemID: 2, Minutes: 50}, {ItemID: 3, Minutes: 0}}
	if got := lib.TotalMinutes(); got != 750 {
		t.Errorf("TotalMinutes() = %d, want 750", got)
	}
}

func TestParams_WithDefaults(t *testing.T) {
	p := Params{TopNItems: Ptr(3), MinPlaytime: Ptr[int64](-1)}.WithDefaults(DefaultParams())
	if p.GetTopNItems() != 3 {
		t.Errorf("TopNItems = %d, want 3", p.GetTopNItems())
	}
	if p.GetMinPlaytime() != -1 {
		t.Errorf("MinPlaytime = %d, want -1 kept for validation", p.GetMinPlaytime())
	}
	if p.GetTopOverlapWeight() != DefaultTopOverlapWeight {
		t.Errorf("TopOverlapWeight = %v, want default", p.GetTopOverlapWeight())
	}
	if p.MaxSimilarUsers != DefaultMaxSimilarUsers || p.BatchSize != DefaultBatchSize {
		t.Errorf("defaults not applied: %+v", p)
	}
	if p.EarlyStopThreshold() != DefaultMaxSimilarUsers*DefaultEarlyStopMultiplier {
		t.Errorf("EarlyStopThreshold() = %d", p.EarlyStopThreshold())
	}
}

func TestParams_WithDefaults_ZeroIsSet(t *testing.T) {
	p := Params{
		TopNItems:        Ptr(0),
		MinPlaytime:      Ptr[int64](0),
		TopOverlapWeight: Ptr(0.0),
	}.WithDefaults(DefaultParams())

	if p.GetTopNItems() != 0 || p.GetMinPlaytime() != 0 || p.GetTopOverlapWeight() != 0 {
		t.Errorf("explicit zeros replaced: top=%d min=%d weight=%v",
			p.GetTopNItems(), p.GetMinPlaytime(), p.GetTopOverlapWeight())
	}

	var unset Params
	if unset.GetTopNItems() != DefaultTopNItems || unset.GetMinPlaytime() != DefaultMinPlaytime ||
		unset.GetTopOverlapWeight() != DefaultTopOverlapWeight {
		t.Error("getters on unset Params do not return defaults")
	}
}
