package recall

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/store"
)

func library(n int, minutes int64) core.Library {
	lib := make(core.Library, n)
	for i := range lib {
		lib[i] = core.LibraryEntry{ItemID: core.ItemID(i + 1), Minutes: minutes}
	}
	return lib
}

func TestImportSnapshot(t *testing.T) {
	snap := &store.Snapshot{Users: []store.SnapshotUser{
		{UserID: 1, Games: library(7, 200)},  // 7 games, 1400 minutes
		{UserID: 2, Games: library(6, 1000)}, // too few games
		{UserID: 3, Games: library(8, 100)},  // 800 minutes, too little playtime
		{UserID: 4, Games: library(10, 500)},
	}}

	tests := []struct {
		name     string
		opts     ImportOptions
		want     ImportStats
		wantUser []core.UserID
	}{
		{
			name:     "collector thresholds",
			opts:     DefaultImportOptions(),
			want:     ImportStats{Imported: 2, Skipped: 2},
			wantUser: []core.UserID{1, 4},
		},
		{
			name:     "filters disabled",
			opts:     ImportOptions{},
			want:     ImportStats{Imported: 4},
			wantUser: []core.UserID{1, 2, 3, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := store.NewMemoryStore()
			defer kv.Close()
			src := NewStoreSource(kv, "imp")

			stats, err := ImportSnapshot(context.Background(), src, snap, tt.opts, zerolog.Nop())
			if err != nil {
				t.Fatalf("ImportSnapshot() error = %v", err)
			}
			if stats != tt.want {
				t.Errorf("stats = %+v, want %+v", stats, tt.want)
			}

			page, err := src.FetchPage(context.Background(), 0, 100, 0)
			if err != nil {
				t.Fatalf("FetchPage() error = %v", err)
			}
			got := pageIDs(page)
			if len(got) != len(tt.wantUser) {
				t.Fatalf("population = %v, want %v", got, tt.wantUser)
			}
			for i := range got {
				if got[i] != tt.wantUser[i] {
					t.Errorf("population = %v, want %v", got, tt.wantUser)
					break
				}
			}
		})
	}
}

func TestImportSnapshot_Cancelled(t *testing.T) {
	kv := store.NewMemoryStore()
	defer kv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap := &store.Snapshot{Users: []store.SnapshotUser{{UserID: 1, Games: library(7, 200)}}}
	_, err := ImportSnapshot(ctx, NewStoreSource(kv, "imp"), snap, ImportOptions{}, zerolog.Nop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("ImportSnapshot() error = %v, want context.Canceled", err)
	}
}
