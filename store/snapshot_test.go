package store

import (
	"os"
	"path/filepath"
	"testing"
)

const snapshotYAML = `users:
  - steam_id: 76561198000000001
    games:
      - appid: 570
        playtime_forever: 12000
      - appid: 730
        playtime_forever: 35
  - steam_id: 76561198000000002
    games: []
`

const snapshotJSON = `{"users":[{"steam_id":76561198000000001,"games":[{"appid":570,"playtime_forever":12000},{"appid":730,"playtime_forever":35}]},{"steam_id":76561198000000002,"games":[]}]}`

func TestLoadSnapshot(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{name: "yaml", file: "users.yaml", content: snapshotYAML},
		{name: "yml", file: "users.yml", content: snapshotYAML},
		{name: "json", file: "users.json", content: snapshotJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("write: %v", err)
			}
			snap, err := LoadSnapshot(path)
			if err != nil {
				t.Fatalf("LoadSnapshot() error = %v", err)
			}
			if len(snap.Users) != 2 {
				t.Fatalf("users = %d, want 2", len(snap.Users))
			}
			u := snap.Users[0]
			if u.UserID != 76561198000000001 {
				t.Errorf("UserID = %d", u.UserID)
			}
			if len(u.Games) != 2 || u.Games[0].ItemID != 570 || u.Games[0].Minutes != 12000 || u.Games[1].ItemID != 730 {
				t.Errorf("Games = %+v", u.Games)
			}
			if len(snap.Users[1].Games) != 0 {
				t.Errorf("second user games = %+v, want empty", snap.Users[1].Games)
			}
		})
	}
}

func TestLoadSnapshot_Errors(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadSnapshot(missing) error = nil")
	}
	if _, err := ParseSnapshotYAML([]byte("users: [")); err == nil {
		t.Error("ParseSnapshotYAML(bad) error = nil")
	}
	if _, err := ParseSnapshotJSON([]byte("{")); err == nil {
		t.Error("ParseSnapshotJSON(bad) error = nil")
	}
}
