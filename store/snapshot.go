package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/rushteam/gamerec/core"
)

// Snapshot 是用户游戏库的离线快照（由采集程序导出，支持 YAML/JSON）。
//
//	users:
//	  - steam_id: 76561198000000001
//	    games:
//	      - appid: 570
//	        playtime_forever: 12000
type Snapshot struct {
	Users []SnapshotUser `yaml:"users" json:"users"`
}

// SnapshotUser 是快照中的一个用户。
type SnapshotUser struct {
	UserID core.UserID  `yaml:"steam_id" json:"steam_id"`
	Games  core.Library `yaml:"games" json:"games"`
}

// LoadSnapshot 按扩展名从 YAML 或 JSON 文件加载快照。
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return ParseSnapshotJSON(data)
	default:
		return ParseSnapshotYAML(data)
	}
}

// ParseSnapshotYAML 解析 YAML 快照。
func ParseSnapshotYAML(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	return &snap, nil
}

// ParseSnapshotJSON 解析 JSON 快照。
func ParseSnapshotJSON(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return &snap, nil
}
