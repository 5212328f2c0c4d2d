package store

import (
	"context"
	"fmt"

	"github.com/rushteam/gamerec/core"
)

// 注意：此包只包含实现，接口定义在 core 包。
// 使用 core.Store 和 core.KeyValueStore 接口。
//
// 示例：
//   var kv core.KeyValueStore = NewMemoryStore()
//   kv, err := Open(ctx, Options{Backend: BackendBadger, BadgerPath: "/var/lib/gamerec"})

// 存储后端
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendBadger = "badger"
)

// Options 是打开存储后端所需的参数。
type Options struct {
	Backend    string
	RedisAddr  string
	RedisDB    int
	BadgerPath string
}

// Open 按 Backend 打开对应的 KeyValueStore 实现。
func Open(ctx context.Context, opts Options) (core.KeyValueStore, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendRedis:
		s, err := NewRedisStore(ctx, opts.RedisAddr, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBadger:
		s, err := NewBadgerStore(opts.BadgerPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
