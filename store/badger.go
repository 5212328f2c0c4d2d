package store

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/rushteam/gamerec/core"
)

// BadgerStore 是基于 BadgerDB 的嵌入式 KeyValueStore，适合单机部署：
// 快照导入一次，重启后数据仍在，不需要额外的 Redis。
//
// key 布局：
//   - 普通值：kv:{key}
//   - 有序集合成员：zs:{key}\x00{8 字节可排序 score}{member}（迭代顺序即 score 升序、member 字典序）
//   - 成员反查：zm:{key}\x00{member} → 8 字节 score
type BadgerStore struct {
	db *badger.DB
}

const (
	badgerKVPrefix     = "kv:"
	badgerZSetPrefix   = "zs:"
	badgerMemberPrefix = "zm:"
)

// NewBadgerStore 打开（或创建）path 下的 BadgerDB。
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}
	return &BadgerStore{db: db}, nil
}

func (b *BadgerStore) Name() string { return "badger" }

func kvKey(key string) []byte {
	return []byte(badgerKVPrefix + key)
}

func zsetPrefix(key string) []byte {
	return []byte(badgerZSetPrefix + key + "\x00")
}

func memberKey(key, member string) []byte {
	return []byte(badgerMemberPrefix + key + "\x00" + member)
}

func zsetKey(key string, score float64, member string) []byte {
	p := zsetPrefix(key)
	out := make([]byte, 0, len(p)+8+len(member))
	out = append(out, p...)
	out = binary.BigEndian.AppendUint64(out, encodeScore(score))
	return append(out, member...)
}

// encodeScore 把 float64 编码为字节序与数值序一致的 uint64。
func encodeScore(f float64) uint64 {
	bits := math.Float64bits(f)
	if bits&(1<<63) != 0 {
		return ^bits
	}
	return bits | (1 << 63)
}

func decodeScore(u uint64) float64 {
	if u&(1<<63) != 0 {
		return math.Float64frombits(u &^ (1 << 63))
	}
	return math.Float64frombits(^u)
}

func (b *BadgerStore) Get(ctx context.Context, key string) ([]byte, error) {
	var out []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(kvKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.ErrStoreNotFound
		}
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (b *BadgerStore) Set(ctx context.Context, key string, value []byte, ttl ...int) error {
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(newEntry(kvKey(key), value, ttl))
	})
}

func (b *BadgerStore) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(kvKey(key)); err != nil {
			return err
		}
		for _, prefix := range [][]byte{zsetPrefix(key), memberKey(key, "")} {
			keys, err := collectKeys(txn, prefix)
			if err != nil {
				return err
			}
			for _, k := range keys {
				if err := txn.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (b *BadgerStore) BatchGet(ctx context.Context, keys []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(keys))
	err := b.db.View(func(txn *badger.Txn) error {
		for _, k := range keys {
			item, err := txn.Get(kvKey(k))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			v, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			result[k] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (b *BadgerStore) BatchSet(ctx context.Context, kvs map[string][]byte, ttl ...int) error {
	wb := b.db.NewWriteBatch()
	defer wb.Cancel()
	for k, v := range kvs {
		if err := wb.SetEntry(newEntry(kvKey(k), v, ttl)); err != nil {
			return err
		}
	}
	return wb.Flush()
}

func (b *BadgerStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		mk := memberKey(key, member)
		item, err := txn.Get(mk)
		switch {
		case err == nil:
			old, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			if err := txn.Delete(zsetKey(key, decodeScore(binary.BigEndian.Uint64(old)), member)); err != nil {
				return err
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], encodeScore(score))
		if err := txn.Set(mk, buf[:]); err != nil {
			return err
		}
		return txn.Set(zsetKey(key, score, member), nil)
	})
}

func (b *BadgerStore) ZRange(ctx context.Context, key string, start, stop int64) ([]string, error) {
	if start < 0 {
		start = 0
	}
	var out []string
	err := b.db.View(func(txn *badger.Txn) error {
		prefix := zsetPrefix(key)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		var i int64
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if stop >= 0 && i > stop {
				break
			}
			if i >= start {
				out = append(out, string(it.Item().Key()[len(prefix)+8:]))
			}
			i++
		}
		return nil
	})
	return out, err
}

func (b *BadgerStore) ZRank(ctx context.Context, key string, member string) (int64, error) {
	var rank int64
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(memberKey(key, member))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return core.ErrStoreNotFound
		}
		if err != nil {
			return err
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		target := zsetKey(key, decodeScore(binary.BigEndian.Uint64(raw)), member)

		prefix := zsetPrefix(key)
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if bytes.Equal(it.Item().Key(), target) {
				return nil
			}
			rank++
		}
		return core.ErrStoreNotFound
	})
	if err != nil {
		return 0, err
	}
	return rank, nil
}

func (b *BadgerStore) ZCard(ctx context.Context, key string) (int64, error) {
	var n int64
	err := b.db.View(func(txn *badger.Txn) error {
		prefix := memberKey(key, "")
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

func (b *BadgerStore) Close() error {
	return b.db.Close()
}

func newEntry(key, value []byte, ttl []int) *badger.Entry {
	e := badger.NewEntry(key, value)
	if len(ttl) > 0 && ttl[0] > 0 {
		e = e.WithTTL(time.Duration(ttl[0]) * time.Second)
	}
	return e
}

func collectKeys(txn *badger.Txn, prefix []byte) ([][]byte, error) {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys, nil
}

// 确保 BadgerStore 实现了 core.KeyValueStore 接口
var _ core.KeyValueStore = (*BadgerStore)(nil)
