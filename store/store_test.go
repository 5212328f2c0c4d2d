package store

import (
	"context"
	"os"
	"reflect"
	"testing"

	"github.com/rushteam/gamerec/core"
)

// runKeyValueStoreTests 是所有 KeyValueStore 实现共用的行为测试。
func runKeyValueStoreTests(t *testing.T, kv core.KeyValueStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("get set delete", func(t *testing.T) {
		if _, err := kv.Get(ctx, "missing"); !core.IsStoreNotFound(err) {
			t.Fatalf("Get(missing) error = %v, want not found", err)
		}
		if err := kv.Set(ctx, "k1", []byte("v1")); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
		got, err := kv.Get(ctx, "k1")
		if err != nil || string(got) != "v1" {
			t.Fatalf("Get() = %q, %v; want v1", got, err)
		}
		if err := kv.Delete(ctx, "k1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if _, err := kv.Get(ctx, "k1"); !core.IsStoreNotFound(err) {
			t.Errorf("Get(after delete) error = %v, want not found", err)
		}
	})

	t.Run("batch", func(t *testing.T) {
		err := kv.BatchSet(ctx, map[string][]byte{
			"b1": []byte("1"),
			"b2": []byte("2"),
		})
		if err != nil {
			t.Fatalf("BatchSet() error = %v", err)
		}
		got, err := kv.BatchGet(ctx, []string{"b1", "b2", "b3"})
		if err != nil {
			t.Fatalf("BatchGet() error = %v", err)
		}
		want := map[string][]byte{"b1": []byte("1"), "b2": []byte("2")}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("BatchGet() = %v, want %v", got, want)
		}
	})

	t.Run("sorted set", func(t *testing.T) {
		key := "zs"
		for _, m := range []struct {
			score  float64
			member string
		}{
			{2, "c"},
			{0, "a"},
			{1, "b"},
			{1, "a2"},
			{-1, "neg"},
		} {
			if err := kv.ZAdd(ctx, key, m.score, m.member); err != nil {
				t.Fatalf("ZAdd(%s) error = %v", m.member, err)
			}
		}

		all, err := kv.ZRange(ctx, key, 0, -1)
		if err != nil {
			t.Fatalf("ZRange() error = %v", err)
		}
		want := []string{"neg", "a", "a2", "b", "c"}
		if !reflect.DeepEqual(all, want) {
			t.Errorf("ZRange(0,-1) = %v, want %v", all, want)
		}

		window, err := kv.ZRange(ctx, key, 1, 2)
		if err != nil {
			t.Fatalf("ZRange(1,2) error = %v", err)
		}
		if !reflect.DeepEqual(window, []string{"a", "a2"}) {
			t.Errorf("ZRange(1,2) = %v, want [a a2]", window)
		}

		past, err := kv.ZRange(ctx, key, 10, 20)
		if err != nil {
			t.Fatalf("ZRange(10,20) error = %v", err)
		}
		if len(past) != 0 {
			t.Errorf("ZRange(10,20) = %v, want empty", past)
		}

		rank, err := kv.ZRank(ctx, key, "b")
		if err != nil || rank != 3 {
			t.Errorf("ZRank(b) = %d, %v; want 3", rank, err)
		}
		if _, err := kv.ZRank(ctx, key, "zzz"); !core.IsStoreNotFound(err) {
			t.Errorf("ZRank(missing) error = %v, want not found", err)
		}

		n, err := kv.ZCard(ctx, key)
		if err != nil || n != 5 {
			t.Errorf("ZCard() = %d, %v; want 5", n, err)
		}

		// 更新 score 会移动成员，而不是新增
		if err := kv.ZAdd(ctx, key, 10, "neg"); err != nil {
			t.Fatalf("ZAdd(update) error = %v", err)
		}
		rank, err = kv.ZRank(ctx, key, "neg")
		if err != nil || rank != 4 {
			t.Errorf("ZRank(neg after update) = %d, %v; want 4", rank, err)
		}
		if n, _ := kv.ZCard(ctx, key); n != 5 {
			t.Errorf("ZCard(after update) = %d, want 5", n)
		}

		if n, err := kv.ZCard(ctx, "empty"); err != nil || n != 0 {
			t.Errorf("ZCard(empty) = %d, %v; want 0", n, err)
		}
	})
}

func TestMemoryStore(t *testing.T) {
	kv := NewMemoryStore()
	defer kv.Close()
	runKeyValueStoreTests(t, kv)
}

func TestBadgerStore(t *testing.T) {
	kv, err := NewBadgerStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	defer kv.Close()
	runKeyValueStoreTests(t, kv)
}

func TestRedisStore(t *testing.T) {
	addr := os.Getenv("GAMEREC_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("GAMEREC_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	kv, err := NewRedisStore(ctx, addr, 15)
	if err != nil {
		t.Fatalf("NewRedisStore() error = %v", err)
	}
	defer kv.Close()
	if err := kv.client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("FlushDB() error = %v", err)
	}
	runKeyValueStoreTests(t, kv)
}

func TestBadgerStore_Persists(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	kv, err := NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("NewBadgerStore() error = %v", err)
	}
	if err := kv.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := kv.ZAdd(ctx, "z", 1, "m"); err != nil {
		t.Fatalf("ZAdd() error = %v", err)
	}
	if err := kv.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	kv, err = NewBadgerStore(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer kv.Close()
	if got, err := kv.Get(ctx, "k"); err != nil || string(got) != "v" {
		t.Errorf("Get() after reopen = %q, %v", got, err)
	}
	if n, err := kv.ZCard(ctx, "z"); err != nil || n != 1 {
		t.Errorf("ZCard() after reopen = %d, %v", n, err)
	}
}

func TestEncodeScore_Order(t *testing.T) {
	scores := []float64{-1e9, -2.5, -1, 0, 0.5, 1, 2, 1e9}
	for i := 1; i < len(scores); i++ {
		a, b := encodeScore(scores[i-1]), encodeScore(scores[i])
		if a >= b {
			t.Errorf("encodeScore(%v)=%x >= encodeScore(%v)=%x", scores[i-1], a, scores[i], b)
		}
	}
	for _, s := range scores {
		if got := decodeScore(encodeScore(s)); got != s {
			t.Errorf("decodeScore(encodeScore(%v)) = %v", s, got)
		}
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	kv, err := Open(ctx, Options{Backend: BackendMemory})
	if err != nil {
		t.Fatalf("Open(memory) error = %v", err)
	}
	if kv.Name() != "memory" {
		t.Errorf("Name() = %q, want memory", kv.Name())
	}
	_ = kv.Close()

	kv, err = Open(ctx, Options{Backend: BackendBadger, BadgerPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Open(badger) error = %v", err)
	}
	if kv.Name() != "badger" {
		t.Errorf("Name() = %q, want badger", kv.Name())
	}
	_ = kv.Close()

	if _, err := Open(ctx, Options{Backend: "cassandra"}); err == nil {
		t.Error("Open(unknown) error = nil, want error")
	}
}
