package recall

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/goccy/go-json"

	"github.com/rushteam/gamerec/core"
)

// StoreSource 是基于 core.KeyValueStore 的用户数据源，实现 core.UserSource。
//
// 存储布局：
//   - 用户游戏库：{KeyPrefix}:lib:{userID}，JSON 数组 [{"appid":..,"playtime_forever":..}]
//   - 用户全集：{KeyPrefix}:users，有序集合，score 为写入序号，保证分页顺序稳定
type StoreSource struct {
	store core.KeyValueStore

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string

	mu sync.Mutex
}

// NewStoreSource 创建一个基于 KeyValueStore 的数据源。
func NewStoreSource(s core.KeyValueStore, keyPrefix string) *StoreSource {
	if keyPrefix == "" {
		keyPrefix = "gamerec"
	}
	return &StoreSource{
		store:     s,
		KeyPrefix: keyPrefix,
	}
}

func (a *StoreSource) libraryKey(userID core.UserID) string {
	return a.KeyPrefix + ":lib:" + strconv.FormatInt(int64(userID), 10)
}

func (a *StoreSource) indexKey() string {
	return a.KeyPrefix + ":users"
}

// Name 返回数据源名称（用于日志/监控）
func (a *StoreSource) Name() string {
	return "store_source:" + a.store.Name()
}

func (a *StoreSource) GetLibrary(ctx context.Context, userID core.UserID) (core.Library, error) {
	data, err := a.store.Get(ctx, a.libraryKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, core.ErrUserNotFound
		}
		return nil, err
	}
	return decodeLibrary(data)
}

// FetchPage 实现 core.UserSource。
//
// exclude 在分页之前剔除：若被剔除用户排在窗口之前或窗口之内，
// 原始区间整体后移一位，保证"排除后"的第 offset 个用户开始连续取 limit 个。
func (a *StoreSource) FetchPage(ctx context.Context, offset, limit int, exclude core.UserID) ([]core.Candidate, error) {
	if limit <= 0 || offset < 0 {
		return nil, nil
	}

	start := int64(offset)
	stop := start + int64(limit) - 1
	excludeMember := strconv.FormatInt(int64(exclude), 10)

	rank, err := a.store.ZRank(ctx, a.indexKey(), excludeMember)
	switch {
	case err == nil:
		if rank <= start {
			start++
		}
		if rank <= stop {
			stop++
		}
	case core.IsStoreNotFound(err):
	default:
		return nil, fmt.Errorf("rank excluded user: %w", err)
	}

	members, err := a.store.ZRange(ctx, a.indexKey(), start, stop)
	if err != nil {
		return nil, fmt.Errorf("range users [%d, %d]: %w", start, stop, err)
	}

	ids := make([]core.UserID, 0, len(members))
	keys := make([]string, 0, len(members))
	for _, m := range members {
		if m == excludeMember {
			continue
		}
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("bad user id %q in index: %w", m, err)
		}
		ids = append(ids, core.UserID(id))
		keys = append(keys, a.libraryKey(core.UserID(id)))
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := a.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("batch get libraries: %w", err)
	}

	out := make([]core.Candidate, 0, len(ids))
	for i, id := range ids {
		cand := core.Candidate{UserID: id}
		// 索引中存在但游戏库缺失的用户仍占一个位置，拥有集合为空
		if data, ok := values[keys[i]]; ok {
			lib, err := decodeLibrary(data)
			if err != nil {
				return nil, fmt.Errorf("decode library of user %d: %w", id, err)
			}
			cand.Owned = OwnedSet(lib)
		}
		out = append(out, cand)
	}
	return out, nil
}

// PutLibrary 写入用户游戏库；新用户追加到用户全集末尾。
func (a *StoreSource) PutLibrary(ctx context.Context, userID core.UserID, lib core.Library) error {
	data, err := json.Marshal(lib)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.store.Set(ctx, a.libraryKey(userID), data); err != nil {
		return err
	}

	member := strconv.FormatInt(int64(userID), 10)
	_, err = a.store.ZRank(ctx, a.indexKey(), member)
	if err == nil {
		return nil
	}
	if !core.IsStoreNotFound(err) {
		return err
	}
	seq, err := a.store.ZCard(ctx, a.indexKey())
	if err != nil {
		return err
	}
	return a.store.ZAdd(ctx, a.indexKey(), float64(seq), member)
}

// Count 返回用户全集大小。
func (a *StoreSource) Count(ctx context.Context) (int64, error) {
	return a.store.ZCard(ctx, a.indexKey())
}

func decodeLibrary(data []byte) (core.Library, error) {
	var lib core.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		return nil, err
	}
	if lib == nil {
		lib = core.Library{}
	}
	return lib, nil
}

// 确保实现 core.UserSource 接口
var _ core.UserSource = (*StoreSource)(nil)
