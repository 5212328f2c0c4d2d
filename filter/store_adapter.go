package filter

import (
	"context"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/rushteam/gamerec/core"
)

// StoreAdapter 将 core.Store 适配为过滤器所需的存储接口。
//
// 存储布局（值均为 JSON 数组 [appid, ...]）：
//   - 全局黑名单：{KeyPrefix}:blacklist
//   - 用户屏蔽列表：{KeyPrefix}:block:{userID}
type StoreAdapter struct {
	store core.Store

	// KeyPrefix 是存储 key 的前缀
	KeyPrefix string
}

// NewStoreAdapter 创建一个 core.Store 适配器。
func NewStoreAdapter(s core.Store, keyPrefix string) *StoreAdapter {
	if keyPrefix == "" {
		keyPrefix = "gamerec"
	}
	return &StoreAdapter{store: s, KeyPrefix: keyPrefix}
}

func (a *StoreAdapter) blacklistKey() string {
	return a.KeyPrefix + ":blacklist"
}

func (a *StoreAdapter) blockKey(userID core.UserID) string {
	return a.KeyPrefix + ":block:" + strconv.FormatInt(int64(userID), 10)
}

// GetBlacklist 从 Store 读取全局黑名单，key 不存在时返回空列表。
func (a *StoreAdapter) GetBlacklist(ctx context.Context) ([]core.ItemID, error) {
	return a.getItems(ctx, a.blacklistKey())
}

// SetBlacklist 覆盖全局黑名单。
func (a *StoreAdapter) SetBlacklist(ctx context.Context, ids []core.ItemID) error {
	return a.setItems(ctx, a.blacklistKey(), ids)
}

// GetUserBlocks 从 Store 读取用户屏蔽的游戏，key 不存在时返回空列表。
func (a *StoreAdapter) GetUserBlocks(ctx context.Context, userID core.UserID) ([]core.ItemID, error) {
	return a.getItems(ctx, a.blockKey(userID))
}

// SetUserBlocks 覆盖用户屏蔽列表。
func (a *StoreAdapter) SetUserBlocks(ctx context.Context, userID core.UserID, ids []core.ItemID) error {
	return a.setItems(ctx, a.blockKey(userID), ids)
}

func (a *StoreAdapter) getItems(ctx context.Context, key string) ([]core.ItemID, error) {
	data, err := a.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	var ids []core.ItemID
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

func (a *StoreAdapter) setItems(ctx context.Context, key string, ids []core.ItemID) error {
	if ids == nil {
		ids = []core.ItemID{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, data)
}
