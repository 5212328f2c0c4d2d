// Package config 加载应用配置：内置默认值 → YAML 配置文件 → GAMEREC_ 环境变量，后者覆盖前者。
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/pkg/logging"
	"github.com/rushteam/gamerec/recall"
	"github.com/rushteam/gamerec/store"
)

// EnvPrefix 是环境变量前缀：GAMEREC_RECOMMEND_MIN_PLAYTIME → recommend.min_playtime
const EnvPrefix = "GAMEREC_"

// PathEnvVar 可以指定配置文件路径。
const PathEnvVar = EnvPrefix + "CONFIG"

// DefaultPaths 是未指定路径时依次查找的配置文件。
var DefaultPaths = []string{
	"gamerec.yaml",
	"gamerec.yml",
	"/etc/gamerec/config.yaml",
}

// Config 是应用配置。
type Config struct {
	// Recommend 是请求参数的默认值
	Recommend core.Params `koanf:"recommend"`

	Store   StoreConfig          `koanf:"store"`
	Breaker BreakerConfig        `koanf:"breaker"`
	Import  recall.ImportOptions `koanf:"import"`
	Logging logging.Config       `koanf:"logging"`

	// Rules 是推荐保留规则（CEL 表达式），全部为 true 的推荐才会返回
	Rules []string `koanf:"rules"`

	// ExcludeItems 是始终不推荐的游戏
	ExcludeItems []int64 `koanf:"exclude_items"`

	// Blacklist 启用存储中的全局黑名单（{key_prefix}:blacklist）
	Blacklist bool `koanf:"blacklist"`

	// UserBlocks 启用存储中的用户屏蔽列表（{key_prefix}:block:{steam_id}）
	UserBlocks bool `koanf:"user_blocks"`

	// Concurrency 是批量推荐的并发数
	Concurrency int `koanf:"concurrency" validate:"gte=1,lte=256"`
}

// StoreConfig 是存储后端配置。
type StoreConfig struct {
	Backend    string `koanf:"backend" validate:"oneof=memory redis badger"`
	RedisAddr  string `koanf:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB    int    `koanf:"redis_db" validate:"gte=0"`
	BadgerPath string `koanf:"badger_path" validate:"required_if=Backend badger"`
	KeyPrefix  string `koanf:"key_prefix" validate:"required"`

	// SnapshotPath 非空时，启动后先导入该快照（memory 后端常用）
	SnapshotPath string `koanf:"snapshot_path"`
}

// Options 转换为 store.Open 的参数。
func (s StoreConfig) Options() store.Options {
	return store.Options{
		Backend:    s.Backend,
		RedisAddr:  s.RedisAddr,
		RedisDB:    s.RedisDB,
		BadgerPath: s.BadgerPath,
	}
}

// BreakerConfig 是数据源熔断配置。
type BreakerConfig struct {
	Enabled          bool          `koanf:"enabled"`
	MaxRequests      uint32        `koanf:"max_requests" validate:"gte=1"`
	Interval         time.Duration `koanf:"interval" validate:"gte=0"`
	Timeout          time.Duration `koanf:"timeout" validate:"gt=0"`
	FailureThreshold uint32        `koanf:"failure_threshold" validate:"gte=1"`
}

// Source 转换为 recall.BreakerConfig。
func (b BreakerConfig) Source() recall.BreakerConfig {
	return recall.BreakerConfig{
		Name:             "user_source",
		MaxRequests:      b.MaxRequests,
		Interval:         b.Interval,
		Timeout:          b.Timeout,
		FailureThreshold: b.FailureThreshold,
	}
}

// Default 返回内置默认配置。
func Default() *Config {
	br := recall.DefaultBreakerConfig()
	return &Config{
		Recommend: core.DefaultParams(),
		Store: StoreConfig{
			Backend:   store.BackendMemory,
			RedisAddr: "127.0.0.1:6379",
			KeyPrefix: "gamerec",
		},
		Breaker: BreakerConfig{
			Enabled:          true,
			MaxRequests:      br.MaxRequests,
			Interval:         br.Interval,
			Timeout:          br.Timeout,
			FailureThreshold: br.FailureThreshold,
		},
		Import:      recall.DefaultImportOptions(),
		Logging:     logging.DefaultConfig(),
		Concurrency: 4,
	}
}

// Load 加载配置。path 为空时依次尝试 GAMEREC_CONFIG 与 DefaultPaths，都不存在则只用默认值与环境变量。
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Layer 1: 默认值
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	// Layer 2: 配置文件（可选）
	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Layer 3: 环境变量
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate 按 validate 标签校验配置。
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func findConfigFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sections 是配置的一级分组，环境变量中第一个下划线之前若是分组名则转为 "."
var sections = map[string]bool{
	"recommend": true,
	"store":     true,
	"breaker":   true,
	"import":    true,
	"logging":   true,
}

// envTransformFunc 把环境变量名转换为 koanf 路径：
//   - GAMEREC_RECOMMEND_MIN_PLAYTIME → recommend.min_playtime
//   - GAMEREC_STORE_BACKEND → store.backend
//   - GAMEREC_CONCURRENCY → concurrency
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	if key == "config" {
		return ""
	}
	if section, rest, ok := strings.Cut(key, "_"); ok && sections[section] {
		return section + "." + rest
	}
	return key
}

// sliceConfigPaths 中的配置项在环境变量里用逗号分隔
var sliceConfigPaths = []string{
	"exclude_items",
}

// processSliceFields 把环境变量中的逗号分隔字符串转换为切片。
// rules 不在其中：CEL 表达式本身可能包含逗号，只能通过配置文件设置。
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
