// Package main 是 gamerec 命令行入口。
//
//	gamerec import -snapshot users.yaml
//	gamerec recommend 76561198000000001 76561198000000002
//
// 配置按 默认值 → 配置文件（-config 或 GAMEREC_CONFIG）→ GAMEREC_ 环境变量 的顺序加载。
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/rushteam/gamerec/config"
	"github.com/rushteam/gamerec/core"
	"github.com/rushteam/gamerec/filter"
	"github.com/rushteam/gamerec/pkg/logging"
	"github.com/rushteam/gamerec/recall"
	"github.com/rushteam/gamerec/recommend"
	"github.com/rushteam/gamerec/store"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		logger := logging.Logger()
		logger.Error().Err(err).Msg("gamerec failed")
		stop()
		os.Exit(1)
	}
}

const usage = `usage: gamerec [-config path] <command> [args]

commands:
  import -snapshot <file>     import a YAML/JSON population snapshot into the store
  recommend [flags] <id>...   recommend games for one or more users
  blacklist [appid]...        replace the global blacklist in the store (no ids clears it)
`

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("gamerec", flag.ContinueOnError)
	configPath := fs.String("config", "", "config file path")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logging.Init(cfg.Logging)

	kv, err := store.Open(ctx, cfg.Store.Options())
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer kv.Close()

	src := recall.NewStoreSource(kv, cfg.Store.KeyPrefix)
	if cfg.Store.SnapshotPath != "" {
		if _, err := importFile(ctx, src, cfg.Store.SnapshotPath, cfg.Import); err != nil {
			return err
		}
	}

	cmd, cmdArgs := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "import":
		return runImport(ctx, src, cfg, cmdArgs, out)
	case "recommend":
		return runRecommend(ctx, src, filter.NewStoreAdapter(kv, cfg.Store.KeyPrefix), cfg, cmdArgs, out)
	case "blacklist":
		return runBlacklist(ctx, filter.NewStoreAdapter(kv, cfg.Store.KeyPrefix), cmdArgs, out)
	default:
		fs.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runImport(ctx context.Context, src *recall.StoreSource, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	snapshot := fs.String("snapshot", "", "snapshot file (.yaml/.yml/.json)")
	minGames := fs.Int("min-games", cfg.Import.MinGames, "skip users with fewer games (0 disables)")
	minPlaytime := fs.Int64("min-total-playtime", cfg.Import.MinTotalPlaytime, "skip users with less total playtime in minutes (0 disables)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *snapshot == "" {
		return errors.New("import: -snapshot is required")
	}

	stats, err := importFile(ctx, src, *snapshot, recall.ImportOptions{
		MinGames:         *minGames,
		MinTotalPlaytime: *minPlaytime,
	})
	if err != nil {
		return err
	}
	return writeJSON(out, stats)
}

func runRecommend(ctx context.Context, src *recall.StoreSource, lists *filter.StoreAdapter, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	p := cfg.Recommend
	topN := fs.Int("top-n", p.GetTopNItems(), "top played games used as the similarity signal")
	minPlaytime := fs.Int64("min-playtime", p.GetMinPlaytime(), "minimum playtime in minutes for a top game")
	weight := fs.Float64("top-overlap-weight", p.GetTopOverlapWeight(), "weight of a shared top game relative to any shared game")
	fs.IntVar(&p.MaxSimilarUsers, "max-similar-users", p.MaxSimilarUsers, "similar users used for aggregation")
	fs.IntVar(&p.MaxRecommendations, "max-recommendations", p.MaxRecommendations, "recommendations returned")
	if err := fs.Parse(args); err != nil {
		return err
	}
	p.TopNItems, p.MinPlaytime, p.TopOverlapWeight = topN, minPlaytime, weight
	if fs.NArg() == 0 {
		return errors.New("recommend: at least one user id is required")
	}

	ids := make([]core.UserID, 0, fs.NArg())
	for _, a := range fs.Args() {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("recommend: bad user id %q: %w", a, err)
		}
		ids = append(ids, core.UserID(id))
	}

	engine, err := newEngine(src, lists, cfg)
	if err != nil {
		return err
	}

	if len(ids) == 1 {
		res, err := engine.Recommend(ctx, ids[0], p)
		if err != nil {
			logger := logging.Logger()
			logger.Warn().Err(err).Msg("recommendation failed")
		}
		if res == nil {
			res = recommend.FailureFromError(err)
			res.UserID = ids[0]
		}
		return writeJSON(out, res)
	}

	results, err := engine.RecommendMany(ctx, ids, p)
	if err != nil {
		return err
	}
	return writeJSON(out, results)
}

func runBlacklist(ctx context.Context, lists *filter.StoreAdapter, args []string, out io.Writer) error {
	ids := make([]core.ItemID, 0, len(args))
	for _, a := range args {
		id, err := strconv.ParseInt(a, 10, 64)
		if err != nil {
			return fmt.Errorf("blacklist: bad appid %q: %w", a, err)
		}
		ids = append(ids, core.ItemID(id))
	}
	if err := lists.SetBlacklist(ctx, ids); err != nil {
		return fmt.Errorf("blacklist: %w", err)
	}
	return writeJSON(out, map[string]any{"blacklist": ids})
}

func newEngine(src *recall.StoreSource, lists *filter.StoreAdapter, cfg *config.Config) (*recommend.Engine, error) {
	var us core.UserSource = src
	if cfg.Breaker.Enabled {
		us = recall.NewBreakerSource(src, cfg.Breaker.Source(), logging.Logger())
	}

	filters := make([]filter.Filter, 0, len(cfg.Rules)+3)
	for _, expr := range cfg.Rules {
		f, err := filter.NewRuleFilter(expr)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", expr, err)
		}
		filters = append(filters, f)
	}
	if len(cfg.ExcludeItems) > 0 {
		ids := make([]core.ItemID, len(cfg.ExcludeItems))
		for i, id := range cfg.ExcludeItems {
			ids[i] = core.ItemID(id)
		}
		filters = append(filters, filter.NewExcludeItems(ids...))
	}
	if cfg.Blacklist {
		filters = append(filters, filter.NewBlacklistFilter(lists))
	}
	if cfg.UserBlocks {
		filters = append(filters, filter.NewUserBlockFilter(lists))
	}

	return recommend.NewEngine(us,
		recommend.WithLogger(logging.Logger()),
		recommend.WithDefaults(cfg.Recommend),
		recommend.WithFilters(filters...),
		recommend.WithConcurrency(cfg.Concurrency),
	), nil
}

func importFile(ctx context.Context, src *recall.StoreSource, path string, opts recall.ImportOptions) (recall.ImportStats, error) {
	snap, err := store.LoadSnapshot(path)
	if err != nil {
		return recall.ImportStats{}, fmt.Errorf("load snapshot %s: %w", path, err)
	}
	return recall.ImportSnapshot(ctx, src, snap, opts, logging.Component("import"))
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
