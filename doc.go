// Package gamerec 是一个基于用户协同过滤（u2u）的游戏推荐引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Extract → Recall/Scan → Rank/Aggregate → Filter → ReRank/TopN）
// - 数据源抽象: 核心只依赖 core.UserSource 分页接口，存储可替换（memory / redis / badger）
// - 有界延迟: 顺序分页扫描用户全集，命中足够多相似用户后提前停止
// - 结果确定: 同一快照下重复请求得到完全相同的排序
package gamerec

import (
	"github.com/rushteam/gamerec/pipeline"
	"github.com/rushteam/gamerec/recommend"
)

// 轻量 facade：便于用户直接 import "gamerec" 使用核心抽象。
type (
	Pipeline = pipeline.Pipeline
	Node     = pipeline.Node
	Kind     = pipeline.Kind
	Engine   = recommend.Engine
	Result   = recommend.Result
)

const (
	KindExtract = pipeline.KindExtract
	KindRecall  = pipeline.KindRecall
	KindRank    = pipeline.KindRank
	KindFilter  = pipeline.KindFilter
	KindReRank  = pipeline.KindReRank
)

// NewEngine 等同于 recommend.NewEngine。
var NewEngine = recommend.NewEngine
