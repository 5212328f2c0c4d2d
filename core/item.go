package core

// ItemID 是游戏（物品）ID，对应 Steam appid。
type ItemID int64

// UserID 是用户 ID，对应 Steam ID。
type UserID int64

// LibraryEntry 是用户游戏库中的一条记录：游戏 + 累计时长（分钟）。
type LibraryEntry struct {
	ItemID  ItemID `json:"appid" yaml:"appid"`
	Minutes int64  `json:"playtime_forever" yaml:"playtime_forever"`
}

// Library 是一个用户的游戏库快照。
// 使用切片而不是 map：顺序即数据源顺序，时长相同时按此顺序决定先后。
// 核心链路只读，不修改。
type Library []LibraryEntry

// TotalMinutes 返回游戏库总时长（分钟）。
func (l Library) TotalMinutes() int64 {
	var total int64
	for _, e := range l {
		total += e.Minutes
	}
	return total
}

// ItemSet 是保持插入顺序的物品集合。
// 每个用户构造一次，之后只做成员判断与顺序遍历；聚合阶段依赖插入顺序保证结果确定。
type ItemSet struct {
	ids   []ItemID
	index map[ItemID]struct{}
}

// NewItemSet 创建集合，重复 ID 只保留第一次出现的位置。
func NewItemSet(ids ...ItemID) ItemSet {
	s := ItemSet{
		ids:   make([]ItemID, 0, len(ids)),
		index: make(map[ItemID]struct{}, len(ids)),
	}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add 添加成员，已存在时忽略。
func (s *ItemSet) Add(id ItemID) {
	if s.index == nil {
		s.index = make(map[ItemID]struct{})
	}
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = struct{}{}
	s.ids = append(s.ids, id)
}

// Contains 判断是否包含 id。
func (s ItemSet) Contains(id ItemID) bool {
	_, ok := s.index[id]
	return ok
}

// Len 返回成员数。
func (s ItemSet) Len() int { return len(s.ids) }

// Items 按插入顺序返回成员（只读，调用方不要修改）。
func (s ItemSet) Items() []ItemID { return s.ids }

// IntersectCount 返回 |s ∩ other|，遍历较小的一侧。
func (s ItemSet) IntersectCount(other ItemSet) int {
	small, large := s, other
	if small.Len() > large.Len() {
		small, large = large, small
	}
	n := 0
	for _, id := range small.ids {
		if large.Contains(id) {
			n++
		}
	}
	return n
}

// Candidate 是分页扫描返回的一个候选用户。
type Candidate struct {
	UserID UserID
	Owned  ItemSet
}

// SimilarUser 是相似度打分结果（SimilarityRecord）。
// Owned 只在聚合阶段再使用一次，输出结果时会被去掉。
type SimilarUser struct {
	UserID       UserID
	Score        float64
	TopOverlap   int
	TotalOverlap int
	Owned        ItemSet
}

// Recommendation 是聚合后的一条推荐：累计权重 + 贡献用户（按首次出现顺序）。
type Recommendation struct {
	ItemID       ItemID
	Score        float64
	Contributors []UserID
}

// ContributorCount 返回贡献用户数。
func (r Recommendation) ContributorCount() int { return len(r.Contributors) }
