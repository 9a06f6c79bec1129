package board

import (
	"github.com/goccy/go-json"
	"strconv"
)

type Side int

const (
	SideUnknown Side = iota
	SideLong
	SideShort
)

func (s Side) String() string {
	switch s {
	case SideLong:
		return "Long"
	case SideShort:
		return "Short"
	}
	return "Unknown"
}

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(b []byte) error {
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*s = GuessSide(v)
	return nil
}

// RawCandidate 某个抽取策略产出的原始记录，字段可能不全
type RawCandidate struct {
	Owner      string // 地址或者昵称
	AmountText string
	Side       Side
	Symbol     string
}

// NormalizedRecord 归一化、排序之后的一条排行记录
type NormalizedRecord struct {
	Rank          int     `json:"rank"`
	Address       string  `json:"address"`
	Symbol        string  `json:"symbol"`
	Side          Side    `json:"side"`
	AmountUSD     float64 `json:"amount_usd"`
	AmountDisplay string  `json:"amount_display"`
}

// RankedResult 一次成功抓取的结果，构造后不再修改
type RankedResult struct {
	Records         []NormalizedRecord `json:"records"`
	FetchedAtMillis int64              `json:"fetched_at"`
	Strategy        string             `json:"strategy"`
}

// Top 返回前 limit 条的拷贝，原结果保持不变
func (r *RankedResult) Top(limit int) *RankedResult {
	n := len(r.Records)
	if limit > 0 && limit < n {
		n = limit
	}
	records := make([]NormalizedRecord, n)
	copy(records, r.Records[:n])
	return &RankedResult{
		Records:         records,
		FetchedAtMillis: r.FetchedAtMillis,
		Strategy:        r.Strategy,
	}
}

// 状态机：Idle → Fetching → (Success | Empty | Failed) → Idle
type State int32

const (
	StateIdle State = iota
	StateFetching
	StateSuccess
	StateEmpty
	StateFailed
)

var stateNames = map[State]string{
	StateIdle:     "idle",
	StateFetching: "fetching",
	StateSuccess:  "success",
	StateEmpty:    "empty",
	StateFailed:   "failed",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "state(" + strconv.Itoa(int(s)) + ")"
}

// Outcome GetTop 的返回值，只会是 Success / Empty / Failed 三者之一
type Outcome struct {
	State  State
	Result *RankedResult
	Cached bool
	Err    error
}

func (o Outcome) OK() bool {
	return o.State == StateSuccess && o.Result != nil
}
