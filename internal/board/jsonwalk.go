package board

import (
	"bytes"
	"github.com/goccy/go-json"
	"hyperboard/pkg/money"
	"sort"
	"strconv"
	"strings"
)

// 无类型 JSON 的树结构：Object / Array / Scalar 三种节点

type Node interface {
	isNode()
}

type ObjectNode map[string]Node

type ArrayNode []Node

// ScalarNode 值为 string、json.Number、bool 或 nil
type ScalarNode struct {
	Value any
}

func (ObjectNode) isNode() {}
func (ArrayNode) isNode()  {}
func (ScalarNode) isNode() {}

// String 标量转字符串，nil/bool 返回空
func (s ScalarNode) String() string {
	switch v := s.Value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}

const maxWalkDepth = 64

// DecodeTree 解析一段 JSON，只读取第一个值，后面的内容忽略
func DecodeTree(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return FromValue(v), nil
}

func FromValue(v any) Node {
	switch t := v.(type) {
	case map[string]any:
		obj := make(ObjectNode, len(t))
		for k, child := range t {
			obj[k] = FromValue(child)
		}
		return obj
	case []any:
		arr := make(ArrayNode, len(t))
		for i, child := range t {
			arr[i] = FromValue(child)
		}
		return arr
	}
	return ScalarNode{Value: v}
}

// Walk 深度优先访问树中的每一个数组
func Walk(n Node, visit func(ArrayNode)) {
	walk(n, visit, 0)
}

func walk(n Node, visit func(ArrayNode), depth int) {
	if depth > maxWalkDepth {
		return
	}
	switch t := n.(type) {
	case ArrayNode:
		visit(t)
		for _, child := range t {
			walk(child, visit, depth+1)
		}
	case ObjectNode:
		for _, k := range sortedKeys(t) {
			walk(t[k], visit, depth+1)
		}
	}
}

func sortedKeys(obj ObjectNode) []string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// 字段名归一化：小写并去掉 _ 和 -
func normKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("_", "", "-", "").Replace(k)
}

var (
	addressKeys   = []string{"address", "ethaddress", "useraddress", "wallet", "walletaddress"}
	identityKeys  = []string{"address", "ethaddress", "useraddress", "wallet", "walletaddress", "owner", "user", "name", "displayname", "trader", "username"}
	nameKeys      = []string{"name", "displayname", "username", "user", "owner", "trader"}
	magnitudeKeys = []string{"positionvalue", "pv", "mainposition", "notional", "ntl", "equity", "accountvalue", "pnl", "profit"}
	// 包含匹配，如 totalPnl、pnlAllTime
	magnitudeFragments = []string{"positionvalue", "notional", "equity", "accountvalue", "pnl", "profit"}
	sideKeys           = []string{"side", "direction", "dir", "positionside"}
	symbolKeys         = []string{"coin", "symbol", "asset", "ticker", "market", "pair"}
)

type fieldIndex map[string]Node

func indexFields(obj ObjectNode) fieldIndex {
	idx := make(fieldIndex, len(obj))
	for _, k := range sortedKeys(obj) {
		nk := normKey(k)
		if _, exists := idx[nk]; !exists {
			idx[nk] = obj[k]
		}
	}
	return idx
}

func (f fieldIndex) has(keys []string) bool {
	for _, k := range keys {
		if n, ok := f[k]; ok && !isNull(n) {
			return true
		}
	}
	return false
}

func (f fieldIndex) hasMagnitude() bool {
	if f.has(magnitudeKeys) {
		return true
	}
	for k, n := range f {
		if isNull(n) {
			continue
		}
		for _, frag := range magnitudeFragments {
			if strings.Contains(k, frag) {
				return true
			}
		}
	}
	return false
}

// 按优先级取第一个非空字符串标量
func (f fieldIndex) str(keys []string) string {
	for _, k := range keys {
		if s, ok := f[k].(ScalarNode); ok {
			if v := strings.TrimSpace(s.String()); v != "" {
				return v
			}
		}
	}
	return ""
}

func isNull(n Node) bool {
	s, ok := n.(ScalarNode)
	return ok && s.Value == nil
}

// ScoreArray 判断数组是否像排行榜：只看第一个元素，
// 必须同时有身份字段和金额字段，否则得分为 0
func ScoreArray(arr ArrayNode) int {
	if len(arr) == 0 {
		return 0
	}
	obj, ok := arr[0].(ObjectNode)
	if !ok {
		return 0
	}
	f := indexFields(obj)
	if !f.has(identityKeys) || !(f.hasMagnitude() || childMagnitude(obj)) {
		return 0
	}
	fields := 1
	if shallowAddress(obj) != "" {
		fields++
	}
	if f.has(sideKeys) || f.has([]string{"szi"}) {
		fields++
	}
	if f.has(symbolKeys) {
		fields++
	}
	size := len(arr)
	if size > 999 {
		size = 999
	}
	return fields*1000 + size
}

// 金额字段在一层子对象里，例如 {"user": ..., "position": {"positionValue": ...}}
func childMagnitude(obj ObjectNode) bool {
	for _, n := range obj {
		if child, ok := n.(ObjectNode); ok && indexFields(child).hasMagnitude() {
			return true
		}
	}
	return false
}

// 字段层面的得分，不含数组长度
func fieldScore(score int) int {
	return score / 1000
}

type scoredArray struct {
	score int
	arr   ArrayNode
}

// bestArray 找出树里得分最高的数组，得分相同时取先遇到的
func bestArray(root Node) (scoredArray, bool) {
	var best scoredArray
	Walk(root, func(arr ArrayNode) {
		if s := ScoreArray(arr); s > best.score {
			best = scoredArray{score: s, arr: arr}
		}
	})
	return best, best.score > 0
}

// 在对象本身和一层子对象的字符串值中查找地址
func shallowAddress(obj ObjectNode) string {
	for _, k := range sortedKeys(obj) {
		if s, ok := obj[k].(ScalarNode); ok {
			if a := FindAddress(s.String()); a != "" {
				return a
			}
		}
	}
	for _, k := range sortedKeys(obj) {
		if child, ok := obj[k].(ObjectNode); ok {
			for _, ck := range sortedKeys(child) {
				if s, ok := child[ck].(ScalarNode); ok {
					if a := FindAddress(s.String()); a != "" {
						return a
					}
				}
			}
		}
	}
	return ""
}

// CandidatesFromArray 把排行榜数组的每个对象元素转换成候选记录
func CandidatesFromArray(arr ArrayNode) []RawCandidate {
	out := make([]RawCandidate, 0, len(arr))
	for _, el := range arr {
		obj, ok := el.(ObjectNode)
		if !ok {
			continue
		}
		if c, ok := candidateFromObject(obj); ok {
			out = append(out, c)
		}
	}
	return out
}

func candidateFromObject(obj ObjectNode) (RawCandidate, bool) {
	f := indexFields(obj)
	amount := amountOf(f)
	if amount == "" {
		// 金额可能在子对象里，例如 {"user": ..., "position": {"positionValue": ...}}
		for _, k := range sortedKeys(obj) {
			if child, ok := obj[k].(ObjectNode); ok {
				if amount = amountOf(indexFields(child)); amount != "" {
					break
				}
			}
		}
	}
	if amount == "" {
		return RawCandidate{}, false
	}
	return RawCandidate{
		Owner:      ownerOf(obj, f),
		AmountText: amount,
		Side:       sideOf(obj, f),
		Symbol:     symbolOf(obj, f),
	}, true
}

func amountOf(f fieldIndex) string {
	for _, k := range magnitudeKeys {
		if s, ok := f[k].(ScalarNode); ok && money.ParseAmount(s.String()) != 0 {
			return s.String()
		}
	}
	for _, frag := range magnitudeFragments {
		keys := make([]string, 0, len(f))
		for k := range f {
			if strings.Contains(k, frag) {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if s, ok := f[k].(ScalarNode); ok && money.ParseAmount(s.String()) != 0 {
				return s.String()
			}
		}
	}
	return ""
}

// 优先显式地址字段，其次任意字段里的地址，最后退回昵称
func ownerOf(obj ObjectNode, f fieldIndex) string {
	if a := f.str(addressKeys); a != "" {
		return a
	}
	if a := shallowAddress(obj); a != "" {
		return a
	}
	return f.str(nameKeys)
}

func sideOf(obj ObjectNode, f fieldIndex) Side {
	if s := f.str(sideKeys); s != "" {
		if side := GuessSide(s); side != SideUnknown {
			return side
		}
	}
	// 带符号的仓位数量
	if s, ok := f["szi"].(ScalarNode); ok {
		if v := money.ParseAmount(s.String()); v > 0 {
			return SideLong
		} else if v < 0 {
			return SideShort
		}
	}
	var texts []string
	for _, k := range sortedKeys(obj) {
		if s, ok := obj[k].(ScalarNode); ok {
			texts = append(texts, s.String())
		}
	}
	return GuessSide(strings.Join(texts, " "))
}

func symbolOf(obj ObjectNode, f fieldIndex) string {
	s := f.str(symbolKeys)
	if s == "" {
		for _, k := range sortedKeys(obj) {
			if child, ok := obj[k].(ObjectNode); ok {
				if s = indexFields(child).str(symbolKeys); s != "" {
					break
				}
			}
		}
	}
	if s == "" {
		return ""
	}
	if t, ok := asTicker(s); ok {
		return t
	}
	return s
}
