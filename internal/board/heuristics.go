package board

import (
	"hyperboard/pkg/money"
	"regexp"
	"strings"
	"unicode"
)

var (
	addressRe = regexp.MustCompile(`0x[0-9a-fA-F]{6,}`)
	// 货币符号后面跟数字，可选 K/M/B
	moneyRe     = regexp.MustCompile(`[-\x{2212}]?[$€£¥]\s?-?\d[\d,]*(?:\.\d+)?(?:\s?[KkMmBb])?`)
	tickerRe    = regexp.MustCompile(`^[A-Z0-9:.\-]{2,10}$`)
	amountTokRe = regexp.MustCompile(`^\d[\d.,]*[KMB]?$`)
	cellSplitRe = regexp.MustCompile(`\s*\|\s*|\t+|\s{2,}`)
)

// 不可能是交易对的词
var nonTickers = map[string]bool{
	"LONG":  true,
	"SHORT": true,
	"USD":   true,
	"PERP":  true,
}

// FindAddress 返回文本中第一个 0x 开头的十六进制地址
func FindAddress(text string) string {
	return addressRe.FindString(text)
}

// GuessSide 根据 long/short 关键字判断方向，两者都出现时以先出现的为准
func GuessSide(text string) Side {
	lower := strings.ToLower(text)
	li := strings.Index(lower, "long")
	si := strings.Index(lower, "short")
	switch {
	case li < 0 && si < 0:
		return SideUnknown
	case li < 0:
		return SideShort
	case si < 0:
		return SideLong
	case si < li:
		return SideShort
	default:
		return SideLong
	}
}

// GuessSymbol 取第一个形如交易对的词（BTC、ETH-PERP、HL:TSLA 之类），
// 找不到时退回第一个非空文本
func GuessSymbol(texts []string) string {
	for _, text := range texts {
		for _, tok := range tokenize(text) {
			if sym, ok := asTicker(tok); ok {
				return sym
			}
		}
	}
	for _, text := range texts {
		if t := strings.TrimSpace(text); t != "" {
			return t
		}
	}
	return ""
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == '|' || r == ',' || r == '/'
	})
}

func asTicker(tok string) (string, bool) {
	tok = strings.Trim(tok, `()[]{}"'`)
	if strings.HasSuffix(tok, "PERP") && len(tok) > len("PERP") {
		tok = strings.TrimRight(strings.TrimSuffix(tok, "PERP"), "-_")
	}
	if !tickerRe.MatchString(tok) || nonTickers[tok] || amountTokRe.MatchString(tok) {
		return "", false
	}
	if !strings.ContainsFunc(tok, func(r rune) bool { return r >= 'A' && r <= 'Z' }) {
		return "", false
	}
	return tok, true
}

// FindMoney 返回第一个“货币符号+数字”的子串，没有则返回空
func FindMoney(text string) string {
	loc := moneyRe.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	m := text[loc[0]:loc[1]]
	// 后缀后面紧跟字母时，说明那不是数量级后缀（"$5 Medium"）
	if loc[1] < len(text) && unicode.IsLetter(rune(text[loc[1]])) {
		last := m[len(m)-1]
		if strings.ContainsRune("KkMmBb", rune(last)) {
			m = strings.TrimRight(m[:len(m)-1], " ")
		}
	}
	return strings.TrimSpace(m)
}

// CandidateFromText 把一段文本（一行或者整行单元格拼接）解析成候选记录，
// 没有可用金额时 ok=false
func CandidateFromText(text string) (RawCandidate, bool) {
	return CandidateFromCells(SplitCells(text))
}

// CandidateFromCells 按单元格解析，单元格用 " | " 拼接后匹配地址、金额、方向
func CandidateFromCells(cells []string) (RawCandidate, bool) {
	joined := strings.Join(cells, " | ")
	amount := FindMoney(joined)
	if amount == "" || money.ParseAmount(amount) == 0 {
		return RawCandidate{}, false
	}
	return RawCandidate{
		Owner:      FindAddress(joined),
		AmountText: amount,
		Side:       GuessSide(joined),
		Symbol:     GuessSymbol(cells),
	}, true
}

// SplitCells 按 | 、制表符或连续空格切分成单元格
func SplitCells(text string) []string {
	parts := cellSplitRe.Split(strings.TrimSpace(text), -1)
	cells := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			cells = append(cells, p)
		}
	}
	return cells
}
