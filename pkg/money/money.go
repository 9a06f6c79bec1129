package money

import (
	"github.com/shopspring/decimal"
	"math"
	"regexp"
	"strings"
	"unicode"
)

// 金额文本归一化：把 "$139.86M"、"1,234,567"、"139860000" 之类的文本转换成美元数值，
// 以及把数值格式化回 K/M/B 简写

var mantissaRe = regexp.MustCompile(`\d+(?:\.\d+)?|\.\d+`)

// 去掉的货币符号、分隔符
var stripReplacer = strings.NewReplacer(
	"US$", "", "USD", "", "usd", "",
	"$", "", "€", "", "£", "", "¥", "",
	",", "", "_", "", "\u00a0", "", "\u2009", "",
	"\u2212", "-",
)

type tier struct {
	suffix string
	scale  decimal.Decimal
}

// 从大到小
var tiers = []tier{
	{suffix: "B", scale: decimal.New(1, 9)},
	{suffix: "M", scale: decimal.New(1, 6)},
	{suffix: "K", scale: decimal.New(1, 3)},
}

func multiplier(suffix byte) (decimal.Decimal, bool) {
	switch suffix {
	case 'k', 'K':
		return decimal.New(1, 3), true
	case 'm', 'M':
		return decimal.New(1, 6), true
	case 'b', 'B':
		return decimal.New(1, 9), true
	}
	return decimal.Decimal{}, false
}

// ParseAmount 解析金额文本，没有数字时返回 0。
// 0 表示“无值”，调用方应当丢弃该候选记录。
func ParseAmount(text string) float64 {
	s := stripReplacer.Replace(strings.TrimSpace(text))
	if s == "" {
		return 0
	}

	loc := mantissaRe.FindStringIndex(s)
	if loc == nil {
		return 0
	}
	d, err := decimal.NewFromString(s[loc[0]:loc[1]])
	if err != nil {
		return 0
	}

	// 数量级后缀，允许中间有一个空格；后缀后面紧跟字母时不算（例如 "5 Months"）
	rest := s[loc[1]:]
	rest = strings.TrimPrefix(rest, " ")
	if len(rest) > 0 {
		if m, ok := multiplier(rest[0]); ok {
			if len(rest) == 1 || !unicode.IsLetter(rune(rest[1])) {
				d = d.Mul(m)
			}
		}
	}

	if isNegative(s, loc[0]) {
		d = d.Neg()
	}
	f, _ := d.Float64()
	return f
}

// 数字前面紧挨着 '-'，或者整体是会计格式的 "(...)"
func isNegative(s string, start int) bool {
	prefix := strings.TrimRight(s[:start], " ")
	if strings.HasSuffix(prefix, "-") {
		return true
	}
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "(") && strings.HasSuffix(trimmed, ")")
}

// FormatAmount 将数值格式化成简写金额，如 139860000 -> "$139.86M"。
// 小于 1000 的数值四舍五入为整数。
func FormatAmount(value float64) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "$0"
	}
	sign := ""
	if value < 0 {
		sign = "-"
	}
	abs := decimal.NewFromFloat(math.Abs(value))

	for i, t := range tiers {
		if abs.LessThan(t.scale) {
			continue
		}
		scaled := abs.Div(t.scale).Round(2)
		// 999.999K 进位后应该显示成 1.00M
		if i > 0 && scaled.GreaterThanOrEqual(decimal.New(1, 3)) {
			prev := tiers[i-1]
			return sign + "$" + abs.Div(prev.scale).StringFixed(2) + prev.suffix
		}
		return sign + "$" + scaled.StringFixed(2) + t.suffix
	}

	rounded := abs.Round(0)
	if rounded.GreaterThanOrEqual(decimal.New(1, 3)) {
		return sign + "$1.00K"
	}
	return sign + "$" + rounded.String()
}
