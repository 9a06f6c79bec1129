package board

import (
	"hyperboard/pkg/money"
	"math"
	"sort"
	"strings"
)

// Rank 归一化候选记录：丢弃金额为 0 的，按 |金额| 降序稳定排序，
// 截取前 limit 条后再分配名次。同一地址出现多次时保留多条
func Rank(cands []RawCandidate, limit int) []NormalizedRecord {
	records := make([]NormalizedRecord, 0, len(cands))
	for _, c := range cands {
		amount := money.ParseAmount(c.AmountText)
		if amount == 0 {
			continue
		}
		symbol := strings.TrimSpace(c.Symbol)
		if symbol == "" {
			symbol = "-"
		}
		records = append(records, NormalizedRecord{
			Address:       strings.TrimSpace(c.Owner),
			Symbol:        symbol,
			Side:          c.Side,
			AmountUSD:     amount,
			AmountDisplay: money.FormatAmount(amount),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return math.Abs(records[i].AmountUSD) > math.Abs(records[j].AmountUSD)
	})

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	for i := range records {
		records[i].Rank = i + 1
	}
	return records
}
