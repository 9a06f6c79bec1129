package board

import (
	"fmt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"math/rand"
	"testing"
)

func TestRank_OrderAndNumbering(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := rnd.Intn(40)
		cands := make([]RawCandidate, n)
		for i := range cands {
			v := rnd.Float64()*2e9 - 1e9
			cands[i] = RawCandidate{Owner: fmt.Sprintf("0x%012x", i), AmountText: fmt.Sprintf("%.2f", v)}
		}
		limit := rnd.Intn(30) + 1

		records := Rank(cands, limit)
		require.LessOrEqual(t, len(records), limit)
		for i, r := range records {
			assert.Equal(t, i+1, r.Rank)
			assert.NotZero(t, r.AmountUSD)
			if i > 0 {
				assert.GreaterOrEqual(t, math.Abs(records[i-1].AmountUSD), math.Abs(r.AmountUSD))
			}
		}
	}
}

func TestRank_StableTiesAndDuplicates(t *testing.T) {
	cands := []RawCandidate{
		{Owner: "0xaaaaaaaaaaaa", AmountText: "$1M", Symbol: "BTC"},
		{Owner: "0xbbbbbbbbbbbb", AmountText: "$2M"},
		{Owner: "0xaaaaaaaaaaaa", AmountText: "$1,000,000", Symbol: "ETH"},
		{Owner: "0xcccccccccccc", AmountText: "-$3M", Side: SideShort},
		{Owner: "0xdddddddddddd", AmountText: "$0"},
		{Owner: "0xeeeeeeeeeeee", AmountText: "n/a"},
	}
	records := Rank(cands, 10)
	require.Len(t, records, 4)

	assert.Equal(t, "0xcccccccccccc", records[0].Address)
	assert.Equal(t, "-$3.00M", records[0].AmountDisplay)
	assert.Equal(t, "0xbbbbbbbbbbbb", records[1].Address)
	assert.Equal(t, "-", records[1].Symbol)
	// 同额保持原始顺序，同一地址不合并
	assert.Equal(t, "BTC", records[2].Symbol)
	assert.Equal(t, "ETH", records[3].Symbol)
	assert.Equal(t, records[2].Address, records[3].Address)
}

func TestRank_Truncates(t *testing.T) {
	var cands []RawCandidate
	for i := 1; i <= 30; i++ {
		cands = append(cands, RawCandidate{AmountText: fmt.Sprintf("$%dK", i)})
	}
	records := Rank(cands, 20)
	require.Len(t, records, 20)
	assert.Equal(t, 30_000.0, records[0].AmountUSD)
	assert.Equal(t, 11_000.0, records[19].AmountUSD)
	assert.Equal(t, 20, records[19].Rank)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil, 20))
}

func TestRankedResult_TopCopies(t *testing.T) {
	r := &RankedResult{
		Records:         Rank([]RawCandidate{{AmountText: "$3"}, {AmountText: "$2"}, {AmountText: "$1"}}, 10),
		FetchedAtMillis: 42,
		Strategy:        "free-text",
	}
	top := r.Top(2)
	require.Len(t, top.Records, 2)
	assert.Equal(t, int64(42), top.FetchedAtMillis)

	top.Records[0].Address = "changed"
	assert.Equal(t, "", r.Records[0].Address)
	assert.Len(t, r.Top(0).Records, 3)
	assert.Len(t, r.Top(99).Records, 3)
}
