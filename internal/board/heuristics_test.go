package board

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestCandidateFromText_ShortBTC(t *testing.T) {
	addr := "0xABCDEF0000000000000000000000000000001234"
	c, ok := CandidateFromText("$220.0M Short BTC " + addr)
	require.True(t, ok)

	assert.Equal(t, addr, c.Owner)
	assert.Equal(t, SideShort, c.Side)
	assert.Equal(t, "BTC", c.Symbol)

	records := Rank([]RawCandidate{c}, 20)
	require.Len(t, records, 1)
	assert.Equal(t, 220_000_000.0, records[0].AmountUSD)
	assert.Equal(t, "$220.00M", records[0].AmountDisplay)
}

func TestCandidateFromText_NoAmount(t *testing.T) {
	_, ok := CandidateFromText("0xabcdef1234 Long ETH")
	assert.False(t, ok)

	_, ok = CandidateFromText("Total $0.00")
	assert.False(t, ok)
}

func TestCandidateFromCells(t *testing.T) {
	cells := []string{"3", "0x880ac484a1743862989a441d6d867238c7aa311c", "$190K Long ETH-PERP", "$2.1M"}
	c, ok := CandidateFromCells(cells)
	require.True(t, ok)

	assert.Equal(t, "0x880ac484a1743862989a441d6d867238c7aa311c", c.Owner)
	assert.Equal(t, "$190K", c.AmountText)
	assert.Equal(t, SideLong, c.Side)
	assert.Equal(t, "ETH", c.Symbol)
}

func TestFindAddress(t *testing.T) {
	assert.Equal(t, "0xabc123", FindAddress("owner 0xabc123 here"))
	assert.Equal(t, "0xDEADBEEF00", FindAddress("0xDEADBEEF00 and 0x111111"))
	assert.Equal(t, "", FindAddress("0x12345 too short"))
	assert.Equal(t, "", FindAddress("no address"))
}

func TestGuessSide(t *testing.T) {
	cases := map[string]Side{
		"Long":             SideLong,
		"SHORT":            SideShort,
		"$5M short eth":    SideShort,
		"going long":       SideLong,
		"flat":             SideUnknown,
		"":                 SideUnknown,
		"short then long":  SideShort,
		"long, not short!": SideLong,
	}
	for in, want := range cases {
		assert.Equal(t, want, GuessSide(in), in)
	}
}

func TestGuessSymbol(t *testing.T) {
	cases := []struct {
		in   []string
		want string
	}{
		{[]string{"$220.0M Short BTC"}, "BTC"},
		{[]string{"#1", "0xabcdef123456", "ETH-PERP"}, "ETH"},
		{[]string{"SOLPERP"}, "SOL"},
		{[]string{"HL:TSLA Long"}, "HL:TSLA"},
		{[]string{"1,234 USD LONG", "XRP"}, "XRP"},
		{[]string{"", " whale one ", "x"}, "whale one"},
		{[]string{"BTC/USDC"}, "BTC"},
		{[]string{"220.0M DOGE"}, "DOGE"},
		{nil, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, GuessSymbol(c.in), "%v", c.in)
	}
}

func TestFindMoney(t *testing.T) {
	assert.Equal(t, "$220.0M", FindMoney("rank 1 $220.0M Short BTC"))
	assert.Equal(t, "$1,234,567", FindMoney("value: $1,234,567 total"))
	assert.Equal(t, "-$12.5K", FindMoney("pnl -$12.5K"))
	assert.Equal(t, "$5", FindMoney("$5 Medium"))
	assert.Equal(t, "€3.2B", FindMoney("€3.2B"))
	assert.Equal(t, "", FindMoney("no money 123"))
}

func TestSplitCells(t *testing.T) {
	assert.Equal(t, []string{"1", "0xabc", "$5M Long BTC"}, SplitCells("1 | 0xabc |  $5M Long BTC"))
	assert.Equal(t, []string{"a", "b", "c"}, SplitCells("a\tb   c"))
	assert.Equal(t, []string{"$5M Long BTC"}, SplitCells("  $5M Long BTC  "))
	assert.Empty(t, SplitCells("   "))
}
