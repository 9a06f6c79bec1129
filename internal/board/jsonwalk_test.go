package board

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func mustTree(t *testing.T, s string) Node {
	t.Helper()
	n, err := DecodeTree([]byte(s))
	require.NoError(t, err)
	return n
}

func TestBestArray_NameAsIdentity(t *testing.T) {
	root := mustTree(t, `{"data":{"rows":[{"name":"alice","pnl":5000000},{"name":"bob","pnl":"1200000"}]}}`)

	sa, ok := bestArray(root)
	require.True(t, ok)
	cands := CandidatesFromArray(sa.arr)
	require.Len(t, cands, 2)

	assert.Equal(t, "alice", cands[0].Owner)
	assert.Equal(t, "5000000", cands[0].AmountText)
	assert.Equal(t, "bob", cands[1].Owner)

	records := Rank(cands, 10)
	require.Len(t, records, 2)
	assert.Equal(t, "alice", records[0].Address)
	assert.Equal(t, 5_000_000.0, records[0].AmountUSD)
	assert.Equal(t, "-", records[0].Symbol)
}

func TestScoreArray(t *testing.T) {
	cases := []struct {
		name string
		json string
		zero bool
	}{
		{"empty", `[]`, true},
		{"scalars", `[1,2,3]`, true},
		{"no identity", `[{"pnl":5}]`, true},
		{"no magnitude", `[{"name":"a","rank":1}]`, true},
		{"name pnl", `[{"name":"a","pnl":5}]`, false},
		{"fragment", `[{"displayName":"a","totalPnlAllTime":"5"}]`, false},
		{"nested amount", `[{"user":"0xabcdef012345","position":{"positionValue":"5"}}]`, false},
	}
	for _, c := range cases {
		arr, ok := mustTree(t, c.json).(ArrayNode)
		require.True(t, ok, c.name)
		if c.zero {
			assert.Zero(t, ScoreArray(arr), c.name)
		} else {
			assert.Positive(t, ScoreArray(arr), c.name)
		}
	}
}

func TestScoreArray_FieldsOutweighLength(t *testing.T) {
	rich := mustTree(t, `[{"ethAddress":"0xabcdef012345","positionValue":"1","coin":"BTC","side":"long"}]`).(ArrayNode)
	long := mustTree(t, `[{"name":"a","pnl":1},{"name":"b","pnl":2},{"name":"c","pnl":3}]`).(ArrayNode)

	assert.Greater(t, ScoreArray(rich), ScoreArray(long))
	assert.Equal(t, 4, fieldScore(ScoreArray(rich)))
	assert.Equal(t, 1, fieldScore(ScoreArray(long)))
}

func TestBestArray_PrefersRicherArray(t *testing.T) {
	root := mustTree(t, `{
		"stats": [{"name":"a","pnl":1},{"name":"b","pnl":2},{"name":"c","pnl":3}],
		"board": [{"ethAddress":"0xabcdef012345","positionValue":"7","coin":"ETH","side":"short"}]
	}`)
	sa, ok := bestArray(root)
	require.True(t, ok)
	require.Len(t, sa.arr, 1)

	c := CandidatesFromArray(sa.arr)[0]
	assert.Equal(t, "0xabcdef012345", c.Owner)
	assert.Equal(t, SideShort, c.Side)
	assert.Equal(t, "ETH", c.Symbol)
}

func TestBestArray_None(t *testing.T) {
	_, ok := bestArray(mustTree(t, `{"a":[1,2],"b":{"c":"d"}}`))
	assert.False(t, ok)
}

func TestCandidateFromObject_SignedSize(t *testing.T) {
	obj := mustTree(t, `{"user":"0xabcdef0123456789","positionValue":"100","szi":"-2.5","coin":"SOL-PERP"}`).(ObjectNode)
	c, ok := candidateFromObject(obj)
	require.True(t, ok)

	assert.Equal(t, SideShort, c.Side)
	assert.Equal(t, "SOL", c.Symbol)
	assert.Equal(t, "0xabcdef0123456789", c.Owner)
}

func TestCandidateFromObject_NestedPosition(t *testing.T) {
	obj := mustTree(t, `{"user":"0xabcdef0123456789","position":{"coin":"ETH","positionValue":"2500000"}}`).(ObjectNode)
	c, ok := candidateFromObject(obj)
	require.True(t, ok)

	assert.Equal(t, "2500000", c.AmountText)
	assert.Equal(t, "ETH", c.Symbol)
	assert.Equal(t, "0xabcdef0123456789", c.Owner)
	assert.Equal(t, SideUnknown, c.Side)
}

func TestCandidateFromObject_ZeroAmount(t *testing.T) {
	obj := mustTree(t, `{"name":"a","pnl":"0"}`).(ObjectNode)
	_, ok := candidateFromObject(obj)
	assert.False(t, ok)
}

func TestDecodeTree(t *testing.T) {
	n, err := DecodeTree([]byte(`{"a":[1,"x",null,true]};var y=1`))
	require.NoError(t, err)

	arr := n.(ObjectNode)["a"].(ArrayNode)
	require.Len(t, arr, 4)
	assert.Equal(t, "1", arr[0].(ScalarNode).String())
	assert.Equal(t, "x", arr[1].(ScalarNode).String())
	assert.Equal(t, "", arr[2].(ScalarNode).String())
	assert.Equal(t, "", arr[3].(ScalarNode).String())

	_, err = DecodeTree([]byte(`{broken`))
	assert.Error(t, err)
}

func TestWalk_DepthLimit(t *testing.T) {
	var root Node = ArrayNode{}
	for i := 0; i < 200; i++ {
		root = ArrayNode{root}
	}
	visits := 0
	Walk(root, func(ArrayNode) { visits++ })
	assert.Equal(t, maxWalkDepth+1, visits)
}
