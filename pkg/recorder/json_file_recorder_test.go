package recorder

import (
	"bufio"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestJSONFileRecorder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history", "board.jsonl")
	r := NewJSONFileRecorder(path)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, r.Record(map[string]int{"n": i}))
		}(i)
	}
	wg.Wait()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	seen := map[int]bool{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var row map[string]int
		require.NoError(t, json.Unmarshal(sc.Bytes(), &row))
		seen[row["n"]] = true
	}
	assert.Len(t, seen, 10)
}
