package board

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestRankedCache_Expiry(t *testing.T) {
	clock := newFakeClock()
	c := NewRankedCache(time.Minute)
	c.now = clock.Now

	_, ok := c.Get()
	assert.False(t, ok)
	_, ok = c.Peek()
	assert.False(t, ok)

	r := &RankedResult{FetchedAtMillis: 1}
	c.store(r)

	got, ok := c.Get()
	assert.True(t, ok)
	assert.Same(t, r, got)

	clock.Advance(59 * time.Second)
	_, ok = c.Get()
	assert.True(t, ok)

	clock.Advance(time.Second)
	_, ok = c.Get()
	assert.False(t, ok)

	e, ok := c.Peek()
	assert.True(t, ok)
	assert.Same(t, r, e.Result)
	assert.Equal(t, time.Minute, c.TTL())
}
