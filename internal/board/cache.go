package board

import (
	"sync/atomic"
	"time"
)

// CacheEntry 一次成功结果及其过期时间，整体替换，不做原地修改
type CacheEntry struct {
	Result    *RankedResult
	ExpiresAt time.Time
}

// RankedCache 全局唯一的排行榜缓存槽位。
// 读操作无锁；写操作只由 Service 在抓取锁内进行
type RankedCache struct {
	ttl   time.Duration
	now   func() time.Time
	entry atomic.Pointer[CacheEntry]
}

func NewRankedCache(ttl time.Duration) *RankedCache {
	return &RankedCache{ttl: ttl, now: time.Now}
}

func (c *RankedCache) TTL() time.Duration {
	return c.ttl
}

// Get 返回未过期的结果
func (c *RankedCache) Get() (*RankedResult, bool) {
	e := c.entry.Load()
	if e == nil || !c.now().Before(e.ExpiresAt) {
		return nil, false
	}
	return e.Result, true
}

// Peek 返回最后一次成功的结果，不管是否过期
func (c *RankedCache) Peek() (*CacheEntry, bool) {
	e := c.entry.Load()
	return e, e != nil
}

func (c *RankedCache) store(r *RankedResult) {
	c.entry.Store(&CacheEntry{Result: r, ExpiresAt: c.now().Add(c.ttl)})
}
