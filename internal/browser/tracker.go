package browser

import (
	"context"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"hyperboard/internal/board"
	"sort"
	"strings"
	"sync"
	"time"
)

// tracker 根据 CDP 事件记录页面的网络状态，同时负责 JSON 响应的捕获配额
type tracker struct {
	mu         sync.Mutex
	now        func() time.Time
	pending    map[network.RequestID]struct{}
	domReady   bool
	lastActive time.Time

	maxResponses int
	maxBytes     int
	reserved     int                       // 已分配的捕获名额
	jsonSeq      map[network.RequestID]int // 等待加载完成的 JSON 响应 -> 到达顺序
	bodies       map[int][]byte
}

func newTracker(maxResponses, maxBytes int) *tracker {
	return &tracker{
		now:          time.Now,
		pending:      make(map[network.RequestID]struct{}),
		lastActive:   time.Now(),
		maxResponses: maxResponses,
		maxBytes:     maxBytes,
		jsonSeq:      make(map[network.RequestID]int),
		bodies:       make(map[int][]byte),
	}
}

// handle 处理一个事件，返回值 ok=true 表示需要读取该请求的响应体
func (t *tracker) handle(ev interface{}) (id network.RequestID, seq int, ok bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.pending[e.RequestID] = struct{}{}
		t.touch()
	case *network.EventResponseReceived:
		t.touch()
		if e.Response == nil || !strings.Contains(strings.ToLower(e.Response.MimeType), "json") {
			return
		}
		if _, dup := t.jsonSeq[e.RequestID]; !dup && t.reserved < t.maxResponses {
			t.jsonSeq[e.RequestID] = t.reserved
			t.reserved++
		}
	case *network.EventLoadingFinished:
		delete(t.pending, e.RequestID)
		t.touch()
		if s, found := t.jsonSeq[e.RequestID]; found {
			delete(t.jsonSeq, e.RequestID)
			if t.maxBytes <= 0 || int(e.EncodedDataLength) <= t.maxBytes {
				return e.RequestID, s, true
			}
		}
	case *network.EventLoadingFailed:
		delete(t.pending, e.RequestID)
		delete(t.jsonSeq, e.RequestID)
		t.touch()
	case *page.EventDomContentEventFired:
		t.domReady = true
		t.touch()
	}
	return
}

func (t *tracker) touch() {
	t.lastActive = t.now()
}

// store 保存响应体，超过大小上限的丢弃
func (t *tracker) store(seq int, body []byte) {
	if t.maxBytes > 0 && len(body) > t.maxBytes {
		return
	}
	t.mu.Lock()
	t.bodies[seq] = body
	t.mu.Unlock()
}

// captured 按响应到达顺序返回已捕获的响应体
func (t *tracker) captured() [][]byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	seqs := make([]int, 0, len(t.bodies))
	for s := range t.bodies {
		seqs = append(seqs, s)
	}
	sort.Ints(seqs)
	out := make([][]byte, len(seqs))
	for i, s := range seqs {
		out[i] = t.bodies[s]
	}
	return out
}

func (t *tracker) isDomReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.domReady
}

// quiet DOM 已就绪且没有未完成请求时，返回已经静默的时长
func (t *tracker) quiet() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.domReady || len(t.pending) > 0 {
		return 0, false
	}
	return t.now().Sub(t.lastActive), true
}

// settle 等待 DOM 就绪并且网络静默 quiet 时长，最多等待 limit。
// 超时返回 false 但不是错误；ctx 结束返回 settle 阶段错误
func settle(ctx context.Context, t *tracker, quiet, limit time.Duration) (bool, error) {
	deadline := time.NewTimer(limit)
	defer deadline.Stop()

	poll := quiet / 5
	if poll < 10*time.Millisecond {
		poll = 10 * time.Millisecond
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for {
		if idle, ok := t.quiet(); ok && idle >= quiet {
			return true, nil
		}
		select {
		case <-ctx.Done():
			return false, &board.SessionError{Stage: board.StageSettle, Err: ctx.Err()}
		case <-deadline.C:
			return false, nil
		case <-ticker.C:
		}
	}
}
