package board

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

type fakePage struct {
	html     string
	text     string
	captured [][]byte
	htmlErr  error
}

func (p *fakePage) HTML(ctx context.Context) (string, error) {
	return p.html, p.htmlErr
}

func (p *fakePage) VisibleText(ctx context.Context) (string, error) {
	return p.text, nil
}

func (p *fakePage) CapturedJSON() [][]byte {
	return p.captured
}

type fakeSession struct {
	fakePage
	closed atomic.Int32
}

func (s *fakeSession) Close() error {
	s.closed.Add(1)
	return nil
}

type fakeOpener struct {
	err     error
	release chan struct{} // 非 nil 时 Open 阻塞到关闭
	opens   atomic.Int32

	mu       sync.Mutex
	sessions []*fakeSession
	page     fakePage
}

func (o *fakeOpener) Open(ctx context.Context) (Session, error) {
	o.opens.Add(1)
	if o.release != nil {
		select {
		case <-o.release:
		case <-ctx.Done():
			return nil, &SessionError{Stage: StageNavigate, Err: ctx.Err()}
		}
	}
	if o.err != nil {
		return nil, o.err
	}
	s := &fakeSession{fakePage: o.page}
	o.mu.Lock()
	o.sessions = append(o.sessions, s)
	o.mu.Unlock()
	return s, nil
}

func (o *fakeOpener) allClosed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, s := range o.sessions {
		if s.closed.Load() != 1 {
			return false
		}
	}
	return true
}

// stubStrategy 返回固定结果，记录调用次数
type stubStrategy struct {
	name  string
	cands []RawCandidate
	err   error
	panic bool
	block bool // 阻塞直到 ctx 结束
	calls atomic.Int32
}

func (s *stubStrategy) Name() string { return s.name }

func (s *stubStrategy) Extract(ctx context.Context, page Page) ([]RawCandidate, error) {
	s.calls.Add(1)
	if s.panic {
		panic("boom")
	}
	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return s.cands, s.err
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
