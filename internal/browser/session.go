package browser

import (
	"context"
	"errors"
	"fmt"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/fetch"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
	"hyperboard/conf"
	"hyperboard/internal/board"
	"strings"
	"sync"
	"time"
)

// 单次点击表头的等待上限
const clickTimeout = 5 * time.Second

// 被拦截的子资源类型
var blockedTypes = []network.ResourceType{
	network.ResourceTypeImage,
	network.ResourceTypeFont,
	network.ResourceTypeMedia,
}

// Launcher 每次 Open 启动一个独立的无头浏览器并打开排行榜页面
type Launcher struct {
	url string
	cfg conf.BrowserConfig
	log *zap.Logger
}

func NewLauncher(url string, cfg conf.BrowserConfig, log *zap.Logger) *Launcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Launcher{url: url, cfg: cfg, log: log}
}

// PageSession 一个已打开并稳定下来的页面
type PageSession struct {
	ctx     context.Context
	cancel  func()
	tracker *tracker
	log     *zap.Logger

	captures  sync.WaitGroup
	closeOnce sync.Once
}

func (l *Launcher) allocOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(l.cfg.UserAgent),
		chromedp.Flag("headless", !l.cfg.ShowWindow),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.Flag("disable-extensions", true),
		chromedp.DisableGPU,
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.WindowSize(1440, 900),
	)
	if l.cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.cfg.ExecPath))
	}
	return opts
}

// Open 启动浏览器、导航、等待页面稳定；任何阶段失败都会释放浏览器并返回 *board.SessionError
func (l *Launcher) Open(ctx context.Context) (board.Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, l.allocOptions()...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithErrorf(func(format string, args ...interface{}) {
		l.log.Debug("chromedp: " + fmt.Sprintf(format, args...))
	}))

	s := &PageSession{
		ctx:     tabCtx,
		tracker: newTracker(l.cfg.CaptureMaxResponses, l.cfg.CaptureMaxBytes),
		log:     l.log,
	}
	s.cancel = func() {
		tabCancel()
		allocCancel()
	}

	if err := s.launch(l.cfg.BlockResources); err != nil {
		s.Close()
		return nil, &board.SessionError{Stage: board.StageLaunch, Err: err}
	}

	start := time.Now()
	if err := s.navigate(ctx, l.url, l.cfg.NavigateTimeout); err != nil {
		s.Close()
		return nil, &board.SessionError{Stage: board.StageNavigate, Err: err}
	}

	settled, err := settle(ctx, s.tracker, l.cfg.SettleQuiet, l.cfg.SettleMax)
	if err != nil {
		s.Close()
		return nil, err
	}
	if !settled {
		l.log.Warn("page did not settle, extracting anyway",
			zap.String("url", l.url),
			zap.Duration("settle_max", l.cfg.SettleMax))
	}

	if l.cfg.SortHeaderText != "" && l.cfg.SortClicks > 0 {
		s.sortBy(l.cfg.SortHeaderText, l.cfg.SortClicks, l.cfg.SortWait)
	}

	if err := s.waitCaptures(ctx); err != nil {
		s.Close()
		return nil, &board.SessionError{Stage: board.StageSettle, Err: err}
	}
	l.log.Debug("page ready",
		zap.String("url", l.url),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("captured", len(s.tracker.captured())))
	return s, nil
}

func (s *PageSession) launch(block bool) error {
	chromedp.ListenTarget(s.ctx, s.onEvent)

	actions := []chromedp.Action{network.Enable()}
	if block {
		patterns := make([]*fetch.RequestPattern, 0, len(blockedTypes))
		for _, typ := range blockedTypes {
			patterns = append(patterns, &fetch.RequestPattern{
				URLPattern:   "*",
				ResourceType: typ,
				RequestStage: fetch.RequestStageRequest,
			})
		}
		actions = append(actions, fetch.Enable().WithPatterns(patterns))
	}
	return chromedp.Run(s.ctx, actions...)
}

func (s *PageSession) navigate(ctx context.Context, url string, timeout time.Duration) error {
	nctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	err := chromedp.Run(nctx, chromedp.Navigate(url))
	if err == nil {
		return nil
	}
	// load 事件迟迟不来但 DOM 已经可用（长连接、慢资源），继续往下走
	if ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) && s.tracker.isDomReady() {
		s.log.Warn("navigate timed out after DOMContentLoaded, continuing", zap.String("url", url))
		return nil
	}
	return err
}

// sortBy 点击表头文字 clicks 次，失败只记日志
func (s *PageSession) sortBy(text string, clicks int, wait time.Duration) {
	sel := fmt.Sprintf(`(//*[text()[normalize-space(.)=%s]])[1]`, xpathLiteral(text))
	for i := 0; i < clicks; i++ {
		cctx, cancel := context.WithTimeout(s.ctx, clickTimeout)
		err := chromedp.Run(cctx, chromedp.Click(sel, chromedp.BySearch, chromedp.NodeVisible))
		cancel()
		if err != nil {
			s.log.Warn("sort header click failed", zap.String("header", text), zap.Int("click", i+1), zap.Error(err))
			return
		}
	}
	if wait > 0 {
		if err := chromedp.Run(s.ctx, chromedp.Sleep(wait)); err != nil {
			s.log.Warn("wait after sort", zap.Error(err))
		}
	}
}

// xpathLiteral 把任意文本转成 XPath 字符串字面量
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	return `concat("` + strings.Join(parts, `", '"', "`) + `")`
}

func (s *PageSession) onEvent(ev interface{}) {
	if e, ok := ev.(*fetch.EventRequestPaused); ok {
		go s.failRequest(e.RequestID)
		return
	}
	id, seq, ok := s.tracker.handle(ev)
	if !ok {
		return
	}
	// 事件回调里不能阻塞，读取响应体放到单独的 goroutine
	s.captures.Add(1)
	go func() {
		defer s.captures.Done()
		body, err := network.GetResponseBody(id).Do(s.executor())
		if err != nil {
			s.log.Debug("get response body", zap.String("request", string(id)), zap.Error(err))
			return
		}
		s.tracker.store(seq, body)
	}()
}

func (s *PageSession) failRequest(id fetch.RequestID) {
	if err := fetch.FailRequest(id, network.ErrorReasonBlockedByClient).Do(s.executor()); err != nil {
		s.log.Debug("fail blocked request", zap.Error(err))
	}
}

func (s *PageSession) executor() context.Context {
	c := chromedp.FromContext(s.ctx)
	if c == nil || c.Target == nil {
		return s.ctx
	}
	return cdp.WithExecutor(s.ctx, c.Target)
}

// waitCaptures 等待已经开始的响应体读取完成
func (s *PageSession) waitCaptures(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.captures.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run 在页面上执行动作，同时受调用方 ctx 和会话生命周期约束
func (s *PageSession) run(ctx context.Context, actions ...chromedp.Action) error {
	rctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(rctx, actions...)
}

func (s *PageSession) HTML(ctx context.Context) (string, error) {
	var html string
	if err := s.run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page html: %w", err)
	}
	return html, nil
}

func (s *PageSession) VisibleText(ctx context.Context) (string, error) {
	var text string
	err := s.run(ctx, chromedp.Evaluate(`document.body ? document.body.innerText : ""`, &text))
	if err != nil {
		return "", fmt.Errorf("read visible text: %w", err)
	}
	return text, nil
}

func (s *PageSession) CapturedJSON() [][]byte {
	return s.tracker.captured()
}

// Close 关闭标签页和浏览器进程，可重复调用
func (s *PageSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		err = chromedp.Cancel(s.ctx)
		s.cancel()
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			err = nil
		}
	})
	return err
}
