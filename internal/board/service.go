package board

import (
	"context"
	"fmt"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"hyperboard/internal/metrics"
	"sync"
	"sync/atomic"
	"time"
)

type Options struct {
	TopLimit    int           // 默认返回条数
	MaxRecords  int           // 缓存保留条数
	HardTimeout time.Duration // 单次抓取总时长上限
}

// Service 排行榜服务：先查缓存，过期后打开页面、运行策略链、排序并更新缓存。
// 同一时间最多只有一个抓取在进行，并发请求共享同一次抓取的结果
type Service struct {
	opener PageOpener
	chain  *Chain
	cache  *RankedCache
	mirror Mirror
	notify []func(*RankedResult)
	opts   Options
	log    *zap.Logger
	now    func() time.Time

	group singleflight.Group
	mu    sync.Mutex // 串行化抓取和缓存写入
	state atomic.Int32
	last  atomic.Int32
}

const flightKey = "board:top"

func NewService(opener PageOpener, chain *Chain, cache *RankedCache, opts Options, log *zap.Logger) *Service {
	if opts.TopLimit <= 0 {
		opts.TopLimit = 20
	}
	if opts.MaxRecords < opts.TopLimit {
		opts.MaxRecords = opts.TopLimit
	}
	if opts.HardTimeout <= 0 {
		opts.HardTimeout = time.Minute
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		opener: opener,
		chain:  chain,
		cache:  cache,
		opts:   opts,
		log:    log,
		now:    time.Now,
	}
}

// SetMirror 在开始服务之前设置
func (s *Service) SetMirror(m Mirror) {
	s.mirror = m
}

// OnUpdate 注册成功结果的回调，在抓取协程中同步调用，回调里不要阻塞。
// 需要在开始服务之前注册
func (s *Service) OnUpdate(fn func(*RankedResult)) {
	s.notify = append(s.notify, fn)
}

// State 当前是否在抓取中（Idle / Fetching）
func (s *Service) State() State {
	return State(s.state.Load())
}

// LastState 最近一次抓取的结果状态，从未抓取过为 Idle
func (s *Service) LastState() State {
	return State(s.last.Load())
}

// GetTop 获取前 limit 名，limit <= 0 时使用默认值。
// 缓存有效时直接返回缓存（包括原始的抓取时间）
func (s *Service) GetTop(ctx context.Context, limit int) Outcome {
	limit = s.limit(limit)
	if r, ok := s.cache.Get(); ok {
		metrics.CacheHits.Inc()
		return Outcome{State: StateSuccess, Result: r.Top(limit), Cached: true}
	}
	return s.await(ctx, false, limit)
}

// Refresh 忽略缓存强制抓取一次
func (s *Service) Refresh(ctx context.Context) Outcome {
	return s.await(ctx, true, s.opts.TopLimit)
}

// Snapshot 只读缓存，不触发抓取；过期的结果也会返回
func (s *Service) Snapshot(limit int) (*RankedResult, bool) {
	e, ok := s.cache.Peek()
	if !ok {
		return nil, false
	}
	return e.Result.Top(s.limit(limit)), true
}

func (s *Service) limit(limit int) int {
	if limit <= 0 {
		return s.opts.TopLimit
	}
	if limit > s.opts.MaxRecords {
		return s.opts.MaxRecords
	}
	return limit
}

func (s *Service) await(ctx context.Context, force bool, limit int) Outcome {
	// 抓取不跟随单个调用方取消，其他等待者还需要这次结果；总时长由 HardTimeout 限制
	fetchCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(flightKey, func() (interface{}, error) {
		return s.fetch(fetchCtx, force), nil
	})

	select {
	case res := <-ch:
		out := res.Val.(Outcome)
		if out.Result != nil {
			out.Result = out.Result.Top(limit)
		}
		return out
	case <-ctx.Done():
		return Outcome{State: StateFailed, Err: fmt.Errorf("waiting for leaderboard fetch: %w", ctx.Err())}
	}
}

func (s *Service) fetch(ctx context.Context, force bool) (out Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// 等锁期间可能已经有别的抓取完成
	if !force {
		if r, ok := s.cache.Get(); ok {
			return Outcome{State: StateSuccess, Result: r, Cached: true}
		}
	}

	s.state.Store(int32(StateFetching))
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{State: StateFailed, Err: fmt.Errorf("leaderboard fetch panic: %v", r)}
		}
		metrics.FetchLatency.Observe(time.Since(start).Seconds())
		metrics.FetchTotal.WithLabelValues(out.State.String()).Inc()
		s.last.Store(int32(out.State))
		s.state.Store(int32(StateIdle))
	}()

	return s.cycle(ctx)
}

func (s *Service) cycle(ctx context.Context) Outcome {
	ctx, cancel := context.WithTimeout(ctx, s.opts.HardTimeout)
	defer cancel()

	sess, err := s.opener.Open(ctx)
	if err != nil {
		return s.failed(err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			s.log.Warn("close page session", zap.Error(err))
		}
	}()

	cands, strategy := s.chain.Run(ctx, sess)
	// 超过总时长的结果一律丢弃
	if err := ctx.Err(); err != nil {
		return s.failed(&SessionError{Stage: StageExtract, Err: fmt.Errorf("%w: %v", ErrHardTimeout, err)})
	}

	records := Rank(cands, s.opts.MaxRecords)
	if len(records) == 0 {
		// 不覆盖之前的缓存
		s.log.Info("leaderboard empty, keep previous cache")
		return Outcome{State: StateEmpty, Err: ErrNoData}
	}

	result := &RankedResult{
		Records:         records,
		FetchedAtMillis: s.now().UnixMilli(),
		Strategy:        strategy,
	}
	s.cache.store(result)
	metrics.Records.Set(float64(len(records)))
	s.log.Info("leaderboard fetched",
		zap.String("strategy", strategy),
		zap.Int("records", len(records)))

	s.publish(ctx, result)
	for _, fn := range s.notify {
		fn(result)
	}
	return Outcome{State: StateSuccess, Result: result}
}

func (s *Service) failed(err error) Outcome {
	stage := StageOf(err)
	if stage != "" {
		metrics.SessionFailures.WithLabelValues(string(stage)).Inc()
	}
	s.log.Error("leaderboard fetch failed", zap.String("stage", string(stage)), zap.Error(err))
	return Outcome{State: StateFailed, Err: err}
}

func (s *Service) publish(ctx context.Context, r *RankedResult) {
	if s.mirror == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.mirror.Publish(ctx, r, s.cache.TTL()); err != nil {
		s.log.Warn("publish leaderboard mirror", zap.Error(err))
	}
}

// StartRefresher 定时刷新缓存，ctx 结束后退出
func (s *Service) StartRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				out := s.Refresh(ctx)
				if out.State != StateSuccess {
					s.log.Warn("scheduled refresh", zap.String("state", out.State.String()), zap.Error(out.Err))
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
