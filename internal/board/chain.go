package board

import (
	"context"
	"fmt"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"hyperboard/internal/metrics"
)

// Chain 按优先级依次尝试各个策略，第一个命中的策略胜出，后面的不再执行
type Chain struct {
	strategies []Strategy
	log        *zap.Logger
}

func NewChain(log *zap.Logger, strategies ...Strategy) *Chain {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Chain{strategies: strategies, log: log}
}

func (c *Chain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Run 返回命中策略的候选记录和策略名；全部落空时返回空切片和空名字。
// 单个策略的错误只在本地记录，不会向上传递
func (c *Chain) Run(ctx context.Context, page Page) ([]RawCandidate, string) {
	var misses error
	for _, s := range c.strategies {
		if ctx.Err() != nil {
			misses = multierr.Append(misses, ctx.Err())
			break
		}

		cands, err := c.try(ctx, s, page)
		if err != nil {
			metrics.StrategyAttempts.WithLabelValues(s.Name(), "error").Inc()
			misses = multierr.Append(misses, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		if n := usableCount(cands); n > 0 {
			metrics.StrategyAttempts.WithLabelValues(s.Name(), "hit").Inc()
			c.log.Debug("strategy hit",
				zap.String("strategy", s.Name()),
				zap.Int("candidates", len(cands)),
				zap.Int("usable", n))
			return cands, s.Name()
		}
		metrics.StrategyAttempts.WithLabelValues(s.Name(), "miss").Inc()
	}

	c.log.Debug("all strategies missed", zap.Errors("errors", multierr.Errors(misses)))
	return nil, ""
}

func (c *Chain) try(ctx context.Context, s Strategy, page Page) (cands []RawCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return s.Extract(ctx, page)
}
