package board

import (
	"context"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"time"
)

// Mirror 成功结果的外部镜像，供其他进程读取；失败只记日志，不影响主流程
type Mirror interface {
	Publish(ctx context.Context, r *RankedResult, ttl time.Duration) error
}

type RedisMirror struct {
	rc  redis.Cmdable
	key string
}

func NewRedisMirror(rc redis.Cmdable, key string) *RedisMirror {
	return &RedisMirror{rc: rc, key: key}
}

func (m *RedisMirror) Publish(ctx context.Context, r *RankedResult, ttl time.Duration) error {
	bytes, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return m.rc.Set(ctx, m.key, bytes, ttl).Err()
}

// Latest 读取镜像中的最新结果，不存在时返回 nil
func (m *RedisMirror) Latest(ctx context.Context) (*RankedResult, error) {
	bytes, err := m.rc.Get(ctx, m.key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var res RankedResult
	if err := json.Unmarshal(bytes, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
