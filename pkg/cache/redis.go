package cache

import (
	"context"
	"github.com/redis/go-redis/v9"
	"hyperboard/conf"
	"hyperboard/pkg/utils"
	"time"
)

var redisClient *redis.Client

// InitRedis 初始化redisClient，连不上时重试几次后返回错误
func InitRedis(ctx context.Context, redisCfg conf.RedisConfig) (*redis.Client, error) {
	rc := redis.NewClient(&redis.Options{
		DB:              redisCfg.Db,
		Addr:            redisCfg.Addr,
		Password:        redisCfg.Password,
		PoolSize:        redisCfg.PoolSize,
		MinIdleConns:    redisCfg.MinIdleConns,
		ConnMaxIdleTime: time.Duration(redisCfg.IdleTimeout) * time.Second,
	})
	err := utils.Retry(ctx, 3, 500*time.Millisecond, true, func() error {
		return rc.Ping(ctx).Err()
	})
	if err != nil {
		_ = rc.Close()
		return nil, err
	}
	redisClient = rc
	return rc, nil
}

func GetRedisClient() *redis.Client {
	if nil == redisClient {
		panic("Please initialize the Redis client first!")
	}
	return redisClient
}

// 关闭redis client
func CloseRedis() {
	if nil != redisClient {
		_ = redisClient.Close()
		redisClient = nil
	}
}
