package main

import (
	"context"
	"flag"
	"fmt"
	"github.com/redis/go-redis/v9"
	"hyperboard/cmd/hyperboard"
	"hyperboard/conf"
	"hyperboard/internal/board"
	"hyperboard/internal/middleware"
	"hyperboard/pkg/cache"
	"hyperboard/pkg/logger"
	"log"
	"os"
	"text/tabwriter"
)

// 启动服务

/*
测试

curl "http://localhost:8080/api/v1/board/top?limit=5"
curl "http://localhost:8080/api/v1/board/snapshot"

只抓取一次并打印到终端：

go run ./cmd -once
*/

func main() {
	configPath := flag.String("config", "conf/config.yaml", "config file")
	once := flag.Bool("once", false, "fetch the leaderboard once, print it and exit")
	flag.Parse()

	// 加载配置文件
	err := conf.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	appCfg := &conf.AppConfig
	logger.InitLogger(&appCfg.Log, appCfg.AppName)
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 初始化redis镜像，连不上只影响镜像
	var rc *redis.Client
	if appCfg.Redis.Enabled {
		rc, err = cache.InitRedis(ctx, appCfg.Redis)
		if err != nil {
			logger.Warnf("redis unavailable, mirror disabled: %v", err)
		}
	}

	svc := api.NewBoardService(appCfg, rc)

	if *once {
		code := printOnce(ctx, svc, appCfg.Board.TopLimit)
		cache.CloseRedis()
		logger.Sync()
		os.Exit(code)
	}

	// 后台定时刷新
	svc.StartRefresher(ctx, appCfg.Board.RefreshInterval)

	// 创建并启动服务
	srv := api.NewServer(appCfg)
	srv.RegisterOnShutdown(func() {
		cancel()
		cache.CloseRedis()
	})
	srvRouter := api.InitRouter(svc)

	srv.Run(middleware.NewMiddleware(), srvRouter)
}

func printOnce(ctx context.Context, svc *board.Service, limit int) int {
	out := svc.GetTop(ctx, limit)
	switch out.State {
	case board.StateSuccess:
	case board.StateEmpty:
		fmt.Println("No leaderboard data right now, try again shortly.")
		return 0
	default:
		fmt.Fprintf(os.Stderr, "fetch failed: %v\n", out.Err)
		return 1
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tAddress\tSymbol\tSide\tAmount\n")
	for _, r := range out.Result.Records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", r.Rank, r.Address, r.Symbol, r.Side, r.AmountDisplay)
	}
	_ = w.Flush()
	fmt.Printf("strategy: %s\n", out.Result.Strategy)
	return 0
}
