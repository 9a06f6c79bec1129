package api

import (
	"github.com/redis/go-redis/v9"
	"hyperboard/conf"
	"hyperboard/internal/board"
	"hyperboard/internal/browser"
	boardHandler "hyperboard/internal/handler/board"
	"hyperboard/internal/router"
	"hyperboard/pkg/logger"
	"hyperboard/pkg/recorder"
)

// NewBoardService 组装浏览器、策略链、缓存和镜像；rc 为 nil 时不写 redis 镜像
func NewBoardService(cfg *conf.Config, rc *redis.Client) *board.Service {
	log := logger.L()

	launcher := browser.NewLauncher(cfg.Board.URL, cfg.Browser, log.Named("browser"))
	chain := board.NewChain(log.Named("chain"), board.DefaultStrategies()...)
	cache := board.NewRankedCache(cfg.Board.CacheTTL)

	svc := board.NewService(launcher, chain, cache, board.Options{
		TopLimit:    cfg.Board.TopLimit,
		MaxRecords:  cfg.Board.MaxRecords,
		HardTimeout: cfg.Browser.HardTimeout,
	}, log.Named("board"))

	if rc != nil {
		svc.SetMirror(board.NewRedisMirror(rc, cfg.Redis.Key))
	}
	if cfg.Board.HistoryFile != "" {
		history := recorder.NewJSONFileRecorder(cfg.Board.HistoryFile)
		svc.OnUpdate(func(r *board.RankedResult) {
			if err := history.Record(r); err != nil {
				logger.Warnf("record board history: %v", err)
			}
		})
	}
	return svc
}

func InitRouter(svc *board.Service) Router {
	hub := boardHandler.NewHub(svc)
	// 每次抓取成功推送给 websocket 客户端
	svc.OnUpdate(hub.Broadcast)

	return router.NewApiRouter(boardHandler.NewHandler(svc), hub)
}
