package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"hyperboard/internal/handler/board"
	"hyperboard/internal/handler/ping"
	"hyperboard/internal/middleware"
	"time"
)

// 同一 IP 请求同一接口的最小间隔
const duplicateWindow = time.Second

type ApiRouter struct {
	boardHandler *board.Handler
	hub          *board.Hub
}

func NewApiRouter(bh *board.Handler, hub *board.Hub) *ApiRouter {
	return &ApiRouter{boardHandler: bh, hub: hub}
}

func (api *ApiRouter) Load(g *gin.Engine) {
	g.GET("/ping", ping.Ping())
	g.GET("/metrics", gin.WrapH(promhttp.Handler()))

	base := g.Group("/api/v1")

	b := base.Group("/board")
	{
		// 获取前 N 名，缓存过期时同步抓取
		b.GET("/top", middleware.NoCache(), middleware.AntiDuplicate(1024, duplicateWindow), api.boardHandler.TopGet())
		// 只读缓存
		b.GET("/snapshot", middleware.NoCache(), api.boardHandler.SnapshotGet())
		b.GET("/status", middleware.NoCache(), api.boardHandler.StatusGet())
		// 抓取成功后通过websocket推送
		b.GET("/ws", api.hub.ServeWS)
	}
}
