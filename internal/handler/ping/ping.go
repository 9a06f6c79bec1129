package ping

import (
	"github.com/gin-gonic/gin"
	"net/http"
)

// Ping 存活检查，启动时 server 也会轮询它确认端口已经监听
func Ping() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.String(http.StatusOK, "pong")
	}
}
