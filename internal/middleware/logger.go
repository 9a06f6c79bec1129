package middleware

import (
	"github.com/gin-gonic/gin"
	"hyperboard/internal/consts"
	"hyperboard/pkg/logger"
	"time"
)

func Logger(c *gin.Context) {
	// 请求前
	t := time.Now()
	reqPath := c.Request.URL.Path
	reqId := c.GetString(consts.RequestId)

	logger.Info("[Request Start]",
		logger.Pair(consts.RequestId, reqId),
		logger.Pair("host", c.ClientIP()),
		logger.Pair("path", reqPath),
		logger.Pair("query", c.Request.URL.RawQuery),
		logger.Pair("method", c.Request.Method))

	c.Next()
	// 请求后
	logger.Info("[Request End]",
		logger.Pair(consts.RequestId, reqId),
		logger.Pair("path", reqPath),
		logger.Pair("status", c.Writer.Status()),
		logger.Pair("cost", time.Since(t)))
}
