package middleware

import (
	"github.com/gin-gonic/gin"
	"hyperboard/pkg/logger"
	"net/http"
)

// Middleware 全局中间件，作为第一个 Router 加载
type Middleware struct{}

func NewMiddleware() *Middleware {
	return &Middleware{}
}

func (m *Middleware) Load(g *gin.Engine) {
	g.Use(
		gin.CustomRecovery(func(c *gin.Context, err any) {
			logger.Errorf("panic recovered: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
		}),
		RequestId(),
		Logger,
		Options(),
		Secure(),
	)
}
