package handler

import (
	"github.com/gin-gonic/gin"

	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

// NewRouter wires the status API
//
//	GET /                 index
//	GET /health           liveness
//	GET /state            strategy status
//	GET /state/:symbol    net position of one symbol
func NewRouter(service string, provider StatusProvider, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	health := NewHealthHandler(service)
	state := NewStateHandler(provider)

	router.GET("/", health.Index)
	router.GET("/health", health.Check)
	router.GET("/state", state.Get)
	router.GET("/state/:symbol", state.Position)

	return router
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Debug("HTTP request", map[string]any{
			"method": c.Request.Method,
			"path":   c.FullPath(),
			"status": c.Writer.Status(),
		})
	}
}
