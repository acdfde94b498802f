package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/estoque-admin/internal/metrics"
	"github.com/mamadbah2/estoque-admin/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.EditorHandler, m *metrics.Metrics, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	entries := r.Group("/editor/entries")
	entries.POST("", handler.Open)
	entries.GET("/:sid", handler.View)
	entries.DELETE("/:sid", handler.Discard)
	entries.PATCH("/:sid/header", handler.SetHeader)
	entries.POST("/:sid/rows", handler.AddRow)
	entries.PATCH("/:sid/rows/:key", handler.ChangeRow)
	entries.DELETE("/:sid/rows/:key", handler.RemoveRow)
	entries.POST("/:sid/submit", handler.Submit)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if m != nil {
		r.GET("/metrics", gin.WrapH(m.Handler()))
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
