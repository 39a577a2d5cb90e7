package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ROTRMO/Sugeridos-Tienda-Vargas/internal/server/handlers"
)

// maxUploadMemory bounds the multipart form kept in memory per request.
const maxUploadMemory = 32 << 20

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.PlanHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.MaxMultipartMemory = maxUploadMemory
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	plans := r.Group("/api/v1/plans")
	plans.POST("", handler.Upload)
	plans.POST("/export", handler.Export)
	plans.POST("/insights", handler.Insights)
	plans.GET("/sheet", handler.FromSheet)
	plans.GET("/sheet/export", handler.ExportSheet)
	plans.POST("/sheet/publish", handler.PublishSheet)

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
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
