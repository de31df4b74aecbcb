package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gridSheet/contracts"
	"log/slog"
	"net/http"
	"time"
)

const ApiVersion = "v1"

const subscribePath = "subscribe"
const dependantsPath = "dependants"

const TraceIdHeader = "X-Trace-Id"
const traceIdContextKey = "trace_id"

func SetupRouter(controller contracts.ApiController, logger *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), TraceMiddleware(logger))

	apiRouterGroup := router.Group("/api/" + ApiVersion)
	apiRouterGroup.POST("/:sheet_id/:cell_id/"+subscribePath, controller.SubscribeAction)
	apiRouterGroup.GET("/:sheet_id/:cell_id/"+dependantsPath, controller.GetDependantsAction)

	apiRouterGroup.POST("/:sheet_id/:cell_id", controller.SetCellAction)
	apiRouterGroup.GET("/:sheet_id/:cell_id", controller.GetCellAction)
	apiRouterGroup.GET("/:sheet_id", controller.GetSheetAction)
	apiRouterGroup.PUT("/:sheet_id", controller.ImportSheetAction)

	router.GET("/healthcheck", func(c *gin.Context) {
		c.String(http.StatusOK, "health")
	})

	return router
}

// TraceMiddleware tags every request with a trace id, echoed in the response
// header and attached to the request log record.
func TraceMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceId := c.GetHeader(TraceIdHeader)
		if _, err := uuid.Parse(traceId); err != nil {
			traceId = uuid.NewString()
		}

		c.Set(traceIdContextKey, traceId)
		c.Header(TraceIdHeader, traceId)

		start := time.Now()
		c.Next()

		logger.Debug("request",
			slog.String("trace_id", traceId),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("latency", time.Since(start)),
		)
	}
}
