package web

import (
	"context"
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/core/notify/events"
	impl "github.com/scienceol/rockin/pkg/core/sample/sample"
	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/web/views/health"
	"github.com/scienceol/rockin/pkg/web/views/login"
	sampleView "github.com/scienceol/rockin/pkg/web/views/sample"
	wellView "github.com/scienceol/rockin/pkg/web/views/well"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

func NewRouter(ctx context.Context, g *gin.Engine) {
	installMiddleware(g)
	installURL(ctx, g)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installURL(ctx context.Context, g *gin.Engine) {
	api := g.Group("/api")
	api.GET("/health", health.Health)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready)

	{
		l := login.NewLogin()
		authGroup := api.Group("/auth")
		authGroup.GET("/login", l.Login)
		authGroup.GET("/callback", l.Callback)
		authGroup.POST("/refresh", l.Refresh)
	}

	sService := impl.New()
	wHandle := wellView.NewWellHandle(sService)
	sHandle := sampleView.NewSampleHandle(ctx, sService, events.NewEvents())

	v1 := api.Group("/v1", auth.AuthWeb())
	{
		v1.GET("/ws/wells/:well", sHandle.WellFeed)
	}

	{
		wellRouter := v1.Group("/wells")
		wellRouter.POST("", wHandle.CreateWell)
		wellRouter.GET("", wHandle.ListWells)
		wellRouter.GET("/:well/samples/:kind/initial", sHandle.InitialContext)
		wellRouter.POST("/:well/samples/:kind", sHandle.CreateSample)
		wellRouter.GET("/:well/samples/:kind", sHandle.ListSamples)
	}
}
