package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/core/notify/events"
	impl "github.com/scienceol/rockin/pkg/core/sample/sample"
	rgrpc "github.com/scienceol/rockin/pkg/grpc"
	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/middleware/db"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/middleware/redis"
	"github.com/scienceol/rockin/pkg/middleware/trace"
	"github.com/scienceol/rockin/pkg/repo/migrate"
	"github.com/scienceol/rockin/pkg/utils"
	"github.com/scienceol/rockin/pkg/web"
	"github.com/spf13/cobra"
	ggrpc "google.golang.org/grpc"
)

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         "Start the sample registration API server",
		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         newRouter,
		PostRunE:     cleanWebResource,
	}
}

func NewMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Long:         "Run database migrations",
		SilenceUsage: true,
		PreRunE:      initMigrate,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate.Table(cmd.Root().Context())
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.Close(cmd.Context())
			return nil
		},
	}
}

func dbConfig() *db.Config {
	conf := config.Global()
	return &db.Config{
		Driver:       db.Driver(conf.Database.Driver),
		Host:         conf.Database.Host,
		Port:         conf.Database.Port,
		User:         conf.Database.User,
		PW:           conf.Database.Password,
		DBName:       conf.Database.Name,
		DSN:          conf.Database.DSN,
		MaxOpenConns: conf.Database.MaxOpenConns,
		MaxIdleConns: conf.Database.MaxIdleConns,
		LogConf:      db.LogConf{Level: conf.Log.LogLevel},
	}
}

func initMigrate(cmd *cobra.Command, _ []string) error {
	return db.Init(cmd.Context(), dbConfig())
}

func initWeb(cmd *cobra.Command, _ []string) error {
	conf := config.Global()
	trace.InitTrace(cmd.Context(), &trace.InitConfig{
		ServiceName:    fmt.Sprintf("%s-%s", conf.Server.Service, conf.Server.Platform),
		Version:        conf.Trace.Version,
		Env:            conf.Server.Env,
		TraceEndpoint:  conf.Trace.TraceEndpoint,
		MetricEndpoint: conf.Trace.MetricEndpoint,
		Headers:        conf.Trace.Headers,
		Insecure:       conf.Trace.Insecure,
		Stdout:         conf.Trace.Stdout,
	})
	if err := db.Init(cmd.Context(), dbConfig()); err != nil {
		return err
	}
	if !conf.Redis.Enable {
		logger.Infof(cmd.Context(), "redis disabled, scope locks and events stay in process")
		return nil
	}
	return redis.InitRedis(cmd.Context(), &redis.Redis{
		Host:     conf.Redis.Host,
		Port:     conf.Redis.Port,
		Password: conf.Redis.Password,
		DB:       conf.Redis.DB,
	})
}

func newRouter(cmd *cobra.Command, _ []string) error {
	gin.SetMode(utils.Ternary(config.Global().Server.Env == "dev", gin.DebugMode, gin.ReleaseMode))
	router := gin.New()
	router.Use(gin.Recovery())
	web.NewRouter(cmd.Root().Context(), router)
	port := config.Global().Server.Port
	addr := ":" + strconv.Itoa(port)

	httpServer := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	logger.Infof(cmd.Context(), "API Server starting on http://0.0.0.0:%d", port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	var grpcServer *ggrpc.Server
	if grpcPort := config.Global().Server.GrpcPort; grpcPort > 0 {
		s, err := rgrpc.NewServer(cmd.Root().Context(), grpcPort, impl.New(), auth.Verifier())
		if err != nil {
			return err
		}
		grpcServer = s
	}

	<-cmd.Context().Done()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Errorf(ctx, "shut down server err: %+v", err)
	}
	return nil
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	if err := events.NewEvents().Close(cmd.Context()); err != nil {
		logger.Warnf(cmd.Context(), "close events err: %+v", err)
	}
	redis.CloseRedis(cmd.Context())
	db.Close(cmd.Context())
	trace.CloseTrace()
	return nil
}
