package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/rockin/pkg/middleware/logger"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

var redisClient *r.Client

// cmdLogger 以 debug 级别记录 redis 命令
type cmdLogger struct{}

func (cmdLogger) DialHook(next r.DialHook) r.DialHook {
	return next
}

func (cmdLogger) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		if err != nil && err != r.Nil {
			logger.Warnf(ctx, "redis cmd: %s err: %v [%s]", rediscmd.CmdString(cmd), err, time.Since(start))
		} else {
			logger.Debugf(ctx, "redis cmd: %s [%s]", rediscmd.CmdString(cmd), time.Since(start))
		}
		return err
	}
}

func (cmdLogger) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		_, cmdsStr := rediscmd.CmdsString(cmds)
		logger.Debugf(ctx, "redis pipeline: %s", cmdsStr)
		return next(ctx, cmds)
	}
}

func NewClient(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:     net.JoinHostPort(conf.Host, fmt.Sprint(conf.Port)),
		Password: conf.Password,
		DB:       conf.DB,
	})
	client.AddHook(cmdLogger{})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func InitRedis(ctx context.Context, conf *Redis) error {
	client, err := NewClient(ctx, conf)
	if err != nil {
		logger.Errorf(ctx, "init redis fail err: %+v", err)
		return err
	}
	redisClient = client
	return nil
}

// SetClient replaces the global client, nil disables redis backed features.
func SetClient(client *r.Client) {
	redisClient = client
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		_ = redisClient.Close()
		redisClient = nil
	}
}

// GetClient 获取Redis客户端实例
func GetClient() *r.Client {
	return redisClient
}
