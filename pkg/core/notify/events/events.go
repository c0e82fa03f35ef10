package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/panjf2000/ants/v2"
	r "github.com/redis/go-redis/v9"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/common/uuid"
	"github.com/scienceol/rockin/pkg/core/notify"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/middleware/redis"
	"github.com/scienceol/rockin/pkg/utils"
)

/*
	使用 redis 的发布订阅实现多进程间广播通信
	未启用 redis 时退化为进程内分发
*/

var (
	once   sync.Once
	center *Events
)

const poolSize = 64

type Events struct {
	actions *haxmap.Map[notify.Action, notify.HandleFunc]
	subs    *haxmap.Map[notify.Action, *r.PubSub]
	client  *r.Client
	pools   *ants.Pool // 订阅消息处理池
	wait    sync.WaitGroup
}

// New builds a message center on client. A nil client keeps delivery in process.
func New(client *r.Client) *Events {
	e := &Events{
		actions: haxmap.New[notify.Action, notify.HandleFunc](),
		subs:    haxmap.New[notify.Action, *r.PubSub](),
		client:  client,
	}
	if client != nil {
		e.pools, _ = ants.NewPool(poolSize, ants.WithExpiryDuration(10*time.Second))
		if e.pools == nil {
			e.pools, _ = ants.NewPool(ants.DefaultAntsPoolSize)
		}
	}
	return e
}

func NewEvents() notify.MsgCenter {
	once.Do(func() {
		center = New(redis.GetClient())
	})

	return center
}

func (e *Events) Registry(ctx context.Context, msgName notify.Action, handleFunc notify.HandleFunc) error {
	if _, loaded := e.actions.GetOrSet(msgName, handleFunc); loaded {
		return code.NotifyActionAlreadyRegistryErr.WithMsg(string(msgName))
	}
	if e.client == nil {
		return nil
	}

	sub := e.client.Subscribe(ctx, string(msgName))
	if _, err := sub.Receive(ctx); err != nil {
		e.actions.Del(msgName)
		_ = sub.Close()
		logger.Errorf(ctx, "subscribe fail msg name: %s, err: %+v", msgName, err)
		return code.NotifySubscribeErr.WithErr(err)
	}
	e.subs.Set(msgName, sub)

	e.wait.Add(1)
	utils.SafelyGo(func() {
		defer e.wait.Done()
		defer e.actions.Del(msgName)

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					logger.Infof(ctx, "exit redis channel name: %s", string(msgName))
					return
				}
				if msg == nil {
					continue
				}
				payload := msg.Payload
				if err := e.pools.Submit(func() {
					if err := handleFunc(ctx, payload); err != nil {
						logger.Errorf(ctx, "handle redis msg fail name: %s, err: %+v", msgName, err)
					}
				}); err != nil {
					logger.Errorf(ctx, "submit redis msg fail name: %s, err: %+v", msgName, err)
				}
			case <-ctx.Done():
				logger.Infof(ctx, "exit redis channel name: %s", string(msgName))
				if err := sub.Unsubscribe(context.Background(), string(msgName)); err != nil {
					logger.Errorf(ctx, "unsubscribe fail msg name: %s, err: %+v", msgName, err)
				}
				return
			}
		}
	}, func(err error) {
		logger.Errorf(ctx, "Registry handle msg err: %+v", err)
	})
	return nil
}

func (e *Events) Broadcast(ctx context.Context, msg *notify.SendMsg) error {
	msg.Timestamp = time.Now().Unix()
	if msg.UUID.IsNil() {
		msg.UUID = uuid.NewV4()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return code.NotifySendMsgErr.WithErr(err)
	}

	if e.client == nil {
		handle, ok := e.actions.Get(msg.Channel)
		if !ok {
			return nil
		}
		if err := handle(ctx, string(data)); err != nil {
			logger.Errorf(ctx, "handle local msg fail name: %s, err: %+v", msg.Channel, err)
			return code.NotifySendMsgErr.WithErr(err)
		}
		return nil
	}

	if err := e.client.Publish(ctx, string(msg.Channel), data).Err(); err != nil {
		logger.Errorf(ctx, "send msg fail action: %s, err: %+v", msg.Channel, err)
		return code.NotifySendMsgErr.WithErr(err)
	}

	return nil
}

func (e *Events) Close(ctx context.Context) error {
	var names []notify.Action
	e.subs.ForEach(func(name notify.Action, sub *r.PubSub) bool {
		if err := sub.Close(); err != nil {
			logger.Warnf(ctx, "close subscription %s err: %+v", name, err)
		}
		names = append(names, name)
		return true
	})
	e.subs.Del(names...)
	e.wait.Wait()
	if e.pools != nil {
		e.pools.Release()
	}
	return nil
}
