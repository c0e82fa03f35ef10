package sample

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/scienceol/rockin/pkg/common"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/notify"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/web/views/reply"
)

const (
	maxMessageSize = 4 << 10
	wellUUIDKey    = "well_uuid"
)

type Handle struct {
	sService sample.Service
	wsClient *melody.Melody
}

// NewSampleHandle relays sample-registered events from center to websocket sessions of the same well.
func NewSampleHandle(ctx context.Context, sService sample.Service, center notify.MsgCenter) *Handle {
	wsClient := melody.New()
	wsClient.Config.MaxMessageSize = maxMessageSize

	h := &Handle{
		sService: sService,
		wsClient: wsClient,
	}
	h.initWellWebSocket()
	if center != nil {
		if err := center.Registry(ctx, notify.SampleRegistered, h.relay); err != nil {
			logger.Errorf(ctx, "registry %s handler err: %+v", notify.SampleRegistered, err)
		}
	}
	return h
}

func kindParam(ctx *gin.Context) (sample.Kind, bool) {
	kind, err := sample.ParseKind(ctx.Param("kind"))
	if err != nil || kind == sample.KindWell {
		common.ReplyErr(ctx, code.UnknownSampleKindErr, ctx.Param("kind"))
		return "", false
	}
	return kind, true
}

func (h *Handle) InitialContext(ctx *gin.Context) {
	kind, ok := kindParam(ctx)
	if !ok {
		return
	}
	known := map[string]any{}
	for key, values := range ctx.Request.URL.Query() {
		if len(values) > 0 {
			known[key] = values[0]
		}
	}
	resp, err := h.sService.InitialContext(ctx, &sample.InitialContextReq{
		Kind:  kind,
		Well:  ctx.Param("well"),
		Known: known,
	})
	if err != nil {
		reply.Err(ctx, err)
		return
	}
	common.ReplyOk(ctx, resp)
}

func (h *Handle) CreateSample(ctx *gin.Context) {
	kind, ok := kindParam(ctx)
	if !ok {
		return
	}
	payload := map[string]any{}
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf(ctx, "parse CreateSample param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.sService.Register(ctx, &sample.RegisterReq{
		Kind:    kind,
		Well:    ctx.Param("well"),
		Payload: payload,
	})
	if err != nil {
		logger.Infof(ctx, "register %s rejected: %v", kind, err)
		reply.Err(ctx, err)
		return
	}
	common.ReplyOk(ctx, resp)
}

func (h *Handle) ListSamples(ctx *gin.Context) {
	kind, ok := kindParam(ctx)
	if !ok {
		return
	}
	req := &sample.SampleListReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse ListSamples param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	req.Kind = kind
	req.Well = ctx.Param("well")
	resp, err := h.sService.ListSamples(ctx, req)
	common.Reply(ctx, err, resp)
}

func (h *Handle) WellFeed(ctx *gin.Context) {
	well, err := h.sService.GetWell(ctx, ctx.Param("well"))
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}

	if err := h.wsClient.HandleRequestWithKeys(ctx.Writer, ctx.Request, map[string]any{
		auth.USERKEY: auth.GetCurrentUser(ctx),
		"ctx":        ctx,
		wellUUIDKey:  well.UUID.String(),
	}); err != nil {
		logger.Errorf(ctx, "WellFeed HandleRequestWithKeys err: %+v", err)
	}
}

func (h *Handle) relay(ctx context.Context, msg string) error {
	data := &notify.SendMsg{}
	if err := json.Unmarshal([]byte(msg), data); err != nil {
		return code.UnmarshalWSDataErr.WithErr(err)
	}
	well := data.WellUUID.String()
	return h.wsClient.BroadcastFilter([]byte(msg), func(s *melody.Session) bool {
		v, ok := s.Get(wellUUIDKey)
		return ok && v == well
	})
}

func (h *Handle) Close() error {
	return h.wsClient.Close()
}

func (h *Handle) initWellWebSocket() {
	h.wsClient.HandleConnect(func(s *melody.Session) {
		if ctx, ok := s.Get("ctx"); ok {
			logger.Infof(ctx.(context.Context), "well ws connect keys: %+v", s.Keys)
		}
	})

	h.wsClient.HandleDisconnect(func(s *melody.Session) {
		if ctx, ok := s.Get("ctx"); ok {
			logger.Infof(ctx.(context.Context), "well ws disconnected keys: %+v", s.Keys)
		}
	})

	h.wsClient.HandleError(func(s *melody.Session, err error) {
		if errors.Is(err, melody.ErrMessageBufferFull) {
			return
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseGoingAway {
			return
		}
		if ctx, ok := s.Get("ctx"); ok {
			logger.Errorf(ctx.(context.Context), "well ws error keys: %+v, err: %+v", s.Keys, err)
		}
	})

	// 只推送, 忽略客户端消息
	h.wsClient.HandleMessage(func(*melody.Session, []byte) {})
}
