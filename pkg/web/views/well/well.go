package well

import (
	"github.com/gin-gonic/gin"
	"github.com/scienceol/rockin/pkg/common"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/sample"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/web/views/reply"
)

type Handle struct {
	sService sample.Service
}

func NewWellHandle(sService sample.Service) *Handle {
	return &Handle{sService: sService}
}

func (h *Handle) CreateWell(ctx *gin.Context) {
	payload := map[string]any{}
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		logger.Errorf(ctx, "parse CreateWell param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.sService.Register(ctx, &sample.RegisterReq{
		Kind:    sample.KindWell,
		Payload: payload,
	})
	if err != nil {
		reply.Err(ctx, err)
		return
	}
	common.ReplyOk(ctx, resp)
}

func (h *Handle) ListWells(ctx *gin.Context) {
	req := &sample.WellListReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "parse ListWells param err: %+v", err.Error())
		common.ReplyErr(ctx, code.ParamErr, err.Error())
		return
	}
	resp, err := h.sService.ListWells(ctx, req)
	common.Reply(ctx, err, resp)
}
