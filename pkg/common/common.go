package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/rockin/pkg/common/code"
)

type Error struct {
	Msg    string              `json:"msg"`
	Info   []string            `json:"info,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

type Resp struct {
	Code  code.ErrCode `json:"code"`
	Data  any          `json:"data,omitempty"`
	Error *Error       `json:"error,omitempty"`
}

type PageReq struct {
	Page     int `json:"page" form:"page"`
	PageSize int `json:"page_size" form:"page_size"`
}

func (p *PageReq) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 || p.PageSize > 100 {
		p.PageSize = 20
	}
}

func (p *PageReq) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type PageResp[T any] struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Data     []T   `json:"data"`
}

// FieldError is implemented by errors that can be attributed to payload fields.
type FieldError interface {
	error
	FieldMessages() map[string][]string
}

func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	ReplyOk(ctx, data...)
}

func ReplyOk(ctx *gin.Context, data ...any) {
	resp := &Resp{Code: code.Success}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}

func ReplyErr(ctx *gin.Context, err error, msgs ...string) {
	ReplyErrWithData(ctx, err, nil, msgs...)
}

func ReplyErrWithData(ctx *gin.Context, err error, data any, msgs ...string) {
	c := code.FromErr(err)
	resp := &Resp{
		Code:  c,
		Data:  data,
		Error: &Error{Msg: c.String(), Info: msgs},
	}

	var codeErr *code.Error
	if errors.As(err, &codeErr) && codeErr.Msg != "" {
		resp.Error.Info = append([]string{codeErr.Msg}, resp.Error.Info...)
	}
	var fieldErr FieldError
	if errors.As(err, &fieldErr) {
		resp.Error.Fields = fieldErr.FieldMessages()
	}
	ctx.JSON(c.HTTPStatus(), resp)
}
