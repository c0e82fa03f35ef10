package login

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/common"
	"github.com/scienceol/rockin/pkg/common/code"
	ls "github.com/scienceol/rockin/pkg/core/login"
	"github.com/scienceol/rockin/pkg/core/login/oauth"
	"github.com/scienceol/rockin/pkg/middleware/logger"
)

type Login struct {
	lService    ls.Service
	frontendURL string
}

func NewLogin() *Login {
	return NewLoginWith(oauth.NewLogin(), config.Global().Server.FrontendURL)
}

func NewLoginWith(lService ls.Service, frontendURL string) *Login {
	return &Login{
		lService:    lService,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (l *Login) Login(ctx *gin.Context) {
	req := &ls.LoginReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "Invalid login request: %v", err)
	}
	resp, err := l.lService.Login(ctx, req)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	ctx.Redirect(http.StatusFound, resp.RedirectURL)
}

func (l *Login) Refresh(ctx *gin.Context) {
	req := &ls.RefreshTokenReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		logger.Errorf(ctx, "Invalid request format: %v", err)
		common.ReplyErr(ctx, code.RefreshTokenParamErr)
		return
	}
	resp, err := l.lService.Refresh(ctx, req)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	common.ReplyOk(ctx, resp)
}

func (l *Login) failed(ctx *gin.Context, reason string) {
	errorURL := fmt.Sprintf("%s/login/callback?error=%s", l.frontendURL, url.QueryEscape(reason))
	ctx.Redirect(http.StatusFound, errorURL)
}

func (l *Login) Callback(ctx *gin.Context) {
	req := &ls.CallbackReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		logger.Errorf(ctx, "callback param err: %+v", err)
		l.failed(ctx, "parameter error")
		return
	}
	resp, err := l.lService.Callback(ctx, req)
	if err != nil {
		logger.Errorf(ctx, "callback service err: %+v", err)
		l.failed(ctx, "login failed")
		return
	}

	isSecure := ctx.Request.TLS != nil || ctx.GetHeader("X-Forwarded-Proto") == "https"
	ctx.SetCookie("access_token", "Bearer "+resp.Token, int(resp.ExpiresIn), "/", "", isSecure, false)
	ctx.SetCookie("refresh_token", resp.RefreshToken, 30*24*60*60, "/", "", isSecure, false)

	if resp.User != nil {
		userInfo := map[string]any{
			"id": resp.User.ID, "name": resp.User.Name,
			"displayName": resp.User.DisplayName, "email": resp.User.Email,
			"avatar": resp.User.Avatar, "type": resp.User.Type,
			"owner": resp.User.Owner, "phone": resp.User.Phone,
		}
		if userJSON, err := json.Marshal(userInfo); err == nil {
			ctx.SetCookie("user_info", base64.URLEncoding.EncodeToString(userJSON), int(resp.ExpiresIn), "/", "", isSecure, false)
		}
	}

	params := url.Values{}
	params.Set("status", "success")
	ctx.Redirect(http.StatusFound, fmt.Sprintf("%s?%s", resp.FrontendCallbackURL, params.Encode()))
}
