package auth

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/repo/model"
	"golang.org/x/oauth2"
)

var (
	oauthConfig *oauth2.Config
	oauthOnce   sync.Once
	USERKEY     = "AUTH_USER_KEY"
	LANGUAGE    = "Content-Language"
)

type userCtxKey struct{}

func GetOAuthConfig() *oauth2.Config {
	oauthOnce.Do(func() {
		authConf := config.Global().OAuth2
		oauthConfig = &oauth2.Config{
			ClientID:     authConf.ClientID,
			ClientSecret: authConf.ClientSecret,
			Scopes:       authConf.Scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL: authConf.TokenURL,
				AuthURL:  authConf.AuthURL,
			},
			RedirectURL: authConf.RedirectURL,
		}
	})
	return oauthConfig
}

// WithUser attaches an authenticated user to ctx outside of a gin request.
func WithUser(ctx context.Context, user *model.UserData) context.Context {
	return context.WithValue(ctx, userCtxKey{}, user)
}

func GetCurrentUser(ctx context.Context) *model.UserData {
	if gCtx, ok := ctx.(*gin.Context); ok {
		if user, exists := gCtx.Get(USERKEY); exists {
			ud, _ := user.(*model.UserData)
			return ud
		}
	}
	if ud, ok := ctx.Value(userCtxKey{}).(*model.UserData); ok {
		return ud
	}
	// 经 gin ContextWithFallback 派生的 context
	if ud, ok := ctx.Value(USERKEY).(*model.UserData); ok {
		return ud
	}
	return nil
}

func IsCH(ctx context.Context) bool {
	gCtx, ok := ctx.(*gin.Context)
	if !ok {
		return true
	}
	return gCtx.GetHeader(LANGUAGE) == "zh-CN"
}
