package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/common"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/repo"
	"github.com/scienceol/rockin/pkg/repo/account"
	"github.com/scienceol/rockin/pkg/repo/model"
	"github.com/scienceol/rockin/pkg/utils"
)

type AuthType string

const (
	AuthTypeBearer AuthType = "Bearer"
)

type AuthFunc func(ctx *gin.Context, authHeader string) *model.UserData

func AuthWeb() func(ctx *gin.Context) {
	conf := config.Global()
	authFuncMap := map[AuthType]AuthFunc{}

	switch conf.Auth.AuthSource {
	case config.AuthJWT:
		authFuncMap[AuthTypeBearer] = JWTUser(conf.Auth.JWTSecret, conf.Auth.JWTIssuer)
	case config.AuthOAuth2:
		authFuncMap[AuthTypeBearer] = AccountUser(account.New(conf.OAuth2.UserInfoURL))
	default:
		panic("unknown auth source: " + string(conf.Auth.AuthSource))
	}

	return Auth(authFuncMap)
}

func Auth(authFuncMap map[AuthType]AuthFunc) func(ctx *gin.Context) {
	return func(ctx *gin.Context) {
		cookie, _ := ctx.Cookie("access_token")
		authHeader := ctx.GetHeader("Authorization")
		queryToken := ctx.Query("access_token")
		authHeader = utils.Or(cookie, queryToken, authHeader)
		if authHeader == "" {
			abort(ctx, code.UnLogin)
			return
		}
		tokens := strings.Fields(authHeader)
		if len(tokens) != 2 {
			abort(ctx, code.LoginFormatErr)
			return
		}
		var userInfo *model.UserData
		if f, ok := authFuncMap[AuthType(tokens[0])]; ok {
			userInfo = f(ctx, tokens[1])
		}
		if userInfo == nil {
			abort(ctx, code.InvalidToken)
			return
		}
		ctx.Set(USERKEY, userInfo)
		ctx.Next()
	}
}

func abort(ctx *gin.Context, errCode code.ErrCode) {
	ctx.AbortWithStatusJSON(http.StatusUnauthorized, &common.Resp{
		Code:  errCode,
		Error: &common.Error{Msg: errCode.String()},
	})
}

func JWTUser(secret, issuer string) AuthFunc {
	return func(ctx *gin.Context, authHeader string) *model.UserData {
		user, err := ParseToken(secret, issuer, authHeader)
		if err != nil {
			logger.Warnf(ctx, "parse jwt token err: %v", err)
			return nil
		}
		return user
	}
}

func AccountUser(client repo.Account) AuthFunc {
	return func(ctx *gin.Context, authHeader string) *model.UserData {
		user, err := client.GetUserInfo(ctx, string(AuthTypeBearer), authHeader)
		if err != nil {
			logger.Errorf(ctx, "Token validation failed: %v", err)
			return nil
		}
		return user
	}
}
