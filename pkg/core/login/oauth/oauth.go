package oauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/core/login"
	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/middleware/redis"
	"github.com/scienceol/rockin/pkg/repo"
	"github.com/scienceol/rockin/pkg/repo/account"
	"golang.org/x/oauth2"
)

const stateTTL = 5 * time.Minute

type oauthState struct {
	Timestamp           int64  `json:"timestamp"`
	FrontendCallbackURL string `json:"frontend_callback_url,omitempty"`
}

type oauthLogin struct {
	states      StateStore
	oauthConfig *oauth2.Config
	account     repo.Account
	frontendURL string
}

func NewLogin() login.Service {
	conf := config.Global()
	var states StateStore
	if client := redis.GetClient(); client != nil {
		states = NewRedisStates(client)
	} else {
		states = NewMemoryStates()
	}
	return NewWith(auth.GetOAuthConfig(), states, account.New(conf.OAuth2.UserInfoURL), conf.Server.FrontendURL)
}

func NewWith(oauthConfig *oauth2.Config, states StateStore, acc repo.Account, frontendURL string) login.Service {
	return &oauthLogin{
		states:      states,
		oauthConfig: oauthConfig,
		account:     acc,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (o *oauthLogin) Login(ctx context.Context, req *login.LoginReq) (*login.Resp, error) {
	stateObj := oauthState{
		Timestamp:           time.Now().UnixNano(),
		FrontendCallbackURL: req.FrontendCallbackURL,
	}
	stateJSON, err := json.Marshal(stateObj)
	if err != nil {
		logger.Errorf(ctx, "Failed to marshal state: %v", err)
		return nil, code.LoginSetStateErr
	}
	state := base64.URLEncoding.EncodeToString(stateJSON)
	if err := o.states.Save(ctx, state, stateTTL); err != nil {
		logger.Errorf(ctx, "Failed to save state: %v", err)
		return nil, code.LoginSetStateErr
	}
	authURL := o.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	return &login.Resp{RedirectURL: authURL}, nil
}

func (o *oauthLogin) Refresh(ctx context.Context, req *login.RefreshTokenReq) (*login.RefreshTokenResp, error) {
	expiredToken := &oauth2.Token{
		RefreshToken: req.RefreshToken,
		Expiry:       time.Now().Add(-1 * time.Hour),
	}
	newToken, err := o.oauthConfig.TokenSource(ctx, expiredToken).Token()
	if err != nil {
		logger.Errorf(ctx, "Failed to refresh token: %v", err)
		return nil, code.RefreshTokenErr
	}
	return &login.RefreshTokenResp{
		AccessToken:  newToken.AccessToken,
		RefreshToken: newToken.RefreshToken,
		ExpiresIn:    expiresIn(newToken),
		TokenType:    newToken.Type(),
	}, nil
}

func (o *oauthLogin) Callback(ctx context.Context, req *login.CallbackReq) (*login.CallbackResp, error) {
	ok, err := o.states.Take(ctx, req.State)
	if err != nil {
		logger.Errorf(ctx, "Failed to load state: %v", err)
		return nil, code.LoginStateErr
	}
	if !ok {
		return nil, code.LoginStateErr
	}

	stateJSON, err := base64.URLEncoding.DecodeString(req.State)
	if err != nil {
		return nil, code.LoginStateErr
	}
	var stateObj oauthState
	if err := json.Unmarshal(stateJSON, &stateObj); err != nil {
		return nil, code.LoginStateErr
	}

	frontendCallbackURL := stateObj.FrontendCallbackURL
	if frontendCallbackURL == "" {
		frontendCallbackURL = o.frontendURL + "/login/callback"
	}

	token, err := o.oauthConfig.Exchange(ctx, req.Code, oauth2.AccessTypeOffline)
	if err != nil {
		logger.Errorf(ctx, "Token exchange failed: %v", err)
		return nil, code.ExchangeTokenErr
	}

	user, err := o.account.GetUserInfo(ctx, token.Type(), token.AccessToken)
	if err != nil {
		logger.Errorf(ctx, "Failed to get user info: %v", err)
		return nil, code.LoginGetUserInfoErr.WithErr(err)
	}

	return &login.CallbackResp{
		User:                user,
		Token:               token.AccessToken,
		RefreshToken:        token.RefreshToken,
		ExpiresIn:           expiresIn(token),
		FrontendCallbackURL: frontendCallbackURL,
	}, nil
}

func expiresIn(t *oauth2.Token) int64 {
	if t.Expiry.IsZero() {
		return 0
	}
	return t.Expiry.Unix() - time.Now().Unix()
}
