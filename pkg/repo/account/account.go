package account

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/repo"
	"github.com/scienceol/rockin/pkg/repo/model"
)

type accountClient struct {
	client      *resty.Client
	userInfoURL string
}

func New(userInfoURL string) repo.Account {
	return &accountClient{
		client:      resty.New(),
		userInfoURL: userInfoURL,
	}
}

func (a *accountClient) GetUserInfo(ctx context.Context, tokenType string, token string) (*model.UserData, error) {
	resp, err := a.client.R().SetContext(ctx).
		SetAuthScheme(tokenType).
		SetAuthToken(token).
		Get(a.userInfoURL)
	if err != nil {
		logger.Errorf(ctx, "GetUserInfo http err: %+v", err)
		return nil, code.AccountQueryUserErr.WithErr(err)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, code.InvalidToken.WithMsgf("http code: %d", resp.StatusCode())
	}
	result := &model.UserInfo{}
	if err := json.Unmarshal(resp.Body(), result); err != nil || result.Status != "ok" || result.Data == nil {
		return nil, code.InvalidToken
	}
	return result.Data, nil
}
