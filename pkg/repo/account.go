package repo

import (
	"context"

	"github.com/scienceol/rockin/pkg/repo/model"
)

type Account interface {
	// GetUserInfo exchanges an access token for the account behind it.
	GetUserInfo(ctx context.Context, tokenType string, token string) (*model.UserData, error)
}
