package auth

import (
	"context"

	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/repo/account"
	"github.com/scienceol/rockin/pkg/repo/model"
)

// TokenFunc resolves a bearer token to its user outside of a gin request.
type TokenFunc func(ctx context.Context, token string) (*model.UserData, error)

// Verifier picks the bearer verification for the configured auth source.
func Verifier() TokenFunc {
	conf := config.Global()
	switch conf.Auth.AuthSource {
	case config.AuthJWT:
		secret, issuer := conf.Auth.JWTSecret, conf.Auth.JWTIssuer
		return func(_ context.Context, token string) (*model.UserData, error) {
			return ParseToken(secret, issuer, token)
		}
	case config.AuthOAuth2:
		client := account.New(conf.OAuth2.UserInfoURL)
		return func(ctx context.Context, token string) (*model.UserData, error) {
			return client.GetUserInfo(ctx, string(AuthTypeBearer), token)
		}
	default:
		return func(context.Context, string) (*model.UserData, error) {
			return nil, code.InvalidToken
		}
	}
}
