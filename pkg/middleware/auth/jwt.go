package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/scienceol/rockin/pkg/common/code"
	"github.com/scienceol/rockin/pkg/repo/model"
)

type Claims struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token whose subject is the user id.
func SignToken(secret, issuer string, user *model.UserData, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", code.InvalidToken.WithMsg("empty jwt secret")
	}
	now := time.Now()
	claims := &Claims{
		Name:  user.Name,
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func ParseToken(secret, issuer string, token string) (*model.UserData, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired()}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, code.InvalidToken.WithMsg("token expired")
		}
		return nil, code.InvalidToken.WithErr(err)
	}
	if claims.Subject == "" {
		return nil, code.InvalidToken.WithMsg("missing subject")
	}
	return &model.UserData{
		ID:          claims.Subject,
		Name:        claims.Name,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}, nil
}
