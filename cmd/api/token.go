package api

import (
	"fmt"
	"time"

	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/middleware/auth"
	"github.com/scienceol/rockin/pkg/repo/model"
	"github.com/spf13/cobra"
)

// NewToken mints a bearer token for the jwt auth source.
func NewToken() *cobra.Command {
	var (
		userID string
		name   string
		email  string
		ttl    time.Duration
	)
	cmd := &cobra.Command{
		Use:          "token",
		Long:         "Issue an HS256 bearer token signed with AUTH_JWT_SECRET",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf := config.Global().Auth
			token, err := auth.SignToken(conf.JWTSecret, conf.JWTIssuer, &model.UserData{
				ID:    userID,
				Name:  name,
				Email: email,
			}, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id stored as the token subject")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "email")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
