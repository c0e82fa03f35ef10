package main

import (
	"log"
	"os"

	"github.com/scienceol/rockin/cmd/api"
	"github.com/scienceol/rockin/internal/config"
	"github.com/scienceol/rockin/pkg/middleware/logger"
	"github.com/scienceol/rockin/pkg/utils"
	"github.com/spf13/cobra"
)

func main() {
	cmd := newRootCommand()
	cmd.SetContext(utils.SetupSignalContext())
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rockin",
		Short:        "Well sample registration service",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			conf, loaded, err := config.Load()
			if err != nil {
				return err
			}
			if !loaded {
				log.Println("rockin: no .env, reading the process environment only")
			}
			setupLogger(conf)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Close()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	cmd.AddCommand(api.NewWeb(), api.NewMigrate(), api.NewToken())
	return cmd
}

func setupLogger(conf *config.GlobalConfig) {
	logger.Init(&logger.LogConfig{
		Path:     conf.Log.LogPath,
		LogLevel: conf.Log.LogLevel,
		ServiceEnv: logger.ServiceEnv{
			Platform: conf.Server.Platform,
			Service:  conf.Server.Service,
			Env:      conf.Server.Env,
		},
	})
}
