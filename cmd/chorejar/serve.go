package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sandeepkv93/chorejar/internal/api"
	"github.com/spf13/cobra"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		addr    string
		origins []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the rewards API over HTTP",
		Long: `Start the JSON API for companion apps.

Examples:
  chorejar serve
  chorejar serve --addr :8787 --origin http://localhost:5173`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.HTTPAddr = addr
			}
			logger := cfg.NewLogger(os.Stderr)
			if cfg.LogLevel != "debug" {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := openApp(ctx, cfg, logger, nil)
			if err != nil {
				return err
			}
			defer a.Close()

			server := api.NewServer(a.svc, api.Options{
				Logger:       logger.With("component", "api"),
				AllowOrigins: origins,
			})
			return server.Run(ctx, cfg.HTTPAddr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().StringSliceVar(&origins, "origin", nil, "allowed CORS origin, repeatable (default any)")
	return cmd
}
