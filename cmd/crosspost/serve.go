package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gauthierbraillon/crosspost/internal/crosspost"
	"github.com/gauthierbraillon/crosspost/internal/server"
	"github.com/gauthierbraillon/crosspost/internal/telemetry"
)

// newServeCmd runs the JSON API used by the web composer.
func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = a.cfg.ListenAddr
			}

			stop, err := a.startTelemetry(ctx)
			if err != nil {
				return err
			}
			defer stop()

			metrics, err := telemetry.NewMetrics()
			if err != nil {
				return err
			}

			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			logger := zerolog.New(os.Stdout).Level(a.log.GetLevel()).With().Timestamp().Logger()
			ig := a.instagramClient()
			li := a.linkedinClient()

			srv := server.New(server.Deps{
				LinkedIn:  li,
				Facebook:  ig,
				Publisher: crosspost.NewPublisher(li, ig, crosspost.WithMetrics(metrics)),
				Config:    a.cfg,
				Logger:    logger,
			})
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from CROSSPOST_LISTEN_ADDR)")
	return cmd
}
