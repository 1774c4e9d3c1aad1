package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/swasthya-bot/server/internal/agent/broadcast"
	"github.com/swasthya-bot/server/internal/transport/httpserver"
	"github.com/swasthya-bot/server/internal/transport/twilio"
	logx "github.com/swasthya-bot/server/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the WhatsApp webhook server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServer(ctx, config)
	},
}

func runServer(ctx context.Context, cfg AppConfig) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logx.Error().Err(err).Msg("failed to close stores")
		}
	}()

	engine, registry, err := newEngine(ctx, cfg, st)
	if err != nil {
		return err
	}

	// Outbound sending needs Twilio credentials; without them only the
	// webhook reply path is served.
	var broadcaster httpserver.Broadcaster
	if sender, err := twilio.NewSender(cfg.Twilio); err != nil {
		logx.Warn().Err(err).Msg("broadcast endpoint disabled")
	} else {
		broadcaster = broadcast.NewBroadcaster(registry, sender, cfg.HTTP.BroadcastConcurrency)
	}

	var validator *twilio.Validator
	if cfg.Twilio.ValidateSignature {
		validator = twilio.NewValidator(cfg.Twilio.AuthToken, cfg.Twilio.PublicBaseURL)
	}

	srv := httpserver.New(httpserver.Config{
		Addr:           cfg.HTTP.Addr,
		BroadcastToken: cfg.HTTP.BroadcastToken,
		Validator:      validator,
	}, engine, broadcaster)
	return srv.Run(ctx)
}
