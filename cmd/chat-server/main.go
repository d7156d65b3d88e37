package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"chat-session/internal/api"
	"chat-session/internal/api/middleware"
	"chat-session/internal/api/router"
	"chat-session/internal/env"
	"chat-session/internal/logging"
	"chat-session/internal/queue"
	"chat-session/internal/websocket"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chat-server",
	Short: "Single room chat relay",
	RunE:  runServer,
}

var (
	flagAddr     string
	flagOrigins  []string
	flagLogLevel string
	flagPretty   bool
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVar(&flagAddr, "addr", "", "listen address (env "+env.ChatAddr+")")
	flags.StringSliceVar(&flagOrigins, "allowed-origin", nil, "allowed browser origin; repeat or comma-separate (env "+env.ChatAllowedOrigins+")")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level (env "+env.LogLevel+")")
	flags.BoolVar(&flagPretty, "pretty", false, "human readable logs (env "+env.LogPretty+")")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute chat-server command")
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := env.LoadServer()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("addr") {
		cfg.Addr = flagAddr
	}
	if flags.Changed("allowed-origin") {
		cfg.AllowedOrigins = flagOrigins
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if flags.Changed("pretty") {
		cfg.LogPretty = flagPretty
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queueManager := queue.NewRequestQueueManager(cfg.QueueSize, cfg.Workers)

	hub := websocket.NewHub()
	go hub.Run(ctx)
	handler := websocket.NewHandler(hub, cfg.AllowedOrigins)

	server := api.NewAPIServer(api.Config{
		ListenAddr: cfg.Addr,
		Queue:      queueManager,
		Relay:      handler,
		CORS:       middleware.DefaultCORSConfig(cfg.AllowedOrigins),
	},
		router.UtilsRoutes(""),
		router.ChatRoutes(""),
	)

	runErr := server.Run(ctx)

	stop()
	<-hub.Done()
	queueManager.Shutdown()
	log.Info().Msg("[relay] shutdown complete")
	return runErr
}
