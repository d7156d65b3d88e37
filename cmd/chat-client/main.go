package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-session/internal/endpoint"
	"chat-session/internal/env"
	"chat-session/internal/logging"
	"chat-session/internal/session"
	"chat-session/internal/terminal"
	"chat-session/internal/websocket"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "chat-client",
	Short: "Terminal client for the chat relay",
	Long:  "Joins the chat relay as --username. Type a line to send it, /who to list connected users, /quit to leave.",
	RunE:  runClient,
}

var (
	flagUsername    string
	flagDescription string
	flagPageURL     string
	flagWSHost      string
	flagWSPort      string
	flagVariant     string
	flagNoColor     bool
	flagLogLevel    string
	flagMetricsAddr string
)

func init() {
	flags := rootCmd.Flags()
	flags.StringVarP(&flagUsername, "username", "u", "", "name shown to other users")
	flags.StringVarP(&flagDescription, "description", "d", "", "short description, required by the roster variant")
	flags.StringVar(&flagPageURL, "page-url", "", "location of the page hosting the chat (env "+env.ChatPageURL+")")
	flags.StringVar(&flagWSHost, "ws-host", "", "websocket host override (env "+env.WSHost+")")
	flags.StringVar(&flagWSPort, "ws-port", "", "websocket port override (env "+env.WSPort+")")
	flags.StringVar(&flagVariant, "variant", "", "basic or roster (env "+env.ChatVariant+")")
	flags.BoolVar(&flagNoColor, "no-color", false, "disable colored output")
	flags.StringVar(&flagLogLevel, "log-level", "", "log level (env "+env.LogLevel+")")
	flags.StringVar(&flagMetricsAddr, "metrics-addr", "", "optional address serving session metrics")
	_ = rootCmd.MarkFlagRequired("username")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("execute chat-client command")
	}
}

func runClient(cmd *cobra.Command, args []string) error {
	cfg, err := env.LoadClient()
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	variant, err := session.ParseVariant(cfg.Variant)
	if err != nil {
		return err
	}
	loc, err := endpoint.ParseLocation(cfg.PageURL)
	if err != nil {
		return err
	}
	eps := endpoint.Resolve(loc, endpoint.Overrides{Host: cfg.WSHost, Port: cfg.WSPort})

	rosterURL := eps.Roster
	if variant == session.VariantBasic {
		rosterURL += "?format=count"
	}

	reg := prometheus.NewRegistry()
	if flagMetricsAddr != "" {
		go serveMetrics(flagMetricsAddr, reg)
	}

	renderer := terminal.NewRenderer(os.Stdout, !flagNoColor)
	s := session.New(session.Config{
		Variant:  variant,
		URL:      eps.WebSocket,
		Dialer:   websocket.NewDialer(),
		Roster:   session.NewHTTPRosterClient(&http.Client{Timeout: 10 * time.Second}, rosterURL),
		Observer: renderer,
		Metrics:  session.NewMetrics(reg),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := s.Connect(ctx, session.Identity{Username: flagUsername, Description: flagDescription})
	if err != nil {
		return err
	}
	renderer.SetSelf(h.Identity().Username)

	// The relay going away ends the prompt; there is no reconnect.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-h.Done():
			cancel()
		case <-ctx.Done():
		}
	}()

	return terminal.NewPrompt(os.Stdin, s, renderer, h.Identity().Username).Run(ctx)
}

func applyFlags(cmd *cobra.Command, cfg *env.ClientConfig) {
	flags := cmd.Flags()
	if flags.Changed("page-url") {
		cfg.PageURL = flagPageURL
	}
	if flags.Changed("ws-host") {
		cfg.WSHost = flagWSHost
	}
	if flags.Changed("ws-port") {
		cfg.WSPort = flagWSPort
	}
	if flags.Changed("variant") {
		cfg.Variant = flagVariant
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Warn().Err(err).Str("addr", addr).Msg("[client] metrics server stopped")
	}
}
