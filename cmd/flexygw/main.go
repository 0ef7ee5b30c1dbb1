package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hemanthpathath/flexy-db/internal/common/logtrace"
	"github.com/hemanthpathath/flexy-db/internal/gateway/config"
	"github.com/hemanthpathath/flexy-db/internal/gateway/server"
)

func init() {
	logtrace.InitLogger()
}

func main() {
	slog := log.With().Str("state", "init").Logger()

	configFile := flag.String("config", "", "Path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := config.LoadConfig(*configFile); err != nil {
		slog.Error().Str("config_file", *configFile).Err(err).Msg("unable to load config file")
		os.Exit(1)
	}
	if config.Config().Server.PrettyLog {
		logtrace.InitPrettyLogger()
	}
	logtrace.SetLogLevel(config.Config().Server.LogLevel)

	s, err := server.CreateNewServer()
	if err != nil {
		slog.Error().Err(err).Msg("unable to create server")
		os.Exit(1)
	}
	s.MountHandlers()

	httpServer := &http.Server{
		Addr:    ":" + config.Config().Server.Port,
		Handler: s.Router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info().Str("port", config.Config().Server.Port).
			Str("backend", config.Config().Backend.Endpoint).Msg("gateway listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error().Err(err).Msg("gateway failed")
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}
