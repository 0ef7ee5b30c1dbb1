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
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/config"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/db"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/graphmanager"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/rpc"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/server"
	"github.com/hemanthpathath/flexy-db/internal/flexysrv/tenantmanager"
)

func init() {
	logtrace.InitLogger()
}

type cmdoptions struct {
	configFile *string
}

func main() {
	slog := log.With().Str("state", "init").Logger()
	opt := parseFlags()

	slog.Info().Str("config_file", *opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(*opt.configFile); err != nil {
		slog.Error().Str("config_file", *opt.configFile).Err(err).Msg("unable to load config file")
		os.Exit(1)
	}
	if config.Config().Server.Port == "" {
		slog.Error().Msg("server port not defined")
		os.Exit(1)
	}
	if config.Config().Server.PrettyLog {
		logtrace.InitPrettyLogger()
	}
	logtrace.SetLogLevel(config.Config().Server.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := db.Init(ctx)
	if err != nil {
		slog.Error().Err(err).Msg("unable to initialize database layer")
		os.Exit(1)
	}
	defer d.Close()

	tenants := tenantmanager.New(d.Store, d.Manager)
	graph := graphmanager.New(d.Manager)
	handler := rpc.NewHandler(tenants, graph)

	s, serr := server.CreateNewServer(handler, d)
	if serr != nil {
		slog.Error().Err(serr).Msg("unable to create server")
		os.Exit(1)
	}
	s.MountHandlers()

	httpServer := &http.Server{
		Addr:    ":" + config.Config().Server.Port,
		Handler: s.Router,
	}

	go func() {
		slog.Info().Str("port", config.Config().Server.Port).Msg("server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error().Err(err).Msg("server failed")
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

func parseFlags() cmdoptions {
	var opt cmdoptions
	opt.configFile = flag.String("config", "", "Path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
