package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/almanac-dev/almanac/internal/almanacd/calendar"
	"github.com/almanac-dev/almanac/internal/almanacd/config"
	"github.com/almanac-dev/almanac/internal/almanacd/processor"
	"github.com/almanac-dev/almanac/internal/almanacd/transport"
	"github.com/almanac-dev/almanac/internal/common/logtrace"
)

func init() {
	logtrace.InitLogger()
}

type cmdoptions struct {
	configFile string
}

// DefaultConfigFile is the config path used when no flag is given.
const DefaultConfigFile = "/etc/almanac/almanacd.conf"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		log.Error().Err(err).Msg("server failed")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	slog := log.With().Str("state", "init").Logger()

	opt := parseFlags()

	slog.Info().Str("config_file", opt.configFile).Msg("loading config file")
	if err := config.LoadConfig(opt.configFile); err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}

	store := calendar.NewStore()
	proc, perr := processor.New(store)
	if perr != nil {
		return fmt.Errorf("creating processor: %w", perr)
	}

	idleTimeout, err := config.Config().MCP.GetIdleTimeout()
	if err != nil {
		return fmt.Errorf("reading idle timeout: %w", err)
	}
	svc := transport.NewService(proc, transport.Options{
		MaxPending:  config.Config().MCP.MaxPending,
		IdleTimeout: idleTimeout,
	})
	svc.Start(ctx)
	slog.Info().Str("session_id", svc.Session().ID()).Msg("session opened")

	serverErrors, shutdownServer, err := createServer(ctx, svc)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	// Channel to listen for an interrupt or terminate signal from the OS.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		drainService(ctx, svc)
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		slog.Info().Str("signal", sig.String()).Msg("shutdown signal received")
		shutdownServer()
		drainService(ctx, svc)
	}

	slog.Info().Msg("server stopped")
	return nil
}

func createServer(ctx context.Context, svc *transport.Service) (chan error, func(), error) {
	slog := log.With().Str("state", "init").Logger()
	s, err := transport.CreateNewServer(svc)
	if err != nil {
		return nil, nil, fmt.Errorf("creating endpoint: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + config.Config().ServerPort,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info().Str("port", config.Config().ServerPort).Msg("server started")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := func() {
		// Give outstanding requests 5 seconds to complete and initiate the shutdown.
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error().Err(err).Msg("could not stop server gracefully")
			if err := srv.Close(); err != nil {
				slog.Error().Err(err).Msg("could not stop server")
			}
		}
	}

	return serverErrors, shutdown, nil
}

// drainService terminates the session and waits briefly for the processor
// loop to drain.
func drainService(ctx context.Context, svc *transport.Service) {
	drainCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := svc.Shutdown(drainCtx); err != nil {
		log.Error().Err(err).Msg("could not drain session")
	}
}

func parseFlags() cmdoptions {
	var opt cmdoptions
	flag.StringVar(&opt.configFile, "config", DefaultConfigFile, "Path to the config file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [options]\n\n", os.Args[0])
		fmt.Println("Options:")
		flag.PrintDefaults()
	}
	flag.Parse()
	return opt
}
