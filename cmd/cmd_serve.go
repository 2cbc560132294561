package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	_ "pool_monitor/docs"
	"pool_monitor/internal/handlers"
	"pool_monitor/internal/logger"
	"pool_monitor/internal/server"
)

const (
	defaultSimTick         = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, alert monitor and (optionally) the simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	log, cfg, services := a.log, a.cfg, a.services

	// subscribed before the simulator or ingest can publish
	monitorDone := services.Monitor.Start(ctx)

	if cfg.Simulator.Enabled {
		tick := cfg.Simulator.Tick
		if tick <= 0 {
			tick = defaultSimTick
		}
		log.Infow("simulator_enabled", "tick", tick)
		go services.Simulator.Run(ctx, tick)
	}

	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		DeviceKey:    cfg.Ingest.DeviceKey,
		IngestRate:   cfg.Ingest.RatePerSecond,
		IngestBurst:  cfg.Ingest.Burst,
		PingInterval: cfg.WS.PingInterval,
	})

	srv := server.New(server.Timeouts{
		ReadHeader: cfg.Server.ReadHeaderTimeout,
		Write:      cfg.Server.WriteTimeout,
		Idle:       cfg.Server.IdleTimeout,
	})
	serveErr := runHTTPServer(srv, cfg.Server.Port, apiHandler, log)

	shutdown := cfg.Server.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = defaultShutdownTimeout
	}
	err = waitForShutdown(cancel, srv, serveErr, shutdown, log)
	<-monitorDone
	return err
}

// runHTTPServer runs the HTTP server in a separate goroutine and reports its exit.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) <-chan error {
	errc := make(chan error, 1)
	go func() {
		if port == "" {
			port = "8080"
		}
		log.Infow("http_listening", "port", port)
		errc <- srv.Run(port, handler.InitRoutes())
	}()
	return errc
}

// waitForShutdown blocks until a termination signal or a server failure, then
// stops background goroutines and drains in-flight requests.
func waitForShutdown(
	cancel context.CancelFunc,
	srv *server.Server,
	serveErr <-chan error,
	timeout time.Duration,
	log *logger.Logger,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case <-quit:
		log.Infow("shutting down server...")
	case runErr = <-serveErr:
		if runErr != nil {
			log.Errorw("error starting server", "err", runErr)
		}
	}

	// stop background goroutines
	cancel()

	// allow in-flight requests to complete
	ctx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
		if runErr == nil {
			runErr = err
		}
	}
	return runErr
}
