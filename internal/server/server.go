package server

import (
	"context"
	"errors"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/MKhiriev/go-todo-keeper/internal/config"
	"github.com/MKhiriev/go-todo-keeper/internal/handler"
	"github.com/MKhiriev/go-todo-keeper/internal/logger"
	"github.com/MKhiriev/go-todo-keeper/internal/workers"
)

// Rate limiter buckets untouched for limiterIdle are dropped every
// limiterSweepInterval.
const (
	limiterSweepInterval = time.Minute
	limiterIdle          = 10 * time.Minute
)

type server struct {
	httpServer *httpServer
	workers    *workers.Workers
	logger     *logger.Logger
}

func NewServer(handlers *handler.Handlers, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if handlers == nil || handlers.HTTP == nil || cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handlers.HTTP.Init(), cfg, logger),
		workers: workers.NewWorkers(
			workers.NewSweepWorker("auth-rate-limiter", handlers.HTTP.Limiter(), limiterSweepInterval, limiterIdle, logger),
		),
		logger: logger,
	}, nil
}

func (s *server) RunServer() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	if err := s.Run(ctx); err != nil {
		s.logger.Error().Err(err).Msg("error running server")
	}
}

// Run listens on the configured address and serves until ctx is done, then
// shuts the server down gracefully and waits for the workers to stop.
func (s *server) Run(ctx context.Context) error {
	if s.httpServer == nil {
		return errors.New("no servers to run")
	}

	listener, err := s.httpServer.listen()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.workers.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpServer.serve(listener)
	}()

	s.logger.Info().Msg("Launching HTTP server")

	select {
	case <-ctx.Done():
		s.Shutdown()
		err = <-serveErr
	case err = <-serveErr:
	}

	cancel()
	wg.Wait()

	if err == nil {
		s.logger.Info().Msg("server Shutdown gracefully")
	}
	return err
}

func (s *server) Shutdown() {
	if s.httpServer != nil {
		s.httpServer.Shutdown()
	}
}
