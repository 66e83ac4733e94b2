package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/mark47B/campground-availability/app/config"
	"github.com/mark47B/campground-availability/app/infrastructure/metrics"
	"github.com/mark47B/campground-availability/app/infrastructure/provider"
	"github.com/mark47B/campground-availability/app/infrastructure/telemetry"
	"github.com/mark47B/campground-availability/app/infrastructure/transport"
	"github.com/mark47B/campground-availability/app/usecase"
)

const serviceName = "campground-availability"

func main() {
	log.SetPrefix("[CAMPAVAIL] ")

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("load .env: %v", err)
	}

	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("server failed: %v", err)
	}
	log.Println("server stopped")
}

func run(cfg config.Config) error {
	mainCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownTracing, err := telemetry.Setup(mainCtx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	// Infra
	recgov := provider.NewRecGovClient(cfg.Provider.BaseURL, cfg.Provider.Timeout, cfg.Provider.UserAgent)

	// UseCases
	svc := &usecase.AvailabilityService{
		Provider:        recgov,
		CampsiteWorkers: cfg.Provider.CampsiteWorkers,
	}

	g, gctx := errgroup.WithContext(mainCtx)

	// Metrics
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return metrics.StartMetricsServer(gctx, cfg.MetricsAddr)
		})
	}

	// gRPC
	if cfg.GRPCAddr != "" {
		grpcServer := transport.NewgRPCServer(svc)
		g.Go(func() error {
			return transport.StartgRPCServer(gctx, cfg.GRPCAddr, grpcServer)
		})
	}

	// HTTP
	if cfg.HTTPAddr != "" {
		httpServer := transport.NewHTTPServer(svc)
		g.Go(func() error {
			return transport.StartHTTPServer(gctx, cfg.HTTPAddr, httpServer)
		})
	}

	return g.Wait()
}
