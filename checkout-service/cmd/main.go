package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/fjod/go_storefront/checkout-service/internal/config"
	"github.com/fjod/go_storefront/checkout-service/internal/health"
	h "github.com/fjod/go_storefront/checkout-service/internal/http"
	"github.com/fjod/go_storefront/checkout-service/internal/metrics"
	"github.com/fjod/go_storefront/checkout-service/internal/processor"
	"github.com/fjod/go_storefront/checkout-service/internal/service"
	"github.com/fjod/go_storefront/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "checkout-service: %v\n", err)
		os.Exit(1)
	}
	log := logger.New("checkout-service", cfg.LogLevel)

	var proc processor.Processor
	switch cfg.Processor {
	case config.ProcessorFake:
		log.Warn("using fake payment processor")
		proc = processor.NewFakeProcessor()
	default:
		proc = processor.NewStripeProcessor(cfg.StripeSecretKey, cfg.StripeAPIVersion)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewServerMetrics(reg, "checkout")

	checkoutService := service.NewCheckoutService(proc, cfg.Currency, cfg.ProcessorTimeout, log)
	checkoutHandler := h.NewCheckoutHandler(checkoutService, m, log)
	router := h.NewRouter(h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		MetricsHandler:     metrics.Handler(reg),
	}, checkoutHandler, m, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	grpcServer, healthServer := health.NewServer()
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		log.Error("failed to listen", "port", cfg.GRPCPort, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("checkout HTTP listening", "port", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		log.Info("checkout health gRPC listening", "port", cfg.GRPCPort)
		health.MarkServing(healthServer)
		if err := grpcServer.Serve(lis); err != nil {
			return fmt.Errorf("grpc server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down checkout service...")
		health.Drain(healthServer)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		grpcServer.GracefulStop()
		return err
	})

	if err := g.Wait(); err != nil {
		log.Error("checkout service stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("checkout service stopped")
}
