package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"nigraan/internal/config"
	"nigraan/internal/controllers"
	"nigraan/internal/metrics"
	"nigraan/internal/middleware"
	"nigraan/internal/routes"
	"nigraan/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	registry := prometheus.NewRegistry()
	if err := metrics.Register(registry); err != nil {
		log.Fatalf("metrics: %v", err)
	}

	// Wire the telemetry pipeline
	sink := services.NewInfluxSink(cfg.Influx)
	var alertSink services.AlertSink
	if sink != nil {
		alertSink = sink
	}

	simulator := services.NewSimulator(cfg.Sensors)
	history := services.NewHistoryService(
		cfg.Telemetry.HistoryCapacity,
		cfg.Telemetry.HistoryMargin,
		cfg.Telemetry.SampleEvery,
	)
	safety := services.NewSafetyService(cfg.Sensors, alertSink)
	hub := services.NewHub()
	auth := services.NewAuthService(cfg.Auth.Secret, cfg.Auth.TokenExpiry)

	scheduler := services.NewScheduler(simulator, history, safety, hub)
	scheduler.Start(cfg.Telemetry.TickInterval)

	// HTTP surface
	r := gin.Default()
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORSMiddleware(cfg.Server.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(middleware.NewRateLimiter()))

	routes.RegisterSensorRoutes(r, controllers.NewSensorsController(history, cfg.Sensors))
	routes.RegisterSafetyRoutes(r, controllers.NewSafetyController(safety))
	routes.RegisterAuthRoutes(r, controllers.NewWebSocketController(hub, auth))
	routes.RegisterSystemRoutes(r, registry)

	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	go func() {
		log.Printf("listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	scheduler.Stop()
	if sink != nil {
		sink.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("stopped")
}
