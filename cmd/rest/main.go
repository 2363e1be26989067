package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"onboarding-buddy-be/internal/bootstrap"
	"onboarding-buddy-be/internal/config"
	"onboarding-buddy-be/internal/server"
	"onboarding-buddy-be/internal/tracer"
	"onboarding-buddy-be/pkg/database"
	"onboarding-buddy-be/pkg/events"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}

	shutdownTracer := tracer.InitTracer(cfg.Otel)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.IsProduction())
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Fatalf("Unable to build container: %v", err)
	}
	sysLogger := container.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Start Background Services
	container.SessionStore.Start(ctx)
	go container.WebSocketHub.Run(ctx)

	if err := container.ConsumerService.Consume(ctx); err != nil {
		sysLogger.Error("MAIN", "Failed to start consumer service", map[string]interface{}{"error": err.Error()})
	}

	if container.NatsSubscriber != nil {
		err := container.NatsSubscriber.Subscribe(ctx,
			events.Subject(events.TrainingMaterialsChanged),
			"onboarding-"+cfg.App.InstanceID,
			container.ConsumerService.HandleRemoteEvent,
		)
		if err != nil {
			sysLogger.Error("MAIN", "Failed to subscribe to material events", map[string]interface{}{"error": err.Error()})
		}
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		if err := srv.Run(); err != nil {
			sysLogger.Error("MAIN", "Server stopped", map[string]interface{}{"error": err.Error()})
			stop()
		}
	}()

	<-ctx.Done()
	sysLogger.Info("MAIN", "Shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		sysLogger.Error("MAIN", "Server shutdown failed", map[string]interface{}{"error": err.Error()})
	}
	container.SessionStore.Stop()
	if container.NatsSubscriber != nil {
		container.NatsSubscriber.Close()
	}
	if container.NatsPublisher != nil {
		container.NatsPublisher.Close()
	}
	_ = sysLogger.Sync()
}
