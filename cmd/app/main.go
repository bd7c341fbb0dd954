package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"orderservice/cmd"
	"orderservice/internal/adapters/out/postgres"
	"orderservice/internal/pkg/telemetry"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const serviceName = "order-service"

func main() {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	configs, err := cmd.LoadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := telemetry.NewLogger(configs.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err = run(configs, logger); err != nil {
		logger.Fatal("order service stopped with error", zap.Error(err))
	}
}

func run(configs cmd.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, serviceName, configs.OtelEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := shutdownTracing(flushCtx); shutdownErr != nil {
			logger.Warn("failed to flush traces", zap.Error(shutdownErr))
		}
	}()

	gormDB, err := gorm.Open(gorm_postgres.Open(configs.PostgresDSN()), &gorm.Config{})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Warn("failed to close connections", zap.Error(closeErr))
		}
	}()

	jobManager, err := app.CreateJobManager()
	if err != nil {
		return err
	}
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	g, gCtx := errgroup.WithContext(ctx)

	for _, consumer := range app.CreateConsumers() {
		g.Go(func() error {
			return consumer.Run(gCtx)
		})
	}

	e := newWebServer(app)
	g.Go(func() error {
		if startErr := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)); !errors.Is(startErr, http.ErrServerClosed) {
			return startErr
		}
		return nil
	})
	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	logger.Info("order service started", zap.String("port", configs.HTTPPort), zap.String("sync_mode", configs.SyncMode))
	return g.Wait()
}

func newWebServer(app *cmd.CompositionRoot) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.Recover())

	app.CreateHTTPServer().Register(e)
	return e
}
