// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/history"
	"printer-service/internal/model"
	"printer-service/internal/routes"
	"printer-service/internal/service"
	"printer-service/internal/transport"
	"printer-service/internal/utils"
)

// sensorEventBuffer bounds the best-effort event queue feeding the sensor
// reporter. A full queue drops events rather than slowing the print path.
const sensorEventBuffer = 64

// Application represents the main application
type Application struct {
	config *config.Config
	logger *zap.Logger
	server *http.Server

	printerService *service.PrinterService
	sensorReporter *service.SensorReporter
	status         *service.StatusBroadcast
	recorder       *history.Recorder
	sensorEvents   chan model.SensorEvent

	// cancels all background loops on shutdown
	cancel context.CancelFunc
}

func main() {
	app, err := NewApplication()
	if err != nil {
		fmt.Printf("Failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := app.Start(); err != nil {
		app.logger.Fatal("Failed to start application", zap.Error(err))
	}
}

// NewApplication creates a new application instance
func NewApplication() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := utils.NewLogger(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Service starting",
		zap.String("name", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	app := &Application{
		config: cfg,
		logger: logger,
	}

	if err := app.initializeServices(); err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	if err := app.initializeServer(); err != nil {
		return nil, fmt.Errorf("failed to initialize server: %w", err)
	}

	return app, nil
}

// initializeServices creates service instances
func (app *Application) initializeServices() error {
	usbCfg, err := app.config.Printer.ResolvedUSB()
	if err != nil {
		return fmt.Errorf("failed to resolve printer config: %w", err)
	}

	app.status = service.NewStatusBroadcast(false)
	app.sensorEvents = make(chan model.SensorEvent, sensorEventBuffer)
	app.recorder = history.Load(app.config.History.Path, app.config.History.MaxEntries, app.logger)

	open := func() (service.Transport, error) {
		t, err := transport.Open(usbCfg, app.logger, app.sensorEvents)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	app.printerService = service.NewPrinterService(open, app.status, app.sensorEvents, app.logger)

	app.sensorReporter = service.NewSensorReporter(
		app.config.Sensor.APIKey,
		app.config.Sensor.ServerURL,
		app.logger,
	)
	if app.sensorReporter == nil {
		app.logger.Info("Sensor reporting disabled (no API key configured)")
	}

	app.logger.Info("Services initialized successfully",
		zap.String("printer", usbCfg.String()),
		zap.String("preset", app.config.Printer.Preset),
	)
	return nil
}

// initializeServer sets up HTTP server and routes
func (app *Application) initializeServer() error {
	routerManager := routes.NewRouter(
		app.config,
		app.logger,
		app.printerService,
		app.status,
		app.recorder,
	)

	router := routerManager.SetupRouter()

	app.server = &http.Server{
		Addr:         app.config.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  app.config.Server.ReadTimeout,
		WriteTimeout: app.config.Server.WriteTimeout,
		IdleTimeout:  app.config.Server.IdleTimeout,
	}

	app.logger.Info("HTTP server initialized",
		zap.String("address", app.config.GetServerAddress()),
	)

	return nil
}

// startBackgroundServices starts background loops
func (app *Application) startBackgroundServices(ctx context.Context) {
	// Initial device connection. Retries inside Connect until a device
	// answers; the HTTP server accepts requests meanwhile and jobs queue on
	// the orchestration lock.
	go func() {
		if err := app.printerService.Connect(ctx); err != nil {
			app.logger.Warn("Initial printer connection aborted", zap.Error(err))
		}
	}()

	go app.startHealthMonitoring(ctx)

	if app.sensorReporter != nil {
		online, cancelSub := app.status.Subscribe()
		go func() {
			defer cancelSub()
			app.sensorReporter.Run(ctx, online, app.sensorEvents)
		}()
	}

	app.logger.Info("Background services started")
}

// startHealthMonitoring probes the printer connection on a fixed interval
func (app *Application) startHealthMonitoring(ctx context.Context) {
	ticker := time.NewTicker(app.config.Health.CheckInterval)
	defer ticker.Stop()

	app.logger.Info("Printer health monitoring started",
		zap.Duration("interval", app.config.Health.CheckInterval),
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			connected := app.printerService.CheckConnection()
			app.logger.Debug("Printer health check", zap.Bool("connected", connected))
		}
	}
}

// waitForShutdown waits for shutdown signal and performs graceful shutdown
func (app *Application) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	app.logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	app.shutdown()
}

// shutdown performs graceful shutdown
func (app *Application) shutdown() {
	// Stop background loops first so no new probe lands on a closing
	// transport.
	if app.cancel != nil {
		app.cancel()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		app.logger.Info("HTTP server stopped")
	}

	app.printerService.Close()
	app.logger.Info("Printer transport released")

	if err := utils.CloseLogger(app.logger); err != nil {
		fmt.Printf("Logger close error: %v\n", err)
	}
}

func (app *Application) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel

	go func() {
		app.logger.Info("Starting HTTP server",
			zap.String("address", app.server.Addr),
		)

		if err := app.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			app.logger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	app.startBackgroundServices(ctx)

	app.waitForShutdown()

	return nil
}
