// internal/routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/config"
	"printer-service/internal/handler"
	"printer-service/internal/history"
	"printer-service/internal/middleware"
	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config         *config.Config
	logger         *zap.Logger
	printerService *service.PrinterService
	status         *service.StatusBroadcast
	recorder       *history.Recorder
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	printerService *service.PrinterService,
	status *service.StatusBroadcast,
	recorder *history.Recorder,
) *Router {
	return &Router{
		config:         config,
		logger:         logger,
		printerService: printerService,
		status:         status,
		recorder:       recorder,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	printHandler := handler.NewPrintHandler(r.printerService, r.recorder, r.logger)
	statusWSHandler := handler.NewStatusWSHandler(r.status, r.logger)

	r.addHealthRoutes(router)

	api := router.Group("")
	printHandler.RegisterRoutes(api)

	ws := router.Group("/ws")
	statusWSHandler.RegisterRoutes(ws)

	r.logger.Info("All routes configured successfully")
}

// addHealthRoutes sets up liveness routes
func (r *Router) addHealthRoutes(router *gin.Engine) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":       "alive",
			"service":      r.config.App.Name,
			"version":      r.config.App.Version,
			"is_connected": r.status.Get(),
			"timestamp":    time.Now(),
		})
	})
}
