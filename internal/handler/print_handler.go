// internal/handler/print_handler.go
package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"printer-service/internal/history"
	"printer-service/internal/model"
	"printer-service/internal/service"
	"printer-service/internal/utils"
)

// maxLoggedBodyBytes bounds how much of a malformed request body lands in
// the log.
const maxLoggedBodyBytes = 2048

// PrintHandler handles print-related HTTP requests
type PrintHandler struct {
	printerService *service.PrinterService
	recorder       *history.Recorder
	logger         *utils.ServiceLogger
}

// NewPrintHandler creates a new print handler
func NewPrintHandler(printerService *service.PrinterService, recorder *history.Recorder, logger *zap.Logger) *PrintHandler {
	return &PrintHandler{
		printerService: printerService,
		recorder:       recorder,
		logger:         utils.NewServiceLogger(logger, "print-handler"),
	}
}

// RegisterRoutes registers print-related routes
func (h *PrintHandler) RegisterRoutes(router *gin.RouterGroup) {
	print := router.Group("/print")
	{
		print.GET("/test", h.Status)
		print.POST("/test", h.TestPrint)
		print.POST("", h.Print)
		print.POST("/reprint", h.Reprint)
		print.GET("/history", h.History)
	}
}

// requestLogger scopes the handler logger to the id assigned by the
// request-id middleware.
func (h *PrintHandler) requestLogger(c *gin.Context) *zap.Logger {
	if id := c.GetString("request_id"); id != "" {
		return utils.LoggerWithRequestID(h.logger.Logger, id)
	}
	return h.logger.Logger
}

// Status probes the printer connection and reports it. The probe itself
// always answers 200; connectivity is carried in the body.
func (h *PrintHandler) Status(c *gin.Context) {
	if h.printerService.CheckConnection() {
		utils.OKResponse(c)
		return
	}
	utils.DisconnectedResponse(c,
		"The thermal printer is either not plugged in, or is in a not ready state.")
}

// TestPrint prints the built-in test page and/or a single test line.
func (h *PrintHandler) TestPrint(c *gin.Context) {
	logger := h.requestLogger(c)

	var req model.PrinterTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Malformed test print request", zap.Error(err))
		utils.InvalidInputResponse(c, "Invalid input: "+err.Error())
		return
	}

	if err := h.printerService.PrintTest(c.Request.Context(), req); err != nil {
		logger.Error("Test print failed", zap.Error(err))
		utils.AppErrorResponse(c, err)
		return
	}

	utils.OKResponse(c)
}

// Print executes a submitted command job. The body is decoded by hand so a
// malformed job can be logged with (a bounded prefix of) the raw payload.
func (h *PrintHandler) Print(c *gin.Context) {
	logger := h.requestLogger(c)

	body, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		utils.InvalidInputResponse(c, "Failed to read request body")
		return
	}

	var commands model.Commands
	if err := json.Unmarshal(body, &commands); err != nil {
		logged := body
		if len(logged) > maxLoggedBodyBytes {
			logged = logged[:maxLoggedBodyBytes]
		}
		logger.Warn("Malformed print request",
			zap.ByteString("body", logged),
			zap.Error(err),
		)
		utils.InvalidInputResponse(c, "Invalid input: "+err.Error())
		return
	}

	summary := model.Summarize(commands.Commands)
	logger.Info("Print request accepted",
		zap.Int("commands", len(commands.Commands)),
		zap.String("summary", summary),
	)

	if err := h.printerService.Execute(c.Request.Context(), commands); err != nil {
		logger.Error("Print failed", zap.Error(err))
		h.recorder.AddError(summary, err.Error())
		utils.AppErrorResponse(c, err)
		return
	}

	h.recorder.AddSuccess(summary)
	utils.OKResponse(c)
}

// Reprint re-issues a previously printed job with anti-fraud markers. Not
// recorded in the print history: a reprint is not a new transaction.
func (h *PrintHandler) Reprint(c *gin.Context) {
	logger := h.requestLogger(c)

	var commands model.Commands
	if err := c.ShouldBindJSON(&commands); err != nil {
		logger.Warn("Malformed reprint request", zap.Error(err))
		utils.InvalidInputResponse(c, "Invalid input: "+err.Error())
		return
	}

	logger.Info("Reprint request accepted", zap.Int("commands", len(commands.Commands)))

	if err := h.printerService.ExecuteReprint(c.Request.Context(), commands); err != nil {
		logger.Error("Reprint failed", zap.Error(err))
		utils.AppErrorResponse(c, err)
		return
	}

	utils.OKResponse(c)
}

// History returns the recorded print jobs, newest first.
func (h *PrintHandler) History(c *gin.Context) {
	entries := h.recorder.Entries()
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
