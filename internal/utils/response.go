// internal/utils/response.go
package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"printer-service/internal/model"
)

// OKResponse reports a connected printer and a successful operation.
func OKResponse(c *gin.Context) {
	c.JSON(http.StatusOK, model.StatusOK())
}

// DisconnectedResponse reports an unreachable printer on the status probe.
// The probe itself succeeded, so the status code stays 200.
func DisconnectedResponse(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, model.StatusDisconnected(msg))
}

// AppErrorResponse maps a service failure to its HTTP status class and the
// standard response shape.
func AppErrorResponse(c *gin.Context, err error) {
	appErr := model.AsAppError(err)
	c.JSON(appErr.StatusCode(), model.StatusError(false, appErr.Error()))
}

// InvalidInputResponse reports a malformed request body.
func InvalidInputResponse(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, model.StatusError(false, msg))
}
