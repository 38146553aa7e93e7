// internal/service/sensor_reporter.go
package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/model"
)

// Sensor dashboard states.
const (
	SensorStateOnline    = "ONLINE"
	SensorStateOffline   = "OFFLINE"
	SensorStateUsbError  = "USB_ERROR"
	SensorStatePrintFail = "PRINT_FAIL"
)

const (
	heartbeatInterval    = 60 * time.Second
	sensorRequestTimeout = 10 * time.Second
)

// SensorReporter pushes the service's coarse health state to the sensor
// dashboard: a heartbeat on a fixed interval plus an immediate report on
// every state change or failure event. Reports are fire-and-forget; a lost
// heartbeat is acceptable, a blocked print path is not.
type SensorReporter struct {
	client    *http.Client
	apiKey    string
	serverURL string
	logger    *zap.Logger

	mu    sync.Mutex
	state string
}

// NewSensorReporter builds a reporter, or nil when no API key is configured
// (reporting disabled). The dashboard commonly runs with a self-signed
// certificate, so verification is skipped.
func NewSensorReporter(apiKey, serverURL string, logger *zap.Logger) *SensorReporter {
	if apiKey == "" {
		return nil
	}

	keyPrefix := apiKey
	if len(keyPrefix) > 4 {
		keyPrefix = keyPrefix[:4]
	}
	logger.Info("Sensor reporter initialized",
		zap.String("server_url", serverURL),
		zap.String("api_key_prefix", keyPrefix),
	)

	return &SensorReporter{
		client: &http.Client{
			Timeout: sensorRequestTimeout,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		apiKey:    apiKey,
		serverURL: serverURL,
		logger:    logger,
		state:     SensorStateOffline,
	}
}

// State returns the current reported state.
func (r *SensorReporter) State() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *SensorReporter) setState(state string) {
	r.mu.Lock()
	r.state = state
	r.mu.Unlock()
}

// report posts one state value. Failures and non-2xx responses are logged
// and otherwise ignored: the reporter never retries.
func (r *SensorReporter) report(ctx context.Context, value string) {
	url := r.serverURL + "/api/sensors/report"

	body, err := json.Marshal(map[string]string{"value": value})
	if err != nil {
		r.logger.Warn("Sensor report encoding failed", zap.Error(err))
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		r.logger.Warn("Sensor report request failed", zap.Error(err))
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Sensor-Key", r.apiKey)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("Sensor report failed",
			zap.String("value", value),
			zap.Error(err),
		)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Warn("Sensor report returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.String("value", value),
		)
		return
	}
	r.logger.Debug("Sensor report OK", zap.String("value", value))
}

// Run drives the reporter until ctx is cancelled: a 60 s heartbeat with the
// current state, an immediate report when the online broadcast changes and
// an immediate report per failure event. The heartbeat uses a free-running
// ticker so other activity never resets it.
func (r *SensorReporter) Run(ctx context.Context, online <-chan bool, events <-chan model.SensorEvent) {
	r.logger.Info("Sensor reporter starting")

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("Sensor reporter stopping")
			return

		case <-heartbeat.C:
			r.report(ctx, r.State())

		case isOnline, ok := <-online:
			if !ok {
				r.logger.Warn("Online broadcast closed, sensor reporter stopping")
				return
			}
			newState := SensorStateOffline
			if isOnline {
				newState = SensorStateOnline
			}
			if newState != r.State() {
				r.logger.Info("Sensor state change",
					zap.String("from", r.State()),
					zap.String("to", newState),
				)
				r.setState(newState)
				r.report(ctx, newState)
			}

		case ev, ok := <-events:
			if !ok {
				r.logger.Warn("Event channel closed, sensor reporter stopping")
				return
			}
			state := SensorStateUsbError
			if ev.Type == model.SensorPrintFail {
				state = SensorStatePrintFail
			}
			r.logger.Info("Sensor critical event",
				zap.String("state", state),
				zap.String("detail", ev.Detail),
			)
			r.setState(state)
			r.report(ctx, state)
		}
	}
}
