// internal/handler/print_handler_test.go
package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printer-service/internal/history"
	"printer-service/internal/model"
	"printer-service/internal/service"
)

// fakeTransport accepts every write and remembers the bytes.
type fakeTransport struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (f *fakeTransport) Write(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buf.Write(data)
	return nil
}

func (f *fakeTransport) Close() {}

func (f *fakeTransport) bytes() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]byte(nil), f.buf.Bytes()...)
}

func newTestRouter(t *testing.T) (*gin.Engine, *fakeTransport, *history.Recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	transport := &fakeTransport{}
	open := func() (service.Transport, error) { return transport, nil }
	svc := service.NewPrinterService(open, service.NewStatusBroadcast(true), nil, zap.NewNop())
	require.NoError(t, svc.Connect(context.Background()))

	recorder := history.Load(filepath.Join(t.TempDir(), "print_log.json"), 10, zap.NewNop())

	router := gin.New()
	h := NewPrintHandler(svc, recorder, zap.NewNop())
	h.RegisterRoutes(router.Group(""))
	return router, transport, recorder
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPrintEndpointExecutesJob(t *testing.T) {
	router, transport, recorder := newTestRouter(t)

	body := `{"commands":[
		{"command":"Writeln","parameters":"Order #7"},
		{"command":"Feed","parameters":true}
	]}`
	w := doJSON(router, http.MethodPost, "/print", body)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsConnected)

	written := transport.bytes()
	assert.True(t, bytes.HasPrefix(written, []byte{0x1B, 0x40}), "job starts with Init")
	assert.True(t, bytes.HasSuffix(written, []byte{0x1D, 0x56, 0x00}), "job ends with a cut")
	assert.True(t, bytes.Contains(written, []byte("Order #7")))

	entries := recorder.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, history.StatusSuccess, entries[0].Status)
	assert.Contains(t, entries[0].Summary, "Order #7")
}

func TestPrintEndpointRejectsMalformedBody(t *testing.T) {
	router, transport, recorder := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/print", `{"commands": [{"command":`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.IsConnected)
	assert.Contains(t, resp.Error, "Invalid input")

	assert.Empty(t, transport.bytes(), "nothing reaches the device")
	assert.Zero(t, recorder.Len(), "malformed requests are not recorded")
}

func TestPrintEndpointRejectsUnknownCommand(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/print",
		`{"commands":[{"command":"Explode","parameters":null}]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReprintEndpointNotRecordedInHistory(t *testing.T) {
	router, transport, recorder := newTestRouter(t)

	body := `{"commands":[
		{"command":"Writeln","parameters":"Order #7"},
		{"command":"PrintCut","parameters":null}
	]}`
	w := doJSON(router, http.MethodPost, "/print/reprint", body)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 3, bytes.Count(transport.bytes(), []byte("REPRINT COPY")))
	assert.Zero(t, recorder.Len())
}

func TestStatusProbeAnswersOKWhenConnected(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/print/test", "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp model.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.IsConnected)
}

func TestTestPrintLine(t *testing.T) {
	router, transport, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/print/test", `{"test_page":false,"test_line":"hello"}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.Contains(transport.bytes(), []byte("hello")))
}

func TestHistoryEndpointReturnsEntries(t *testing.T) {
	router, _, recorder := newTestRouter(t)
	recorder.AddSuccess("old job")

	w := doJSON(router, http.MethodGet, "/print/history", "")

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Entries []history.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Entries, 1)
	assert.Equal(t, "old job", body.Entries[0].Summary)
}
