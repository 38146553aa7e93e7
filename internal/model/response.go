// internal/model/response.go
package model

// StatusResponse is the wire shape returned by all print endpoints and the
// status probe: a connectivity boolean plus an optional error message.
type StatusResponse struct {
	IsConnected bool   `json:"is_connected"`
	Error       string `json:"error,omitempty"`
}

// StatusOK reports a connected printer and a successful operation.
func StatusOK() StatusResponse {
	return StatusResponse{IsConnected: true}
}

// StatusDisconnected reports an unreachable printer.
func StatusDisconnected(msg string) StatusResponse {
	return StatusResponse{IsConnected: false, Error: msg}
}

// StatusError reports a failed operation with the given connectivity.
func StatusError(isConnected bool, msg string) StatusResponse {
	return StatusResponse{IsConnected: isConnected, Error: msg}
}
