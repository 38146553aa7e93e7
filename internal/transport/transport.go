// internal/transport/transport.go
package transport

import (
	"fmt"
)

// Config selects a physical USB device and, optionally, pins the bulk
// endpoints instead of auto-discovering them. Immutable once constructed.
// When Endpoint is set it names the OUT endpoint; the IN endpoint is always
// derived as Endpoint | 0x80.
type Config struct {
	VendorID  uint16
	ProductID uint16
	Endpoint  *uint8
	Interface *uint8
}

func (c Config) String() string {
	return fmt.Sprintf("VID=0x%04X PID=0x%04X", c.VendorID, c.ProductID)
}

// Error classifies a failure as transport-level. The orchestrator absorbs
// every Error into its reconnect/retry loop; all other error classes surface
// to the caller.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("usb %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("usb %s", e.Op)
}

func (e *Error) Unwrap() error { return e.Err }

func errorf(op, format string, args ...interface{}) *Error {
	return &Error{Op: op, Err: fmt.Errorf(format, args...)}
}

func fmt4x(v uint16) string { return fmt.Sprintf("0x%04X", v) }
func fmt2x(v uint8) string  { return fmt.Sprintf("0x%02X", v) }
