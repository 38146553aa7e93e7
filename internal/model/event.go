// internal/model/event.go
package model

// SensorEventType tags the kind of failure a sensor event reports.
type SensorEventType string

const (
	SensorUsbError  SensorEventType = "USB_ERROR"
	SensorPrintFail SensorEventType = "PRINT_FAIL"
)

// SensorEvent is an immutable failure fact pushed to the sensor reporter on
// a best-effort channel. Events are dropped when the channel is full;
// telemetry never applies backpressure to printing.
type SensorEvent struct {
	Type   SensorEventType
	Detail string
}

// UsbErrorEvent builds a USB transport failure event.
func UsbErrorEvent(detail string) SensorEvent {
	return SensorEvent{Type: SensorUsbError, Detail: detail}
}

// PrintFailEvent builds a print attempt failure event.
func PrintFailEvent(detail string) SensorEvent {
	return SensorEvent{Type: SensorPrintFail, Detail: detail}
}

// TrySend pushes an event without blocking, dropping it if the channel is
// full or nil.
func TrySend(ch chan<- SensorEvent, ev SensorEvent) {
	if ch == nil {
		return
	}
	select {
	case ch <- ev:
	default:
	}
}
