// internal/transport/usb.go
package transport

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	"printer-service/internal/driver/escpos"
	"printer-service/internal/model"
)

const (
	// ioTimeout bounds every bulk transfer. A write that has not completed
	// within it is treated as a transport failure.
	ioTimeout = 5 * time.Second

	// USB resource release after a previous session can lag, so claiming
	// the interface is retried.
	claimAttempts = 5
	claimDelay    = 100 * time.Millisecond
)

// USBTransport owns one open device connection: the negotiated endpoint
// addresses, the claimed interface and the I/O timeout. Exactly one live
// transport exists per service instance; the orchestrator shares it for
// reads and replaces it wholesale on reconnect. Raw reads and writes are
// serialized by an internal lock independent of the orchestration mutex.
type USBTransport struct {
	cfg     Config
	usbCtx  *gousb.Context
	dev     *gousb.Device
	usbCfg  *gousb.Config
	intf    *gousb.Interface
	out     bulkWriter
	in      bulkReader
	outAddr uint8
	inAddr  uint8
	intfNum int
	timeout time.Duration

	ioMu   sync.Mutex
	logger *zap.Logger
	events chan<- model.SensorEvent
}

// bulkWriter and bulkReader are satisfied by gousb endpoints and by test
// fakes.
type bulkWriter interface {
	WriteContext(ctx context.Context, buf []byte) (int, error)
}

type bulkReader interface {
	ReadContext(ctx context.Context, buf []byte) (int, error)
}

// Open enumerates attached USB devices, opens the first VID/PID match,
// resolves its bulk endpoints, claims the interface and clears any stale
// halt condition on the output endpoint. It fails with a transport error
// when no device matches or no suitable endpoint/interface exists.
func Open(cfg Config, logger *zap.Logger, events chan<- model.SensorEvent) (*USBTransport, error) {
	logger = logger.With(
		zap.String("vendor_id", fmt4x(cfg.VendorID)),
		zap.String("product_id", fmt4x(cfg.ProductID)),
	)
	logger.Info("Opening USB device")

	usbCtx := gousb.NewContext()

	dev, err := findDevice(usbCtx, cfg)
	if err != nil {
		usbCtx.Close()
		return nil, err
	}

	t, err := setup(usbCtx, dev, cfg, logger, events)
	if err != nil {
		dev.Close()
		usbCtx.Close()
		return nil, err
	}

	logger.Info("USB device opened",
		zap.String("device", t.Describe()),
		zap.Int("interface", t.intfNum),
	)
	return t, nil
}

func findDevice(usbCtx *gousb.Context, cfg Config) (*gousb.Device, error) {
	devs, err := usbCtx.OpenDevices(func(desc *gousb.DeviceDesc) bool {
		return desc.Vendor == gousb.ID(cfg.VendorID) && desc.Product == gousb.ID(cfg.ProductID)
	})
	if err != nil {
		for _, d := range devs {
			d.Close()
		}
		return nil, errorf("enumerate", "failed to enumerate devices: %v", err)
	}
	if len(devs) == 0 {
		return nil, errorf("open", "device not found (%s)", cfg)
	}
	for _, d := range devs[1:] {
		d.Close()
	}
	return devs[0], nil
}

func setup(usbCtx *gousb.Context, dev *gousb.Device, cfg Config, logger *zap.Logger, events chan<- model.SensorEvent) (*USBTransport, error) {
	cfgNum, err := dev.ActiveConfigNum()
	if err != nil {
		return nil, errorf("open", "failed to read active configuration: %v", err)
	}
	desc, ok := dev.Desc.Configs[cfgNum]
	if !ok {
		return nil, errorf("open", "no descriptor for configuration %d", cfgNum)
	}
	logEndpoints(logger, desc)

	outAddr, inAddr, intfNum, err := ResolveEndpoints(cfg, desc)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved endpoints",
		zap.String("out_endpoint", fmt2x(outAddr)),
		zap.String("in_endpoint", fmt2x(inAddr)),
		zap.Int("interface", intfNum),
		zap.Bool("manual", cfg.Endpoint != nil && cfg.Interface != nil),
	)

	// A bound kernel driver (usblp) blocks the claim on Linux and macOS.
	if runtime.GOOS != "windows" {
		if err := dev.SetAutoDetach(true); err != nil {
			return nil, errorf("open", "failed to detach kernel driver: %v", err)
		}
	}

	usbCfg, intf, err := claimInterface(dev, cfgNum, intfNum, logger)
	if err != nil {
		return nil, err
	}

	// Stale data-toggle/stall state survives a device power cycle; clearing
	// the halt is best-effort because some firmwares reject it.
	if err := clearHalt(dev, outAddr); err != nil {
		logger.Debug("clear_halt returned error (non-fatal)",
			zap.String("endpoint", fmt2x(outAddr)),
			zap.Error(err),
		)
	}

	out, err := intf.OutEndpoint(int(outAddr & 0x0F))
	if err != nil {
		intf.Close()
		usbCfg.Close()
		return nil, errorf("open", "failed to open out endpoint %s: %v", fmt2x(outAddr), err)
	}

	t := &USBTransport{
		cfg:     cfg,
		usbCtx:  usbCtx,
		dev:     dev,
		usbCfg:  usbCfg,
		intf:    intf,
		out:     out,
		outAddr: outAddr,
		inAddr:  inAddr,
		intfNum: intfNum,
		timeout: ioTimeout,
		logger:  logger,
		events:  events,
	}

	in, err := intf.InEndpoint(int(inAddr & 0x0F))
	if err != nil {
		// Some devices expose no usable IN endpoint; status reads will fail
		// but printing works.
		logger.Warn("No in endpoint available", zap.Error(err))
	} else {
		t.in = in
	}

	return t, nil
}

func claimInterface(dev *gousb.Device, cfgNum, intfNum int, logger *zap.Logger) (*gousb.Config, *gousb.Interface, error) {
	var lastErr error
	for attempt := 1; attempt <= claimAttempts; attempt++ {
		usbCfg, err := dev.Config(cfgNum)
		if err == nil {
			intf, err := usbCfg.Interface(intfNum, 0)
			if err == nil {
				return usbCfg, intf, nil
			}
			usbCfg.Close()
			lastErr = err
		} else {
			lastErr = err
		}
		logger.Debug("claim_interface attempt failed, retrying",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", claimAttempts),
			zap.Error(lastErr),
		)
		time.Sleep(claimDelay)
	}
	return nil, nil, errorf("claim", "failed to claim interface %d after %d attempts: %v", intfNum, claimAttempts, lastErr)
}

func clearHalt(dev *gousb.Device, epAddr uint8) error {
	// CLEAR_FEATURE(ENDPOINT_HALT) addressed to the endpoint.
	_, err := dev.Control(
		gousb.ControlOut|gousb.ControlStandard|gousb.ControlEndpoint,
		0x01, // CLEAR_FEATURE
		0x00, // ENDPOINT_HALT
		uint16(epAddr),
		nil,
	)
	return err
}

func logEndpoints(logger *zap.Logger, desc gousb.ConfigDesc) {
	for _, intf := range desc.Interfaces {
		for _, alt := range intf.AltSettings {
			for _, ep := range alt.Endpoints {
				logger.Debug("USB endpoint",
					zap.Int("interface", intf.Number),
					zap.Int("alternate", alt.Alternate),
					zap.String("address", fmt2x(uint8(ep.Address))),
					zap.String("direction", directionString(ep.Direction)),
					zap.String("transfer", ep.TransferType.String()),
					zap.Int("max_packet", ep.MaxPacketSize),
				)
			}
		}
	}
}

// Write performs a blocking bulk write with the fixed I/O timeout. A write
// that completes but transfers fewer bytes than requested is a hard failure:
// it is the observed signature of a handle gone stale after a device power
// cycle, not a recoverable short write. Both failure shapes raise a UsbError
// sensor event.
func (t *USBTransport) Write(data []byte) error {
	t.ioMu.Lock()
	defer t.ioMu.Unlock()

	if t.out == nil {
		return errorf("write", "transport not open")
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	start := time.Now()
	n, err := t.out.WriteContext(ctx, data)
	if err != nil {
		t.logger.Error("USB write failed",
			zap.String("endpoint", fmt2x(t.outAddr)),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		wrapped := errorf("write", "write to endpoint %s failed: %v", fmt2x(t.outAddr), err)
		model.TrySend(t.events, model.UsbErrorEvent(wrapped.Error()))
		return wrapped
	}
	if n != len(data) {
		t.logger.Error("USB partial write",
			zap.String("endpoint", fmt2x(t.outAddr)),
			zap.Int("written", n),
			zap.Int("expected", len(data)),
			zap.Duration("elapsed", time.Since(start)),
		)
		wrapped := errorf("write", "incomplete write to endpoint %s: wrote %d of %d bytes", fmt2x(t.outAddr), n, len(data))
		model.TrySend(t.events, model.UsbErrorEvent(wrapped.Error()))
		return wrapped
	}

	t.logger.Debug("USB write completed",
		zap.Int("bytes", n),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// Read performs a blocking bulk read with the fixed I/O timeout, used for
// status queries.
func (t *USBTransport) Read(buf []byte) (int, error) {
	t.ioMu.Lock()
	defer t.ioMu.Unlock()

	if t.in == nil {
		return 0, errorf("read", "no in endpoint")
	}

	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	n, err := t.in.ReadContext(ctx, buf)
	if err != nil {
		return 0, errorf("read", "read from endpoint %s failed: %v", fmt2x(t.inAddr), err)
	}
	return n, nil
}

// Probe issues a real-time status request (DLE EOT 1) and, when the device
// exposes an IN endpoint, waits for the one-byte reply. Devices without an
// IN endpoint are considered alive once the request bytes are accepted.
func (t *USBTransport) Probe() error {
	if err := t.Write(escpos.ESC_POS_COMMANDS.STATUS_REQUEST); err != nil {
		return err
	}

	t.ioMu.Lock()
	hasIn := t.in != nil
	t.ioMu.Unlock()
	if !hasIn {
		return nil
	}

	var reply [1]byte
	if _, err := t.Read(reply[:]); err != nil {
		return err
	}
	t.logger.Debug("Status reply", zap.String("status", fmt2x(reply[0])))
	return nil
}

// Close releases the claimed interface and all USB resources. The transport
// must not be used afterwards.
func (t *USBTransport) Close() {
	t.ioMu.Lock()
	defer t.ioMu.Unlock()

	if t.intf != nil {
		t.intf.Close()
		t.intf = nil
	}
	if t.usbCfg != nil {
		t.usbCfg.Close()
		t.usbCfg = nil
	}
	if t.dev != nil {
		t.dev.Close()
		t.dev = nil
	}
	if t.usbCtx != nil {
		t.usbCtx.Close()
		t.usbCtx = nil
	}
	t.out = nil
	t.in = nil
	t.logger.Info("USB transport closed")
}

// Describe returns a short identification string for logs.
func (t *USBTransport) Describe() string {
	return t.cfg.String() + " out=" + fmt2x(t.outAddr) + " in=" + fmt2x(t.inAddr)
}

func directionString(d gousb.EndpointDirection) string {
	if d == gousb.EndpointDirectionIn {
		return "IN"
	}
	return "OUT"
}
