// internal/service/printer_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/driver/escpos"
	"printer-service/internal/model"
)

// reconnectWait is the fixed pause between device-discovery attempts.
const reconnectWait = 5 * time.Second

// printCounter feeds correlation id generation.
var printCounter atomic.Uint32

// generatePrintID returns a short correlation id threaded through every log
// line of one job: a coarse timestamp fragment plus a monotonic counter, so
// interleaved retry sequences for different jobs stay distinguishable.
func generatePrintID() string {
	counter := printCounter.Add(1) - 1
	timestamp := uint32(time.Now().UnixMilli())
	return fmt.Sprintf("%04x%04x", timestamp&0xFFFF, counter&0xFFFF)
}

// Transport is the open device connection the orchestrator drives. The USB
// implementation lives in internal/transport; tests substitute fakes.
type Transport interface {
	Write(data []byte) error
	Close()
}

// OpenFunc performs one device-discovery attempt.
type OpenFunc func() (Transport, error)

// PrinterService orchestrates print jobs over a replaceable Transport:
// unbounded retry with reconnect on failure, one logical operation in flight
// at a time, shared online status and best-effort sensor events.
//
// A job either eventually succeeds or blocks until the hardware returns (or
// the caller's context is cancelled). Unattended kiosk printers must print
// rather than silently drop jobs, so there is no attempt cap.
type PrinterService struct {
	open   OpenFunc
	status *StatusBroadcast
	events chan<- model.SensorEvent
	logger *zap.Logger

	// jobMu admits one logical print/health-probe operation at a time. The
	// device has no internal queuing; interleaved byte streams corrupt the
	// receipt. Held across the whole operation including reconnects.
	jobMu sync.Mutex

	// mu guards only the transport pointer. Operations take a snapshot and
	// run against it; reconnect swaps the pointer wholesale so nobody can
	// observe a half-replaced handle.
	mu        sync.Mutex
	transport Transport
}

// NewPrinterService creates a service without an open transport; call
// Connect to establish the first connection.
func NewPrinterService(open OpenFunc, status *StatusBroadcast, events chan<- model.SensorEvent, logger *zap.Logger) *PrinterService {
	return &PrinterService{
		open:   open,
		status: status,
		events: events,
		logger: logger,
	}
}

func (s *PrinterService) snapshot() Transport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.transport
}

func (s *PrinterService) swap(t Transport) {
	s.mu.Lock()
	old := s.transport
	s.transport = t
	s.mu.Unlock()
	if old != nil {
		old.Close()
	}
}

// Connect establishes the initial device connection, retrying every 5 s
// until a device answers or ctx is cancelled. Installation is serialized
// with jobs: a job that arrived first has already reconnected on its own,
// and its live transport must not be torn down, so Connect discards the
// freshly discovered handle when one is present.
func (s *PrinterService) Connect(ctx context.Context) error {
	t, err := s.discover(ctx)
	if err != nil {
		return err
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if s.snapshot() != nil {
		t.Close()
		s.logger.Info("Transport already installed, discarding discovered handle")
		return nil
	}
	s.swap(t)
	s.status.Set(true)
	return nil
}

// discover loops device discovery with the fixed wait until success.
func (s *PrinterService) discover(ctx context.Context) (Transport, error) {
	attempt := 0
	for {
		attempt++
		s.logger.Info("USB discovery attempt", zap.Int("attempt", attempt))
		t, err := s.open()
		if err == nil {
			s.logger.Info("USB device connected", zap.Int("attempt", attempt))
			return t, nil
		}
		s.logger.Warn("USB discovery failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("wait", reconnectWait),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(reconnectWait):
		}
	}
}

// reconnect flips online off, rediscovers the device and installs the new
// transport.
func (s *PrinterService) reconnect(ctx context.Context, logger *zap.Logger) error {
	start := time.Now()
	s.status.Set(false)
	logger.Info("Starting USB reconnection")

	t, err := s.discover(ctx)
	if err != nil {
		return err
	}
	s.swap(t)
	s.status.Set(true)
	logger.Info("USB reconnected", zap.Duration("elapsed", time.Since(start)))
	return nil
}

// withRetry runs one logical operation with unbounded retry. Each attempt
// takes a snapshot of the current transport and runs the operation against
// it; on failure it pushes a PrintFail event and reconnects before trying
// again. The only exits are success and context cancellation.
func (s *PrinterService) withRetry(ctx context.Context, op string, f func(p *escpos.Printer, logger *zap.Logger) error) error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	printID := generatePrintID()
	logger := s.logger.With(zap.String("print_id", printID), zap.String("operation", op))
	start := time.Now()
	attempt := 0

	logger.Info("Starting print operation")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		attempt++
		attemptStart := time.Now()
		logger.Info("Attempt starting", zap.Int("attempt", attempt))

		tr := s.snapshot()
		if tr == nil {
			if err := s.reconnect(ctx, logger); err != nil {
				return err
			}
			tr = s.snapshot()
		}

		err := f(escpos.NewPrinter(tr), logger)
		if err == nil {
			logger.Info("Print operation succeeded",
				zap.Int("attempts", attempt),
				zap.Duration("duration", time.Since(start)),
			)
			return nil
		}

		logger.Error("Attempt failed",
			zap.Int("attempt", attempt),
			zap.Duration("elapsed", time.Since(attemptStart)),
			zap.Error(err),
		)
		model.TrySend(s.events, model.PrintFailEvent(
			fmt.Sprintf("print_id=%s attempt=%d error=%v", printID, attempt, err),
		))

		logger.Info("Reconnecting before retry")
		if err := s.reconnect(ctx, logger); err != nil {
			return err
		}
	}
}

// Execute prints a job: Init, the commands in order, a final cut.
func (s *PrinterService) Execute(ctx context.Context, commands model.Commands) error {
	return s.withRetry(ctx, "print", func(p *escpos.Printer, logger *zap.Logger) error {
		return runJob(p, commands.Commands, logger)
	})
}

// ExecuteReprint prints a job with anti-fraud reprint markers injected at
// the top, midpoint and bottom. The marked stream carries its own Init and
// cut so it runs verbatim.
func (s *PrinterService) ExecuteReprint(ctx context.Context, commands model.Commands) error {
	marked := InjectReprintMarkers(commands.Commands)
	return s.withRetry(ctx, "reprint", func(p *escpos.Printer, logger *zap.Logger) error {
		return runRaw(p, marked, logger)
	})
}

// PrintTest prints the built-in formatting test page and/or a single test
// line, as requested.
func (s *PrinterService) PrintTest(ctx context.Context, req model.PrinterTestRequest) error {
	return s.withRetry(ctx, "test", func(p *escpos.Printer, logger *zap.Logger) error {
		if req.TestPage {
			if err := runJob(p, testPageCommands(), logger); err != nil {
				return err
			}
		}
		if req.TestLine != "" {
			if err := runJob(p, []model.Command{model.Writeln(req.TestLine)}, logger); err != nil {
				return err
			}
		}
		return nil
	})
}

// testPageCommands exercises the formatting surface on paper.
func testPageCommands() []model.Command {
	return []model.Command{
		model.Smoothing(true),
		model.Bold(true),
		model.Underline(model.UnderlineSingle),
		model.Writeln("Bold underline"),
		model.Justify(model.JustifyCenter),
		model.Reverse(true),
		model.Bold(false),
		model.Writeln("Hello world - Reverse"),
		model.Feed(true),
		model.Justify(model.JustifyRight),
		model.Reverse(false),
		model.Underline(model.UnderlineNone),
		model.Size(2, 3),
		model.Writeln("Hello world - Normal"),
	}
}

// statusProber is satisfied by transports that can ask the device for a
// real-time status reply instead of relying on a bare write succeeding.
type statusProber interface {
	Probe() error
}

// CheckConnection is a non-mutating health probe: it queries the current
// transport and updates the shared online flag, without forcing a reconnect.
// Transports that implement statusProber answer a DLE EOT status request;
// others get an Init write. Serialized with jobs so the probe bytes never
// land inside an in-flight receipt.
func (s *PrinterService) CheckConnection() bool {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	tr := s.snapshot()
	if tr == nil {
		s.status.Set(false)
		return false
	}

	var err error
	if prober, ok := tr.(statusProber); ok {
		err = prober.Probe()
	} else {
		err = escpos.NewPrinter(tr).Init()
	}
	if err != nil {
		s.logger.Debug("Health check failed", zap.Error(err))
		s.status.Set(false)
		return false
	}
	s.status.Set(true)
	return true
}

// Close releases the current transport.
func (s *PrinterService) Close() {
	s.mu.Lock()
	t := s.transport
	s.transport = nil
	s.mu.Unlock()
	if t != nil {
		t.Close()
	}
}
