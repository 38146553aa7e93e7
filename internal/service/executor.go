// internal/service/executor.go
package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"printer-service/internal/driver/escpos"
	"printer-service/internal/model"
)

// StepError reports the failing command of a job: its 0-based index, how
// long it ran before failing and the underlying cause.
type StepError struct {
	Index   int
	Elapsed time.Duration
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("command %d failed after %v: %v", e.Index, e.Elapsed, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// applyCommand dispatches one command to the encoder. The switch is
// exhaustive over the command union; an unknown name is an internal error
// because decoding already rejects it.
func applyCommand(p *escpos.Printer, cmd model.Command) error {
	switch cmd.Name {
	case model.CmdPrint:
		return p.Print()
	case model.CmdInit:
		return p.Init()
	case model.CmdReset:
		return p.Reset()
	case model.CmdCut:
		return p.Cut()
	case model.CmdPartialCut:
		return p.PartialCut()
	case model.CmdPrintCut:
		return p.PrintCut()
	case model.CmdPageCode:
		return p.PageCode(string(cmd.Page))
	case model.CmdCharacterSet:
		return p.CharacterSet(string(cmd.Charset))
	case model.CmdBold:
		return p.Bold(cmd.Enabled)
	case model.CmdUnderline:
		return p.Underline(string(cmd.Underline))
	case model.CmdDoubleStrike:
		return p.DoubleStrike(cmd.Enabled)
	case model.CmdFont:
		return p.Font(string(cmd.Font))
	case model.CmdFlip:
		return p.Flip(cmd.Enabled)
	case model.CmdJustify:
		return p.Justify(string(cmd.Justify))
	case model.CmdReverse:
		return p.Reverse(cmd.Enabled)
	case model.CmdSize:
		return p.Size(cmd.Width, cmd.Height)
	case model.CmdResetSize:
		return p.ResetSize()
	case model.CmdSmoothing:
		return p.Smoothing(cmd.Enabled)
	case model.CmdFeed:
		return p.Feed()
	case model.CmdFeeds:
		return p.Feeds(cmd.Level)
	case model.CmdLineSpacing:
		return p.LineSpacing(cmd.Level)
	case model.CmdResetLineSpacing:
		return p.ResetLineSpacing()
	case model.CmdUpsideDown:
		return p.UpsideDown(cmd.Enabled)
	case model.CmdCashDrawer:
		return p.CashDrawer(string(cmd.Drawer))
	case model.CmdWrite:
		return p.Write(cmd.Text)
	case model.CmdWriteln:
		return p.Writeln(cmd.Text)
	case model.CmdEan13:
		return p.Ean13(cmd.Text)
	case model.CmdEan8:
		return p.Ean8(cmd.Text)
	case model.CmdUpca:
		return p.Upca(cmd.Text)
	case model.CmdUpce:
		return p.Upce(cmd.Text)
	case model.CmdCode39:
		return p.Code39(cmd.Text)
	case model.CmdCodabar:
		return p.Codabar(cmd.Text)
	case model.CmdItf:
		return p.Itf(cmd.Text)
	case model.CmdQrcode:
		return p.Qrcode(cmd.Text)
	case model.CmdGS1Databar2d:
		return p.GS1Databar2d(cmd.Text)
	case model.CmdPdf417:
		return p.Pdf417(cmd.Text)
	case model.CmdMaxiCode:
		return p.MaxiCode(cmd.Text)
	case model.CmdDataMatrix:
		return p.DataMatrix(cmd.Text)
	case model.CmdAztec:
		return p.Aztec(cmd.Text)
	}
	return fmt.Errorf("unknown command: %q", cmd.Name)
}

// runSteps walks the job in list order, logging each step's outcome and
// timing, and aborts at the first failure with a StepError.
func runSteps(p *escpos.Printer, commands []model.Command, logger *zap.Logger) error {
	total := len(commands)
	for idx, cmd := range commands {
		stepStart := time.Now()
		if err := applyCommand(p, cmd); err != nil {
			logger.Error("Command failed",
				zap.Int("step", idx+1),
				zap.Int("total", total),
				zap.String("command", string(cmd.Name)),
				zap.Duration("elapsed", time.Since(stepStart)),
				zap.Error(err),
			)
			return &StepError{Index: idx, Elapsed: time.Since(stepStart), Err: err}
		}
		logger.Debug("Command OK",
			zap.Int("step", idx+1),
			zap.Int("total", total),
			zap.String("command", string(cmd.Name)),
			zap.Duration("elapsed", time.Since(stepStart)),
		)
	}
	return nil
}

// runJob executes a regular print job: an explicit Init precedes the job
// and a full cut follows it, but only when every command succeeded.
// Partially-formatted, partially-cut receipts are worse than a visible
// failure retried from the top.
func runJob(p *escpos.Printer, commands []model.Command, logger *zap.Logger) error {
	start := time.Now()
	logger.Info("Job starting", zap.Int("commands", len(commands)))

	if err := p.Init(); err != nil {
		logger.Error("Init failed", zap.Error(err))
		return err
	}

	if err := runSteps(p, commands, logger); err != nil {
		return err
	}

	if err := p.PrintCut(); err != nil {
		logger.Error("Final cut failed", zap.Error(err))
		return err
	}

	logger.Info("Job complete",
		zap.Int("commands", len(commands)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// runRaw executes a command stream verbatim. Reprint jobs arrive with their
// own Init and terminating cut already injected, so nothing is added.
func runRaw(p *escpos.Printer, commands []model.Command, logger *zap.Logger) error {
	start := time.Now()
	logger.Info("Raw job starting", zap.Int("commands", len(commands)))

	if err := runSteps(p, commands, logger); err != nil {
		return err
	}

	logger.Info("Raw job complete",
		zap.Int("commands", len(commands)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}
