// internal/service/executor_test.go
package service

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"printer-service/internal/driver/escpos"
	"printer-service/internal/model"
)

// failAfterDriver accepts a fixed number of writes, then fails.
type failAfterDriver struct {
	buf    bytes.Buffer
	allow  int
	writes int
}

func (d *failAfterDriver) Write(data []byte) error {
	d.writes++
	if d.writes > d.allow {
		return errors.New("write rejected")
	}
	d.buf.Write(data)
	return nil
}

func TestRunJobAbortsAtFirstFailureWithIndex(t *testing.T) {
	// Init consumes one write; Writeln consumes two (text + line feed).
	// Allowing three writes lets Init and the first Writeln through, so the
	// second command (index 1) fails.
	drv := &failAfterDriver{allow: 3}
	p := escpos.NewPrinter(drv)

	err := runJob(p, []model.Command{
		model.Writeln("first"),
		model.Writeln("second"),
		model.Writeln("third"),
	}, zap.NewNop())

	var step *StepError
	require.ErrorAs(t, err, &step)
	assert.Equal(t, 1, step.Index)
	assert.NotContains(t, drv.buf.String(), "third", "no commands ran past the failure")
	assert.False(t, bytes.Contains(drv.buf.Bytes(), []byte{0x1D, 0x56, 0x00}), "no cut after a failure")
}

func TestRunJobCutsOnlyOnTotalSuccess(t *testing.T) {
	drv := &failAfterDriver{allow: 1 << 20}
	p := escpos.NewPrinter(drv)

	err := runJob(p, []model.Command{model.Writeln("ok")}, zap.NewNop())

	require.NoError(t, err)
	out := drv.buf.Bytes()
	assert.True(t, bytes.HasPrefix(out, []byte{0x1B, 0x40}))
	assert.True(t, bytes.HasSuffix(out, []byte{0x1D, 0x56, 0x00}))
}

func TestRunRawAddsNothing(t *testing.T) {
	drv := &failAfterDriver{allow: 1 << 20}
	p := escpos.NewPrinter(drv)

	err := runRaw(p, []model.Command{model.Writeln("bare")}, zap.NewNop())

	require.NoError(t, err)
	out := drv.buf.Bytes()
	assert.False(t, bytes.HasPrefix(out, []byte{0x1B, 0x40}), "no implicit Init")
	assert.False(t, bytes.HasSuffix(out, []byte{0x1D, 0x56, 0x00}), "no implicit cut")
}

func TestApplyCommandCoversUnion(t *testing.T) {
	drv := &failAfterDriver{allow: 1 << 20}
	p := escpos.NewPrinter(drv)

	cmds := []model.Command{
		model.Print(), model.Init(), model.Reset(),
		model.PageCode("PC437"), model.CharacterSet("USA"),
		model.Bold(true), model.Underline(model.UnderlineSingle),
		model.DoubleStrike(true), model.Font(model.FontB), model.Flip(true),
		model.Justify(model.JustifyCenter), model.Reverse(true),
		model.Size(2, 2), model.ResetSize(), model.Smoothing(true),
		model.Feed(true), model.Feeds(2), model.LineSpacing(30),
		model.ResetLineSpacing(), model.UpsideDown(true),
		model.CashDrawer(model.DrawerPin2),
		model.Write("w"), model.Writeln("wl"),
		model.Ean13("123456789012"), model.Ean8("1234567"),
		model.Upca("12345678901"), model.Upce("123456"),
		model.Code39("CODE"), model.Codabar("A123A"), model.Itf("1234"),
		model.Qrcode("qr"), model.GS1Databar2d("db"), model.Pdf417("pdf"),
		model.MaxiCode("mc"), model.DataMatrix("dm"), model.Aztec("az"),
	}
	for _, cmd := range cmds {
		assert.NoError(t, applyCommand(p, cmd), "command %s", cmd.Name)
	}

	assert.NoError(t, applyCommand(p, model.Cut()))
	assert.NoError(t, applyCommand(p, model.PartialCut()))
	assert.NoError(t, applyCommand(p, model.PrintCut()))
}

func TestApplyCommandEncoderRejection(t *testing.T) {
	drv := &failAfterDriver{allow: 1 << 20}
	p := escpos.NewPrinter(drv)

	err := applyCommand(p, model.Ean13("not-digits"))

	var dataErr *escpos.DataError
	assert.ErrorAs(t, err, &dataErr)
}
