// internal/driver/escpos/escpos_test.go
package escpos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureDriver collects everything the encoder writes, flattened.
type captureDriver struct {
	buf []byte
}

func (d *captureDriver) Write(data []byte) error {
	d.buf = append(d.buf, data...)
	return nil
}

func newCapture() (*Printer, *captureDriver) {
	drv := &captureDriver{}
	return NewPrinter(drv), drv
}

func TestInitAndCutSequences(t *testing.T) {
	p, drv := newCapture()

	require.NoError(t, p.Init())
	assert.Equal(t, []byte{0x1B, 0x40}, drv.buf)

	drv.buf = nil
	require.NoError(t, p.Cut())
	assert.Equal(t, []byte{0x1D, 0x56, 0x00}, drv.buf)

	drv.buf = nil
	require.NoError(t, p.PartialCut())
	assert.Equal(t, []byte{0x1D, 0x56, 0x01}, drv.buf)
}

func TestPrintCutFeedsBeforeCutting(t *testing.T) {
	p, drv := newCapture()
	require.NoError(t, p.PrintCut())
	assert.Equal(t, []byte{
		0x1B, 0x64, 0x03, // feed 3 lines
		0x1D, 0x56, 0x00, // full cut
	}, drv.buf)
}

func TestTextFormattingSequences(t *testing.T) {
	p, drv := newCapture()

	require.NoError(t, p.Bold(true))
	require.NoError(t, p.Bold(false))
	assert.Equal(t, []byte{0x1B, 0x45, 0x01, 0x1B, 0x45, 0x00}, drv.buf)

	drv.buf = nil
	require.NoError(t, p.Underline("Double"))
	assert.Equal(t, []byte{0x1B, 0x2D, 0x02}, drv.buf)

	drv.buf = nil
	require.NoError(t, p.Justify("CENTER"))
	assert.Equal(t, []byte{0x1B, 0x61, 0x01}, drv.buf)

	drv.buf = nil
	require.NoError(t, p.Font("B"))
	assert.Equal(t, []byte{0x1B, 0x4D, 0x01}, drv.buf)
}

func TestSizeEncoding(t *testing.T) {
	p, drv := newCapture()

	require.NoError(t, p.Size(1, 1))
	assert.Equal(t, []byte{0x1D, 0x21, 0x00}, drv.buf)

	drv.buf = nil
	require.NoError(t, p.Size(2, 3))
	assert.Equal(t, []byte{0x1D, 0x21, 0x12}, drv.buf)

	drv.buf = nil
	require.NoError(t, p.Size(8, 8))
	assert.Equal(t, []byte{0x1D, 0x21, 0x77}, drv.buf)
}

func TestSizeOutOfRangeIsDataError(t *testing.T) {
	p, drv := newCapture()

	err := p.Size(0, 1)
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)

	assert.ErrorAs(t, p.Size(9, 1), &dataErr)
	assert.Empty(t, drv.buf, "rejected commands must not reach the driver")
}

func TestWriteAndWriteln(t *testing.T) {
	p, drv := newCapture()

	require.NoError(t, p.Write("abc"))
	assert.Equal(t, []byte("abc"), drv.buf)

	drv.buf = nil
	require.NoError(t, p.Writeln("abc"))
	assert.Equal(t, append([]byte("abc"), 0x0A), drv.buf)
}

func TestPageCodeAndCharacterSet(t *testing.T) {
	p, drv := newCapture()

	require.NoError(t, p.PageCode("WPC1252"))
	assert.Equal(t, []byte{0x1B, 0x74, 0x10}, drv.buf)

	drv.buf = nil
	require.NoError(t, p.CharacterSet("Japan"))
	assert.Equal(t, []byte{0x1B, 0x52, 0x08}, drv.buf)

	var dataErr *DataError
	assert.ErrorAs(t, p.PageCode("PC9000"), &dataErr)
	assert.ErrorAs(t, p.CharacterSet("Atlantis"), &dataErr)
}

func TestCashDrawer(t *testing.T) {
	p, drv := newCapture()

	require.NoError(t, p.CashDrawer("Pin2"))
	assert.Equal(t, []byte{0x1B, 0x70, 0x00, 0x19, 0x19}, drv.buf)

	var dataErr *DataError
	assert.ErrorAs(t, p.CashDrawer("Pin7"), &dataErr)
}

func TestEan13Encoding(t *testing.T) {
	p, drv := newCapture()

	require.NoError(t, p.Ean13("5901234123457"))
	want := []byte{0x1D, 0x48, 0x02} // HRI below
	want = append(want, 0x1D, 0x68, 0x50)
	want = append(want, 0x1D, 0x6B, barcodeEAN13)
	want = append(want, "5901234123457"...)
	want = append(want, 0x00)
	assert.Equal(t, want, drv.buf)
}

func TestBarcodeValidation(t *testing.T) {
	p, _ := newCapture()
	var dataErr *DataError

	assert.ErrorAs(t, p.Ean13("12345"), &dataErr)
	assert.ErrorAs(t, p.Ean13("59012341234AB"), &dataErr)
	assert.ErrorAs(t, p.Ean8("123"), &dataErr)
	assert.ErrorAs(t, p.Upca("1"), &dataErr)
	assert.ErrorAs(t, p.Itf("123"), &dataErr) // odd digit count
	assert.ErrorAs(t, p.Code39(""), &dataErr)
	assert.ErrorAs(t, p.Codabar(""), &dataErr)
}

func TestQrcodeEncoding(t *testing.T) {
	p, drv := newCapture()

	require.NoError(t, p.Qrcode("hi"))
	want := []byte{0x1D, 0x28, 0x6B, 0x04, 0x00, symbolQRCode, 0x41, 0x32, 0x00}
	want = append(want, 0x1D, 0x28, 0x6B, 0x03, 0x00, symbolQRCode, 0x43, 0x04)
	want = append(want, 0x1D, 0x28, 0x6B, 0x03, 0x00, symbolQRCode, 0x45, 0x31)
	want = append(want, 0x1D, 0x28, 0x6B, 0x05, 0x00, symbolQRCode, 0x50, 0x30)
	want = append(want, "hi"...)
	want = append(want, 0x1D, 0x28, 0x6B, 0x03, 0x00, symbolQRCode, 0x51, 0x30)
	assert.Equal(t, want, drv.buf)

	var dataErr *DataError
	assert.ErrorAs(t, p.Qrcode(""), &dataErr)
}

func TestSymbol2DEmptyDataRejected(t *testing.T) {
	p, _ := newCapture()
	var dataErr *DataError

	assert.ErrorAs(t, p.Pdf417(""), &dataErr)
	assert.ErrorAs(t, p.DataMatrix(""), &dataErr)
	assert.ErrorAs(t, p.Aztec(""), &dataErr)
	assert.ErrorAs(t, p.MaxiCode(""), &dataErr)
	assert.ErrorAs(t, p.GS1Databar2d(""), &dataErr)
}
