// internal/driver/escpos/escpos.go
package escpos

import (
	"fmt"
)

// Driver is the byte-level write capability the encoder targets. The USB
// transport implements it; tests use in-memory fakes. Swapping the physical
// protocol means swapping the Driver, not the encoder.
type Driver interface {
	Write(data []byte) error
}

// DataError marks command data the encoder rejects before any bytes reach
// the device (bad barcode digits, out-of-range sizes). Callers classify it
// as invalid input rather than a transport failure.
type DataError struct {
	Msg string
}

func (e *DataError) Error() string { return e.Msg }

func dataErrorf(format string, args ...interface{}) error {
	return &DataError{Msg: fmt.Sprintf(format, args...)}
}

// Printer encodes abstract print operations into ESC/POS byte sequences and
// writes them through the Driver. It holds no state of its own; formatting
// state lives in the device.
type Printer struct {
	drv Driver
}

// NewPrinter creates a Printer over the given driver.
func NewPrinter(drv Driver) *Printer {
	return &Printer{drv: drv}
}

func (p *Printer) write(seqs ...[]byte) error {
	for _, seq := range seqs {
		if err := p.drv.Write(seq); err != nil {
			return err
		}
	}
	return nil
}

func onOff(on bool, yes, no []byte) []byte {
	if on {
		return yes
	}
	return no
}

// Init resets the printer to its power-on state (ESC @).
func (p *Printer) Init() error {
	return p.write(ESC_POS_COMMANDS.INITIALIZE)
}

// Reset re-initializes the printer. Kept distinct from Init to mirror the
// command model; the wire sequence is the same.
func (p *Printer) Reset() error {
	return p.write(ESC_POS_COMMANDS.INITIALIZE)
}

// Print is a no-op on raster-less ESC/POS printers: buffered lines flush on
// line feed. It exists so the command union stays total.
func (p *Printer) Print() error {
	return nil
}

// Cut performs a full paper cut.
func (p *Printer) Cut() error {
	return p.write(ESC_POS_COMMANDS.CUT_FULL)
}

// PartialCut performs a partial paper cut.
func (p *Printer) PartialCut() error {
	return p.write(ESC_POS_COMMANDS.CUT_PARTIAL)
}

// PrintCut feeds the remaining buffered content clear of the cutter and
// performs a full cut.
func (p *Printer) PrintCut() error {
	if err := p.Feeds(3); err != nil {
		return err
	}
	return p.Cut()
}

func (p *Printer) Bold(on bool) error {
	return p.write(onOff(on, ESC_POS_COMMANDS.TEXT_BOLD_ON, ESC_POS_COMMANDS.TEXT_BOLD_OFF))
}

// Underline sets the underline weight: "None", "Single" or "Double".
func (p *Printer) Underline(mode string) error {
	var n byte
	switch mode {
	case "None":
		n = 0
	case "Single":
		n = 1
	case "Double":
		n = 2
	default:
		return dataErrorf("invalid underline mode: %q", mode)
	}
	return p.write([]byte{0x1B, 0x2D, n}) // ESC - n
}

func (p *Printer) DoubleStrike(on bool) error {
	return p.write(onOff(on, ESC_POS_COMMANDS.DOUBLE_STRIKE_ON, ESC_POS_COMMANDS.DOUBLE_STRIKE_OFF))
}

func (p *Printer) Reverse(on bool) error {
	return p.write(onOff(on, ESC_POS_COMMANDS.REVERSE_ON, ESC_POS_COMMANDS.REVERSE_OFF))
}

// Justify sets alignment: "LEFT", "CENTER" or "RIGHT".
func (p *Printer) Justify(mode string) error {
	switch mode {
	case "LEFT":
		return p.write(ESC_POS_COMMANDS.ALIGN_LEFT)
	case "CENTER":
		return p.write(ESC_POS_COMMANDS.ALIGN_CENTER)
	case "RIGHT":
		return p.write(ESC_POS_COMMANDS.ALIGN_RIGHT)
	}
	return dataErrorf("invalid justify mode: %q", mode)
}

// Size sets character width and height multipliers, each 1..8.
func (p *Printer) Size(width, height uint8) error {
	if width < 1 || width > 8 || height < 1 || height > 8 {
		return dataErrorf("size out of range: %dx%d", width, height)
	}
	n := (width-1)<<4 | (height - 1)
	return p.write([]byte{0x1D, 0x21, n}) // GS ! n
}

func (p *Printer) ResetSize() error {
	return p.write(ESC_POS_COMMANDS.TEXT_SIZE_NORMAL)
}

func (p *Printer) Smoothing(on bool) error {
	return p.write(onOff(on, ESC_POS_COMMANDS.SMOOTHING_ON, ESC_POS_COMMANDS.SMOOTHING_OFF))
}

func (p *Printer) Flip(on bool) error {
	return p.write(onOff(on, ESC_POS_COMMANDS.FLIP_ON, ESC_POS_COMMANDS.FLIP_OFF))
}

func (p *Printer) UpsideDown(on bool) error {
	return p.write(onOff(on, ESC_POS_COMMANDS.UPSIDE_DOWN_ON, ESC_POS_COMMANDS.UPSIDE_DOWN_OFF))
}

// Font selects a device font: "A", "B" or "C".
func (p *Printer) Font(face string) error {
	var n byte
	switch face {
	case "A":
		n = 0
	case "B":
		n = 1
	case "C":
		n = 2
	default:
		return dataErrorf("invalid font: %q", face)
	}
	return p.write([]byte{0x1B, 0x4D, n}) // ESC M n
}

// Feed advances the paper one line.
func (p *Printer) Feed() error {
	return p.write(ESC_POS_COMMANDS.LINE_FEED)
}

// Feeds advances the paper n lines.
func (p *Printer) Feeds(lines uint8) error {
	return p.write([]byte{0x1B, 0x64, lines}) // ESC d n
}

func (p *Printer) LineSpacing(value uint8) error {
	return p.write([]byte{0x1B, 0x33, value}) // ESC 3 n
}

func (p *Printer) ResetLineSpacing() error {
	return p.write(ESC_POS_COMMANDS.RESET_LINE_SPACING)
}

// PageCode selects the printer code page by name (PC437, WPC1252, ...).
func (p *Printer) PageCode(name string) error {
	n, ok := codeTables[name]
	if !ok {
		return dataErrorf("unknown page code: %q", name)
	}
	return p.write([]byte{0x1B, 0x74, n}) // ESC t n
}

// CharacterSet selects the international character set by name.
func (p *Printer) CharacterSet(name string) error {
	n, ok := characterSets[name]
	if !ok {
		return dataErrorf("unknown character set: %q", name)
	}
	return p.write([]byte{0x1B, 0x52, n}) // ESC R n
}

// CashDrawer fires the drawer kick-out pulse on "Pin2" or "Pin5".
func (p *Printer) CashDrawer(pin string) error {
	switch pin {
	case "Pin2":
		return p.write(ESC_POS_COMMANDS.DRAWER_KICK_PIN2)
	case "Pin5":
		return p.write(ESC_POS_COMMANDS.DRAWER_KICK_PIN5)
	}
	return dataErrorf("invalid drawer pin: %q", pin)
}

// Write prints text without a trailing line feed.
func (p *Printer) Write(text string) error {
	return p.write([]byte(text))
}

// Writeln prints text followed by a line feed.
func (p *Printer) Writeln(text string) error {
	return p.write([]byte(text), ESC_POS_COMMANDS.LINE_FEED)
}

// barcode prints a 1-D barcode via GS k function A (NUL-terminated), with
// HRI text below and a fixed height.
func (p *Printer) barcode(symbology byte, data string) error {
	if err := p.write(
		ESC_POS_COMMANDS.BARCODE_HRI_BELOW,
		append(ESC_POS_COMMANDS.BARCODE_HEIGHT, 0x50),
	); err != nil {
		return err
	}
	seq := append([]byte{0x1D, 0x6B, symbology}, data...)
	return p.write(append(seq, 0x00))
}

func digitsOnly(data string) bool {
	for _, r := range data {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (p *Printer) Ean13(data string) error {
	if len(data) < 12 || len(data) > 13 || !digitsOnly(data) {
		return dataErrorf("EAN-13 requires 12-13 digits, got %q", data)
	}
	return p.barcode(barcodeEAN13, data)
}

func (p *Printer) Ean8(data string) error {
	if len(data) < 7 || len(data) > 8 || !digitsOnly(data) {
		return dataErrorf("EAN-8 requires 7-8 digits, got %q", data)
	}
	return p.barcode(barcodeEAN8, data)
}

func (p *Printer) Upca(data string) error {
	if len(data) < 11 || len(data) > 12 || !digitsOnly(data) {
		return dataErrorf("UPC-A requires 11-12 digits, got %q", data)
	}
	return p.barcode(barcodeUPCA, data)
}

func (p *Printer) Upce(data string) error {
	if len(data) < 6 || len(data) > 8 || !digitsOnly(data) {
		return dataErrorf("UPC-E requires 6-8 digits, got %q", data)
	}
	return p.barcode(barcodeUPCE, data)
}

func (p *Printer) Code39(data string) error {
	if data == "" {
		return dataErrorf("CODE39 data is empty")
	}
	return p.barcode(barcodeCODE39, data)
}

func (p *Printer) Codabar(data string) error {
	if data == "" {
		return dataErrorf("Codabar data is empty")
	}
	return p.barcode(barcodeCODABAR, data)
}

func (p *Printer) Itf(data string) error {
	if data == "" || len(data)%2 != 0 || !digitsOnly(data) {
		return dataErrorf("ITF requires an even number of digits, got %q", data)
	}
	return p.barcode(barcodeITF, data)
}

// symbolStore stores 2-D symbol data via GS ( k function 80 and prints it
// via function 81.
func (p *Printer) symbolStore(symbol byte, data string) error {
	payload := len(data) + 3
	pL := byte(payload & 0xFF)
	pH := byte(payload >> 8)
	store := append([]byte{0x1D, 0x28, 0x6B, pL, pH, symbol, 0x50, 0x30}, data...)
	if err := p.write(store); err != nil {
		return err
	}
	return p.write([]byte{0x1D, 0x28, 0x6B, 0x03, 0x00, symbol, 0x51, 0x30})
}

func (p *Printer) symbol2D(symbol byte, name, data string) error {
	if data == "" {
		return dataErrorf("%s data is empty", name)
	}
	if len(data) > 0xFFFF-3 {
		return dataErrorf("%s data too long: %d bytes", name, len(data))
	}
	return p.symbolStore(symbol, data)
}

// Qrcode prints a QR code: model 2, module size 4, error correction M.
func (p *Printer) Qrcode(data string) error {
	if data == "" {
		return dataErrorf("QR data is empty")
	}
	setup := [][]byte{
		{0x1D, 0x28, 0x6B, 0x04, 0x00, symbolQRCode, 0x41, 0x32, 0x00}, // model 2
		{0x1D, 0x28, 0x6B, 0x03, 0x00, symbolQRCode, 0x43, 0x04},       // module size
		{0x1D, 0x28, 0x6B, 0x03, 0x00, symbolQRCode, 0x45, 0x31},       // EC level M
	}
	if err := p.write(setup...); err != nil {
		return err
	}
	return p.symbol2D(symbolQRCode, "QR", data)
}

func (p *Printer) GS1Databar2d(data string) error {
	return p.symbol2D(symbolGS1Databar, "GS1 DataBar", data)
}

func (p *Printer) Pdf417(data string) error {
	return p.symbol2D(symbolPDF417, "PDF417", data)
}

func (p *Printer) MaxiCode(data string) error {
	return p.symbol2D(symbolMaxiCode, "MaxiCode", data)
}

func (p *Printer) DataMatrix(data string) error {
	return p.symbol2D(symbolDataMatrix, "DataMatrix", data)
}

func (p *Printer) Aztec(data string) error {
	return p.symbol2D(symbolAztec, "Aztec", data)
}
