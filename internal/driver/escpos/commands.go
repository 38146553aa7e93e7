// internal/driver/escpos/commands.go
package escpos

// ESC_POS_COMMANDS contains the fixed ESC/POS sequences used by the encoder.
var ESC_POS_COMMANDS = struct {
	// Basic commands
	INITIALIZE     []byte
	STATUS_REQUEST []byte

	// Text formatting
	TEXT_BOLD_ON       []byte
	TEXT_BOLD_OFF      []byte
	DOUBLE_STRIKE_ON   []byte
	DOUBLE_STRIKE_OFF  []byte
	REVERSE_ON         []byte
	REVERSE_OFF        []byte
	SMOOTHING_ON       []byte
	SMOOTHING_OFF      []byte
	FLIP_ON            []byte
	FLIP_OFF           []byte
	UPSIDE_DOWN_ON     []byte
	UPSIDE_DOWN_OFF    []byte
	TEXT_SIZE_NORMAL   []byte
	RESET_LINE_SPACING []byte

	// Text alignment
	ALIGN_LEFT   []byte
	ALIGN_CENTER []byte
	ALIGN_RIGHT  []byte

	// Paper handling
	LINE_FEED []byte

	// Cutting
	CUT_FULL    []byte
	CUT_PARTIAL []byte

	// Cash drawer
	DRAWER_KICK_PIN2 []byte
	DRAWER_KICK_PIN5 []byte

	// Barcodes
	BARCODE_HRI_BELOW []byte
	BARCODE_HEIGHT    []byte // + height byte
}{
	// Basic commands
	INITIALIZE:     []byte{0x1B, 0x40},       // ESC @
	STATUS_REQUEST: []byte{0x10, 0x04, 0x01}, // DLE EOT 1

	// Text formatting
	TEXT_BOLD_ON:       []byte{0x1B, 0x45, 0x01}, // ESC E 1
	TEXT_BOLD_OFF:      []byte{0x1B, 0x45, 0x00}, // ESC E 0
	DOUBLE_STRIKE_ON:   []byte{0x1B, 0x47, 0x01}, // ESC G 1
	DOUBLE_STRIKE_OFF:  []byte{0x1B, 0x47, 0x00}, // ESC G 0
	REVERSE_ON:         []byte{0x1D, 0x42, 0x01}, // GS B 1
	REVERSE_OFF:        []byte{0x1D, 0x42, 0x00}, // GS B 0
	SMOOTHING_ON:       []byte{0x1D, 0x62, 0x01}, // GS b 1
	SMOOTHING_OFF:      []byte{0x1D, 0x62, 0x00}, // GS b 0
	FLIP_ON:            []byte{0x1B, 0x56, 0x01}, // ESC V 1
	FLIP_OFF:           []byte{0x1B, 0x56, 0x00}, // ESC V 0
	UPSIDE_DOWN_ON:     []byte{0x1B, 0x7B, 0x01}, // ESC { 1
	UPSIDE_DOWN_OFF:    []byte{0x1B, 0x7B, 0x00}, // ESC { 0
	TEXT_SIZE_NORMAL:   []byte{0x1D, 0x21, 0x00}, // GS ! 0
	RESET_LINE_SPACING: []byte{0x1B, 0x32},       // ESC 2

	// Text alignment
	ALIGN_LEFT:   []byte{0x1B, 0x61, 0x00}, // ESC a 0
	ALIGN_CENTER: []byte{0x1B, 0x61, 0x01}, // ESC a 1
	ALIGN_RIGHT:  []byte{0x1B, 0x61, 0x02}, // ESC a 2

	// Paper handling
	LINE_FEED: []byte{0x0A}, // LF

	// Cutting
	CUT_FULL:    []byte{0x1D, 0x56, 0x00}, // GS V 0
	CUT_PARTIAL: []byte{0x1D, 0x56, 0x01}, // GS V 1

	// Cash drawer
	DRAWER_KICK_PIN2: []byte{0x1B, 0x70, 0x00, 0x19, 0x19}, // ESC p 0 25 25
	DRAWER_KICK_PIN5: []byte{0x1B, 0x70, 0x01, 0x19, 0x19}, // ESC p 1 25 25

	// Barcodes
	BARCODE_HRI_BELOW: []byte{0x1D, 0x48, 0x02}, // GS H 2
	BARCODE_HEIGHT:    []byte{0x1D, 0x68},       // GS h + n
}

// GS k function-A symbology selectors.
const (
	barcodeUPCA    byte = 0
	barcodeUPCE    byte = 1
	barcodeEAN13   byte = 2
	barcodeEAN8    byte = 3
	barcodeCODE39  byte = 4
	barcodeITF     byte = 5
	barcodeCODABAR byte = 6
)

// GS ( k symbol type identifiers for 2-D codes.
const (
	symbolPDF417     byte = 48
	symbolQRCode     byte = 49
	symbolMaxiCode   byte = 50
	symbolGS1Databar byte = 51
	symbolAztec      byte = 53
	symbolDataMatrix byte = 54
)

// codeTables maps code-page names to ESC t argument values.
var codeTables = map[string]byte{
	"PC437": 0, "Katakana": 1, "PC850": 2, "PC860": 3, "PC863": 4,
	"PC865": 5, "Hiragana": 6, "PC851": 11, "PC853": 12, "PC857": 13,
	"PC737": 14, "ISO8859_7": 15, "WPC1252": 16, "PC866": 17, "PC852": 18,
	"PC858": 19, "PC720": 32, "WPC775": 33, "PC855": 34, "PC861": 35,
	"PC862": 36, "PC864": 37, "PC869": 38, "ISO8859_2": 39, "ISO8859_15": 40,
	"PC1098": 41, "PC1118": 42, "PC1119": 43, "PC1125": 44, "WPC1250": 45,
	"WPC1251": 46, "WPC1253": 47, "WPC1254": 48, "WPC1255": 49, "WPC1256": 50,
	"WPC1257": 51, "WPC1258": 52, "KZ1048": 53,
}

// characterSets maps international character-set names to ESC R values.
var characterSets = map[string]byte{
	"USA": 0, "France": 1, "Germany": 2, "UK": 3, "Denmark1": 4,
	"Sweden": 5, "Italy": 6, "Spain1": 7, "Japan": 8, "Norway": 9,
	"Denmark2": 10, "Spain2": 11, "LatinAmerica": 12, "Korea": 13,
	"SloveniaCroatia": 14, "China": 15, "Vietnam": 16, "Arabia": 17,
	"IndiaDevanagari": 66, "IndiaBengali": 67, "IndiaTamil": 68,
	"IndiaTelugu": 69, "IndiaAssamese": 70, "IndiaOriya": 71,
	"IndiaKannada": 72, "IndiaMalayalam": 73, "IndiaGujarati": 74,
	"IndiaPunjabi": 75, "IndiaMarathi": 76,
}
