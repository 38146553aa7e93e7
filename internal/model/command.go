// internal/model/command.go
package model

import (
	"encoding/json"
	"fmt"
)

// CommandName identifies one variant of the print command union.
type CommandName string

const (
	CmdPrint            CommandName = "Print"
	CmdInit             CommandName = "Init"
	CmdReset            CommandName = "Reset"
	CmdCut              CommandName = "Cut"
	CmdPartialCut       CommandName = "PartialCut"
	CmdPrintCut         CommandName = "PrintCut"
	CmdPageCode         CommandName = "PageCode"
	CmdCharacterSet     CommandName = "CharacterSet"
	CmdBold             CommandName = "Bold"
	CmdUnderline        CommandName = "Underline"
	CmdDoubleStrike     CommandName = "DoubleStrike"
	CmdFont             CommandName = "Font"
	CmdFlip             CommandName = "Flip"
	CmdJustify          CommandName = "Justify"
	CmdReverse          CommandName = "Reverse"
	CmdSize             CommandName = "Size"
	CmdResetSize        CommandName = "ResetSize"
	CmdSmoothing        CommandName = "Smoothing"
	CmdFeed             CommandName = "Feed"
	CmdFeeds            CommandName = "Feeds"
	CmdLineSpacing      CommandName = "LineSpacing"
	CmdResetLineSpacing CommandName = "ResetLineSpacing"
	CmdUpsideDown       CommandName = "UpsideDown"
	CmdCashDrawer       CommandName = "CashDrawer"
	CmdWrite            CommandName = "Write"
	CmdWriteln          CommandName = "Writeln"
	CmdEan13            CommandName = "Ean13"
	CmdEan8             CommandName = "Ean8"
	CmdUpca             CommandName = "Upca"
	CmdUpce             CommandName = "Upce"
	CmdCode39           CommandName = "Code39"
	CmdCodabar          CommandName = "Codabar"
	CmdItf              CommandName = "Itf"
	CmdQrcode           CommandName = "Qrcode"
	CmdGS1Databar2d     CommandName = "GS1Databar2d"
	CmdPdf417           CommandName = "Pdf417"
	CmdMaxiCode         CommandName = "MaxiCode"
	CmdDataMatrix       CommandName = "DataMatrix"
	CmdAztec            CommandName = "Aztec"
)

// UnderlineMode selects the underline weight.
type UnderlineMode string

const (
	UnderlineNone   UnderlineMode = "None"
	UnderlineSingle UnderlineMode = "Single"
	UnderlineDouble UnderlineMode = "Double"
)

// JustifyMode selects horizontal alignment.
type JustifyMode string

const (
	JustifyLeft   JustifyMode = "LEFT"
	JustifyCenter JustifyMode = "CENTER"
	JustifyRight  JustifyMode = "RIGHT"
)

// FontFace selects one of the device fonts.
type FontFace string

const (
	FontA FontFace = "A"
	FontB FontFace = "B"
	FontC FontFace = "C"
)

// DrawerPin selects the cash drawer kick-out pin.
type DrawerPin string

const (
	DrawerPin2 DrawerPin = "Pin2"
	DrawerPin5 DrawerPin = "Pin5"
)

// CodeTable names a printer code page (PC437, WPC1252, ...). The encoder
// validates the value; the model carries it opaquely.
type CodeTable string

// Charset names an international character set (USA, Japan, ...).
type Charset string

// Command is one immutable operation in a print job. The union is closed:
// Name selects the variant and exactly the fields that variant uses are set.
// A job is an ordered []Command; later formatting commands apply to later
// content commands.
type Command struct {
	Name CommandName

	Enabled   bool
	Level     uint8
	Text      string
	Underline UnderlineMode
	Justify   JustifyMode
	Font      FontFace
	Page      CodeTable
	Charset   Charset
	Drawer    DrawerPin
	Width     uint8
	Height    uint8
}

// Constructors, one per variant.

func Print() Command      { return Command{Name: CmdPrint} }
func Init() Command       { return Command{Name: CmdInit} }
func Reset() Command      { return Command{Name: CmdReset} }
func Cut() Command        { return Command{Name: CmdCut} }
func PartialCut() Command { return Command{Name: CmdPartialCut} }
func PrintCut() Command   { return Command{Name: CmdPrintCut} }

func PageCode(t CodeTable) Command   { return Command{Name: CmdPageCode, Page: t} }
func CharacterSet(c Charset) Command { return Command{Name: CmdCharacterSet, Charset: c} }

func Bold(on bool) Command               { return Command{Name: CmdBold, Enabled: on} }
func Underline(m UnderlineMode) Command  { return Command{Name: CmdUnderline, Underline: m} }
func DoubleStrike(on bool) Command       { return Command{Name: CmdDoubleStrike, Enabled: on} }
func Font(f FontFace) Command            { return Command{Name: CmdFont, Font: f} }
func Flip(on bool) Command               { return Command{Name: CmdFlip, Enabled: on} }
func Justify(m JustifyMode) Command      { return Command{Name: CmdJustify, Justify: m} }
func Reverse(on bool) Command            { return Command{Name: CmdReverse, Enabled: on} }
func Size(w, h uint8) Command            { return Command{Name: CmdSize, Width: w, Height: h} }
func ResetSize() Command                 { return Command{Name: CmdResetSize} }
func Smoothing(on bool) Command          { return Command{Name: CmdSmoothing, Enabled: on} }
func Feed(on bool) Command               { return Command{Name: CmdFeed, Enabled: on} }
func Feeds(lines uint8) Command          { return Command{Name: CmdFeeds, Level: lines} }
func LineSpacing(value uint8) Command    { return Command{Name: CmdLineSpacing, Level: value} }
func ResetLineSpacing() Command          { return Command{Name: CmdResetLineSpacing} }
func UpsideDown(on bool) Command         { return Command{Name: CmdUpsideDown, Enabled: on} }
func CashDrawer(pin DrawerPin) Command   { return Command{Name: CmdCashDrawer, Drawer: pin} }

func Write(text string) Command   { return Command{Name: CmdWrite, Text: text} }
func Writeln(text string) Command { return Command{Name: CmdWriteln, Text: text} }

func Ean13(data string) Command        { return Command{Name: CmdEan13, Text: data} }
func Ean8(data string) Command         { return Command{Name: CmdEan8, Text: data} }
func Upca(data string) Command         { return Command{Name: CmdUpca, Text: data} }
func Upce(data string) Command         { return Command{Name: CmdUpce, Text: data} }
func Code39(data string) Command       { return Command{Name: CmdCode39, Text: data} }
func Codabar(data string) Command      { return Command{Name: CmdCodabar, Text: data} }
func Itf(data string) Command          { return Command{Name: CmdItf, Text: data} }
func Qrcode(data string) Command       { return Command{Name: CmdQrcode, Text: data} }
func GS1Databar2d(data string) Command { return Command{Name: CmdGS1Databar2d, Text: data} }
func Pdf417(data string) Command       { return Command{Name: CmdPdf417, Text: data} }
func MaxiCode(data string) Command     { return Command{Name: CmdMaxiCode, Text: data} }
func DataMatrix(data string) Command   { return Command{Name: CmdDataMatrix, Text: data} }
func Aztec(data string) Command        { return Command{Name: CmdAztec, Text: data} }

// IsContent reports whether the command produces visible output on the
// receipt (text, barcodes, 2-D symbols) as opposed to formatting or control.
func (c Command) IsContent() bool {
	switch c.Name {
	case CmdWrite, CmdWriteln,
		CmdEan13, CmdEan8, CmdUpca, CmdUpce, CmdCode39, CmdCodabar, CmdItf,
		CmdQrcode, CmdGS1Databar2d, CmdPdf417, CmdMaxiCode, CmdDataMatrix, CmdAztec:
		return true
	}
	return false
}

// IsCut reports whether the command cuts the paper.
func (c Command) IsCut() bool {
	switch c.Name {
	case CmdCut, CmdPartialCut, CmdPrintCut:
		return true
	}
	return false
}

// commandEnvelope is the wire shape of one command.
type commandEnvelope struct {
	Command    CommandName     `json:"command"`
	Parameters json.RawMessage `json:"parameters"`
}

// MarshalJSON encodes the command as {"command": <Name>, "parameters": <P>}.
func (c Command) MarshalJSON() ([]byte, error) {
	var params interface{}

	switch c.Name {
	case CmdPrint, CmdInit, CmdReset, CmdCut, CmdPartialCut, CmdPrintCut,
		CmdResetSize, CmdResetLineSpacing:
		params = nil
	case CmdBold, CmdDoubleStrike, CmdFlip, CmdReverse, CmdSmoothing, CmdFeed, CmdUpsideDown:
		params = c.Enabled
	case CmdFeeds, CmdLineSpacing:
		params = c.Level
	case CmdSize:
		params = [2]uint8{c.Width, c.Height}
	case CmdUnderline:
		params = c.Underline
	case CmdJustify:
		params = c.Justify
	case CmdFont:
		params = c.Font
	case CmdPageCode:
		params = c.Page
	case CmdCharacterSet:
		params = c.Charset
	case CmdCashDrawer:
		params = c.Drawer
	case CmdWrite, CmdWriteln,
		CmdEan13, CmdEan8, CmdUpca, CmdUpce, CmdCode39, CmdCodabar, CmdItf,
		CmdQrcode, CmdGS1Databar2d, CmdPdf417, CmdMaxiCode, CmdDataMatrix, CmdAztec:
		params = c.Text
	default:
		return nil, fmt.Errorf("unknown command: %q", c.Name)
	}

	raw, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return json.Marshal(commandEnvelope{Command: c.Name, Parameters: raw})
}

// UnmarshalJSON decodes the tagged wire shape, rejecting unknown command
// names and mistyped parameters.
func (c *Command) UnmarshalJSON(data []byte) error {
	var env commandEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}

	cmd := Command{Name: env.Command}

	switch env.Command {
	case CmdPrint, CmdInit, CmdReset, CmdCut, CmdPartialCut, CmdPrintCut,
		CmdResetSize, CmdResetLineSpacing:
		// parameters ignored (null on the wire)

	case CmdBold, CmdDoubleStrike, CmdFlip, CmdReverse, CmdSmoothing, CmdFeed, CmdUpsideDown:
		if err := json.Unmarshal(env.Parameters, &cmd.Enabled); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	case CmdFeeds, CmdLineSpacing:
		if err := json.Unmarshal(env.Parameters, &cmd.Level); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	case CmdSize:
		var wh [2]uint8
		if err := json.Unmarshal(env.Parameters, &wh); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}
		cmd.Width, cmd.Height = wh[0], wh[1]

	case CmdUnderline:
		if err := decodeEnum(env.Parameters, &cmd.Underline, UnderlineNone, UnderlineSingle, UnderlineDouble); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	case CmdJustify:
		if err := decodeEnum(env.Parameters, &cmd.Justify, JustifyLeft, JustifyCenter, JustifyRight); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	case CmdFont:
		if err := decodeEnum(env.Parameters, &cmd.Font, FontA, FontB, FontC); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	case CmdCashDrawer:
		if err := decodeEnum(env.Parameters, &cmd.Drawer, DrawerPin2, DrawerPin5); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	case CmdPageCode:
		if err := json.Unmarshal(env.Parameters, &cmd.Page); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	case CmdCharacterSet:
		if err := json.Unmarshal(env.Parameters, &cmd.Charset); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	case CmdWrite, CmdWriteln,
		CmdEan13, CmdEan8, CmdUpca, CmdUpce, CmdCode39, CmdCodabar, CmdItf,
		CmdQrcode, CmdGS1Databar2d, CmdPdf417, CmdMaxiCode, CmdDataMatrix, CmdAztec:
		if err := json.Unmarshal(env.Parameters, &cmd.Text); err != nil {
			return fmt.Errorf("%s: %w", env.Command, err)
		}

	default:
		return fmt.Errorf("unknown command: %q", env.Command)
	}

	*c = cmd
	return nil
}

// decodeEnum decodes a string enum, rejecting values outside the allowed set.
func decodeEnum[T ~string](raw json.RawMessage, dst *T, allowed ...T) error {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return err
	}
	for _, a := range allowed {
		if v == a {
			*dst = v
			return nil
		}
	}
	return fmt.Errorf("invalid value: %q", string(v))
}
