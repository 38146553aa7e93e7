// internal/service/reprint.go
package service

import (
	"fmt"
	"time"

	"printer-service/internal/model"
)

// FormattingState is a snapshot of the formatting attributes a command
// stream can mutate. It is folded over a command prefix to learn what is in
// effect at the midpoint of a reprint, then used to restore exactly that
// state after the mid-receipt marker. Constructed fresh per transformation.
type FormattingState struct {
	Bold         bool
	Underline    model.UnderlineMode
	DoubleStrike bool
	Reverse      bool
	Justify      model.JustifyMode
	Size         [2]uint8
	Smoothing    bool
	Flip         bool
	UpsideDown   bool
	Font         model.FontFace
}

// DefaultFormattingState returns the printer's power-on formatting state.
func DefaultFormattingState() FormattingState {
	return FormattingState{
		Underline: model.UnderlineNone,
		Justify:   model.JustifyLeft,
		Size:      [2]uint8{1, 1},
		Font:      model.FontA,
	}
}

// Apply folds one command into the state. Init and Reset collapse the state
// back to defaults; non-formatting commands leave it untouched.
func (s *FormattingState) Apply(cmd model.Command) {
	switch cmd.Name {
	case model.CmdBold:
		s.Bold = cmd.Enabled
	case model.CmdUnderline:
		s.Underline = cmd.Underline
	case model.CmdDoubleStrike:
		s.DoubleStrike = cmd.Enabled
	case model.CmdReverse:
		s.Reverse = cmd.Enabled
	case model.CmdJustify:
		s.Justify = cmd.Justify
	case model.CmdSize:
		s.Size = [2]uint8{cmd.Width, cmd.Height}
	case model.CmdResetSize:
		s.Size = [2]uint8{1, 1}
	case model.CmdSmoothing:
		s.Smoothing = cmd.Enabled
	case model.CmdFlip:
		s.Flip = cmd.Enabled
	case model.CmdUpsideDown:
		s.UpsideDown = cmd.Enabled
	case model.CmdFont:
		s.Font = cmd.Font
	case model.CmdInit, model.CmdReset:
		*s = DefaultFormattingState()
	}
}

// ResetCommands returns the command block that forces every tracked
// attribute back to its default, regardless of current state.
func ResetCommands() []model.Command {
	return []model.Command{
		model.Bold(false),
		model.Underline(model.UnderlineNone),
		model.DoubleStrike(false),
		model.Reverse(false),
		model.Justify(model.JustifyLeft),
		model.ResetSize(),
		model.Smoothing(false),
		model.Flip(false),
		model.UpsideDown(false),
		model.Font(model.FontA),
	}
}

// RestoreCommands returns only the commands needed to bring a freshly reset
// printer into this state. Attributes already at their default emit nothing.
func (s FormattingState) RestoreCommands() []model.Command {
	var cmds []model.Command
	if s.Bold {
		cmds = append(cmds, model.Bold(true))
	}
	if s.Underline != model.UnderlineNone {
		cmds = append(cmds, model.Underline(s.Underline))
	}
	if s.DoubleStrike {
		cmds = append(cmds, model.DoubleStrike(true))
	}
	if s.Reverse {
		cmds = append(cmds, model.Reverse(true))
	}
	if s.Justify != model.JustifyLeft {
		cmds = append(cmds, model.Justify(s.Justify))
	}
	if s.Size != [2]uint8{1, 1} {
		cmds = append(cmds, model.Size(s.Size[0], s.Size[1]))
	}
	if s.Smoothing {
		cmds = append(cmds, model.Smoothing(true))
	}
	if s.Flip {
		cmds = append(cmds, model.Flip(true))
	}
	if s.UpsideDown {
		cmds = append(cmds, model.UpsideDown(true))
	}
	if s.Font != model.FontA {
		cmds = append(cmds, model.Font(s.Font))
	}
	return cmds
}

// markerCommands builds the reverse-video banner that brands a receipt as a
// reprint. Rebuilt per injection so the timestamp reflects reprint time.
func markerCommands(timestamp string) []model.Command {
	return []model.Command{
		model.Justify(model.JustifyCenter),
		model.Reverse(true),
		model.Writeln("================================"),
		model.Writeln("     ** REPRINT COPY **"),
		model.Writeln(fmt.Sprintf("  %s", timestamp)),
		model.Writeln("  REIKA-escpos"),
		model.Writeln("================================"),
		model.Reverse(false),
		model.Justify(model.JustifyLeft),
	}
}

// contentMidpoint returns the index at which to split the command list so
// that half of the content-producing commands fall on each side. The index
// sits immediately after the command that pushes the content count past
// half; with no content it is the list length and the second half is empty.
func contentMidpoint(commands []model.Command) int {
	contentCount := 0
	for _, c := range commands {
		if c.IsContent() {
			contentCount++
		}
	}
	if contentCount == 0 {
		return len(commands)
	}

	target := contentCount / 2
	seen := 0
	for i, c := range commands {
		if c.IsContent() {
			seen++
			if seen > target {
				return i
			}
		}
	}
	return len(commands)
}

// InjectReprintMarkers transforms a print job into its reprint form: the
// banner appears at the top, at the content midpoint and at the bottom, the
// surrounding formatting is preserved across each banner, and the job gets
// its own Init and terminating cut. Pure: the input slice is not modified.
//
// Layout of the result:
//
//	Init, marker, reset,
//	first half,
//	reset, feed, marker, feed, restore(midpoint state),
//	second half,
//	reset, feed, marker, PrintCut
func InjectReprintMarkers(commands []model.Command) []model.Command {
	timestamp := time.Now().Format("2006-01-02  15:04:05")
	marker := markerCommands(timestamp)

	// The injector owns the cut at the end; any cuts in the original would
	// sever the receipt mid-way.
	original := make([]model.Command, 0, len(commands))
	for _, c := range commands {
		if c.IsCut() {
			continue
		}
		original = append(original, c)
	}
	if len(original) > 0 && original[0].Name == model.CmdInit {
		original = original[1:]
	}

	midpoint := contentMidpoint(original)
	firstHalf, secondHalf := original[:midpoint], original[midpoint:]

	state := DefaultFormattingState()
	for _, c := range firstHalf {
		state.Apply(c)
	}

	result := make([]model.Command, 0, len(original)+3*len(marker)+3*len(ResetCommands())+8)

	result = append(result, model.Init())
	result = append(result, marker...)
	result = append(result, ResetCommands()...)

	result = append(result, firstHalf...)

	result = append(result, ResetCommands()...)
	result = append(result, model.Feed(true))
	result = append(result, marker...)
	result = append(result, model.Feed(true))
	result = append(result, state.RestoreCommands()...)

	result = append(result, secondHalf...)

	result = append(result, ResetCommands()...)
	result = append(result, model.Feed(true))
	result = append(result, marker...)
	result = append(result, model.PrintCut())

	return result
}
