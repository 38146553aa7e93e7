// internal/service/reprint_test.go
package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printer-service/internal/model"
)

func countMarkers(cmds []model.Command) int {
	n := 0
	for _, c := range cmds {
		if c.Name == model.CmdWriteln && strings.Contains(c.Text, "REPRINT COPY") {
			n++
		}
	}
	return n
}

func TestFormattingStateDefaults(t *testing.T) {
	s := DefaultFormattingState()

	assert.False(t, s.Bold)
	assert.Equal(t, model.UnderlineNone, s.Underline)
	assert.Equal(t, model.JustifyLeft, s.Justify)
	assert.Equal(t, [2]uint8{1, 1}, s.Size)
	assert.Equal(t, model.FontA, s.Font)
}

func TestFormattingStateApply(t *testing.T) {
	s := DefaultFormattingState()

	s.Apply(model.Bold(true))
	assert.True(t, s.Bold)

	s.Apply(model.Size(2, 3))
	assert.Equal(t, [2]uint8{2, 3}, s.Size)

	s.Apply(model.Underline(model.UnderlineDouble))
	assert.Equal(t, model.UnderlineDouble, s.Underline)

	// Init collapses everything back to defaults.
	s.Apply(model.Init())
	assert.Equal(t, DefaultFormattingState(), s)
}

func TestFormattingStateApplyIgnoresContent(t *testing.T) {
	s := DefaultFormattingState()
	s.Apply(model.Writeln("hello"))
	s.Apply(model.Qrcode("data"))
	assert.Equal(t, DefaultFormattingState(), s)
}

func TestRestoreOnlyEmitsNonDefaults(t *testing.T) {
	s := DefaultFormattingState()
	assert.Empty(t, s.RestoreCommands())

	s.Apply(model.Bold(true))
	s.Apply(model.Justify(model.JustifyCenter))

	cmds := s.RestoreCommands()
	require.Len(t, cmds, 2)
	assert.Equal(t, model.Bold(true), cmds[0])
	assert.Equal(t, model.Justify(model.JustifyCenter), cmds[1])
}

func TestResetCommandsCoverEveryAttribute(t *testing.T) {
	// Folding the reset block over any state must land on the defaults.
	s := FormattingState{
		Bold:         true,
		Underline:    model.UnderlineDouble,
		DoubleStrike: true,
		Reverse:      true,
		Justify:      model.JustifyRight,
		Size:         [2]uint8{4, 4},
		Smoothing:    true,
		Flip:         true,
		UpsideDown:   true,
		Font:         model.FontC,
	}
	for _, c := range ResetCommands() {
		s.Apply(c)
	}
	assert.Equal(t, DefaultFormattingState(), s)
}

func TestContentMidpoint(t *testing.T) {
	cmds := []model.Command{
		model.Bold(true),
		model.Writeln("line 1"),
		model.Writeln("line 2"),
		model.Bold(false),
		model.Writeln("line 3"),
		model.Writeln("line 4"),
	}
	// 4 content commands, target 2, split after the 3rd content command.
	assert.Equal(t, 4, contentMidpoint(cmds))
}

func TestContentMidpointNoContent(t *testing.T) {
	cmds := []model.Command{model.Bold(true), model.Feed(true)}
	assert.Equal(t, len(cmds), contentMidpoint(cmds))
}

func TestInjectStructure(t *testing.T) {
	cmds := []model.Command{
		model.Init(),
		model.Writeln("Hello"),
		model.Writeln("World"),
		model.PrintCut(),
	}

	result := InjectReprintMarkers(cmds)

	require.NotEmpty(t, result)
	assert.Equal(t, model.CmdInit, result[0].Name, "reprint supplies its own Init")
	assert.Equal(t, model.CmdPrintCut, result[len(result)-1].Name, "reprint ends with its own cut")
	assert.Equal(t, 3, countMarkers(result))

	// Exactly one cut: the terminating one.
	cuts := 0
	for _, c := range result {
		if c.IsCut() {
			cuts++
		}
	}
	assert.Equal(t, 1, cuts)
}

func TestInjectThreeMarkersWithNoContent(t *testing.T) {
	result := InjectReprintMarkers(nil)
	assert.Equal(t, 3, countMarkers(result))
	assert.Equal(t, model.CmdInit, result[0].Name)
	assert.Equal(t, model.CmdPrintCut, result[len(result)-1].Name)
}

func TestInjectStripsInteriorCuts(t *testing.T) {
	cmds := []model.Command{
		model.Writeln("top"),
		model.Cut(),
		model.Writeln("bottom"),
		model.PartialCut(),
	}

	result := InjectReprintMarkers(cmds)

	for i, c := range result[:len(result)-1] {
		assert.False(t, c.IsCut(), "unexpected cut at index %d", i)
	}
}

func TestInjectRestoresMidpointFormatting(t *testing.T) {
	// Bold turns on before the midpoint; the second half must resume bold.
	cmds := []model.Command{
		model.Writeln("A"),
		model.Bold(true),
		model.Writeln("B"),
		model.Writeln("C"),
	}

	result := InjectReprintMarkers(cmds)

	// The split lands after Writeln("B")'s predecessor, so "B" opens the
	// second half. Scan back from it: Bold(true) must appear after the mid
	// marker and before any other printed line.
	bIdx := -1
	for i, c := range result {
		if c.Name == model.CmdWriteln && c.Text == "B" {
			bIdx = i
		}
	}
	require.GreaterOrEqual(t, bIdx, 0)

	restored := false
	for i := bIdx - 1; i >= 0; i-- {
		c := result[i]
		if c.Name == model.CmdBold && c.Enabled {
			restored = true
			break
		}
		if c.Name == model.CmdWriteln {
			// Hit the marker text before finding the restore.
			break
		}
	}
	assert.True(t, restored, "expected Bold(true) restored before the second half")
}

func TestInjectDoesNotModifyInput(t *testing.T) {
	cmds := []model.Command{
		model.Init(),
		model.Writeln("Hello"),
		model.PrintCut(),
	}
	snapshot := append([]model.Command(nil), cmds...)

	InjectReprintMarkers(cmds)

	assert.Equal(t, snapshot, cmds)
}

func TestInjectMarkerTimestampIsFresh(t *testing.T) {
	// Marker legend carries a current timestamp line, not a cached one.
	result := InjectReprintMarkers([]model.Command{model.Writeln("x")})

	found := false
	for _, c := range result {
		if c.Name == model.CmdWriteln && strings.HasPrefix(c.Text, "  20") {
			found = true
		}
	}
	assert.True(t, found, "expected a timestamp line in the marker block")
}
