// internal/config/config_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexID(t *testing.T) {
	v, err := parseHexID("0x0483")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0483), v)

	v, err = parseHexID("5840")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x5840), v)

	_, err = parseHexID("")
	assert.Error(t, err)

	_, err = parseHexID("0xZZZZ")
	assert.Error(t, err)
}

func TestResolvedUSBStandardPreset(t *testing.T) {
	cfg := PrinterConfig{Preset: PresetStandard}

	usb, err := cfg.ResolvedUSB()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0483), usb.VendorID)
	assert.Equal(t, uint16(0x5840), usb.ProductID)
	assert.Nil(t, usb.Endpoint, "standard preset auto-discovers endpoints")
	assert.Nil(t, usb.Interface)
}

func TestResolvedUSBIcsAdventPreset(t *testing.T) {
	cfg := PrinterConfig{Preset: PresetIcsAdvent}

	usb, err := cfg.ResolvedUSB()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x0FE6), usb.VendorID)
	assert.Equal(t, uint16(0x811E), usb.ProductID)
	require.NotNil(t, usb.Endpoint)
	assert.Equal(t, uint8(1), *usb.Endpoint)
	require.NotNil(t, usb.Interface)
	assert.Equal(t, uint8(0), *usb.Interface)
}

func TestResolvedUSBManualPreset(t *testing.T) {
	ep, intf := uint8(3), uint8(1)
	cfg := PrinterConfig{
		Preset:    PresetManual,
		VendorID:  "0x1234",
		ProductID: "0xABCD",
		Endpoint:  &ep,
		Interface: &intf,
	}

	usb, err := cfg.ResolvedUSB()
	require.NoError(t, err)
	assert.Equal(t, uint16(0x1234), usb.VendorID)
	assert.Equal(t, uint16(0xABCD), usb.ProductID)
	assert.Equal(t, uint8(3), *usb.Endpoint)
	assert.Equal(t, uint8(1), *usb.Interface)
}

func TestResolvedUSBManualRejectsBadIDs(t *testing.T) {
	cfg := PrinterConfig{Preset: PresetManual, VendorID: "nope", ProductID: "0x5840"}
	_, err := cfg.ResolvedUSB()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := &Config{
		Server:  ServerConfig{Port: "55000"},
		Printer: PrinterConfig{Preset: PresetStandard},
		History: HistoryConfig{MaxEntries: 100},
		Logging: LoggingConfig{Level: "info"},
	}
	assert.NoError(t, validate(valid))

	badPreset := *valid
	badPreset.Printer.Preset = "unknown"
	assert.Error(t, validate(&badPreset))

	badLevel := *valid
	badLevel.Logging.Level = "verbose"
	assert.Error(t, validate(&badLevel))

	badHistory := *valid
	badHistory.History.MaxEntries = 0
	assert.Error(t, validate(&badHistory))
}
