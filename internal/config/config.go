// internal/config/config.go
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"printer-service/internal/transport"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Printer  PrinterConfig  `mapstructure:"printer"`
	Sensor   SensorConfig   `mapstructure:"sensor"`
	Health   HealthConfig   `mapstructure:"health"`
	History  HistoryConfig  `mapstructure:"history"`
	Security SecurityConfig `mapstructure:"security"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

// Printer presets. A preset pins the VID/PID (and for some devices the
// endpoints) of a known printer model; "manual" reads all four values from
// the config file.
const (
	PresetStandard  = "standard"
	PresetIcsAdvent = "ics_advent"
	PresetManual    = "manual"
)

// PrinterConfig selects the physical device.
type PrinterConfig struct {
	Preset    string `mapstructure:"preset"`
	VendorID  string `mapstructure:"vendor_id"`
	ProductID string `mapstructure:"product_id"`
	Endpoint  *uint8 `mapstructure:"endpoint"`
	Interface *uint8 `mapstructure:"interface"`
}

// SensorConfig represents the outbound health reporting configuration.
// Reporting is disabled when APIKey is empty.
type SensorConfig struct {
	APIKey    string `mapstructure:"api_key"`
	ServerURL string `mapstructure:"server_url"`
}

// HealthConfig represents the periodic connection probe configuration
type HealthConfig struct {
	CheckInterval time.Duration `mapstructure:"check_interval"`
}

// HistoryConfig represents the print history recorder configuration
type HistoryConfig struct {
	Path       string `mapstructure:"path"`
	MaxEntries int    `mapstructure:"max_entries"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.SetEnvPrefix("PRINTER_SERVICE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	// A missing config file is fine; the defaults describe a standard
	// kiosk deployment.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", "55000")
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "120s")

	// Printer defaults
	viper.SetDefault("printer.preset", PresetStandard)
	viper.SetDefault("printer.vendor_id", "0x0483")
	viper.SetDefault("printer.product_id", "0x5840")

	// Sensor defaults
	viper.SetDefault("sensor.api_key", "")
	viper.SetDefault("sensor.server_url", "https://localhost:8443")

	// Health defaults
	viper.SetDefault("health.check_interval", "30s")

	// History defaults
	viper.SetDefault("history.path", "./print_log.json")
	viper.SetDefault("history.max_entries", 100)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output", "stdout")
	viper.SetDefault("logging.max_size", 100)
	viper.SetDefault("logging.max_backups", 3)
	viper.SetDefault("logging.max_age", 28)
	viper.SetDefault("logging.compress", true)

	// App defaults
	viper.SetDefault("app.name", "printer-service")
	viper.SetDefault("app.version", "1.0.0")
	viper.SetDefault("app.environment", "production")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}

	switch config.Printer.Preset {
	case PresetStandard, PresetIcsAdvent, PresetManual:
	default:
		return fmt.Errorf("printer.preset must be one of: %s, %s, %s",
			PresetStandard, PresetIcsAdvent, PresetManual)
	}

	if config.Printer.Preset == PresetManual {
		if _, err := parseHexID(config.Printer.VendorID); err != nil {
			return fmt.Errorf("printer.vendor_id: %w", err)
		}
		if _, err := parseHexID(config.Printer.ProductID); err != nil {
			return fmt.Errorf("printer.product_id: %w", err)
		}
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	if config.History.MaxEntries <= 0 {
		return fmt.Errorf("history.max_entries must be positive")
	}

	return nil
}

// parseHexID parses a USB id in "0xABCD" or bare hex form.
func parseHexID(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if s == "" {
		return 0, fmt.Errorf("empty id")
	}
	v, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid hex id %q", s)
	}
	return uint16(v), nil
}

// ResolvedUSB resolves the preset (or manual values) into the concrete
// transport configuration.
func (c *PrinterConfig) ResolvedUSB() (transport.Config, error) {
	switch c.Preset {
	case PresetIcsAdvent:
		ep, intf := uint8(1), uint8(0)
		return transport.Config{
			VendorID:  0x0FE6,
			ProductID: 0x811E,
			Endpoint:  &ep,
			Interface: &intf,
		}, nil
	case PresetManual:
		vid, err := parseHexID(c.VendorID)
		if err != nil {
			return transport.Config{}, err
		}
		pid, err := parseHexID(c.ProductID)
		if err != nil {
			return transport.Config{}, err
		}
		return transport.Config{
			VendorID:  vid,
			ProductID: pid,
			Endpoint:  c.Endpoint,
			Interface: c.Interface,
		}, nil
	default: // standard
		return transport.Config{VendorID: 0x0483, ProductID: 0x5840}, nil
	}
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}
