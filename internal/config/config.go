// File: internal/config/config.go
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the entire application configuration.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger" yaml:"logger"`
	Sequencer SequencerConfig `mapstructure:"sequencer" yaml:"sequencer"`
	Console   ConsoleConfig   `mapstructure:"console" yaml:"console"`
	Profiles  ProfilesConfig  `mapstructure:"profiles" yaml:"profiles"`
}

// LoggerConfig controls the zap logger factory in internal/observability.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// SequencerConfig tunes the action sequencer's timing behavior. Every
// simulated input is followed by SettleDelay so the target page can catch up.
type SequencerConfig struct {
	// SettleDelay is the pause after each simulated input action.
	SettleDelay time.Duration `mapstructure:"settle_delay" yaml:"settle_delay"`
	// ClickSettle is the shorter pause after a positional click.
	ClickSettle time.Duration `mapstructure:"click_settle" yaml:"click_settle"`
	// WaitHintMin/Max clamp the adaptive response-wait hint, in seconds.
	WaitHintMin float64 `mapstructure:"wait_hint_min" yaml:"wait_hint_min"`
	WaitHintMax float64 `mapstructure:"wait_hint_max" yaml:"wait_hint_max"`
	// PollInterval is how often the detector re-reads the console output.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	// MinResponseLen is the threshold below which extracted text is discarded.
	MinResponseLen int `mapstructure:"min_response_len" yaml:"min_response_len"`
	// OpenThrottle is the minimum interval between browser URL opens.
	OpenThrottle time.Duration `mapstructure:"open_throttle" yaml:"open_throttle"`
}

// ConsoleConfig tunes the devtools console bridge timing.
type ConsoleConfig struct {
	// OpenSettle is the wait after the console-open hotkey.
	OpenSettle time.Duration `mapstructure:"open_settle" yaml:"open_settle"`
	// ExecSettle is the wait after injecting a script before reading back.
	ExecSettle time.Duration `mapstructure:"exec_settle" yaml:"exec_settle"`
	// PasteSettle is the small wait after a clipboard paste.
	PasteSettle time.Duration `mapstructure:"paste_settle" yaml:"paste_settle"`
}

// ProfilesConfig locates the externally authored platform profile store.
type ProfilesConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// NewDefaultConfig returns a Config populated with the default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "liris-cli")
	v.SetDefault("logger.log_file", "liris.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)

	// -- Sequencer --
	v.SetDefault("sequencer.settle_delay", "500ms")
	v.SetDefault("sequencer.click_settle", "300ms")
	v.SetDefault("sequencer.wait_hint_min", 3.0)
	v.SetDefault("sequencer.wait_hint_max", 12.0)
	v.SetDefault("sequencer.poll_interval", "500ms")
	v.SetDefault("sequencer.min_response_len", 15)
	v.SetDefault("sequencer.open_throttle", "3s")

	// -- Console --
	v.SetDefault("console.open_settle", "800ms")
	v.SetDefault("console.exec_settle", "800ms")
	v.SetDefault("console.paste_settle", "100ms")

	// -- Profiles --
	v.SetDefault("profiles.path", "platforms.yaml")
}

// Validate checks the configuration for values that would break a run.
func (c *Config) Validate() error {
	if c.Sequencer.WaitHintMin <= 0 {
		return fmt.Errorf("sequencer.wait_hint_min must be a positive number of seconds")
	}
	if c.Sequencer.WaitHintMax < c.Sequencer.WaitHintMin {
		return fmt.Errorf("sequencer.wait_hint_max must be >= sequencer.wait_hint_min")
	}
	if c.Sequencer.PollInterval <= 0 {
		return fmt.Errorf("sequencer.poll_interval must be a positive duration")
	}
	if c.Sequencer.MinResponseLen < 0 {
		return fmt.Errorf("sequencer.min_response_len must not be negative")
	}
	if c.Console.OpenSettle <= 0 {
		return fmt.Errorf("console.open_settle must be a positive duration")
	}
	if c.Profiles.Path == "" {
		return fmt.Errorf("profiles.path is a required configuration field")
	}
	return nil
}
