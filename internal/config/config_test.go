// File: internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "liris-cli", cfg.Logger.ServiceName)

	assert.Equal(t, 500*time.Millisecond, cfg.Sequencer.SettleDelay)
	assert.Equal(t, 300*time.Millisecond, cfg.Sequencer.ClickSettle)
	assert.Equal(t, 3.0, cfg.Sequencer.WaitHintMin)
	assert.Equal(t, 12.0, cfg.Sequencer.WaitHintMax)
	assert.Equal(t, 15, cfg.Sequencer.MinResponseLen)
	assert.Equal(t, 3*time.Second, cfg.Sequencer.OpenThrottle)

	assert.Equal(t, 800*time.Millisecond, cfg.Console.OpenSettle)
	assert.Equal(t, "platforms.yaml", cfg.Profiles.Path)
}

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, NewDefaultConfig().Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*Config)
		errSub string
	}{
		{
			name:   "non-positive wait hint min",
			mutate: func(c *Config) { c.Sequencer.WaitHintMin = 0 },
			errSub: "wait_hint_min",
		},
		{
			name:   "max below min",
			mutate: func(c *Config) { c.Sequencer.WaitHintMax = 1.0 },
			errSub: "wait_hint_max",
		},
		{
			name:   "zero poll interval",
			mutate: func(c *Config) { c.Sequencer.PollInterval = 0 },
			errSub: "poll_interval",
		},
		{
			name:   "negative min response length",
			mutate: func(c *Config) { c.Sequencer.MinResponseLen = -1 },
			errSub: "min_response_len",
		},
		{
			name:   "zero console open settle",
			mutate: func(c *Config) { c.Console.OpenSettle = 0 },
			errSub: "open_settle",
		},
		{
			name:   "empty profiles path",
			mutate: func(c *Config) { c.Profiles.Path = "" },
			errSub: "profiles.path",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errSub)
		})
	}
}

func TestViperOverridesDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set("sequencer.min_response_len", 42)
	v.Set("profiles.path", "custom.yaml")

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, 42, cfg.Sequencer.MinResponseLen)
	assert.Equal(t, "custom.yaml", cfg.Profiles.Path)
	require.NoError(t, cfg.Validate())
}
