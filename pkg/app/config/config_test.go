package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotfilm/pkg/scan"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 2000.0, cfg.Device.ScanRate)
	assert.Equal(t, 1000, cfg.Device.ScansPerRead)
	assert.True(t, cfg.Device.PPS)
}

func TestValidateRejections(t *testing.T) {
	for _, tt := range []struct {
		name   string
		mutate func(*Config)
	}{
		{"no channels", func(c *Config) { c.Device.Channels = nil }},
		{"empty channel name", func(c *Config) { c.Device.Channels = []string{"AIN0", ""} }},
		{"duplicate channel", func(c *Config) { c.Device.Channels = []string{"AIN0", "AIN0"} }},
		{"pps without counter channel", func(c *Config) { c.Device.CounterChannel = "" }},
		{"counter listed as analog", func(c *Config) {
			c.Device.Channels = append(c.Device.Channels, c.Device.CounterChannel)
		}},
		{"zero scan rate", func(c *Config) { c.Device.ScanRate = 0 }},
		{"zero scans per read", func(c *Config) { c.Device.ScansPerRead = 0 }},
		{"scans per read not half the rate", func(c *Config) { c.Device.ScansPerRead = 800 }},
		{"resolution out of range", func(c *Config) { c.Device.Resolution = 9 }},
		{"negative settling", func(c *Config) { c.Device.SettlingUS = -1 }},
		{"negative read limit", func(c *Config) { c.Device.ReadLimit = -1 }},
		{"series id count mismatch", func(c *Config) { c.IDs.Series = []uint32{502} }},
		{"stats id count mismatch", func(c *Config) { c.IDs.Stats = []uint32{510, 511} }},
	} {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

func TestValidateAllowsRoundedScansPerRead(t *testing.T) {
	cfg := NewConfig()
	cfg.Device.ScanRate = 2001
	cfg.Device.ScansPerRead = 1000
	assert.NoError(t, cfg.Validate())
}

func TestScanListPutsCounterFirst(t *testing.T) {
	cfg := NewConfig()
	list := cfg.ScanList()

	require.Len(t, list, 5)
	assert.Equal(t, scan.Channel{Name: "DIO0_EF_READ_A", Counter: true}, list[0])
	assert.Equal(t, scan.Channel{Name: "AIN0"}, list[1])

	cfg.Device.PPS = false
	list = cfg.ScanList()
	require.Len(t, list, 4)
	assert.False(t, list[0].Counter)
}

func TestValidateDerivesConventionalIDs(t *testing.T) {
	cfg := NewConfig()
	require.NoError(t, cfg.Validate())

	ids := cfg.IDMap()
	assert.Equal(t, uint32(501), ids.Diagnostic)
	// counter series, then one series id per analog channel
	assert.Equal(t, []uint32{502, 520, 521, 522, 523}, ids.Series)
	assert.Equal(t, []uint32{510, 511, 512, 513}, ids.Stats)
}

func TestValidateDerivesIDsFromCustomBase(t *testing.T) {
	cfg := NewConfig()
	cfg.IDs.Base = 700
	require.NoError(t, cfg.Validate())

	ids := cfg.IDMap()
	assert.Equal(t, uint32(701), ids.Diagnostic)
	assert.Equal(t, []uint32{702, 720, 721, 722, 723}, ids.Series)
	assert.Equal(t, []uint32{710, 711, 712, 713}, ids.Stats)
}

func TestValidateKeepsExplicitIDs(t *testing.T) {
	cfg := NewConfig()
	cfg.IDs.Diagnostic = 9001
	cfg.IDs.Series = []uint32{1, 2, 3, 4, 5}
	cfg.IDs.Stats = []uint32{6, 7, 8, 9}
	require.NoError(t, cfg.Validate())

	ids := cfg.IDMap()
	assert.Equal(t, uint32(9001), ids.Diagnostic)
	assert.Equal(t, []uint32{1, 2, 3, 4, 5}, ids.Series)
	assert.Equal(t, []uint32{6, 7, 8, 9}, ids.Stats)
}

func TestValidateWithoutPPSNeedsNoCounterIDs(t *testing.T) {
	cfg := NewConfig()
	cfg.Device.PPS = false
	require.NoError(t, cfg.Validate())

	ids := cfg.IDMap()
	// no counter channel, so the series ids are the analog ones only
	assert.Equal(t, []uint32{520, 521, 522, 523}, ids.Series)
	assert.Equal(t, []uint32{510, 511, 512, 513}, ids.Stats)
}
