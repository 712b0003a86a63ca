package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"

	"hotfilm/pkg/sample"
	"hotfilm/pkg/scan"
)

// ErrInvalid marks a configuration error. Invalid combinations are fatal,
// surfaced before streaming starts, and never retried.
var ErrInvalid = errors.New("invalid configuration")

// Config defines the struct of the global config and of the configuration
// file.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	IDs       IDConfig        `yaml:"ids"`
	MQTT      MQTTConfig      `yaml:"mqtt"`
	Webserver WebserverConfig `yaml:"webserver"`
	Debug     DebugConfig     `yaml:"debug"`
	Flag      FlagConfig      `yaml:"-"`
}

// DeviceConfig describes the stream session: the scan list, cadence and
// device register settings.
type DeviceConfig struct {
	// ScanRate is the stream scan rate in Hz.
	ScanRate float64 `yaml:"scanrate"`
	// ScansPerRead is the block size per read; half the scan rate by
	// convention, so two reads fill one accumulation window.
	ScansPerRead int `yaml:"scansperread"`
	// Channels are the analog input channels to scan, in order.
	Channels []string `yaml:"channels"`
	// CounterChannel is the counter input carrying the PPS.
	CounterChannel string `yaml:"counterchannel"`
	// PPS enables scanning the counter channel ahead of the analog ones.
	PPS bool `yaml:"pps"`
	// Resolution is the ADC resolution index, 0-8.
	Resolution int `yaml:"resolution"`
	// SettlingUS is the stream settling time in microseconds.
	SettlingUS float64 `yaml:"settling"`
	// InputRange is the analog input range, 0 selects the device default.
	InputRange float64 `yaml:"range"`
	// ReadLimit stops the session after that many reads, 0 = unbounded.
	ReadLimit int `yaml:"readlimit"`
	// Diagnostics enables per-read skip and backlog reporting.
	Diagnostics bool `yaml:"diagnostics"`
}

// IDConfig assigns output record identifiers. Empty lists derive the
// conventional scheme from Base: diagnostic Base+1, counter series Base+2,
// analog stats Base+10+i, analog series Base+20+i.
type IDConfig struct {
	Base       uint32   `yaml:"base"`
	Diagnostic uint32   `yaml:"diagnostic"`
	Series     []uint32 `yaml:"series"`
	Stats      []uint32 `yaml:"stats"`
}

// FlagConfig holds the command line flag destinations.
type FlagConfig struct {
	ConfigFile string
	LogLevel   string
}

// WebserverConfig defines the webserver and webservice configuration.
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the mqtt client configuration.
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the debug logger configuration.
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

// NewConfig returns the default configuration: four differential analog
// inputs and the PPS counter on DIO0, streaming at 2 kHz.
func NewConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			ScanRate:       2000,
			ScansPerRead:   1000,
			Channels:       []string{"AIN0", "AIN2", "AIN4", "AIN6"},
			CounterChannel: "DIO0_EF_READ_A",
			PPS:            true,
			Resolution:     8,
		},
		IDs: IDConfig{Base: 500},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version": true,
				"health":  true,
				"data":    true,
			},
		},
		MQTT: MQTTConfig{
			Connection: "",
			Topic:      "hotfilm",
		},
	}
}

// LoadConfig reads the configuration file and applies the log flag.
// Validate must pass afterwards, once command line overrides are applied.
func (c *Config) LoadConfig() error {
	if err := c.readConfigFile(); err != nil {
		return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
	}

	if c.Flag.LogLevel != "" {
		c.Debug.FlagString = c.Flag.LogLevel
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
	}

	return nil
}

// Validate checks the parameter combinations and fills in the derived id
// mapping. It must pass before the pipeline starts.
func (c *Config) Validate() error {
	d := &c.Device

	if len(d.Channels) == 0 {
		return fmt.Errorf("%w: no analog channels", ErrInvalid)
	}
	seen := map[string]bool{}
	for _, name := range d.Channels {
		if name == "" {
			return fmt.Errorf("%w: empty channel name", ErrInvalid)
		}
		if seen[name] {
			return fmt.Errorf("%w: duplicate channel %q", ErrInvalid, name)
		}
		seen[name] = true
	}
	if d.PPS {
		if d.CounterChannel == "" {
			return fmt.Errorf("%w: pps enabled but no counter channel", ErrInvalid)
		}
		if seen[d.CounterChannel] {
			return fmt.Errorf("%w: counter channel %q also listed as analog input", ErrInvalid, d.CounterChannel)
		}
	}

	if d.ScanRate <= 0 {
		return fmt.Errorf("%w: scan rate %v Hz", ErrInvalid, d.ScanRate)
	}
	if d.ScansPerRead < 1 {
		return fmt.Errorf("%w: scans per read %d", ErrInvalid, d.ScansPerRead)
	}
	// scans per read is chosen as half the scan rate, so two reads fill
	// one window; allow rounding only
	if math.Abs(float64(d.ScansPerRead)-d.ScanRate/2) > 0.5 {
		return fmt.Errorf("%w: scans per read %d is not half the scan rate %v Hz",
			ErrInvalid, d.ScansPerRead, d.ScanRate)
	}

	if d.Resolution < 0 || d.Resolution > 8 {
		return fmt.Errorf("%w: resolution index %d, must be 0-8", ErrInvalid, d.Resolution)
	}
	if d.SettlingUS < 0 {
		return fmt.Errorf("%w: settling time %v us", ErrInvalid, d.SettlingUS)
	}
	if d.ReadLimit < 0 {
		return fmt.Errorf("%w: read limit %d", ErrInvalid, d.ReadLimit)
	}

	return c.validateIDs()
}

func (c *Config) validateIDs() error {
	list := c.ScanList()
	nanalog := len(c.Device.Channels)

	if c.IDs.Base == 0 {
		c.IDs.Base = 500
	}
	if c.IDs.Diagnostic == 0 {
		c.IDs.Diagnostic = c.IDs.Base + 1
	}
	if len(c.IDs.Series) == 0 {
		j := uint32(0)
		for _, ch := range list {
			if ch.Counter {
				c.IDs.Series = append(c.IDs.Series, c.IDs.Base+2)
				continue
			}
			c.IDs.Series = append(c.IDs.Series, c.IDs.Base+20+j)
			j++
		}
	}
	if len(c.IDs.Stats) == 0 {
		for j := 0; j < nanalog; j++ {
			c.IDs.Stats = append(c.IDs.Stats, c.IDs.Base+10+uint32(j))
		}
	}

	if len(c.IDs.Series) != len(list) {
		return fmt.Errorf("%w: %d series ids for %d channels", ErrInvalid, len(c.IDs.Series), len(list))
	}
	if len(c.IDs.Stats) != nanalog {
		return fmt.Errorf("%w: %d stats ids for %d analog channels", ErrInvalid, len(c.IDs.Stats), nanalog)
	}
	return nil
}

// ScanList returns the configured scan list; the counter channel, if
// enabled, is always ordinal 0.
func (c *Config) ScanList() []scan.Channel {
	var list []scan.Channel
	if c.Device.PPS {
		list = append(list, scan.Channel{Name: c.Device.CounterChannel, Counter: true})
	}
	for _, name := range c.Device.Channels {
		list = append(list, scan.Channel{Name: name})
	}
	return list
}

// IDMap returns the validated record id mapping.
func (c *Config) IDMap() sample.IDMap {
	return sample.IDMap{
		Diagnostic: c.IDs.Diagnostic,
		Series:     c.IDs.Series,
		Stats:      c.IDs.Stats,
	}
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil {
		return err
	}

	return nil
}

func (c *Config) setDebugConfig() (err error) {
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
