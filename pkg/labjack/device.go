// Package labjack abstracts the streaming ADC that produces scan blocks.
//
// The acquisition core only depends on the Device interface; the wire
// protocol of a real T-series unit lives behind it. The package ships a
// Simulator so the daemon and the tests can run without hardware.
package labjack

import (
	"errors"
	"fmt"

	"hotfilm/pkg/scan"
)

var (
	// ErrDevice wraps any non-recoverable device condition. The core
	// treats it as fatal and stops the session.
	ErrDevice = errors.New("device error")
	// ErrNotOpen is returned when a stream operation is attempted before
	// Open succeeded.
	ErrNotOpen = fmt.Errorf("%w: not open", ErrDevice)
	// ErrNotStreaming is returned by ReadBlock outside a running stream.
	ErrNotStreaming = fmt.Errorf("%w: stream not started", ErrDevice)
)

// StreamConfig carries the register configuration written before a stream
// session starts. Channels is the scan list in order, counter channel first
// when enabled.
type StreamConfig struct {
	Channels        []string
	ScanRate        float64
	ResolutionIndex int
	SettlingUS      float64
	InputRange      float64
	CounterEnabled  bool
}

// Device is the capability the acquisition core consumes. ReadBlock blocks
// until a full block of scans is available or the device fails; it reports
// the device-side and library-side scan backlogs for flow-control
// diagnostics. Skipped scans appear as scan.Skipped placeholder cells.
type Device interface {
	Open() error
	Configure(cfg StreamConfig) error
	// StartStream begins streaming scansPerRead scans per read and
	// returns the actual scan rate granted by the device, which may
	// differ slightly from the requested rate.
	StartStream(scansPerRead int) (float64, error)
	ReadBlock(b *scan.Block) (deviceBacklog, queueBacklog int, err error)
	StopStream() error
	Close() error
	// Info describes the open handle for logging.
	Info() HandleInfo
}

// HandleInfo describes an open device handle.
type HandleInfo struct {
	DeviceType        int
	ConnectionType    int
	SerialNumber      int
	IPAddress         string
	Port              int
	MaxBytesPerPacket int
}

func (i HandleInfo) String() string {
	return fmt.Sprintf("deviceType: %s; connectionType: %s; serialNumber: %d; IP address: %s; port: %d; max bytes per packet: %d",
		DeviceTypeName(i.DeviceType), ConnectionTypeName(i.ConnectionType),
		i.SerialNumber, i.IPAddress, i.Port, i.MaxBytesPerPacket)
}
