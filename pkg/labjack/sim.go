package labjack

import (
	"fmt"
	"math"
	"time"

	"hotfilm/pkg/scan"
)

// Simulator is an in-process Device that produces a paced scan stream
// without hardware: sine waves on the analog channels and a counter channel
// stepping at the top of every wall-clock second, like a PPS wired to a
// counter input.
type Simulator struct {
	// Pace makes ReadBlock sleep so a read takes scansPerRead/scanRate of
	// wall time, like a real stream. Tests leave it off.
	Pace bool
	// SkipEvery injects a skipped-scan placeholder into every n-th cell,
	// 0 disables injection.
	SkipEvery int
	// FailAfterReads makes ReadBlock fail once that many reads
	// succeeded, 0 never fails. Used to exercise session abort.
	FailAfterReads int

	opened       bool
	streaming    bool
	cfg          StreamConfig
	scansPerRead int
	scanPeriod   time.Duration
	// next is the simulated time of the next scan to produce.
	next  time.Time
	cell  int
	reads int
}

// NewSimulator returns a closed simulator.
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Open marks the device available.
func (d *Simulator) Open() error {
	d.opened = true
	return nil
}

// Configure stores the stream configuration.
func (d *Simulator) Configure(cfg StreamConfig) error {
	if !d.opened {
		return ErrNotOpen
	}
	if len(cfg.Channels) == 0 {
		return fmt.Errorf("%w: empty scan list", ErrDevice)
	}
	if cfg.ScanRate <= 0 {
		return fmt.Errorf("%w: scan rate %v", ErrDevice, cfg.ScanRate)
	}
	d.cfg = cfg
	return nil
}

// StartStream begins producing blocks of scansPerRead scans. The simulator
// grants the requested scan rate exactly.
func (d *Simulator) StartStream(scansPerRead int) (float64, error) {
	if !d.opened {
		return 0, ErrNotOpen
	}
	if scansPerRead <= 0 {
		return 0, fmt.Errorf("%w: scans per read %d", ErrDevice, scansPerRead)
	}
	d.scansPerRead = scansPerRead
	d.scanPeriod = time.Duration(float64(time.Second) / d.cfg.ScanRate)
	d.next = time.Now()
	d.streaming = true
	d.reads = 0
	d.cell = 0
	return d.cfg.ScanRate, nil
}

// ReadBlock fills b with the next scansPerRead scans.
func (d *Simulator) ReadBlock(b *scan.Block) (int, int, error) {
	if !d.streaming {
		return 0, 0, ErrNotStreaming
	}
	if b.Channels() != len(d.cfg.Channels) || b.Scans() != d.scansPerRead {
		return 0, 0, fmt.Errorf("%w: block is %dx%d, stream is %dx%d",
			ErrDevice, b.Scans(), b.Channels(), d.scansPerRead, len(d.cfg.Channels))
	}
	if d.FailAfterReads > 0 && d.reads >= d.FailAfterReads {
		return 0, 0, fmt.Errorf("%w: simulated stream failure", ErrDevice)
	}

	data := b.Data()
	nchan := b.Channels()
	for s := 0; s < b.Scans(); s++ {
		t := d.next
		for c := 0; c < nchan; c++ {
			v := d.value(c, t)
			if d.SkipEvery > 0 && d.cell%d.SkipEvery == d.SkipEvery-1 {
				v = scan.Skipped
			}
			data[c+s*nchan] = v
			d.cell++
		}
		d.next = d.next.Add(d.scanPeriod)
	}

	if d.Pace {
		if wait := time.Until(d.next); wait > 0 {
			time.Sleep(wait)
		}
	}

	d.reads++
	return 0, 0, nil
}

// value produces the raw value of channel c at simulated time t. The
// counter channel carries the number of whole seconds, so it steps exactly
// at the top of each second.
func (d *Simulator) value(c int, t time.Time) float64 {
	if c == 0 && d.cfg.CounterEnabled {
		return float64(t.Unix())
	}
	// one sine per channel, slightly detuned so channels are told apart
	sec := float64(t.UnixNano()) / float64(time.Second)
	f := 10.0 + float64(c)
	return math.Sin(2 * math.Pi * f * sec)
}

// StopStream ends the stream session.
func (d *Simulator) StopStream() error {
	if !d.streaming {
		return ErrNotStreaming
	}
	d.streaming = false
	return nil
}

// Close releases the device.
func (d *Simulator) Close() error {
	d.streaming = false
	d.opened = false
	return nil
}

// Info describes the simulated handle.
func (d *Simulator) Info() HandleInfo {
	return HandleInfo{
		DeviceType:        DeviceTypeDemo,
		ConnectionType:    ConnectionTypeAny,
		SerialNumber:      0,
		IPAddress:         "0.0.0.0",
		Port:              0,
		MaxBytesPerPacket: 0,
	}
}
