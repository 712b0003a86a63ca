package acquire

import (
	"fmt"
	"time"

	"github.com/womat/debug"

	"hotfilm/pkg/labjack"
	"hotfilm/pkg/pps"
	"hotfilm/pkg/sample"
	"hotfilm/pkg/scan"
)

// Options are the validated session parameters of one stream run.
type Options struct {
	// Channels is the scan list; a counter channel, if present, is
	// ordinal 0.
	Channels []scan.Channel
	// ScanRate is the requested scan rate in Hz.
	ScanRate float64
	// ScansPerRead is the block size of one device read, half the scan
	// rate by convention.
	ScansPerRead int
	// ReadLimit stops the session after that many reads, 0 runs
	// unbounded.
	ReadLimit int
	// Diagnostics enables per-read backlog and skip reporting.
	Diagnostics bool
	// PPS enables edge detection on the counter channel. Without it the
	// window timestamps are approximated and unsynchronized.
	PPS bool
}

// Acquirer owns the synchronous pipeline of one stream session:
// read, detect edge, accumulate, and on a full window finalize the
// timestamp, compute statistics and publish. The blocking device read is
// the only suspension point; all buffers are owned by the loop.
type Acquirer struct {
	device    labjack.Device
	publisher *sample.Publisher
	opt       Options
}

// New wires an acquirer. The device must already be open and configured.
func New(device labjack.Device, publisher *sample.Publisher, opt Options) *Acquirer {
	return &Acquirer{device: device, publisher: publisher, opt: opt}
}

// Run starts the stream and drives the pipeline until the read limit is
// reached or the device fails. A device failure aborts the session after a
// best-effort stream stop and is returned to the caller; timing anomalies
// are diagnostics, not errors.
func (a *Acquirer) Run() error {
	nchan := len(a.opt.Channels)
	block := scan.NewBlock(nchan, a.opt.ScansPerRead)
	acc := NewAccumulator(nchan, a.opt.ScansPerRead)

	debug.InfoLog.Printf("starting stream, %d scans per read, %d channels, requesting scan rate %.2f Hz",
		a.opt.ScansPerRead, nchan, a.opt.ScanRate)

	rate, err := a.device.StartStream(a.opt.ScansPerRead)
	if err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}
	debug.InfoLog.Printf("stream started, actual scan rate %.2f Hz (%.2f sample rate)",
		rate, rate*float64(nchan))

	// the corrector works with the granted rate, not the requested one
	corrector := pps.NewCorrector(rate)
	var detector *pps.EdgeDetector
	if a.opt.PPS {
		detector = pps.NewEdgeDetector(0)
	}

	windowEdge := -1
	windowSkipped := 0
	totalSkipped := 0

	for reads := 0; a.opt.ReadLimit == 0 || reads < a.opt.ReadLimit; reads++ {
		before := time.Now()
		deviceBacklog, queueBacklog, err := a.device.ReadBlock(block)
		completion := time.Now()
		if err != nil {
			a.stopStream()
			return fmt.Errorf("reading scan block: %w", err)
		}
		readTime := completion.Sub(before)

		if skipped := block.CountSkipped(); skipped > 0 {
			windowSkipped += skipped
			totalSkipped += skipped
			if a.opt.Diagnostics {
				debug.ErrorLog.Printf("%d cells were placeholders for skipped scans (%.1f%% of the read)",
					skipped, 100*float64(skipped)/float64(len(block.Data())))
			}
		}
		if a.opt.Diagnostics {
			debug.DebugLog.Printf("read %d completed in %.1f ms, device backlog %d, queue backlog %d",
				reads, float64(readTime)/float64(time.Millisecond), deviceBacklog, queueBacklog)
		}

		if detector != nil {
			if e := detector.Scan(block); e >= 0 {
				windowEdge = e
				corrector.Observe(e, completion)
				if a.opt.Diagnostics {
					debug.DebugLog.Printf("counter transition to %v at window scan %d",
						detector.Counter(), e)
				}
			}
		}

		full, err := acc.Append(block)
		if err != nil {
			a.stopStream()
			return err
		}
		if !full {
			continue
		}

		res := corrector.Finalize(completion)
		switch {
		case res.Approximate:
			debug.ErrorLog.Print("no counter transition in last window, approximating time tag")
		case res.Adjustment != 0:
			debug.ErrorLog.Printf("window timestamp off by one second, adjusted by %v towards expected value",
				res.Adjustment)
		case res.Anomaly:
			debug.ErrorLog.Printf("window timestamp %v outside expected range, using as computed",
				res.Time)
		}

		counter := -1.0
		if detector != nil {
			counter = detector.Counter()
		}

		w := sample.Window{
			Time:          res.Time,
			Series:        acc.Windows(),
			Counter:       counter,
			EdgeIndex:     windowEdge,
			DeviceBacklog: deviceBacklog,
			QueueBacklog:  queueBacklog,
			ReadTime:      readTime,
			Offset:        res.Offset,
			Approximate:   res.Approximate,
			Anomaly:       res.Anomaly,
			SkippedScans:  windowSkipped,
		}
		for i, ch := range a.opt.Channels {
			if ch.Counter {
				continue
			}
			mean, min, max := sample.ComputeStats(acc.Window(i))
			w.Stats = append(w.Stats, sample.ChannelStats{Mean: mean, Min: min, Max: max})
		}
		a.publisher.PublishWindow(w)

		acc.Reset()
		if detector != nil {
			detector.Reset()
		}
		windowEdge = -1
		windowSkipped = 0
	}

	if totalSkipped > 0 {
		debug.ErrorLog.Printf("total skipped scan cells this session: %d", totalSkipped)
	}
	debug.InfoLog.Print("stopping stream")
	if err := a.device.StopStream(); err != nil {
		return fmt.Errorf("stopping stream: %w", err)
	}
	return nil
}

// stopStream is the best-effort stop on the abort path.
func (a *Acquirer) stopStream() {
	if err := a.device.StopStream(); err != nil {
		debug.ErrorLog.Printf("stopping stream after failure: %v", err)
	}
}
