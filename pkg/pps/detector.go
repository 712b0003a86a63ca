// Package pps locates the pulse-per-second reference inside the scan stream
// and turns it into absolute window timestamps.
//
// The PPS signal is wired to a device counter input that is scanned along
// with the analog channels, so its value steps once per second. The detector
// finds the scan index of that step; the corrector back-computes the wall
// clock time of the scan that must have happened at the top of a second.
package pps

import "hotfilm/pkg/scan"

// EdgeDetector watches the counter channel for a value transition. It keeps
// the last seen counter value across reads and the running scan offset
// within the current accumulation window, so the reported edge index is
// relative to the window start, not to the block.
type EdgeDetector struct {
	// channel is the ordinal of the counter channel in the scan list.
	channel int
	// last is the last observed counter value, valid once seen is set.
	last float64
	seen bool
	// offset is the number of scans of the current window consumed by
	// earlier Scan calls.
	offset int
}

// NewEdgeDetector returns a detector reading the counter at ordinal channel.
func NewEdgeDetector(channel int) *EdgeDetector {
	return &EdgeDetector{channel: channel}
}

// Scan inspects one block and returns the window-relative scan index of the
// first counter transition, or -1 if the value never changed. The very first
// value ever observed seeds the detector and is not a transition. A 1 Hz
// pulse and a window of at most one second mean at most one edge matters per
// window, so scanning stops at the first transition.
func (d *EdgeDetector) Scan(b *scan.Block) int {
	edge := -1
	for s := 0; s < b.Scans(); s++ {
		v := b.Value(d.channel, s)
		if !d.seen {
			d.seen = true
			d.last = v
			continue
		}
		if v != d.last {
			edge = d.offset + s
			d.last = v
			break
		}
	}
	d.offset += b.Scans()
	return edge
}

// Counter returns the last observed counter value, or -1 before any scan.
func (d *EdgeDetector) Counter() float64 {
	if !d.seen {
		return -1
	}
	return d.last
}

// Reset zeroes the window scan offset. Call it whenever a window is
// finalized; the last counter value survives across windows.
func (d *EdgeDetector) Reset() {
	d.offset = 0
}
