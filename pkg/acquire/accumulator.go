// Package acquire runs the acquisition pipeline: it reads scan blocks from
// the device, accumulates them into one-second windows, and finalizes each
// window with a corrected timestamp, statistics and published records.
package acquire

import (
	"errors"

	"hotfilm/pkg/scan"
)

// ErrWindowOverflow is returned when a block does not fit into the space
// left in the current window. Configuration validation makes this
// unreachable in a correctly set up session.
var ErrWindowOverflow = errors.New("scan block overflows accumulation window")

// Accumulator collects scans into one contiguous buffer per channel. All
// channels fill in lockstep, one block at a time, tracked by a single fill
// cursor. A window holds 2 x scansPerRead scans: the per-read scan count is
// configured as half the scan rate, so two reads nominally make one second.
type Accumulator struct {
	windows [][]float64
	size    int
	filled  int
}

// NewAccumulator allocates one window buffer per channel. The buffers are
// allocated once and reused for the lifetime of the stream session.
func NewAccumulator(numChannels, scansPerRead int) *Accumulator {
	size := 2 * scansPerRead
	windows := make([][]float64, numChannels)
	for i := range windows {
		windows[i] = make([]float64, size)
	}
	return &Accumulator{windows: windows, size: size}
}

// Append copies one block into the windows, channel by channel, starting at
// the fill cursor. It reports whether the windows are now full.
func (a *Accumulator) Append(b *scan.Block) (bool, error) {
	if a.filled+b.Scans() > a.size {
		return false, ErrWindowOverflow
	}
	for c := range a.windows {
		w := a.windows[c][a.filled:]
		for s := 0; s < b.Scans(); s++ {
			w[s] = b.Value(c, s)
		}
	}
	a.filled += b.Scans()
	return a.filled == a.size, nil
}

// Window returns channel c's buffer. Only meaningful once Append reported a
// full window; the slice is reused by the next window.
func (a *Accumulator) Window(c int) []float64 {
	return a.windows[c]
}

// Windows returns all channel buffers in scan-list order.
func (a *Accumulator) Windows() [][]float64 {
	return a.windows
}

// SamplesPerWindow returns the window length in scans.
func (a *Accumulator) SamplesPerWindow() int {
	return a.size
}

// Filled returns the current fill cursor.
func (a *Accumulator) Filled() int {
	return a.filled
}

// Reset rewinds the fill cursor for the next window. The buffers are
// overwritten in place, not cleared.
func (a *Accumulator) Reset() {
	a.filled = 0
}
