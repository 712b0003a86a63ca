package pps

import "time"

// Threshold is the tolerance for recognizing an off-by-one-second timestamp.
// It is tight enough that a correction only fires on a genuine read-boundary
// effect, never on normal jitter: consecutive window timestamps land within
// one scan of each other when the stream is healthy.
const Threshold = 500 * time.Microsecond

// Result is a finalized window timestamp with its bookkeeping.
type Result struct {
	// Time marks the first scan of the completed window.
	Time time.Time
	// Approximate is set when no edge was seen during the window and the
	// timestamp was estimated as the read completion time minus one second.
	Approximate bool
	// Adjustment is the correction applied to the computed candidate,
	// zero, +1s or -1s.
	Adjustment time.Duration
	// Anomaly is set when the candidate was neither about one nor about
	// two seconds past the previous timestamp; the candidate is then used
	// as computed.
	Anomaly bool
	// Offset is the distance from the window timestamp to the completion
	// time of the read that closed the window.
	Offset time.Duration
}

// Corrector converts detected edge positions into absolute window
// timestamps. One instance covers one stream session; it remembers the
// previously finalized timestamp to catch off-by-one-second candidates.
type Corrector struct {
	// scanRate is the actual stream scan rate in Hz.
	scanRate float64
	// prev is the previous window's finalized timestamp, zero before the
	// first window.
	prev time.Time
	// pending is the candidate computed from the last edge, valid while
	// hasPending is set. It is consumed by Finalize.
	pending    time.Time
	hasPending bool
}

// NewCorrector returns a corrector for a stream running at scanRateHz.
func NewCorrector(scanRateHz float64) *Corrector {
	return &Corrector{scanRate: scanRateHz}
}

// Observe records an edge at window-relative scan index edgeIndex, seen in a
// read that completed at completion. The scan where the counter stepped must
// have happened at the top of a second, so the candidate window timestamp is
// the completion time truncated to its second, minus the time covered by
// edgeIndex scans.
func (c *Corrector) Observe(edgeIndex int, completion time.Time) {
	t0 := completion.Truncate(time.Second)
	back := time.Duration(float64(edgeIndex) / c.scanRate * float64(time.Second))
	c.pending = t0.Add(-back)
	c.hasPending = true
}

// Finalize resolves the timestamp of the window that just filled, given the
// completion time of the read that filled it.
//
// Without a pending edge the timestamp is approximated as completion minus
// one second. With an edge, the candidate is checked against the previous
// window's timestamp: the expected distance is one second. A distance of
// about zero or about two seconds means the wrong system second was
// truncated during back-computation, and the candidate is shifted by one
// second towards the expected value. Any other distance is reported as a
// timing anomaly and the candidate is used as computed.
func (c *Corrector) Finalize(completion time.Time) Result {
	var r Result

	if !c.hasPending {
		r.Time = completion.Add(-time.Second)
		r.Approximate = true
	} else {
		ts := c.pending
		if !c.prev.IsZero() {
			diff := ts.Sub(c.prev)
			switch {
			case absDuration(diff) <= Threshold:
				r.Adjustment = time.Second
			case absDuration(diff-2*time.Second) <= Threshold:
				r.Adjustment = -time.Second
			case absDuration(diff-time.Second) <= Threshold:
				// candidate lands where expected
			default:
				r.Anomaly = true
			}
		}
		r.Time = ts.Add(r.Adjustment)
	}

	r.Offset = completion.Sub(r.Time)

	// an edge corrects at most one window
	c.pending = time.Time{}
	c.hasPending = false
	c.prev = r.Time

	return r
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
