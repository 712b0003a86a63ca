// Package sample packages finished acquisition windows into output records
// and distributes them to the registered sinks.
package sample

import "time"

// Record is one output sample of a finished window. A record is created
// fresh for its window and handed to each listener by reference for the
// duration of a single Publish call; listeners must not retain it afterwards.
type Record interface {
	record()
}

// Series is the full-rate data of one channel over one window.
type Series struct {
	ID      uint32    `json:"id"`
	Time    time.Time `json:"time"`
	Channel string    `json:"channel"`
	Values  []float64 `json:"values"`
}

// Stats carries the one-second statistics of one analog channel.
type Stats struct {
	ID      uint32    `json:"id"`
	Time    time.Time `json:"time"`
	Channel string    `json:"channel"`
	Mean    float64   `json:"mean"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
}

// Diagnostic reports the synchronization and flow-control state of one
// window: the PPS counter value, the scan index of the detected edge (-1 if
// none), the device and library scan backlogs, how long the closing read
// took, and how far the window timestamp sits from the read completion.
type Diagnostic struct {
	ID            uint32        `json:"id"`
	Time          time.Time     `json:"time"`
	Counter       float64       `json:"counter"`
	EdgeIndex     int           `json:"edgeIndex"`
	DeviceBacklog int           `json:"deviceBacklog"`
	QueueBacklog  int           `json:"queueBacklog"`
	ReadTimeMs    float64       `json:"readTimeMs"`
	Offset        time.Duration `json:"offset"`
	Approximate   bool          `json:"approximate"`
	Anomaly       bool          `json:"anomaly"`
	SkippedScans  int           `json:"skippedScans"`
}

func (*Series) record()     {}
func (*Stats) record()      {}
func (*Diagnostic) record() {}

// Listener is a sink for output records. Publish must not block unboundedly
// and must not keep the record beyond the call.
type Listener interface {
	Publish(Record)
}
