package sample

import (
	"time"

	"hotfilm/pkg/scan"
)

// IDMap assigns output record identifiers explicitly rather than deriving
// them from channel arithmetic. Series holds one id per scan-list channel,
// Stats one id per analog channel, in scan-list order.
type IDMap struct {
	Diagnostic uint32
	Series     []uint32
	Stats      []uint32
}

// Window is everything the publisher needs to emit one second of output.
// The Series buffers belong to the accumulator and are only valid for the
// duration of the PublishWindow call.
type Window struct {
	Time time.Time
	// Series holds the full window buffer per scan-list channel.
	Series [][]float64
	// Stats holds mean/min/max per analog channel, in scan-list order.
	Stats []ChannelStats

	Counter       float64
	EdgeIndex     int
	DeviceBacklog int
	QueueBacklog  int
	ReadTime      time.Duration
	Offset        time.Duration
	Approximate   bool
	Anomaly       bool
	SkippedScans  int
}

// ChannelStats is one analog channel's window statistics.
type ChannelStats struct {
	Mean float64
	Min  float64
	Max  float64
}

// Publisher packages accumulated windows into records and hands them to the
// sink, exactly once per window, in fixed order: the diagnostic record, then
// all series records, then all stats records.
type Publisher struct {
	sink     *Broadcast
	channels []scan.Channel
	ids      IDMap
}

// NewPublisher returns a publisher for the given scan list and id mapping.
func NewPublisher(sink *Broadcast, channels []scan.Channel, ids IDMap) *Publisher {
	return &Publisher{sink: sink, channels: channels, ids: ids}
}

// PublishWindow emits the records of one finished window.
func (p *Publisher) PublishWindow(w Window) {
	p.sink.Publish(&Diagnostic{
		ID:            p.ids.Diagnostic,
		Time:          w.Time,
		Counter:       w.Counter,
		EdgeIndex:     w.EdgeIndex,
		DeviceBacklog: w.DeviceBacklog,
		QueueBacklog:  w.QueueBacklog,
		ReadTimeMs:    float64(w.ReadTime) / float64(time.Millisecond),
		Offset:        w.Offset,
		Approximate:   w.Approximate,
		Anomaly:       w.Anomaly,
		SkippedScans:  w.SkippedScans,
	})

	for i, ch := range p.channels {
		p.sink.Publish(&Series{
			ID:      p.ids.Series[i],
			Time:    w.Time,
			Channel: ch.Name,
			Values:  w.Series[i],
		})
	}

	j := 0
	for _, ch := range p.channels {
		if ch.Counter {
			continue
		}
		st := w.Stats[j]
		p.sink.Publish(&Stats{
			ID:      p.ids.Stats[j],
			Time:    w.Time,
			Channel: ch.Name,
			Mean:    st.Mean,
			Min:     st.Min,
			Max:     st.Max,
		})
		j++
	}
}
