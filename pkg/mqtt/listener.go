package mqtt

import (
	"encoding/json"

	"github.com/womat/debug"

	"hotfilm/pkg/sample"
)

// Listener adapts the mqtt handler to the record sink interface. Records
// are marshaled synchronously during Publish, so the record reference is
// never kept beyond the call; only the fresh payload travels on.
type Listener struct {
	handler *Handler
	topic   string
}

// NewListener publishes records below the given base topic:
// <topic>/series/<channel>, <topic>/stats/<channel> and <topic>/diag.
func NewListener(handler *Handler, topic string) *Listener {
	return &Listener{handler: handler, topic: topic}
}

// Publish marshals the record and queues it for delivery. A full queue
// drops the message; the broker is a diagnostics consumer, not allowed to
// stall the acquisition loop.
func (l *Listener) Publish(r sample.Record) {
	var topic string
	switch rec := r.(type) {
	case *sample.Series:
		topic = l.topic + "/series/" + rec.Channel
	case *sample.Stats:
		topic = l.topic + "/stats/" + rec.Channel
	case *sample.Diagnostic:
		topic = l.topic + "/diag"
	default:
		return
	}

	b, err := json.Marshal(r)
	if err != nil {
		debug.ErrorLog.Printf("marshaling record for %v: %v", topic, err)
		return
	}

	select {
	case l.handler.C <- Message{Topic: topic, Payload: b}:
	default:
		debug.ErrorLog.Printf("mqtt send queue full, dropping message for %v", topic)
	}
}
