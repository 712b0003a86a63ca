// Package mqtt delivers acquisition records to an mqtt broker.
package mqtt

import (
	mqttlib "github.com/eclipse/paho.mqtt.golang"
	"github.com/womat/debug"
)

const (
	// quiesce is the number of milliseconds to wait for in-flight work on
	// disconnect.
	quiesce = 250
	// sendBuffer bounds the outgoing message queue; when it is full,
	// messages are dropped rather than blocking the acquisition loop.
	sendBuffer = 256
)

// Handler is the client of the mqtt broker.
type Handler struct {
	handler mqttlib.Client
	// C is the outgoing message queue, served by Service.
	C chan Message
}

// Message is one mqtt message to publish.
type Message struct {
	Topic    string
	Payload  []byte
	Qos      byte
	Retained bool
}

// New creates a new mqtt broker client.
func New() *Handler {
	return &Handler{
		C: make(chan Message, sendBuffer),
	}
}

// Connect connects to the mqtt broker.
// If no broker is defined, messages are silently discarded.
func (m *Handler) Connect(broker string) error {
	if broker == "" {
		return nil
	}

	opts := mqttlib.NewClientOptions().AddBroker(broker)
	m.handler = mqttlib.NewClient(opts)
	return m.ReConnect()
}

// ReConnect reconnects to the defined mqtt broker.
func (m *Handler) ReConnect() error {
	t := m.handler.Connect()
	<-t.Done()
	return t.Error()
}

// Disconnect ends the connection to the broker.
func (m *Handler) Disconnect() error {
	if m.handler == nil {
		return nil
	}

	m.handler.Disconnect(quiesce)
	return nil
}

// Service drains channel C and publishes each message.
// If no handler or topic is defined, the message is ignored.
func (m *Handler) Service() {
	for d := range m.C {
		if m.handler == nil || d.Topic == "" {
			continue
		}

		go func(msg Message) {
			if !m.handler.IsConnected() {
				debug.DebugLog.Print("mqtt broker isn't connected, reconnect it")

				if err := m.ReConnect(); err != nil {
					debug.ErrorLog.Printf("can't reconnect to mqtt broker %v", err)
					return
				}
			}

			debug.TraceLog.Printf("publishing %v bytes to topic %v", len(msg.Payload), msg.Topic)
			t := m.handler.Publish(msg.Topic, msg.Qos, msg.Retained, msg.Payload)

			// the asynchronous nature of this library makes it easy to
			// forget to check for errors, so log them from a goroutine
			go func() {
				<-t.Done()
				if err := t.Error(); err != nil {
					debug.ErrorLog.Printf("publishing topic %v: %v", msg.Topic, err)
				}
			}()
		}(d)
	}
}
