package mqtt

// FakeClient records published traffic and delivers scripted inbound
// messages for test assertions.
type FakeClient struct {
	// Messages contains per-tick publishes in order.
	Messages []Message

	// Requests contains request publishes in order.
	Requests []Message

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// Topics contains every subscribed topic.
	Topics []string

	// PublishError, if set, will be returned by Publish and PublishRequest.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	// DroppedCount controls the return value of Dropped.
	DroppedCount uint64

	out chan<- Message
}

// NewFakeClient creates a connected FakeClient for testing.
func NewFakeClient() *FakeClient {
	return &FakeClient{Connected: true}
}

// Publish records a per-tick message.
func (f *FakeClient) Publish(topic string, payload []byte) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Messages = append(f.Messages, Message{Topic: topic, Payload: payload})
	return nil
}

// PublishRequest records a request.
func (f *FakeClient) PublishRequest(topic string, payload []byte) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Requests = append(f.Requests, Message{Topic: topic, Payload: payload})
	return nil
}

// PublishSystem records the system event.
func (f *FakeClient) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)

	return nil
}

// Subscribe records the topics and keeps out for Deliver.
func (f *FakeClient) Subscribe(topics []string, out chan<- Message) error {
	f.Topics = append(f.Topics, topics...)
	f.out = out
	return nil
}

// Deliver pushes an inbound message to the subscribed channel. It blocks
// if the channel is full.
func (f *FakeClient) Deliver(topic string, payload []byte) {
	if f.out == nil {
		return
	}
	f.out <- Message{Topic: topic, Payload: payload}
}

// Close marks the client as closed.
func (f *FakeClient) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake client is "connected".
func (f *FakeClient) IsConnected() bool {
	return f.Connected
}

// Dropped returns DroppedCount.
func (f *FakeClient) Dropped() uint64 {
	return f.DroppedCount
}

// Last returns the most recent per-tick message on topic.
func (f *FakeClient) Last(topic string) (Message, bool) {
	for i := len(f.Messages) - 1; i >= 0; i-- {
		if f.Messages[i].Topic == topic {
			return f.Messages[i], true
		}
	}
	return Message{}, false
}

// Count returns how many per-tick messages were published on topic.
func (f *FakeClient) Count(topic string) int {
	n := 0
	for _, m := range f.Messages {
		if m.Topic == topic {
			n++
		}
	}
	return n
}

// Reset clears recorded traffic.
func (f *FakeClient) Reset() {
	f.Messages = nil
	f.Requests = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
}
