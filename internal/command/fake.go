package command

import "errors"

// Message is one payload captured by FakeSink.
type Message struct {
	Topic   string
	Payload []byte
	Request bool
}

// FakeSink records published messages for test assertions.
type FakeSink struct {
	Messages []Message

	// PublishError, if set, is returned by Publish and PublishRequest.
	PublishError error
}

// ErrFakeSink is a convenience error for tests.
var ErrFakeSink = errors.New("fake sink failure")

// Publish records a per-tick command.
func (f *FakeSink) Publish(topic string, payload []byte) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Messages = append(f.Messages, Message{Topic: topic, Payload: payload})
	return nil
}

// PublishRequest records a one-off request.
func (f *FakeSink) PublishRequest(topic string, payload []byte) error {
	if f.PublishError != nil {
		return f.PublishError
	}
	f.Messages = append(f.Messages, Message{Topic: topic, Payload: payload, Request: true})
	return nil
}

// Last returns the most recent message on topic.
func (f *FakeSink) Last(topic string) (Message, bool) {
	for i := len(f.Messages) - 1; i >= 0; i-- {
		if f.Messages[i].Topic == topic {
			return f.Messages[i], true
		}
	}
	return Message{}, false
}
