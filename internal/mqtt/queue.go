package mqtt

import "log"

// pendingMsg stores a serialized MQTT message for replay after reconnection.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// offlineQueue holds messages while disconnected. It is a fixed-capacity
// FIFO that drops the oldest entry when full. A message on a topic that
// already has a pending entry replaces it in place, so only the latest
// request per detector is replayed.
// Not safe for concurrent use; caller must synchronize.
type offlineQueue struct {
	msgs     []pendingMsg
	capacity int
	overflow bool // true if any message was dropped since last drain
}

func newOfflineQueue(capacity int) *offlineQueue {
	if capacity < 1 {
		capacity = 1
	}
	return &offlineQueue{capacity: capacity}
}

func (q *offlineQueue) push(msg pendingMsg) {
	for i := range q.msgs {
		if q.msgs[i].topic == msg.topic {
			q.msgs[i] = msg
			return
		}
	}
	if len(q.msgs) == q.capacity {
		if !q.overflow {
			log.Printf("mqtt: offline queue full (%d messages), dropping oldest", q.capacity)
			q.overflow = true
		}
		q.msgs = append(q.msgs[:0], q.msgs[1:]...)
	}
	q.msgs = append(q.msgs, msg)
}

func (q *offlineQueue) drainAll() []pendingMsg {
	if len(q.msgs) == 0 {
		return nil
	}
	out := q.msgs
	q.msgs = nil
	q.overflow = false
	return out
}

func (q *offlineQueue) len() int {
	return len(q.msgs)
}
