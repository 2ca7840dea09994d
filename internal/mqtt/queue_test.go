package mqtt

import "testing"

func TestOfflineQueueEmptyDrain(t *testing.T) {
	q := newOfflineQueue(10)
	if got := q.drainAll(); got != nil {
		t.Errorf("expected nil from empty drain, got %d items", len(got))
	}
}

func TestOfflineQueuePreservesOrder(t *testing.T) {
	q := newOfflineQueue(10)
	topics := []string{"a", "b", "c"}
	for i, topic := range topics {
		q.push(pendingMsg{topic: topic, payload: []byte{byte(i)}})
	}

	got := q.drainAll()
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	for i, m := range got {
		if m.topic != topics[i] || m.payload[0] != byte(i) {
			t.Errorf("item %d: got %s/%d", i, m.topic, m.payload[0])
		}
	}
	if q.drainAll() != nil {
		t.Error("expected nil from second drain")
	}
}

func TestOfflineQueueCoalescesTopic(t *testing.T) {
	q := newOfflineQueue(10)
	q.push(pendingMsg{topic: "robot/detection/buff/set", payload: []byte("SMALL_BUFF")})
	q.push(pendingMsg{topic: "robot/detection/exposure/set", payload: []byte("SMALL_BUFF")})
	q.push(pendingMsg{topic: "robot/detection/buff/set", payload: []byte("ARMOR")})

	got := q.drainAll()
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].topic != "robot/detection/buff/set" || string(got[0].payload) != "ARMOR" {
		t.Errorf("expected latest buff request in first slot, got %s/%s", got[0].topic, got[0].payload)
	}
}

func TestOfflineQueueOverflowDropsOldest(t *testing.T) {
	q := newOfflineQueue(3)
	for _, topic := range []string{"a", "b", "c", "d", "e"} {
		q.push(pendingMsg{topic: topic})
	}
	got := q.drainAll()
	if len(got) != 3 {
		t.Fatalf("expected 3 items, got %d", len(got))
	}
	for i, want := range []string{"c", "d", "e"} {
		if got[i].topic != want {
			t.Errorf("item %d: got %s, want %s", i, got[i].topic, want)
		}
	}
	if q.overflow {
		t.Error("overflow should reset after drain")
	}
}

func TestOfflineQueueLen(t *testing.T) {
	q := newOfflineQueue(0)
	q.push(pendingMsg{topic: "a"})
	q.push(pendingMsg{topic: "b"})
	if q.len() != 1 {
		t.Errorf("capacity is at least 1, got len %d", q.len())
	}
}

func TestOfflineQueuePreservesFields(t *testing.T) {
	q := newOfflineQueue(10)
	q.push(pendingMsg{topic: TopicSystem, payload: []byte(`{"test":true}`), qos: 1, retained: true})

	got := q.drainAll()
	if len(got) != 1 {
		t.Fatalf("expected 1 item, got %d", len(got))
	}
	if got[0].qos != 1 || !got[0].retained || string(got[0].payload) != `{"test":true}` {
		t.Errorf("fields not preserved: %+v", got[0])
	}
}
