package mqtt

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// Options configures the broker connection.
type Options struct {
	Broker    string
	ClientID  string
	QueueSize int
}

// RealClient publishes to and subscribes from an actual MQTT broker.
type RealClient struct {
	client paho.Client

	mu     sync.Mutex
	queue  *offlineQueue
	topics []string
	out    chan<- Message

	dropped atomic.Uint64
}

// NewRealClient creates a client connected to the given broker. If the
// broker is not reachable within the connect timeout the client keeps
// retrying in the background.
func NewRealClient(opts Options) (*RealClient, error) {
	c := &RealClient{queue: newOfflineQueue(opts.QueueSize)}

	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE"})
	if err != nil {
		return nil, fmt.Errorf("format will payload: %w", err)
	}

	po := paho.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID(opts.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5*time.Second).
		SetWill(TopicSystem, string(will), 1, true).
		SetOnConnectHandler(c.onConnect).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	c.client = paho.NewClient(po)
	token := c.client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		log.Printf("mqtt: broker %s not reachable yet, retrying in background", opts.Broker)
		return c, nil
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}
	return c, nil
}

// onConnect restores subscriptions and replays queued messages. paho calls
// it on every (re)connect.
func (c *RealClient) onConnect(client paho.Client) {
	c.mu.Lock()
	pending := c.queue.drainAll()
	topics := append([]string(nil), c.topics...)
	c.mu.Unlock()

	if len(topics) > 0 {
		if err := c.subscribe(topics); err != nil {
			log.Printf("mqtt: resubscribe: %v", err)
		}
	}
	for _, m := range pending {
		client.Publish(m.topic, m.qos, m.retained, m.payload)
	}
	log.Printf("mqtt: connected (replayed=%d)", len(pending))
}

// Subscribe registers topics and starts delivering to out. Messages that
// arrive while out is full are dropped and counted.
func (c *RealClient) Subscribe(topics []string, out chan<- Message) error {
	c.mu.Lock()
	c.topics = append(c.topics, topics...)
	c.out = out
	c.mu.Unlock()

	if !c.client.IsConnectionOpen() {
		return nil
	}
	return c.subscribe(topics)
}

func (c *RealClient) subscribe(topics []string) error {
	filters := make(map[string]byte, len(topics))
	for _, t := range topics {
		filters[t] = 0
	}
	token := c.client.SubscribeMultiple(filters, c.deliver)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("subscribe timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}

func (c *RealClient) deliver(_ paho.Client, m paho.Message) {
	c.mu.Lock()
	out := c.out
	c.mu.Unlock()
	if out == nil {
		return
	}
	select {
	case out <- Message{Topic: m.Topic(), Payload: m.Payload()}:
	default:
		if c.dropped.Add(1) == 1 {
			log.Printf("mqtt: inbound channel full, dropping messages")
		}
	}
}

// Dropped returns the number of inbound messages dropped so far.
func (c *RealClient) Dropped() uint64 {
	return c.dropped.Load()
}

// Publish sends a per-tick message at QoS 0.
func (c *RealClient) Publish(topic string, payload []byte) error {
	if !c.client.IsConnectionOpen() {
		return ErrNotConnected
	}
	token := c.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// PublishRequest sends a request at QoS 1, queueing it while disconnected.
func (c *RealClient) PublishRequest(topic string, payload []byte) error {
	return c.publishReliable(pendingMsg{topic: topic, payload: payload, qos: 1})
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (c *RealClient) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	return c.publishReliable(pendingMsg{topic: TopicSystem, payload: payload, qos: 1, retained: event.Retained})
}

func (c *RealClient) publishReliable(m pendingMsg) error {
	if !c.client.IsConnectionOpen() {
		c.mu.Lock()
		c.queue.push(m)
		c.mu.Unlock()
		return nil
	}

	token := c.client.Publish(m.topic, m.qos, m.retained, m.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish %s timeout", m.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", m.topic, err)
	}
	return nil
}

// IsConnected reports whether the broker connection is up.
func (c *RealClient) IsConnected() bool {
	return c.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (c *RealClient) Close() error {
	c.client.Disconnect(1000) // 1 second timeout
	return nil
}
