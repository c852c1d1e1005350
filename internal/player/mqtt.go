package player

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const (
	qos            = 1
	publishTimeout = 5 * time.Second
)

var connectHandler mqtt.OnConnectHandler = func(client mqtt.Client) {
	log.Info().Msg("[mqtt] connected to broker")
}

var connectLostHandler mqtt.ConnectionLostHandler = func(client mqtt.Client, err error) {
	log.Warn().Err(err).Msg("[mqtt] connection lost")
}

// Connect opens the shared broker connection used by every device.
// Message handlers publish and wait on tokens, so they run unordered, each
// on its own goroutine.
func Connect(brokerURL, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetOrderMatters(false)
	opts.OnConnect = connectHandler
	opts.OnConnectionLost = connectLostHandler

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}
	return client, nil
}

func commandTopic(device string) string { return fmt.Sprintf("player/%s/commands", device) }
func eventTopic(device string) string   { return fmt.Sprintf("player/%s/events", device) }
func toastTopic(device string) string   { return fmt.Sprintf("player/%s/toasts", device) }
func sessionTopic(device string) string { return fmt.Sprintf("player/%s/session", device) }

// Command is what a device's media element receives.
type Command struct {
	Action  string  `json:"action"`
	URL     string  `json:"url,omitempty"`
	Seq     uint64  `json:"seq,omitempty"`
	Seconds float64 `json:"seconds,omitempty"`
	Volume  float64 `json:"volume,omitempty"`
}

func publish(client mqtt.Client, topic string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}
	token := client.Publish(topic, qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish to %s timed out", topic)
	}
	return token.Error()
}

// MQTTMedia drives a remote media element over MQTT. Loads are matched to
// their readiness events by sequence number, so events from abandoned
// loads are ignored.
type MQTTMedia struct {
	client mqtt.Client
	device string
	seq    atomic.Uint64

	mu      sync.Mutex
	pending map[uint64]chan Event
	handler func(Event)
}

func NewMQTTMedia(client mqtt.Client, device string) (*MQTTMedia, error) {
	if !ValidDevice(device) {
		return nil, ErrInvalidDevice
	}
	m := &MQTTMedia{
		client:  client,
		device:  device,
		pending: make(map[uint64]chan Event),
	}
	topic := eventTopic(device)
	if token := client.Subscribe(topic, qos, m.onMessage); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, token.Error())
	}
	return m, nil
}

func (m *MQTTMedia) onMessage(_ mqtt.Client, msg mqtt.Message) {
	var ev Event
	if err := json.Unmarshal(msg.Payload(), &ev); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("[mqtt] malformed player event")
		return
	}
	m.dispatch(ev)
}

func (m *MQTTMedia) dispatch(ev Event) {
	if ev.Seq != 0 && (ev.Type == EventCanPlay || ev.Type == EventError) {
		m.mu.Lock()
		ch, ok := m.pending[ev.Seq]
		if ok {
			delete(m.pending, ev.Seq)
		}
		m.mu.Unlock()
		if ok {
			ch <- ev
			return
		}
	}

	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	if h != nil {
		h(ev)
	}
}

func (m *MQTTMedia) Load(ctx context.Context, url string) error {
	seq := m.seq.Add(1)
	ch := make(chan Event, 1)

	m.mu.Lock()
	m.pending[seq] = ch
	m.mu.Unlock()

	if err := m.send(Command{Action: "load", URL: url, Seq: seq}); err != nil {
		m.forget(seq)
		return err
	}

	select {
	case ev := <-ch:
		if ev.Type == EventError {
			return &MediaError{Code: ev.Code}
		}
		return nil
	case <-ctx.Done():
		m.forget(seq)
		if err := m.send(Command{Action: "abort", Seq: seq}); err != nil {
			log.Debug().Err(err).Str("device", m.device).Msg("[mqtt] abort not delivered")
		}
		return ctx.Err()
	}
}

func (m *MQTTMedia) forget(seq uint64) {
	m.mu.Lock()
	delete(m.pending, seq)
	m.mu.Unlock()
}

func (m *MQTTMedia) send(cmd Command) error {
	return publish(m.client, commandTopic(m.device), cmd)
}

func (m *MQTTMedia) Play() error  { return m.send(Command{Action: "play"}) }
func (m *MQTTMedia) Pause() error { return m.send(Command{Action: "pause"}) }
func (m *MQTTMedia) Stop() error  { return m.send(Command{Action: "stop"}) }

func (m *MQTTMedia) Seek(seconds float64) error {
	return m.send(Command{Action: "seek", Seconds: seconds})
}

func (m *MQTTMedia) SetVolume(v float64) error {
	return m.send(Command{Action: "volume", Volume: v})
}

func (m *MQTTMedia) SetEventHandler(h func(Event)) {
	m.mu.Lock()
	m.handler = h
	m.mu.Unlock()
}

// Close drops the event subscription.
func (m *MQTTMedia) Close() {
	if token := m.client.Unsubscribe(eventTopic(m.device)); token.Wait() && token.Error() != nil {
		log.Warn().Err(token.Error()).Str("device", m.device).Msg("[mqtt] unsubscribe failed")
	}
}

// MQTTAnnouncer publishes toasts and media session metadata for a device.
type MQTTAnnouncer struct {
	client mqtt.Client
	device string
}

func NewMQTTAnnouncer(client mqtt.Client, device string) *MQTTAnnouncer {
	return &MQTTAnnouncer{client: client, device: device}
}

func (a *MQTTAnnouncer) Notify(t Toast) {
	if err := publish(a.client, toastTopic(a.device), t); err != nil {
		log.Warn().Err(err).Str("device", a.device).Msg("[mqtt] toast not delivered")
	}
}

func (a *MQTTAnnouncer) Update(m Metadata) error {
	return publish(a.client, sessionTopic(a.device), m)
}
