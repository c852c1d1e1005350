package player

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doneToken struct{ err error }

func (doneToken) Wait() bool                     { return true }
func (doneToken) WaitTimeout(time.Duration) bool { return true }
func (t doneToken) Error() error                 { return t.err }

func (doneToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

type testMessage struct {
	topic   string
	payload []byte
}

func (testMessage) Duplicate() bool   { return false }
func (testMessage) Qos() byte         { return qos }
func (testMessage) Retained() bool    { return false }
func (m testMessage) Topic() string   { return m.topic }
func (testMessage) MessageID() uint16 { return 0 }
func (m testMessage) Payload() []byte { return m.payload }
func (testMessage) Ack()              {}

// fakeClient records what is published and lets tests play the broker.
type fakeClient struct {
	mqtt.Client

	mu           sync.Mutex
	published    []testMessage
	subs         map[string]mqtt.MessageHandler
	unsubscribed []string
	onPublish    func(topic string, payload []byte)
}

func newFakeClient() *fakeClient {
	return &fakeClient{subs: map[string]mqtt.MessageHandler{}}
}

func (c *fakeClient) Publish(topic string, _ byte, _ bool, payload interface{}) mqtt.Token {
	raw, _ := payload.([]byte)
	c.mu.Lock()
	c.published = append(c.published, testMessage{topic: topic, payload: raw})
	hook := c.onPublish
	c.mu.Unlock()
	if hook != nil {
		hook(topic, raw)
	}
	return doneToken{}
}

func (c *fakeClient) Subscribe(topic string, _ byte, cb mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	c.subs[topic] = cb
	c.mu.Unlock()
	return doneToken{}
}

func (c *fakeClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	c.unsubscribed = append(c.unsubscribed, topics...)
	for _, t := range topics {
		delete(c.subs, t)
	}
	c.mu.Unlock()
	return doneToken{}
}

func (c *fakeClient) setOnPublish(f func(topic string, payload []byte)) {
	c.mu.Lock()
	c.onPublish = f
	c.mu.Unlock()
}

func (c *fakeClient) deliver(topic string, v any) {
	raw, _ := json.Marshal(v)
	c.mu.Lock()
	cb := c.subs[topic]
	c.mu.Unlock()
	if cb != nil {
		cb(c, testMessage{topic: topic, payload: raw})
	}
}

func (c *fakeClient) commands(device string) []Command {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Command
	for _, m := range c.published {
		if m.topic != commandTopic(device) {
			continue
		}
		var cmd Command
		if err := json.Unmarshal(m.payload, &cmd); err == nil {
			out = append(out, cmd)
		}
	}
	return out
}

func (c *fakeClient) on(topic string) []testMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []testMessage
	for _, m := range c.published {
		if m.topic == topic {
			out = append(out, m)
		}
	}
	return out
}

func pendingLoads(m *MQTTMedia) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// answerLoads replies to every load command with ev, stamped with the
// command's sequence number.
func answerLoads(client *fakeClient, device string, ev Event) {
	client.setOnPublish(func(topic string, payload []byte) {
		var cmd Command
		if topic != commandTopic(device) || json.Unmarshal(payload, &cmd) != nil || cmd.Action != "load" {
			return
		}
		reply := ev
		reply.Seq = cmd.Seq
		go func() {
			// an answer for some older load arrives first
			client.deliver(eventTopic(device), Event{Type: EventCanPlay, Seq: cmd.Seq + 100})
			client.deliver(eventTopic(device), reply)
		}()
	})
}

func TestMQTTMediaLoadResolvesOnMatchingReadiness(t *testing.T) {
	client := newFakeClient()
	m, err := NewMQTTMedia(client, "kitchen")
	require.NoError(t, err)
	assert.Contains(t, client.subs, "player/kitchen/events")

	stray := make(chan Event, 4)
	m.SetEventHandler(func(ev Event) { stray <- ev })
	answerLoads(client, "kitchen", Event{Type: EventCanPlay})

	require.NoError(t, m.Load(context.Background(), "https://server8.mp3quran.net/afs/001.mp3"))
	assert.Zero(t, pendingLoads(m))

	cmds := client.commands("kitchen")
	require.Len(t, cmds, 1)
	assert.Equal(t, "load", cmds[0].Action)
	assert.Equal(t, uint64(1), cmds[0].Seq)
	assert.Equal(t, "https://server8.mp3quran.net/afs/001.mp3", cmds[0].URL)

	select {
	case ev := <-stray:
		assert.Equal(t, uint64(101), ev.Seq)
	case <-time.After(time.Second):
		t.Fatal("unmatched readiness was not handed to the controller")
	}
}

func TestMQTTMediaLoadReportsMediaError(t *testing.T) {
	client := newFakeClient()
	m, err := NewMQTTMedia(client, "kitchen")
	require.NoError(t, err)
	m.SetEventHandler(func(Event) {})
	answerLoads(client, "kitchen", Event{Type: EventError, Code: MediaErrUnsupported})

	err = m.Load(context.Background(), "https://example.com/broken.mp3")
	var mediaErr *MediaError
	require.True(t, errors.As(err, &mediaErr))
	assert.Equal(t, MediaErrUnsupported, mediaErr.Code)
	assert.Zero(t, pendingLoads(m))
}

func TestMQTTMediaLoadAbortsOnCancel(t *testing.T) {
	client := newFakeClient()
	m, err := NewMQTTMedia(client, "kitchen")
	require.NoError(t, err)

	late := make(chan Event, 1)
	m.SetEventHandler(func(ev Event) { late <- ev })

	ctx, cancel := context.WithCancel(context.Background())
	client.setOnPublish(func(topic string, payload []byte) {
		var cmd Command
		if json.Unmarshal(payload, &cmd) == nil && cmd.Action == "load" {
			cancel()
		}
	})

	err = m.Load(ctx, "https://example.com/slow.mp3")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, pendingLoads(m))

	cmds := client.commands("kitchen")
	require.Len(t, cmds, 2)
	assert.Equal(t, Command{Action: "abort", Seq: 1}, cmds[1])

	// readiness for the abandoned load no longer resolves anything
	client.deliver(eventTopic("kitchen"), Event{Type: EventCanPlay, Seq: 1})
	assert.Equal(t, uint64(1), (<-late).Seq)
}

func TestMQTTMediaTransportCommands(t *testing.T) {
	client := newFakeClient()
	m, err := NewMQTTMedia(client, "kitchen")
	require.NoError(t, err)

	require.NoError(t, m.Play())
	require.NoError(t, m.Pause())
	require.NoError(t, m.Seek(12.5))
	require.NoError(t, m.SetVolume(0.3))
	require.NoError(t, m.Stop())

	assert.Equal(t, []Command{
		{Action: "play"},
		{Action: "pause"},
		{Action: "seek", Seconds: 12.5},
		{Action: "volume", Volume: 0.3},
		{Action: "stop"},
	}, client.commands("kitchen"))

	m.Close()
	assert.Equal(t, []string{"player/kitchen/events"}, client.unsubscribed)
	assert.NotContains(t, client.subs, "player/kitchen/events")
}

func TestMQTTMediaRejectsWildcardDevice(t *testing.T) {
	client := newFakeClient()
	_, err := NewMQTTMedia(client, "+")
	assert.ErrorIs(t, err, ErrInvalidDevice)
	assert.Empty(t, client.subs)
}

func TestMQTTMediaDispatch(t *testing.T) {
	m := &MQTTMedia{pending: make(map[uint64]chan Event)}
	var got []Event
	m.SetEventHandler(func(ev Event) { got = append(got, ev) })

	ch := make(chan Event, 1)
	m.pending[7] = ch

	m.dispatch(Event{Type: EventCanPlay, Seq: 7})
	assert.Equal(t, EventCanPlay, (<-ch).Type)
	assert.Empty(t, m.pending)

	// readiness for an abandoned load falls through to the handler
	m.dispatch(Event{Type: EventCanPlay, Seq: 3})
	m.dispatch(Event{Type: EventEnded})
	require.Len(t, got, 2)
	assert.Equal(t, EventEnded, got[1].Type)
}

func TestMQTTAnnouncer(t *testing.T) {
	client := newFakeClient()
	a := NewMQTTAnnouncer(client, "kitchen")

	a.Notify(Toast{Level: ToastSuccess, Message: "تم تشغيل سورة الكهف", DurationMs: 3000})
	require.NoError(t, a.Update(Metadata{Title: "الكهف", Artist: "محمود خليل الحصري", Album: album, State: "playing"}))

	toasts := client.on("player/kitchen/toasts")
	require.Len(t, toasts, 1)
	var toast Toast
	require.NoError(t, json.Unmarshal(toasts[0].payload, &toast))
	assert.Equal(t, "تم تشغيل سورة الكهف", toast.Message)

	sessions := client.on("player/kitchen/session")
	require.Len(t, sessions, 1)
	var meta map[string]any
	require.NoError(t, json.Unmarshal(sessions[0].payload, &meta))
	assert.Equal(t, "playing", meta["playback_state"])
	assert.Equal(t, "الكهف", meta["title"])
}
