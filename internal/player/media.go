package player

import (
	"context"
	"fmt"
)

type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StatePlaying State = "playing"
	StatePaused  State = "paused"
	StateError   State = "error"
)

type EventType string

const (
	EventCanPlay        EventType = "canplay"
	EventEnded          EventType = "ended"
	EventError          EventType = "error"
	EventTimeUpdate     EventType = "timeupdate"
	EventDurationChange EventType = "durationchange"
)

// Media error codes as reported by HTML media elements.
const (
	MediaErrAborted     = 1
	MediaErrNetwork     = 2
	MediaErrDecode      = 3
	MediaErrUnsupported = 4
)

// Event is reported by the media element.
type Event struct {
	Type     EventType `json:"type"`
	Seq      uint64    `json:"seq,omitempty"`
	Time     float64   `json:"time,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Code     int       `json:"code,omitempty"`
}

// MediaError is returned by Load when the element reports an error for
// the candidate it was loading.
type MediaError struct {
	Code int
}

func (e *MediaError) Error() string {
	return fmt.Sprintf("media error code %d", e.Code)
}

// Media is the one media element a Controller owns. Load returns once the
// element can play the URL; cancelling ctx abandons the load.
type Media interface {
	Load(ctx context.Context, url string) error
	Play() error
	Pause() error
	Stop() error
	Seek(seconds float64) error
	SetVolume(v float64) error
	SetEventHandler(h func(Event))
}

type ToastLevel string

const (
	ToastSuccess ToastLevel = "success"
	ToastError   ToastLevel = "error"
	ToastInfo    ToastLevel = "info"
)

type Toast struct {
	Level      ToastLevel `json:"level"`
	Message    string     `json:"message"`
	Icon       string     `json:"icon,omitempty"`
	DurationMs int        `json:"duration_ms,omitempty"`
}

// Notifier shows transient toasts to the listener.
type Notifier interface {
	Notify(t Toast)
}

// Metadata is what lock-screen transport controls display.
type Metadata struct {
	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	State    string  `json:"playback_state"`
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
}

// MediaSession mirrors playback into the OS media session. Failures are
// cosmetic and never affect playback.
type MediaSession interface {
	Update(m Metadata) error
}

// VolumeStore persists the listener's volume.
type VolumeStore interface {
	Volume(ctx context.Context) (float64, error)
	SaveVolume(ctx context.Context, v float64) error
}

type nopNotifier struct{}

func (nopNotifier) Notify(Toast) {}

type nopSession struct{}

func (nopSession) Update(Metadata) error { return nil }
