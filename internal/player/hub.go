package player

import (
	"errors"
	"regexp"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const DefaultMaxDevices = 512

var (
	ErrInvalidDevice = errors.New("player: device id must be 1-64 letters, digits, '-' or '_'")
	ErrHubFull       = errors.New("player: too many active devices")
)

var deviceIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// ValidDevice reports whether id is safe to use as an MQTT topic level.
func ValidDevice(id string) bool {
	return deviceIDPattern.MatchString(id)
}

// Factory builds the controller for a newly seen device.
type Factory func(device string) (*Controller, func(), error)

type entry struct {
	ctrl     *Controller
	release  func()
	lastUsed time.Time
}

// Hub owns one Controller per device. At most MaxDevices are attached;
// when full, the least recently used idle device makes room.
type Hub struct {
	factory    Factory
	MaxDevices int

	now func() time.Time

	mu      sync.Mutex
	devices map[string]*entry

	stop     chan struct{}
	stopOnce sync.Once
}

func NewHub(f Factory) *Hub {
	return &Hub{
		factory:    f,
		MaxDevices: DefaultMaxDevices,
		now:        time.Now,
		devices:    make(map[string]*entry),
		stop:       make(chan struct{}),
	}
}

// Get returns the device's controller, creating it on first use.
func (h *Hub) Get(device string) (*Controller, error) {
	if !ValidDevice(device) {
		return nil, ErrInvalidDevice
	}

	h.mu.Lock()
	if e, ok := h.devices[device]; ok {
		e.lastUsed = h.now()
		h.mu.Unlock()
		return e.ctrl, nil
	}

	var evicted *entry
	var evictedID string
	if h.MaxDevices > 0 && len(h.devices) >= h.MaxDevices {
		evictedID, evicted = h.oldestIdleLocked()
		if evicted == nil {
			h.mu.Unlock()
			return nil, ErrHubFull
		}
		delete(h.devices, evictedID)
	}

	ctrl, release, err := h.factory(device)
	if err != nil {
		h.mu.Unlock()
		if evicted != nil {
			h.shutdown(evictedID, evicted)
		}
		return nil, err
	}
	h.devices[device] = &entry{ctrl: ctrl, release: release, lastUsed: h.now()}
	h.mu.Unlock()

	if evicted != nil {
		h.shutdown(evictedID, evicted)
	}
	log.Info().Str("device", device).Msg("[player] device attached")
	return ctrl, nil
}

// oldestIdleLocked picks the least recently used device with nothing
// loading or playing. Caller holds h.mu.
func (h *Hub) oldestIdleLocked() (string, *entry) {
	var id string
	var oldest *entry
	for d, e := range h.devices {
		if e.ctrl.Snapshot().State != StateIdle {
			continue
		}
		if oldest == nil || e.lastUsed.Before(oldest.lastUsed) {
			id, oldest = d, e
		}
	}
	return id, oldest
}

// Lookup returns an existing controller without creating one.
func (h *Hub) Lookup(device string) (*Controller, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.devices[device]
	if !ok {
		return nil, false
	}
	return e.ctrl, true
}

func (h *Hub) Devices() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, 0, len(h.devices))
	for d := range h.devices {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Detach stops and forgets one device.
func (h *Hub) Detach(device string) bool {
	h.mu.Lock()
	e, ok := h.devices[device]
	delete(h.devices, device)
	h.mu.Unlock()
	if !ok {
		return false
	}
	h.shutdown(device, e)
	return true
}

func (h *Hub) shutdown(device string, e *entry) {
	e.ctrl.Close()
	if e.release != nil {
		e.release()
	}
	log.Info().Str("device", device).Msg("[player] device detached")
}

// Prune detaches idle devices not used for maxIdle and returns how many
// were dropped.
func (h *Hub) Prune(maxIdle time.Duration) int {
	cutoff := h.now().Add(-maxIdle)

	h.mu.Lock()
	stale := make(map[string]*entry)
	for d, e := range h.devices {
		if e.lastUsed.Before(cutoff) && e.ctrl.Snapshot().State == StateIdle {
			stale[d] = e
			delete(h.devices, d)
		}
	}
	h.mu.Unlock()

	for d, e := range stale {
		h.shutdown(d, e)
	}
	return len(stale)
}

// PruneEvery runs Prune on a ticker until Close.
func (h *Hub) PruneEvery(every, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				if n := h.Prune(maxIdle); n > 0 {
					log.Debug().Int("devices", n).Msg("[player] pruned idle devices")
				}
			}
		}
	}()
}

func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })
	for _, d := range h.Devices() {
		h.Detach(d)
	}
}
