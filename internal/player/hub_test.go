package player

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubCreatesOneControllerPerDevice(t *testing.T) {
	var created, released atomic.Int32
	hub := NewHub(func(device string) (*Controller, func(), error) {
		if device == "broken" {
			return nil, nil, errors.New("no broker")
		}
		created.Add(1)
		return NewController(newFakeMedia(), Options{}), func() { released.Add(1) }, nil
	})

	a, err := hub.Get("kitchen")
	require.NoError(t, err)
	again, err := hub.Get("kitchen")
	require.NoError(t, err)
	assert.Same(t, a, again)

	_, err = hub.Get("bedroom")
	require.NoError(t, err)
	_, err = hub.Get("broken")
	assert.Error(t, err)
	_, err = hub.Get("")
	assert.ErrorIs(t, err, ErrInvalidDevice)

	assert.Equal(t, []string{"bedroom", "kitchen"}, hub.Devices())
	assert.EqualValues(t, 2, created.Load())

	assert.True(t, hub.Detach("kitchen"))
	assert.False(t, hub.Detach("kitchen"))
	_, ok := hub.Lookup("kitchen")
	assert.False(t, ok)

	hub.Close()
	assert.Empty(t, hub.Devices())
	assert.EqualValues(t, 2, released.Load())
}

func TestHubRejectsTopicUnsafeDeviceIDs(t *testing.T) {
	var created atomic.Int32
	hub := NewHub(func(device string) (*Controller, func(), error) {
		created.Add(1)
		return NewController(newFakeMedia(), Options{}), nil, nil
	})
	defer hub.Close()

	for _, id := range []string{"+", "#", "player/#", "a b", "tv.1", strings.Repeat("a", 65)} {
		_, err := hub.Get(id)
		assert.ErrorIs(t, err, ErrInvalidDevice, id)
	}
	assert.Zero(t, created.Load())

	assert.True(t, ValidDevice("living-room_2"))
	assert.True(t, ValidDevice("3f1c2a9e-5b7d-4c8e-9a10-2b3c4d5e6f70"))
}

type testClock struct{ t time.Time }

func (c *testClock) now() time.Time          { return c.t }
func (c *testClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClockedHub(clock *testClock, released *atomic.Int32) *Hub {
	hub := NewHub(func(device string) (*Controller, func(), error) {
		c := NewController(newFakeMedia(), Options{Resolver: acceptAll()})
		return c, func() { released.Add(1) }, nil
	})
	hub.now = clock.now
	return hub
}

func TestHubEvictsLeastRecentlyUsedIdleDevice(t *testing.T) {
	clock := &testClock{t: time.Unix(0, 0)}
	var released atomic.Int32
	hub := newClockedHub(clock, &released)
	defer hub.Close()
	hub.MaxDevices = 2

	a, err := hub.Get("a")
	require.NoError(t, err)
	clock.advance(time.Second)
	_, err = hub.Get("b")
	require.NoError(t, err)
	clock.advance(time.Second)
	_, err = hub.Get("a")
	require.NoError(t, err)

	clock.advance(time.Second)
	c, err := hub.Get("c")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, hub.Devices())
	assert.EqualValues(t, 1, released.Load())

	// nothing idle is left to make room
	require.NoError(t, a.Play(context.Background(), "husary", 1))
	require.NoError(t, c.Play(context.Background(), "husary", 2))
	_, err = hub.Get("d")
	assert.ErrorIs(t, err, ErrHubFull)
	assert.Equal(t, []string{"a", "c"}, hub.Devices())
}

func TestHubPrunesIdleDevices(t *testing.T) {
	clock := &testClock{t: time.Unix(0, 0)}
	var released atomic.Int32
	hub := newClockedHub(clock, &released)
	defer hub.Close()

	_, err := hub.Get("old")
	require.NoError(t, err)
	busy, err := hub.Get("busy")
	require.NoError(t, err)
	require.NoError(t, busy.Play(context.Background(), "husary", 3))

	clock.advance(20 * time.Minute)
	_, err = hub.Get("recent")
	require.NoError(t, err)

	clock.advance(20 * time.Minute)
	assert.Equal(t, 1, hub.Prune(30*time.Minute))
	assert.Equal(t, []string{"busy", "recent"}, hub.Devices())
	assert.EqualValues(t, 1, released.Load())
}
