package player

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/islampath/internal/audio"
	"github.com/Nixie-Tech-LLC/islampath/internal/reciters"
)

type fakeMedia struct {
	mu      sync.Mutex
	loads   []string
	fail    func(url string) bool
	block   map[string]bool
	started chan string
	actions []string
	volume  float64
	handler func(Event)
	// during runs after an action is recorded, outside the lock
	during func(action string)
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{block: map[string]bool{}, started: make(chan string, 16)}
}

func (m *fakeMedia) Load(ctx context.Context, url string) error {
	m.mu.Lock()
	m.loads = append(m.loads, url)
	blocked := m.block[url]
	fail := m.fail != nil && m.fail(url)
	m.mu.Unlock()

	select {
	case m.started <- url:
	default:
	}
	if blocked {
		<-ctx.Done()
		return ctx.Err()
	}
	if fail {
		return &MediaError{Code: MediaErrUnsupported}
	}
	return nil
}

func (m *fakeMedia) record(action string) error {
	m.mu.Lock()
	m.actions = append(m.actions, action)
	during := m.during
	m.mu.Unlock()
	if during != nil {
		during(action)
	}
	return nil
}

func (m *fakeMedia) Play() error                { return m.record("play") }
func (m *fakeMedia) Pause() error               { return m.record("pause") }
func (m *fakeMedia) Stop() error                { return m.record("stop") }
func (m *fakeMedia) Seek(seconds float64) error { return m.record("seek") }

func (m *fakeMedia) SetVolume(v float64) error {
	m.mu.Lock()
	m.volume = v
	m.mu.Unlock()
	return nil
}

func (m *fakeMedia) SetEventHandler(h func(Event)) {
	m.mu.Lock()
	m.handler = h
	m.mu.Unlock()
}

func (m *fakeMedia) emit(ev Event) {
	m.mu.Lock()
	h := m.handler
	m.mu.Unlock()
	h(ev)
}

func (m *fakeMedia) loaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.loads...)
}

type fakeNotifier struct {
	mu     sync.Mutex
	toasts []Toast
}

func (n *fakeNotifier) Notify(t Toast) {
	n.mu.Lock()
	n.toasts = append(n.toasts, t)
	n.mu.Unlock()
}

func (n *fakeNotifier) last() Toast {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.toasts) == 0 {
		return Toast{}
	}
	return n.toasts[len(n.toasts)-1]
}

type fakeSession struct{}

func (fakeSession) Update(Metadata) error { return errors.New("unsupported") }

type recordingSession struct {
	mu      sync.Mutex
	updates []Metadata
}

func (r *recordingSession) Update(m Metadata) error {
	r.mu.Lock()
	r.updates = append(r.updates, m)
	r.mu.Unlock()
	return nil
}

func (r *recordingSession) last() Metadata {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.updates) == 0 {
		return Metadata{}
	}
	return r.updates[len(r.updates)-1]
}

type fakeVolumes struct {
	mu    sync.Mutex
	saved []float64
}

func (v *fakeVolumes) Volume(context.Context) (float64, error) { return 0.7, nil }

func (v *fakeVolumes) SaveVolume(_ context.Context, f float64) error {
	v.mu.Lock()
	v.saved = append(v.saved, f)
	v.mu.Unlock()
	return nil
}

func acceptAll() *audio.Resolver {
	return audio.NewResolver(audio.ProberFunc(func(context.Context, string) error { return nil }))
}

func newTestController(t *testing.T, media *fakeMedia, mutate ...func(*Options)) (*Controller, *fakeNotifier) {
	t.Helper()
	n := &fakeNotifier{}
	opts := Options{
		Resolver:         acceptAll(),
		Notifier:         n,
		Session:          fakeSession{},
		Autoplay:         true,
		AutoAdvanceDelay: 10 * time.Millisecond,
		LoadTimeout:      time.Second,
	}
	for _, f := range mutate {
		f(&opts)
	}
	c := NewController(media, opts)
	t.Cleanup(c.Close)
	return c, n
}

func TestSurahNavigationWraps(t *testing.T) {
	assert.Equal(t, 1, NextSurah(114))
	assert.Equal(t, 114, PreviousSurah(1))
	assert.Equal(t, 2, NextSurah(1))
	assert.Equal(t, 49, PreviousSurah(50))
	for n := 1; n <= 114; n++ {
		assert.Equal(t, n, PreviousSurah(NextSurah(n)))
	}
}

func TestPlayLoadsPrimaryURL(t *testing.T) {
	media := newFakeMedia()
	c, n := newTestController(t, media)

	require.NoError(t, c.Play(context.Background(), "mishari_alafasy", 18))

	snap := c.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, 18, snap.Surah)
	assert.Equal(t, reciters.PrimaryURL("mishari_alafasy", 18), snap.URL)
	assert.Equal(t, []string{reciters.PrimaryURL("mishari_alafasy", 18)}, media.loaded())
	assert.Equal(t, ToastSuccess, n.last().Level)
}

func TestPlayRetriesWithDefaultReciter(t *testing.T) {
	media := newFakeMedia()
	husary := reciters.PrimaryURL(reciters.DefaultReciterID, 2)
	media.fail = func(url string) bool { return url != husary }
	c, _ := newTestController(t, media)

	require.NoError(t, c.Play(context.Background(), "minshawi", 2))

	snap := c.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, reciters.DefaultReciterID, snap.ReciterID)
	assert.Equal(t, husary, snap.URL)
}

func TestPlayFailureReturnsToIdleWithError(t *testing.T) {
	media := newFakeMedia()
	media.fail = func(string) bool { return true }
	c, n := newTestController(t, media)

	err := c.Play(context.Background(), "minshawi", 2)
	require.Error(t, err)

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.NotEmpty(t, snap.LastError)
	assert.Equal(t, ToastError, n.last().Level)
}

func TestPlayRejectsOutOfRangeSurah(t *testing.T) {
	c, _ := newTestController(t, newFakeMedia())
	assert.ErrorIs(t, c.Play(context.Background(), "husary", 0), ErrInvalidSurah)
	assert.ErrorIs(t, c.Play(context.Background(), "husary", 115), ErrInvalidSurah)
	assert.ErrorIs(t, c.JumpTo(context.Background(), 200), ErrInvalidSurah)
}

func TestNewerPlaySupersedesPendingLoad(t *testing.T) {
	media := newFakeMedia()
	slow := reciters.PrimaryURL("husary", 1)
	media.block[slow] = true
	c, _ := newTestController(t, media)

	first := make(chan error, 1)
	go func() { first <- c.Play(context.Background(), "husary", 1) }()
	require.Equal(t, slow, <-media.started)

	require.NoError(t, c.Play(context.Background(), "husary", 2))
	assert.ErrorIs(t, <-first, ErrSuperseded)

	snap := c.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, 2, snap.Surah)
}

func TestSetVolumeClampsAndPersists(t *testing.T) {
	media := newFakeMedia()
	volumes := &fakeVolumes{}
	c, _ := newTestController(t, media, func(o *Options) { o.VolumeStore = volumes })

	assert.Equal(t, 0.0, c.SetVolume(-0.3))
	assert.Equal(t, 1.0, c.SetVolume(1.7))
	assert.Equal(t, 0.4, c.SetVolume(0.4))

	assert.Equal(t, []float64{0, 1, 0.4}, volumes.saved)
	assert.Equal(t, 0.4, c.Snapshot().Volume)
	media.mu.Lock()
	assert.Equal(t, 0.4, media.volume)
	media.mu.Unlock()
}

func TestEndedAdvancesToNextSurah(t *testing.T) {
	media := newFakeMedia()
	c, n := newTestController(t, media)
	require.NoError(t, c.Play(context.Background(), "saad_alghamdi", 50))

	media.emit(Event{Type: EventEnded})
	assert.Contains(t, n.last().Message, "السورة التالية")

	want := reciters.PrimaryURL("saad_alghamdi", 51)
	assert.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.State == StatePlaying && snap.Surah == 51 && snap.URL == want
	}, time.Second, 5*time.Millisecond)
	assert.Contains(t, media.loaded(), want)
}

func TestEndedOnLastSurahStops(t *testing.T) {
	media := newFakeMedia()
	c, n := newTestController(t, media)
	require.NoError(t, c.Play(context.Background(), "husary", 114))

	media.emit(Event{Type: EventEnded})

	assert.Equal(t, StateIdle, c.Snapshot().State)
	assert.Contains(t, n.last().Message, "جزاك الله خيراً")
	time.Sleep(30 * time.Millisecond)
	assert.Len(t, media.loaded(), 1)
}

func TestEndedWithoutAutoplayStaysIdle(t *testing.T) {
	media := newFakeMedia()
	c, _ := newTestController(t, media, func(o *Options) { o.Autoplay = false })
	require.NoError(t, c.Play(context.Background(), "husary", 10))

	media.emit(Event{Type: EventEnded})
	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, StateIdle, c.Snapshot().State)
	assert.Len(t, media.loaded(), 1)
}

func TestStopCancelsPendingAdvance(t *testing.T) {
	media := newFakeMedia()
	c, _ := newTestController(t, media, func(o *Options) { o.AutoAdvanceDelay = 20 * time.Millisecond })
	require.NoError(t, c.Play(context.Background(), "husary", 10))

	media.emit(Event{Type: EventEnded})
	require.NoError(t, c.Stop())
	time.Sleep(50 * time.Millisecond)

	assert.Len(t, media.loaded(), 1)
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestNextAndPreviousUseCurrentReciter(t *testing.T) {
	media := newFakeMedia()
	c, _ := newTestController(t, media)

	assert.ErrorIs(t, c.Next(context.Background()), ErrNoTrack)

	require.NoError(t, c.Play(context.Background(), "ali_jaber", 114))
	require.NoError(t, c.Next(context.Background()))
	assert.Equal(t, 1, c.Snapshot().Surah)

	require.NoError(t, c.Previous(context.Background()))
	assert.Equal(t, 114, c.Snapshot().Surah)
	assert.Equal(t, reciters.PrimaryURL("ali_jaber", 114), c.Snapshot().URL)
}

func TestPauseResumeAndKeys(t *testing.T) {
	media := newFakeMedia()
	c, _ := newTestController(t, media)
	require.NoError(t, c.Play(context.Background(), "husary", 3))

	require.NoError(t, c.HandleKey(context.Background(), "Space", false))
	assert.Equal(t, StatePaused, c.Snapshot().State)
	require.NoError(t, c.HandleKey(context.Background(), "Space", false))
	assert.Equal(t, StatePlaying, c.Snapshot().State)

	c.SetVolume(0.5)
	require.NoError(t, c.HandleKey(context.Background(), "ArrowUp", true))
	assert.InDelta(t, 0.6, c.Snapshot().Volume, 1e-9)
	require.NoError(t, c.HandleKey(context.Background(), "ArrowDown", true))
	assert.InDelta(t, 0.5, c.Snapshot().Volume, 1e-9)

	require.NoError(t, c.HandleKey(context.Background(), "ArrowRight", true))
	assert.Equal(t, 4, c.Snapshot().Surah)
}

func TestMediaErrorWhilePlaying(t *testing.T) {
	media := newFakeMedia()
	c, n := newTestController(t, media)
	require.NoError(t, c.Play(context.Background(), "husary", 7))

	media.emit(Event{Type: EventError, Code: MediaErrNetwork})

	snap := c.Snapshot()
	assert.Equal(t, StateIdle, snap.State)
	assert.Equal(t, "خطأ في الشبكة. تحقق من اتصالك بالإنترنت", snap.LastError)
	assert.Equal(t, ToastError, n.last().Level)
}

func TestSeekNeedsDuration(t *testing.T) {
	media := newFakeMedia()
	c, _ := newTestController(t, media)
	require.NoError(t, c.Play(context.Background(), "husary", 7))

	assert.ErrorIs(t, c.Seek(10), ErrNoTrack)

	media.emit(Event{Type: EventDurationChange, Duration: 120})
	require.NoError(t, c.Seek(500))
	assert.Equal(t, 120.0, c.Snapshot().Position)
}

func TestSetReciter(t *testing.T) {
	media := newFakeMedia()
	c, n := newTestController(t, media)

	assert.ErrorIs(t, c.SetReciter("nobody"), ErrUnknownReciter)

	require.NoError(t, c.Play(context.Background(), "husary", 7))
	require.NoError(t, c.SetReciter("minshawi"))

	snap := c.Snapshot()
	assert.Equal(t, "minshawi", snap.ReciterID)
	assert.Equal(t, StateIdle, snap.State)
	assert.Contains(t, n.last().Message, "تم تغيير القارئ")
}

func TestPlayAyahUsesFirstLoadableSource(t *testing.T) {
	media := newFakeMedia()
	sources := audio.AyahSources(2, 255)
	media.fail = func(url string) bool { return url == sources[0] }
	c, _ := newTestController(t, media)

	require.NoError(t, c.PlayAyah(context.Background(), 2, 255))

	snap := c.Snapshot()
	assert.Equal(t, StatePlaying, snap.State)
	assert.Equal(t, sources[1], snap.URL)
	assert.Equal(t, 255, snap.Ayah)

	media.emit(Event{Type: EventEnded})
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, StateIdle, c.Snapshot().State)
	assert.Len(t, media.loaded(), 2)
}

func TestPlayAyahExhaustion(t *testing.T) {
	media := newFakeMedia()
	media.fail = func(string) bool { return true }
	c, n := newTestController(t, media)

	err := c.PlayAyah(context.Background(), 1, 1)
	assert.ErrorIs(t, err, audio.ErrNoSource)
	assert.Contains(t, n.last().Message, "تعذر تشغيل صوت الآية")
}

func TestPauseToleratesEventsDuringCommand(t *testing.T) {
	media := newFakeMedia()
	c, _ := newTestController(t, media)
	require.NoError(t, c.Play(context.Background(), "husary", 12))

	// the device reports progress while the pause command is in flight
	media.mu.Lock()
	media.during = func(action string) {
		if action == "pause" {
			media.emit(Event{Type: EventTimeUpdate, Time: 42})
		}
	}
	media.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- c.Pause() }()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("pause blocked on a concurrent media event")
	}

	snap := c.Snapshot()
	assert.Equal(t, StatePaused, snap.State)
	assert.Equal(t, 42.0, snap.Position)
}

func TestPauseSupersededByEnd(t *testing.T) {
	media := newFakeMedia()
	c, _ := newTestController(t, media, func(o *Options) { o.Autoplay = false })
	require.NoError(t, c.Play(context.Background(), "husary", 12))

	media.mu.Lock()
	media.during = func(action string) {
		if action == "pause" {
			media.emit(Event{Type: EventEnded})
		}
	}
	media.mu.Unlock()
	assert.ErrorIs(t, c.Pause(), ErrSuperseded)
	assert.Equal(t, StateIdle, c.Snapshot().State)
}

func TestStopPublishesIdleSession(t *testing.T) {
	media := newFakeMedia()
	session := &recordingSession{}
	c, n := newTestController(t, media, func(o *Options) { o.Session = session })
	require.NoError(t, c.Play(context.Background(), "husary", 18))
	assert.Equal(t, string(StatePlaying), session.last().State)

	require.NoError(t, c.Pause())
	assert.Equal(t, string(StatePaused), session.last().State)

	require.NoError(t, c.Stop())

	meta := session.last()
	assert.Equal(t, string(StateIdle), meta.State)
	assert.Equal(t, reciterName("husary"), meta.Artist)
	assert.Equal(t, ToastInfo, n.last().Level)
	assert.Equal(t, 0, c.Snapshot().Surah)

	// stopping an idle player announces nothing
	before := len(session.updates)
	require.NoError(t, c.Stop())
	assert.Len(t, session.updates, before)
}
