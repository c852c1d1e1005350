// Package player is the playback controller: one state machine per
// listening device, owning that device's single media element.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/audio"
	"github.com/Nixie-Tech-LLC/islampath/internal/metrics"
	"github.com/Nixie-Tech-LLC/islampath/internal/prefs"
	"github.com/Nixie-Tech-LLC/islampath/internal/reciters"
)

const (
	FirstSurah = 1
	LastSurah  = 114

	DefaultAutoAdvanceDelay = 2 * time.Second
	volumeStep              = 0.1
	album                   = "القرآن الكريم"
)

var (
	ErrNoTrack        = errors.New("player: nothing is playing")
	ErrInvalidSurah   = errors.New("player: surah must be between 1 and 114")
	ErrUnknownReciter = errors.New("player: unknown reciter")
	ErrSuperseded     = errors.New("player: superseded by a newer request")
)

// NextSurah wraps 114 to 1.
func NextSurah(n int) int {
	return n%LastSurah + 1
}

// PreviousSurah wraps 1 to 114.
func PreviousSurah(n int) int {
	return (n+LastSurah-2)%LastSurah + 1
}

type Options struct {
	Resolver    *audio.Resolver
	Notifier    Notifier
	Session     MediaSession
	VolumeStore VolumeStore
	// SurahName returns the display name of a surah, "" when unknown.
	SurahName        func(n int) string
	Autoplay         bool
	AutoAdvanceDelay time.Duration
	LoadTimeout      time.Duration
}

// Snapshot is the externally visible controller state.
type Snapshot struct {
	State     State   `json:"state"`
	Surah     int     `json:"surah,omitempty"`
	Ayah      int     `json:"ayah,omitempty"`
	ReciterID string  `json:"reciter_id,omitempty"`
	URL       string  `json:"url,omitempty"`
	Position  float64 `json:"position"`
	Duration  float64 `json:"duration"`
	Volume    float64 `json:"volume"`
	Autoplay  bool    `json:"autoplay"`
	LastError string  `json:"last_error,omitempty"`
}

type Controller struct {
	media    Media
	resolver *audio.Resolver
	notifier Notifier
	session  MediaSession
	volumes  VolumeStore
	names    func(int) string

	autoplay    bool
	delay       time.Duration
	loadTimeout time.Duration

	mu         sync.Mutex
	state      State
	surah      int
	ayah       int
	reciterID  string
	url        string
	position   float64
	duration   float64
	volume     float64
	lastError  string
	generation uint64
	cancel     context.CancelFunc
	advance    *time.Timer
}

func NewController(media Media, opts Options) *Controller {
	c := &Controller{
		media:       media,
		resolver:    opts.Resolver,
		notifier:    opts.Notifier,
		session:     opts.Session,
		volumes:     opts.VolumeStore,
		names:       opts.SurahName,
		autoplay:    opts.Autoplay,
		delay:       opts.AutoAdvanceDelay,
		loadTimeout: opts.LoadTimeout,
		state:       StateIdle,
		volume:      prefs.DefaultVolume,
		reciterID:   reciters.DefaultReciterID,
	}
	if c.resolver == nil {
		c.resolver = audio.NewResolver(audio.NewHeadProber(10 * time.Second))
	}
	if c.notifier == nil {
		c.notifier = nopNotifier{}
	}
	if c.session == nil {
		c.session = nopSession{}
	}
	if c.delay <= 0 {
		c.delay = DefaultAutoAdvanceDelay
	}
	if c.loadTimeout <= 0 {
		c.loadTimeout = audio.DefaultLoadTimeout
	}
	if c.volumes != nil {
		v, err := c.volumes.Volume(context.Background())
		if err != nil {
			log.Warn().Err(err).Msg("[player] could not restore volume")
		}
		c.volume = prefs.ClampVolume(v)
	}
	if err := media.SetVolume(c.volume); err != nil {
		log.Debug().Err(err).Msg("[player] initial volume not applied")
	}
	media.SetEventHandler(c.HandleEvent)
	return c
}

// begin supersedes whatever attempt is in flight. Caller holds c.mu.
func (c *Controller) begin(ctx context.Context) (context.Context, uint64) {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
	c.generation++
	attemptCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	return attemptCtx, c.generation
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return gen == c.generation
}

func (c *Controller) surahName(n int) string {
	if c.names != nil {
		if name := c.names(n); name != "" {
			return name
		}
	}
	return fmt.Sprintf("سورة رقم %d", n)
}

func reciterName(id string) string {
	if r, ok := reciters.Lookup(id); ok {
		return r.ArabicName
	}
	return "قارئ غير معروف"
}

// setState records a transition and returns the snapshot to publish.
// Caller holds c.mu.
func (c *Controller) setState(s State) Snapshot {
	c.state = s
	metrics.ObserveTransition(string(s))
	return c.snapshotLocked()
}

// publish mirrors a snapshot into the media session. It must be called
// without c.mu held.
func (c *Controller) publish(s Snapshot) {
	if s.Surah == 0 {
		return
	}
	meta := Metadata{
		Title:    c.surahName(s.Surah),
		Artist:   reciterName(s.ReciterID),
		Album:    album,
		State:    string(s.State),
		Position: s.Position,
		Duration: s.Duration,
	}
	if err := c.session.Update(meta); err != nil {
		log.Debug().Err(err).Msg("[player] media session update failed")
	}
}

// Play resolves and starts a whole-surah recitation. If the reciter's
// sources all fail to load it retries once with the default reciter
// before entering the error state.
func (c *Controller) Play(ctx context.Context, reciterID string, surah int) error {
	if surah < FirstSurah || surah > LastSurah {
		return ErrInvalidSurah
	}

	c.mu.Lock()
	attemptCtx, gen := c.begin(ctx)
	c.surah, c.ayah, c.reciterID = surah, 0, reciterID
	c.position, c.duration, c.lastError = 0, 0, ""
	snap := c.setState(StateLoading)
	c.mu.Unlock()
	c.publish(snap)

	used := reciterID
	url, err := c.loadSurah(attemptCtx, reciterID, surah)
	if err != nil && attemptCtx.Err() == nil && reciterID != reciters.DefaultReciterID {
		log.Warn().Err(err).Str("reciter", reciterID).Int("surah", surah).Msg("[player] switching to default reciter")
		used = reciters.DefaultReciterID
		url, err = c.loadSurah(attemptCtx, used, surah)
	}
	if !c.current(gen) {
		return ErrSuperseded
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.abandon(gen)
			return err
		}
		c.fail(gen, "فشل في تشغيل الصوت. يرجى المحاولة مرة أخرى", err)
		return err
	}
	return c.start(gen, used, url, fmt.Sprintf("تم تشغيل %s بصوت %s", c.surahName(surah), reciterName(used)))
}

func (c *Controller) loadSurah(ctx context.Context, reciterID string, surah int) (string, error) {
	res, err := c.resolver.ResolveSurah(ctx, reciterID, surah)
	if err != nil {
		return "", err
	}
	loadCtx, cancel := context.WithTimeout(ctx, c.loadTimeout)
	defer cancel()
	if err := c.media.Load(loadCtx, res.URL); err != nil {
		if errors.Is(loadCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", audio.ErrProbeTimeout
		}
		return "", err
	}
	return res.URL, nil
}

// PlayAyah plays a single verse. Candidates are validated by loading them
// into the media element in turn.
func (c *Controller) PlayAyah(ctx context.Context, surah, ayah int) error {
	if surah < FirstSurah || surah > LastSurah {
		return ErrInvalidSurah
	}
	if ayah < 1 {
		return fmt.Errorf("player: invalid ayah %d", ayah)
	}

	c.mu.Lock()
	attemptCtx, gen := c.begin(ctx)
	c.surah, c.ayah = surah, ayah
	c.position, c.duration, c.lastError = 0, 0, ""
	snap := c.setState(StateLoading)
	c.mu.Unlock()
	c.publish(snap)

	if err := c.media.Stop(); err != nil {
		log.Debug().Err(err).Msg("[player] stop before ayah failed")
	}

	verses := c.resolver.WithProber(&audio.LoadProber{Media: c.media, Timeout: c.loadTimeout})
	res, err := verses.ResolveAyah(attemptCtx, surah, ayah)
	if !c.current(gen) {
		return ErrSuperseded
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.abandon(gen)
			return err
		}
		c.fail(gen, "❌ تعذر تشغيل صوت الآية. تحقق من اتصال الإنترنت", err)
		return err
	}

	c.mu.Lock()
	reciterID := c.reciterID
	c.mu.Unlock()
	return c.start(gen, reciterID, res.URL, fmt.Sprintf("يتم تشغيل الآية بصوت %s", audio.ReciterNameForURL(res.URL)))
}

// start plays an already loaded URL and moves to playing.
func (c *Controller) start(gen uint64, reciterID, url, message string) error {
	if !c.current(gen) {
		return ErrSuperseded
	}
	if err := c.media.Play(); err != nil {
		c.fail(gen, "فشل في تشغيل الصوت. يرجى المحاولة مرة أخرى", err)
		return err
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrSuperseded
	}
	c.reciterID, c.url = reciterID, url
	snap := c.setState(StatePlaying)
	c.mu.Unlock()

	c.publish(snap)
	c.notifier.Notify(Toast{Level: ToastSuccess, Message: message, DurationMs: 3000})
	return nil
}

// fail passes through the error state back to idle, keeping the message.
func (c *Controller) fail(gen uint64, message string, cause error) {
	log.Error().Err(cause).Msg("[player] playback failed")

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.lastError = message
	errSnap := c.setState(StateError)
	idleSnap := c.setState(StateIdle)
	c.mu.Unlock()

	c.publish(errSnap)
	c.publish(idleSnap)
	c.notifier.Notify(Toast{Level: ToastError, Message: message})
}

// abandon returns to idle after the caller cancelled an attempt.
func (c *Controller) abandon(gen uint64) {
	c.mu.Lock()
	if gen != c.generation || c.state != StateLoading {
		c.mu.Unlock()
		return
	}
	snap := c.setState(StateIdle)
	c.mu.Unlock()
	c.publish(snap)
}

func (c *Controller) Pause() error {
	return c.transition(StatePlaying, StatePaused, c.media.Pause)
}

func (c *Controller) Resume() error {
	return c.transition(StatePaused, StatePlaying, c.media.Play)
}

// transition runs op against the media element and moves from one state
// to another. c.mu is not held during op, since media events are handled
// while a command is in flight. If the state moved on meanwhile the
// command is reported as superseded.
func (c *Controller) transition(from, to State, op func() error) error {
	c.mu.Lock()
	if c.state != from {
		c.mu.Unlock()
		return ErrNoTrack
	}
	gen := c.generation
	c.mu.Unlock()

	if err := op(); err != nil {
		return err
	}

	c.mu.Lock()
	if gen != c.generation || c.state != from {
		c.mu.Unlock()
		return ErrSuperseded
	}
	snap := c.setState(to)
	c.mu.Unlock()
	c.publish(snap)
	return nil
}

func (c *Controller) TogglePlayPause() error {
	c.mu.Lock()
	playing := c.state == StatePlaying
	c.mu.Unlock()
	if playing {
		return c.Pause()
	}
	return c.Resume()
}

// Stop cancels any attempt in flight and returns to idle. The idle state
// is published for the track that was stopped.
func (c *Controller) Stop() error {
	c.mu.Lock()
	c.begin(context.Background())
	c.cancel()
	c.cancel = nil
	active := c.state != StateIdle
	c.position = 0
	snap := c.setState(StateIdle)
	c.surah, c.ayah, c.url, c.duration = 0, 0, "", 0
	c.mu.Unlock()

	err := c.media.Stop()
	if active {
		c.publish(snap)
		c.notifier.Notify(Toast{Level: ToastInfo, Message: "تم إيقاف التشغيل", DurationMs: 2000})
	}
	return err
}

func (c *Controller) track() (string, int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surah == 0 || c.reciterID == "" {
		return "", 0, ErrNoTrack
	}
	return c.reciterID, c.surah, nil
}

func (c *Controller) Next(ctx context.Context) error {
	reciterID, surah, err := c.track()
	if err != nil {
		return err
	}
	return c.Play(ctx, reciterID, NextSurah(surah))
}

func (c *Controller) Previous(ctx context.Context) error {
	reciterID, surah, err := c.track()
	if err != nil {
		return err
	}
	return c.Play(ctx, reciterID, PreviousSurah(surah))
}

// JumpTo plays surah with the selected reciter.
func (c *Controller) JumpTo(ctx context.Context, surah int) error {
	if surah < FirstSurah || surah > LastSurah {
		return ErrInvalidSurah
	}
	c.mu.Lock()
	reciterID := c.reciterID
	c.mu.Unlock()
	return c.Play(ctx, reciterID, surah)
}

// Seek is ignored until the duration is known.
func (c *Controller) Seek(seconds float64) error {
	c.mu.Lock()
	if c.duration <= 0 {
		c.mu.Unlock()
		return ErrNoTrack
	}
	seconds = max(0, min(seconds, c.duration))
	gen := c.generation
	c.mu.Unlock()

	if err := c.media.Seek(seconds); err != nil {
		return err
	}

	c.mu.Lock()
	if gen == c.generation {
		c.position = seconds
	}
	c.mu.Unlock()
	return nil
}

// SetVolume clamps v to [0,1], applies it and persists it. The clamped
// value is returned.
func (c *Controller) SetVolume(v float64) float64 {
	v = prefs.ClampVolume(v)

	c.mu.Lock()
	c.volume = v
	c.mu.Unlock()

	if err := c.media.SetVolume(v); err != nil {
		log.Debug().Err(err).Msg("[player] volume not applied")
	}
	if c.volumes != nil {
		if err := c.volumes.SaveVolume(context.Background(), v); err != nil {
			log.Error().Err(err).Msg("[player] could not persist volume")
		}
	}
	return v
}

// SetReciter selects the reciter for later Play calls. Anything playing is
// stopped, since it belongs to the previous reciter.
func (c *Controller) SetReciter(id string) error {
	r, ok := reciters.Lookup(id)
	if !ok {
		return ErrUnknownReciter
	}

	c.mu.Lock()
	c.reciterID = r.ID
	if c.surah == 0 {
		c.mu.Unlock()
		return nil
	}
	c.begin(context.Background())
	c.cancel()
	c.cancel = nil
	c.position = 0
	snap := c.setState(StateIdle)
	c.surah, c.ayah, c.url = 0, 0, ""
	c.mu.Unlock()

	if err := c.media.Pause(); err != nil {
		log.Debug().Err(err).Msg("[player] pause on reciter change failed")
	}
	c.publish(snap)
	c.notifier.Notify(Toast{Level: ToastSuccess, Message: "تم تغيير القارئ إلى " + r.ArabicName})
	return nil
}

func (c *Controller) SetAutoplay(on bool) {
	c.mu.Lock()
	c.autoplay = on
	c.mu.Unlock()
}

// HandleKey applies the desktop keyboard shortcuts.
func (c *Controller) HandleKey(ctx context.Context, code string, ctrl bool) error {
	switch {
	case code == "Space":
		return c.TogglePlayPause()
	case code == "ArrowRight" && ctrl:
		return c.Next(ctx)
	case code == "ArrowLeft" && ctrl:
		return c.Previous(ctx)
	case code == "ArrowUp" && ctrl:
		c.SetVolume(c.Snapshot().Volume + volumeStep)
	case code == "ArrowDown" && ctrl:
		c.SetVolume(c.Snapshot().Volume - volumeStep)
	}
	return nil
}

// HandleEvent receives media element events outside of Load.
func (c *Controller) HandleEvent(ev Event) {
	switch ev.Type {
	case EventTimeUpdate:
		c.mu.Lock()
		c.position = ev.Time
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(snap)
	case EventDurationChange:
		c.mu.Lock()
		c.duration = ev.Duration
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.publish(snap)
	case EventEnded:
		c.ended()
	case EventError:
		c.mu.Lock()
		active := c.state == StatePlaying || c.state == StatePaused
		gen := c.generation
		c.mu.Unlock()
		if active {
			c.fail(gen, mediaErrorMessage(ev.Code), &MediaError{Code: ev.Code})
		}
	}
}

func mediaErrorMessage(code int) string {
	switch code {
	case MediaErrUnsupported:
		return "تعذر تشغيل الملف الصوتي. جرب قارئ آخر"
	case MediaErrNetwork:
		return "خطأ في الشبكة. تحقق من اتصالك بالإنترنت"
	}
	return "حدث خطأ أثناء تشغيل الصوت"
}

// ended handles end-of-track: whole surahs advance to the next one after
// the configured delay while autoplay is on; the last surah and single
// verses simply finish.
func (c *Controller) ended() {
	c.mu.Lock()
	if c.state != StatePlaying {
		c.mu.Unlock()
		return
	}
	surah, ayah, reciterID := c.surah, c.ayah, c.reciterID
	c.position = 0
	snap := c.setState(StateIdle)

	if ayah != 0 || !c.autoplay || surah >= LastSurah {
		c.surah, c.ayah = 0, 0
		c.mu.Unlock()
		c.publish(snap)
		if ayah == 0 {
			c.notifier.Notify(Toast{Level: ToastSuccess, Message: "تم انتهاء التلاوة. جزاك الله خيراً", Icon: "🤲", DurationMs: 4000})
		}
		return
	}

	gen := c.generation
	next := surah + 1
	c.advance = time.AfterFunc(c.delay, func() {
		if !c.current(gen) {
			return
		}
		if err := c.Play(context.Background(), reciterID, next); err != nil && !errors.Is(err, ErrSuperseded) {
			log.Error().Err(err).Int("surah", next).Msg("[player] auto-advance failed")
		}
	})
	c.mu.Unlock()

	c.publish(snap)
	c.notifier.Notify(Toast{Level: ToastSuccess, Message: "انتهت السورة. سأقوم بتشغيل السورة التالية...", Icon: "⏭️", DurationMs: 3000})
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:     c.state,
		Surah:     c.surah,
		Ayah:      c.ayah,
		ReciterID: c.reciterID,
		URL:       c.url,
		Position:  c.position,
		Duration:  c.duration,
		Volume:    c.volume,
		Autoplay:  c.autoplay,
		LastError: c.lastError,
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Close stops playback and cancels pending work.
func (c *Controller) Close() {
	if err := c.Stop(); err != nil {
		log.Debug().Err(err).Msg("[player] stop on close failed")
	}
}
