package audio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/islampath/internal/reciters"
)

// recordingProber accepts only the URLs in ok and records every probe.
type recordingProber struct {
	mu    sync.Mutex
	ok    map[string]bool
	calls []string
}

func (p *recordingProber) Probe(_ context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, url)
	if p.ok[url] {
		return nil
	}
	return errors.New("unreachable")
}

func TestResolveReturnsFirstPassingFallbackInOrder(t *testing.T) {
	prober := &recordingProber{ok: map[string]bool{
		"https://b.example/001.mp3": true,
		"https://c.example/001.mp3": true,
	}}
	r := NewResolver(prober)

	candidates := []string{
		"https://primary.example/001.mp3",
		"https://a.example/001.mp3",
		"https://b.example/001.mp3",
		"https://c.example/001.mp3",
	}
	res, err := r.Resolve(context.Background(), candidates, "https://default.example/001.mp3")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example/001.mp3", res.URL)
	assert.Equal(t, 2, res.Attempt)
	assert.True(t, res.Validated)
	assert.Equal(t, candidates[:3], prober.calls)
}

func TestResolveSurahUnknownReciterEndsOnDefault(t *testing.T) {
	r := NewResolver(&recordingProber{})

	res, err := r.ResolveSurah(context.Background(), "does-not-exist", 18)
	require.NoError(t, err)
	assert.Equal(t, reciters.DefaultURL(18), res.URL)
	assert.False(t, res.Validated)
	assert.Equal(t, -1, res.Attempt)
}

func TestResolveSurahPrimaryWins(t *testing.T) {
	primary := reciters.PrimaryURL("minshawi", 1)
	r := NewResolver(&recordingProber{ok: map[string]bool{primary: true}})

	res, err := r.ResolveSurah(context.Background(), "minshawi", 1)
	require.NoError(t, err)
	assert.Equal(t, primary, res.URL)
	assert.Equal(t, 0, res.Attempt)
}

func TestResolveSkipsDuplicateCandidates(t *testing.T) {
	prober := &recordingProber{}
	r := NewResolver(prober)

	// the primary base is repeated as the first fallback in the catalog
	_, err := r.ResolveSurah(context.Background(), "husary", 3)
	require.NoError(t, err)

	seen := map[string]int{}
	for _, u := range prober.calls {
		seen[u]++
	}
	for u, n := range seen {
		assert.Equal(t, 1, n, u)
	}
}

func TestResolveAyahExhaustedIsErrNoSource(t *testing.T) {
	r := NewResolver(&recordingProber{})
	_, err := r.ResolveAyah(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestResolveStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	prober := ProberFunc(func(context.Context, string) error {
		cancel()
		return errors.New("boom")
	})
	r := NewResolver(prober)

	_, err := r.Resolve(ctx, []string{"a", "b", "c"}, "d")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHeadProber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		if r.URL.Path == "/ok.mp3" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewHeadProber(time.Second)
	assert.NoError(t, p.Probe(context.Background(), srv.URL+"/ok.mp3"))
	assert.Error(t, p.Probe(context.Background(), srv.URL+"/missing.mp3"))
	assert.Error(t, p.Probe(context.Background(), "http://127.0.0.1:1/unreachable.mp3"))
}

type blockingLoader struct{}

func (blockingLoader) Load(ctx context.Context, _ string) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestLoadProberTimesOut(t *testing.T) {
	p := &LoadProber{Media: blockingLoader{}, Timeout: 20 * time.Millisecond}
	err := p.Probe(context.Background(), "https://example/001001.mp3")
	assert.ErrorIs(t, err, ErrProbeTimeout)
}

func TestAyahSourcesFormatting(t *testing.T) {
	sources := AyahSources(2, 255)
	require.Len(t, sources, 10)
	assert.Equal(t, "https://cdn.islamic.network/quran/audio/128/ar.alafasy/2/255.mp3", sources[0])
	assert.Equal(t, "https://audio.qurancdn.com/Alafasy_128kbps/002255.mp3", sources[1])
	assert.Equal(t, "https://everyayah.com/data/Minshawi_Murattal_128kbps/002255.mp3", sources[9])
}

func TestReciterNameForURL(t *testing.T) {
	assert.Equal(t, "الشيخ مشاري العفاسي", ReciterNameForURL("https://x/ar.alafasy/1/1.mp3"))
	assert.Equal(t, "الشيخ محمود الحصري", ReciterNameForURL("https://x/Husary_128kbps/001001.mp3"))
	assert.Equal(t, "القارئ", ReciterNameForURL("https://x/unknown.mp3"))
}
