package quran

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(primary, secondary http.HandlerFunc) (*Client, func()) {
	p := httptest.NewServer(primary)
	s := httptest.NewServer(secondary)
	c := NewClient(nil)
	c.HTTP = p.Client()
	c.PrimaryBase = p.URL
	c.SecondaryBase = s.URL
	c.TafseerBase = p.URL
	return c, func() { p.Close(); s.Close() }
}

func failing(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "down", http.StatusServiceUnavailable)
}

func TestPageFromPrimary(t *testing.T) {
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/page/3/quran-uthmani", r.URL.Path)
		w.Write([]byte(`{"code":200,"data":{"ayahs":[
			{"text":"بسم","numberInSurah":6,"juz":1,"surah":{"number":2,"name":"سُورَةُ البَقَرَةِ"}},
			{"text":"","numberInSurah":7,"juz":1,"surah":{"number":2,"name":"سُورَةُ البَقَرَةِ"}}
		]}}`))
	}, failing)
	defer done()

	page, src := c.Page(context.Background(), 3)
	assert.Equal(t, SourcePrimary, src)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, "سُورَةُ البَقَرَةِ", page.SurahName)
	require.Len(t, page.Ayahs, 2)
	assert.Equal(t, "2:6", page.Ayahs[0].Key)
	assert.Equal(t, missingText, page.Ayahs[1].Text)
}

func TestPageFallsBackToSecondary(t *testing.T) {
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":404,"data":{"ayahs":[]}}`))
	}, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/verses/by_page/50", r.URL.Path)
		w.Write([]byte(`{"verses":[
			{"chapter_id":3,"verse_number":1,"verse_key":"3:1","juz_number":0,"text_indopak":"الٓمٓ"},
			{"chapter_id":3,"verse_number":2,"text_simple":"الله"}
		]}`))
	})
	defer done()

	page, src := c.Page(context.Background(), 50)
	assert.Equal(t, SourceSecondary, src)
	assert.Equal(t, "سورة 3", page.SurahName)
	assert.Equal(t, 3, page.Juz)
	require.Len(t, page.Ayahs, 2)
	assert.Equal(t, "الٓمٓ", page.Ayahs[0].Text)
	assert.Equal(t, "3:2", page.Ayahs[1].Key)
}

func TestPageUsesOfflineCopyWhenBothFail(t *testing.T) {
	c, done := testClient(failing, failing)
	defer done()

	page, src := c.Page(context.Background(), 2)
	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, "البقرة", page.SurahName)
	assert.Len(t, page.Ayahs, 5)

	page, src = c.Page(context.Background(), 77)
	assert.Equal(t, SourceFallback, src)
	assert.Equal(t, 77, page.Page)
	assert.Equal(t, 4, page.Juz)
	assert.Equal(t, "الفاتحة", page.SurahName)
	assert.Len(t, page.Ayahs, 7)
}

func TestPageSharedFetchOutlivesCancelledCaller(t *testing.T) {
	arrived := make(chan struct{})
	release := make(chan struct{})
	var hits atomic.Int32
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(arrived)
		}
		<-release
		w.Write([]byte(`{"code":200,"data":{"ayahs":[
			{"text":"وَالْمُطَلَّقَاتُ","numberInSurah":228,"juz":2,"surah":{"number":2,"name":"سُورَةُ البَقَرَةِ"}}
		]}}`))
	}, failing)
	defer done()

	leaderCtx, cancel := context.WithCancel(context.Background())
	leader := make(chan Source, 1)
	go func() {
		_, src := c.Page(leaderCtx, 36)
		leader <- src
	}()
	<-arrived

	type result struct {
		surah string
		src   Source
	}
	follower := make(chan result, 1)
	go func() {
		page, src := c.Page(context.Background(), 36)
		follower <- result{page.SurahName, src}
	}()
	// let the second caller join the in-flight fetch
	time.Sleep(50 * time.Millisecond)

	cancel()
	assert.Equal(t, SourceFallback, <-leader)
	close(release)

	got := <-follower
	assert.Equal(t, SourcePrimary, got.src)
	assert.Equal(t, "سُورَةُ البَقَرَةِ", got.surah)
	assert.Equal(t, int32(1), hits.Load())
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(-4))
	assert.Equal(t, 1, ClampPage(0))
	assert.Equal(t, 300, ClampPage(300))
	assert.Equal(t, 604, ClampPage(9999))
}

func TestSurahsAreCached(t *testing.T) {
	var hits atomic.Int32
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(`{"code":200,"data":[{"number":1,"name":"سُورَةُ ٱلْفَاتِحَةِ","englishName":"Al-Faatiha","numberOfAyahs":7,"revelationType":"Meccan"}]}`))
	}, failing)
	defer done()

	mr := miniredis.RunT(t)
	c.Cache = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	list, err := c.Surahs(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 7, list[0].NumberOfAyahs)

	_, err = c.Surahs(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, hits.Load())
	assert.True(t, mr.Exists(surahsKey))

	assert.Equal(t, "سُورَةُ ٱلْفَاتِحَةِ", SurahName(list, 1))
	assert.Equal(t, "", SurahName(list, 2))
}

func TestSurahsUnavailable(t *testing.T) {
	c, done := testClient(failing, failing)
	defer done()

	_, err := c.Surahs(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestTafseer(t *testing.T) {
	c, done := testClient(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tafseer/1/2/255", r.URL.Path)
		w.Write([]byte(`{"tafseer_id":1,"tafseer_name":"التفسير الميسر","ayah_number":255,"text":"الله"}`))
	}, failing)
	defer done()

	tf, err := c.Tafseer(context.Background(), 2, 255)
	require.NoError(t, err)
	assert.Equal(t, "التفسير الميسر", tf.TafseerName)
	assert.Equal(t, 255, tf.AyahNumber)
}
