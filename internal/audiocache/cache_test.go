package audiocache

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/islampath/internal/storage"
)

func TestDefaultHostsCoverCatalog(t *testing.T) {
	hosts := DefaultHosts()
	assert.Contains(t, hosts, "server13.mp3quran.net")
	assert.Contains(t, hosts, "everyayah.com")
	assert.Contains(t, hosts, "cdn.islamic.network")
}

func TestAllowed(t *testing.T) {
	c := New(storage.NewLocalStorage(t.TempDir()))

	_, err := c.Allowed("https://server13.mp3quran.net/husr/001.mp3")
	assert.NoError(t, err)

	for _, bad := range []string{
		"https://evil.example.com/husr/001.mp3",
		"ftp://server13.mp3quran.net/husr/001.mp3",
		"https://server13.mp3quran.net/husr/index.html",
	} {
		_, err := c.Allowed(bad)
		assert.ErrorIs(t, err, ErrNotAllowed, bad)
	}
}

func TestNetworkFirstThenCacheFallback(t *testing.T) {
	online := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !online {
			http.Error(w, "gone", http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte("ID3-surah-bytes"))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	c := New(storage.NewLocalStorage(t.TempDir()), u.Host)
	c.HTTP = srv.Client()
	target := srv.URL + "/husr/002.mp3"

	res, err := c.Fetch(context.Background(), target)
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "ID3-surah-bytes", string(b))

	online = false
	res, err = c.Fetch(context.Background(), target)
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, "audio/mpeg", res.ContentType)
	b, err = io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "ID3-surah-bytes", string(b))

	_, err = c.Fetch(context.Background(), srv.URL+"/husr/003.mp3")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestOversizedBodiesAreNotStored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 1024))
	}))
	defer srv.Close()

	u, _ := url.Parse(srv.URL)
	store := storage.NewLocalStorage(t.TempDir())
	c := New(store, u.Host)
	c.HTTP = srv.Client()
	c.MaxBytes = 100

	res, err := c.Fetch(context.Background(), srv.URL+"/big.mp3")
	require.NoError(t, err)
	_, err = io.Copy(io.Discard, res.Body)
	require.NoError(t, err)
	res.Body.Close()

	key, _ := storage.KeyFor(srv.URL + "/big.mp3")
	_, err = store.Open(context.Background(), key)
	assert.ErrorIs(t, err, storage.ErrNotExist)
}
