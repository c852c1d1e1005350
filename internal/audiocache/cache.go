// Package audiocache proxies recitation audio network-first and falls back
// to previously cached bytes when the CDN is unreachable.
package audiocache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/audio"
	"github.com/Nixie-Tech-LLC/islampath/internal/metrics"
	"github.com/Nixie-Tech-LLC/islampath/internal/reciters"
	"github.com/Nixie-Tech-LLC/islampath/internal/storage"
)

const DefaultMaxBytes = 64 << 20

var (
	ErrNotAllowed  = errors.New("audiocache: url is not an allowed audio source")
	ErrUnavailable = errors.New("audiocache: audio unavailable from network and cache")
)

// Result is an audio stream ready to serve. Body must be closed.
type Result struct {
	Body          io.ReadCloser
	ContentType   string
	ContentLength int64
	FromCache     bool
}

type Cache struct {
	HTTP     *http.Client
	Store    storage.Storage
	MaxBytes int64

	hosts map[string]bool
}

// New allows the given hosts; with none it allows every host the reciter
// catalog and the verse sources point at.
func New(store storage.Storage, hosts ...string) *Cache {
	if len(hosts) == 0 {
		hosts = DefaultHosts()
	}
	allowed := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		allowed[strings.ToLower(h)] = true
	}
	return &Cache{
		HTTP:     &http.Client{Timeout: 2 * time.Minute},
		Store:    store,
		MaxBytes: DefaultMaxBytes,
		hosts:    allowed,
	}
}

// DefaultHosts collects the hosts of every known audio URL.
func DefaultHosts() []string {
	seen := map[string]bool{}
	add := func(raw string) {
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			seen[strings.ToLower(u.Host)] = true
		}
	}
	for _, r := range reciters.All() {
		add(reciters.BuildPrimaryURL(r, 1))
		for _, f := range reciters.BuildFallbackURLs(r, 1) {
			add(f)
		}
	}
	add(reciters.DefaultURL(1))
	for _, src := range audio.AyahSources(1, 1) {
		add(src)
	}

	out := make([]string, 0, len(seen))
	for h := range seen {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Allowed validates an audio URL: http(s), an allowed host, an .mp3 path.
func (c *Cache) Allowed(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAllowed, err)
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return nil, ErrNotAllowed
	}
	if !c.hosts[strings.ToLower(u.Host)] {
		return nil, ErrNotAllowed
	}
	if !strings.HasSuffix(strings.ToLower(u.Path), ".mp3") {
		return nil, ErrNotAllowed
	}
	return u, nil
}

// Fetch tries the network first. A successful response is streamed to the
// caller and stored once fully read; any network failure falls back to the
// stored copy.
func (c *Cache) Fetch(ctx context.Context, raw string) (Result, error) {
	u, err := c.Allowed(raw)
	if err != nil {
		metrics.ObserveAudioCache("rejected")
		return Result{}, err
	}
	key, err := storage.KeyFor(u.String())
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrNotAllowed, err)
	}

	res, netErr := c.fromNetwork(ctx, u.String(), key)
	if netErr == nil {
		metrics.ObserveAudioCache("network")
		return res, nil
	}
	log.Warn().Err(netErr).Str("url", raw).Msg("[audiocache] network failed, trying cache")

	body, err := c.Store.Open(ctx, key)
	if err != nil {
		metrics.ObserveAudioCache("miss")
		if !errors.Is(err, storage.ErrNotExist) {
			log.Error().Err(err).Str("key", key).Msg("[audiocache] cache read failed")
		}
		return Result{}, fmt.Errorf("%w: %v", ErrUnavailable, netErr)
	}
	metrics.ObserveAudioCache("cache")
	return Result{Body: body, ContentType: storage.ContentType(key), ContentLength: -1, FromCache: true}, nil
}

func (c *Cache) fromNetwork(ctx context.Context, raw, key string) (Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Result{}, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return Result{}, fmt.Errorf("GET %s: status %d", raw, resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = storage.ContentType(key)
	}
	body := &teeBody{
		src: resp.Body,
		max: c.MaxBytes,
		done: func(data []byte) {
			// the request context is gone once the response is written
			if err := c.Store.Put(context.Background(), key, data, ct); err != nil {
				log.Error().Err(err).Str("key", key).Msg("[audiocache] store failed")
			}
		},
	}
	return Result{Body: body, ContentType: ct, ContentLength: resp.ContentLength}, nil
}

// teeBody buffers what is read and hands the full payload to done on EOF,
// unless it grew past max.
type teeBody struct {
	src      io.ReadCloser
	buf      bytes.Buffer
	max      int64
	overflow bool
	finished bool
	done     func([]byte)
}

func (t *teeBody) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 && !t.overflow {
		if int64(t.buf.Len()+n) > t.max {
			t.overflow = true
			t.buf = bytes.Buffer{}
		} else {
			t.buf.Write(p[:n])
		}
	}
	if errors.Is(err, io.EOF) && !t.overflow && !t.finished {
		t.finished = true
		t.done(t.buf.Bytes())
	}
	return n, err
}

func (t *teeBody) Close() error {
	return t.src.Close()
}
