package audio

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultLoadTimeout bounds how long a media element may take to report
// that a candidate can play.
const DefaultLoadTimeout = 5 * time.Second

var ErrProbeTimeout = errors.New("audio: candidate did not become ready in time")

// Prober decides whether a candidate URL is playable.
type Prober interface {
	Probe(ctx context.Context, url string) error
}

// ProberFunc adapts a function to Prober.
type ProberFunc func(ctx context.Context, url string) error

func (f ProberFunc) Probe(ctx context.Context, url string) error { return f(ctx, url) }

// HeadProber validates a candidate with an HTTP HEAD request. Transport
// errors and non-2xx statuses are both failures.
type HeadProber struct {
	Client *http.Client
}

func NewHeadProber(timeout time.Duration) *HeadProber {
	return &HeadProber{Client: &http.Client{Timeout: timeout}}
}

func (p *HeadProber) Probe(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("head %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("head %s: unexpected status %d", url, resp.StatusCode)
	}
	return nil
}

// MediaLoader is the part of a media element a LoadProber needs: Load
// returns once the element reports it can play, or with the media error.
type MediaLoader interface {
	Load(ctx context.Context, url string) error
}

// LoadProber validates a candidate by loading it into the media element
// and waiting for readiness. A probe that loses the race against the
// timeout has its context cancelled, so the element stops loading it.
type LoadProber struct {
	Media   MediaLoader
	Timeout time.Duration
}

func (p *LoadProber) Probe(ctx context.Context, url string) error {
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultLoadTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := p.Media.Load(ctx, url)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrProbeTimeout
	}
	return err
}
