// Package audio resolves playable recitation URLs. Surah-level and
// verse-level lookups share one Resolver; only the Prober differs (HEAD
// request vs. loading into the media element).
package audio

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/metrics"
	"github.com/Nixie-Tech-LLC/islampath/internal/reciters"
)

var ErrNoSource = errors.New("audio: no playable source found")

// Resolution describes which candidate won.
type Resolution struct {
	URL string `json:"url"`
	// Attempt is the index of the winning candidate, or -1 when the
	// unvalidated final fallback was returned.
	Attempt   int  `json:"attempt"`
	Validated bool `json:"validated"`
}

type Resolver struct {
	prober Prober
}

func NewResolver(p Prober) *Resolver {
	return &Resolver{prober: p}
}

// WithProber returns a resolver sharing nothing but the algorithm.
func (r *Resolver) WithProber(p Prober) *Resolver {
	return &Resolver{prober: p}
}

// Resolve probes candidates in order and returns the first that passes.
// A URL already probed in this call is skipped. When every candidate
// fails the fallback is returned without validation; an empty fallback
// yields ErrNoSource. Cancellation of ctx aborts the scan.
func (r *Resolver) Resolve(ctx context.Context, candidates []string, fallback string) (Resolution, error) {
	tried := make(map[string]struct{}, len(candidates))
	for i, url := range candidates {
		if _, dup := tried[url]; dup {
			continue
		}
		tried[url] = struct{}{}

		if err := ctx.Err(); err != nil {
			return Resolution{}, err
		}
		err := r.prober.Probe(ctx, url)
		metrics.ObserveProbe(err == nil)
		if err == nil {
			return Resolution{URL: url, Attempt: i, Validated: true}, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Resolution{}, ctxErr
		}
		log.Debug().Err(err).Str("url", url).Int("attempt", i).Msg("[audio] candidate rejected")
	}

	if fallback == "" {
		return Resolution{}, ErrNoSource
	}
	return Resolution{URL: fallback, Attempt: -1}, nil
}

// SurahCandidates is the ordered candidate list for a reciter: the primary
// URL followed by each fallback base.
func SurahCandidates(reciterID string, surah int) []string {
	out := []string{reciters.PrimaryURL(reciterID, surah)}
	return append(out, reciters.FallbackURLs(reciterID, surah)...)
}

// ResolveSurah never fails for an unknown reciter: it ends on the default
// reciter's URL.
func (r *Resolver) ResolveSurah(ctx context.Context, reciterID string, surah int) (Resolution, error) {
	res, err := r.Resolve(ctx, SurahCandidates(reciterID, surah), reciters.DefaultURL(surah))
	if err != nil {
		metrics.ObserveResolution("surah", "failed")
		return res, err
	}
	switch {
	case !res.Validated:
		metrics.ObserveResolution("surah", "default")
		log.Warn().Str("reciter", reciterID).Int("surah", surah).Msg("[audio] every candidate failed, using default reciter")
	case res.Attempt == 0:
		metrics.ObserveResolution("surah", "primary")
	default:
		metrics.ObserveResolution("surah", "fallback")
	}
	return res, nil
}

// ResolveAyah walks the fixed verse-level source list. There is no final
// fallback, so exhaustion is ErrNoSource.
func (r *Resolver) ResolveAyah(ctx context.Context, surah, ayah int) (Resolution, error) {
	res, err := r.Resolve(ctx, AyahSources(surah, ayah), "")
	if err != nil {
		metrics.ObserveResolution("ayah", "failed")
		return res, err
	}
	if res.Attempt == 0 {
		metrics.ObserveResolution("ayah", "primary")
	} else {
		metrics.ObserveResolution("ayah", "fallback")
	}
	return res, nil
}
