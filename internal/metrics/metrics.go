// Package metrics registers the service's prometheus collectors.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "islampath"

var (
	registerOnce sync.Once

	audioResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audio_resolutions_total",
		Help:      "Audio URL resolutions by outcome (primary, fallback, default, failed)",
	}, []string{"kind", "outcome"})
	audioProbes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audio_probes_total",
		Help:      "Candidate URL probes by result",
	}, []string{"result"})
	contentSource = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "content_page_source_total",
		Help:      "Mushaf page loads by the source that served them",
	}, []string{"source"})
	playerTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "player_transitions_total",
		Help:      "Playback controller state transitions by target state",
	}, []string{"state"})
	audioCache = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audio_cache_requests_total",
		Help:      "Audio cache proxy requests by result (network, cache, miss)",
	}, []string{"result"})
)

// Register adds every collector to the default registry once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			audioResolutions,
			audioProbes,
			contentSource,
			playerTransitions,
			audioCache,
		)
	})
}

func ObserveResolution(kind, outcome string) {
	audioResolutions.WithLabelValues(kind, outcome).Inc()
}

func ObserveProbe(ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	audioProbes.WithLabelValues(result).Inc()
}

func ObserveContentSource(source string) {
	contentSource.WithLabelValues(source).Inc()
}

func ObserveTransition(state string) {
	playerTransitions.WithLabelValues(state).Inc()
}

func ObserveAudioCache(result string) {
	audioCache.WithLabelValues(result).Inc()
}
