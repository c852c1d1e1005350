// Package prefs keeps per-client preferences: playback volume, favorite
// hadiths and stories, and the one-time "seen this update" flags. Keys and
// value encodings match what the browser kept in local storage.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	KeyVolume          = "quran-audio-volume"
	KeyFavoriteHadiths = "favoriteHadiths"
	KeyFavoriteStories = "favoriteStories"

	FlagMushafUpdate  = "mushaf_update_seen"
	FlagRecitersAudio = "reciters_audio_fix_seen"

	DefaultVolume = 0.7
)

// Kind selects a favorites list.
type Kind string

const (
	Hadiths Kind = "hadiths"
	Stories Kind = "stories"
)

func (k Kind) key() (string, error) {
	switch k {
	case Hadiths:
		return KeyFavoriteHadiths, nil
	case Stories:
		return KeyFavoriteStories, nil
	}
	return "", fmt.Errorf("unknown favorites kind %q", k)
}

// ParseKind validates a kind taken from a URL.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, err := k.key(); err != nil {
		return "", err
	}
	return k, nil
}

func IsKnownFlag(flag string) bool {
	return flag == FlagMushafUpdate || flag == FlagRecitersAudio
}

// ClampVolume limits v to [0,1].
func ClampVolume(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

type Prefs struct {
	store Store
}

func New(store Store) *Prefs {
	return &Prefs{store: store}
}

func clientKey(client, key string) string {
	return client + ":" + key
}

// Volume returns the saved volume, DefaultVolume when none was saved or
// the saved value does not parse.
func (p *Prefs) Volume(ctx context.Context, client string) (float64, error) {
	raw, ok, err := p.store.Get(ctx, clientKey(client, KeyVolume))
	if err != nil {
		return DefaultVolume, err
	}
	if !ok {
		return DefaultVolume, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return DefaultVolume, nil
	}
	return ClampVolume(v), nil
}

// SetVolume clamps and persists v, returning the stored value.
func (p *Prefs) SetVolume(ctx context.Context, client string, v float64) (float64, error) {
	v = ClampVolume(v)
	err := p.store.Set(ctx, clientKey(client, KeyVolume), strconv.FormatFloat(v, 'f', -1, 64))
	return v, err
}

func (p *Prefs) Favorites(ctx context.Context, client string, kind Kind) ([]string, error) {
	key, err := kind.key()
	if err != nil {
		return nil, err
	}
	raw, ok, err := p.store.Get(ctx, clientKey(client, key))
	if err != nil {
		return nil, err
	}
	ids := []string{}
	if !ok || raw == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return ids, nil
}

func (p *Prefs) saveFavorites(ctx context.Context, client string, kind Kind, ids []string) error {
	key, err := kind.key()
	if err != nil {
		return err
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, clientKey(client, key), string(raw))
}

func IsFavorite(ids []string, id string) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

// ToggleFavorite adds id when absent and removes it when present. It
// reports whether id is a favorite afterwards.
func (p *Prefs) ToggleFavorite(ctx context.Context, client string, kind Kind, id string) (bool, []string, error) {
	ids, err := p.Favorites(ctx, client, kind)
	if err != nil {
		return false, nil, err
	}
	added := !IsFavorite(ids, id)
	if added {
		ids = append(ids, id)
	} else {
		ids = without(ids, id)
	}
	if err := p.saveFavorites(ctx, client, kind, ids); err != nil {
		return false, nil, err
	}
	return added, ids, nil
}

func (p *Prefs) AddFavorite(ctx context.Context, client string, kind Kind, id string) ([]string, error) {
	ids, err := p.Favorites(ctx, client, kind)
	if err != nil {
		return nil, err
	}
	if IsFavorite(ids, id) {
		return ids, nil
	}
	ids = append(ids, id)
	return ids, p.saveFavorites(ctx, client, kind, ids)
}

func (p *Prefs) RemoveFavorite(ctx context.Context, client string, kind Kind, id string) ([]string, error) {
	ids, err := p.Favorites(ctx, client, kind)
	if err != nil {
		return nil, err
	}
	ids = without(ids, id)
	return ids, p.saveFavorites(ctx, client, kind, ids)
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, x := range ids {
		if x != id {
			out = append(out, x)
		}
	}
	return out
}

func (p *Prefs) Seen(ctx context.Context, client, flag string) (bool, error) {
	raw, ok, err := p.store.Get(ctx, clientKey(client, flag))
	if err != nil {
		return false, err
	}
	return ok && raw == "true", nil
}

func (p *Prefs) MarkSeen(ctx context.Context, client, flag string) error {
	return p.store.Set(ctx, clientKey(client, flag), "true")
}

// ClientVolume binds the volume preference of one client, in the shape the
// playback controller persists through.
type ClientVolume struct {
	prefs  *Prefs
	client string
}

func (p *Prefs) ForClient(client string) *ClientVolume {
	return &ClientVolume{prefs: p, client: client}
}

func (c *ClientVolume) Volume(ctx context.Context) (float64, error) {
	return c.prefs.Volume(ctx, c.client)
}

func (c *ClientVolume) SaveVolume(ctx context.Context, v float64) error {
	_, err := c.prefs.SetVolume(ctx, c.client, v)
	return err
}
