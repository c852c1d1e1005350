// Package quran fetches mushaf pages, surah metadata and tafseer from the
// public content APIs, degrading to an offline copy when both fail.
package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/Nixie-Tech-LLC/islampath/internal/metrics"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

const (
	FirstPage  = 1
	LastPage   = 604
	SurahCount = 114

	DefaultPrimaryBase   = "https://api.alquran.cloud"
	DefaultSecondaryBase = "https://api.qurancdn.com/api/qdc"
	DefaultTafseerBase   = "http://api.quran-tafseer.com"

	missingText  = "نص غير متوفر"
	surahsKey    = "quran:surahs"
	surahsTTL    = 7 * 24 * time.Hour
	fetchTimeout = 10 * time.Second
)

var ErrUnavailable = errors.New("quran: content API unavailable")

// Source tells which backend produced a page.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceFallback  Source = "fallback"
)

type Client struct {
	HTTP          *http.Client
	PrimaryBase   string
	SecondaryBase string
	TafseerBase   string

	// Cache holds the surah list; nil disables caching.
	Cache *redis.Client

	group singleflight.Group
}

func NewClient(cache *redis.Client) *Client {
	return &Client{
		HTTP:          &http.Client{Timeout: fetchTimeout},
		PrimaryBase:   DefaultPrimaryBase,
		SecondaryBase: DefaultSecondaryBase,
		TafseerBase:   DefaultTafseerBase,
		Cache:         cache,
	}
}

// ClampPage keeps a page number inside the 604-page mushaf.
func ClampPage(n int) int {
	if n < FirstPage {
		return FirstPage
	}
	if n > LastPage {
		return LastPage
	}
	return n
}

func juzForPage(page int) int {
	return (page + 19) / 20
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

type pageResult struct {
	data   model.PageData
	source Source
}

// Page returns one mushaf page. It tries the primary API, then the
// secondary, then the offline copy, so it never fails.
//
// Concurrent callers for the same page share one fetch. The fetch is not
// bound to any caller's context, so one caller hanging up cannot push the
// others onto the offline copy. A caller whose own ctx ends gets the
// offline copy without waiting.
func (c *Client) Page(ctx context.Context, page int) (model.PageData, Source) {
	ch := c.group.DoChan(strconv.Itoa(page), func() (any, error) {
		shared, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*fetchTimeout)
		defer cancel()
		return c.fetchPage(shared, page), nil
	})
	select {
	case r := <-ch:
		res := r.Val.(pageResult)
		metrics.ObserveContentSource(string(res.source))
		return res.data, res.source
	case <-ctx.Done():
		return FallbackPage(page), SourceFallback
	}
}

func (c *Client) fetchPage(ctx context.Context, page int) pageResult {
	data, err := c.primaryPage(ctx, page)
	if err == nil {
		return pageResult{data: data, source: SourcePrimary}
	}
	log.Warn().Err(err).Int("page", page).Msg("[quran] primary API failed")

	data, err = c.secondaryPage(ctx, page)
	if err == nil {
		return pageResult{data: data, source: SourceSecondary}
	}
	log.Warn().Err(err).Int("page", page).Msg("[quran] secondary API failed, using offline page")

	return pageResult{data: FallbackPage(page), source: SourceFallback}
}

func (c *Client) primaryPage(ctx context.Context, page int) (model.PageData, error) {
	var body struct {
		Code int `json:"code"`
		Data struct {
			Ayahs []struct {
				Text          string `json:"text"`
				NumberInSurah int    `json:"numberInSurah"`
				Juz           int    `json:"juz"`
				Surah         struct {
					Number int    `json:"number"`
					Name   string `json:"name"`
				} `json:"surah"`
			} `json:"ayahs"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/v1/page/%d/quran-uthmani", c.PrimaryBase, page)
	if err := c.getJSON(ctx, url, &body); err != nil {
		return model.PageData{}, err
	}
	if body.Code != http.StatusOK || len(body.Data.Ayahs) == 0 {
		return model.PageData{}, fmt.Errorf("primary page %d: unexpected payload (code %d)", page, body.Code)
	}

	first := body.Data.Ayahs[0]
	out := model.PageData{
		Page:      page,
		SurahName: first.Surah.Name,
		Juz:       first.Juz,
		Ayahs:     make([]model.Ayah, 0, len(body.Data.Ayahs)),
	}
	if out.SurahName == "" {
		out.SurahName = fmt.Sprintf("سورة %d", orOne(first.Surah.Number))
	}
	if out.Juz == 0 {
		out.Juz = juzForPage(page)
	}
	for _, a := range body.Data.Ayahs {
		s, n := orOne(a.Surah.Number), orOne(a.NumberInSurah)
		text := a.Text
		if text == "" {
			text = missingText
		}
		out.Ayahs = append(out.Ayahs, model.Ayah{Text: text, Surah: s, Ayah: n, Key: model.AyahKey(s, n)})
	}
	return out, nil
}

func (c *Client) secondaryPage(ctx context.Context, page int) (model.PageData, error) {
	var body struct {
		Verses []struct {
			ChapterID   int    `json:"chapter_id"`
			VerseNumber int    `json:"verse_number"`
			VerseKey    string `json:"verse_key"`
			JuzNumber   int    `json:"juz_number"`
			Uthmani     string `json:"text_uthmani"`
			Indopak     string `json:"text_indopak"`
			Simple      string `json:"text_simple"`
		} `json:"verses"`
	}
	url := fmt.Sprintf("%s/verses/by_page/%d", c.SecondaryBase, page)
	if err := c.getJSON(ctx, url, &body); err != nil {
		return model.PageData{}, err
	}
	if len(body.Verses) == 0 {
		return model.PageData{}, fmt.Errorf("secondary page %d: no verses", page)
	}

	first := body.Verses[0]
	out := model.PageData{
		Page:      page,
		SurahName: fmt.Sprintf("سورة %d", orOne(first.ChapterID)),
		Juz:       first.JuzNumber,
		Ayahs:     make([]model.Ayah, 0, len(body.Verses)),
	}
	if out.Juz == 0 {
		out.Juz = juzForPage(page)
	}
	for _, v := range body.Verses {
		text := firstNonEmpty(v.Uthmani, v.Indopak, v.Simple, missingText)
		key := v.VerseKey
		if key == "" {
			key = model.AyahKey(v.ChapterID, v.VerseNumber)
		}
		out.Ayahs = append(out.Ayahs, model.Ayah{Text: text, Surah: orOne(v.ChapterID), Ayah: orOne(v.VerseNumber), Key: key})
	}
	return out, nil
}

// Surahs returns the chapter list, from the cache when possible.
func (c *Client) Surahs(ctx context.Context) ([]model.Surah, error) {
	if c.Cache != nil {
		raw, err := c.Cache.Get(ctx, surahsKey).Result()
		switch {
		case err == nil:
			var cached []model.Surah
			if jerr := json.Unmarshal([]byte(raw), &cached); jerr == nil && len(cached) > 0 {
				return cached, nil
			}
		case !errors.Is(err, redis.Nil):
			log.Warn().Err(err).Msg("[quran] surah cache read failed")
		}
	}

	var body struct {
		Code int           `json:"code"`
		Data []model.Surah `json:"data"`
	}
	if err := c.getJSON(ctx, c.PrimaryBase+"/v1/surah", &body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if body.Code != http.StatusOK || len(body.Data) == 0 {
		return nil, ErrUnavailable
	}

	if c.Cache != nil {
		if raw, err := json.Marshal(body.Data); err == nil {
			if err := c.Cache.Set(ctx, surahsKey, raw, surahsTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("[quran] surah cache write failed")
			}
		}
	}
	return body.Data, nil
}

// SurahName looks a surah up in a list, returning "" when absent.
func SurahName(list []model.Surah, n int) string {
	for _, s := range list {
		if s.Number == n {
			return s.Name
		}
	}
	return ""
}

func (c *Client) Ayah(ctx context.Context, surah, ayah int) (model.Ayah, error) {
	var body struct {
		Code int `json:"code"`
		Data struct {
			Text          string `json:"text"`
			NumberInSurah int    `json:"numberInSurah"`
			Surah         struct {
				Number int `json:"number"`
			} `json:"surah"`
		} `json:"data"`
	}
	url := fmt.Sprintf("%s/v1/ayah/%d:%d/quran-uthmani", c.PrimaryBase, surah, ayah)
	if err := c.getJSON(ctx, url, &body); err != nil {
		return model.Ayah{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if body.Code != http.StatusOK {
		return model.Ayah{}, ErrUnavailable
	}
	return model.Ayah{
		Text:  body.Data.Text,
		Surah: surah,
		Ayah:  ayah,
		Key:   model.AyahKey(surah, ayah),
	}, nil
}

func (c *Client) Tafseer(ctx context.Context, surah, ayah int) (model.Tafseer, error) {
	var out model.Tafseer
	url := fmt.Sprintf("%s/tafseer/1/%d/%d", c.TafseerBase, surah, ayah)
	if err := c.getJSON(ctx, url, &out); err != nil {
		return model.Tafseer{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return out, nil
}

func orOne(n int) int {
	if n == 0 {
		return 1
	}
	return n
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
