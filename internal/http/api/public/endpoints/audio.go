package endpoints

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/audio"
	"github.com/Nixie-Tech-LLC/islampath/internal/audiocache"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/quran"
	"github.com/Nixie-Tech-LLC/islampath/internal/reciters"
)

type SurahResolver interface {
	ResolveSurah(ctx context.Context, reciterID string, surah int) (audio.Resolution, error)
}

type AudioFetcher interface {
	Fetch(ctx context.Context, raw string) (audiocache.Result, error)
}

type AudioController struct {
	resolver SurahResolver
	cache    AudioFetcher
}

// AudioModule serves the reciter catalog and resolved recitation URLs.
func AudioModule(resolver SurahResolver) api.Module {
	ctl := &AudioController{resolver: resolver}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/audio/reciters", 				ctl.listReciters)
		c.PUBLIC_GET("/audio/surah/:reciter/:surah", 	ctl.resolveSurah)
		c.PUBLIC_GET("/audio/ayah/:surah/:ayah", 		ctl.ayahSources)
	})
}

// AudioCacheModule is the network-first audio proxy, mounted at the site
// root next to the page shells.
func AudioCacheModule(cache AudioFetcher) api.Module {
	ctl := &AudioController{cache: cache}
	return api.ModuleFunc(func(c *api.Controller) {
		c.RAW(http.MethodGet, "/audio/cache", ctl.proxy)
	})
}

func reciterResponse(r reciters.Reciter) packets.ReciterResponse {
	return packets.ReciterResponse{
		ID:           r.ID,
		Name:         r.Name,
		ArabicName:   r.ArabicName,
		AudioBaseURL: r.AudioBaseURL,
		FallbackURLs: r.FallbackURLs,
		Description:  r.Description,
		Country:      r.Country,
		ZipURL:       r.ZipURL,
	}
}

// GET /api/audio/reciters
func (a *AudioController) listReciters(ctx *gin.Context) (any, *api.APIError) {
	sorted := reciters.SortedByArabicName()
	out := make([]packets.ReciterResponse, len(sorted))
	for i, r := range sorted {
		out[i] = reciterResponse(r)
	}
	return out, nil
}

// GET /api/audio/surah/:reciter/:surah
func (a *AudioController) resolveSurah(ctx *gin.Context) (any, *api.APIError) {
	surah, err := strconv.Atoi(ctx.Param("surah"))
	if err != nil || surah < 1 || surah > quran.SurahCount {
		return nil, api.BadRequest("invalid surah")
	}
	id := ctx.Param("reciter")
	if _, ok := reciters.Lookup(id); !ok {
		return nil, api.NotFound("القارئ غير موجود")
	}

	res, err := a.resolver.ResolveSurah(ctx.Request.Context(), id, surah)
	if err != nil {
		log.Warn().Err(err).Str("reciter", id).Int("surah", surah).Msg("[audio] no source")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "تعذر العثور على ملف صوتي صالح"}
	}
	return packets.SurahAudioResponse{
		ReciterID: id,
		Surah:     surah,
		URL:       res.URL,
		Validated: res.Validated,
		Attempt:   res.Attempt,
	}, nil
}

// GET /api/audio/ayah/:surah/:ayah
func (a *AudioController) ayahSources(ctx *gin.Context) (any, *api.APIError) {
	surah, ayah, apiErr := ayahParams(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return packets.AyahAudioResponse{
		Surah:   surah,
		Ayah:    ayah,
		Sources: audio.AyahSources(surah, ayah),
	}, nil
}

// GET /api/audio/cache?url=
func (a *AudioController) proxy(ctx *gin.Context) {
	res, err := a.cache.Fetch(ctx.Request.Context(), ctx.Query("url"))
	switch {
	case errors.Is(err, audiocache.ErrNotAllowed):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "url is not an allowed audio source"})
		return
	case err != nil:
		ctx.JSON(http.StatusGatewayTimeout, gin.H{"error": "audio unavailable"})
		return
	}
	defer closeQuietly(res.Body)

	ctx.DataFromReader(http.StatusOK, res.ContentLength, res.ContentType, res.Body, map[string]string{
		"X-Audio-Cache": cacheState(res.FromCache),
		"Cache-Control": "public, max-age=86400",
	})
}

func closeQuietly(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Debug().Err(err).Msg("[audio] close body")
	}
}
