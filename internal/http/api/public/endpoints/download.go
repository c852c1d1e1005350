package endpoints

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/audiocache"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/quran"
	"github.com/Nixie-Tech-LLC/islampath/internal/reciters"
)

// DownloadModule serves single surahs as file downloads through the audio
// cache. Downloading a reciter's whole Quran redirects to their archive.
func DownloadModule(cache AudioFetcher) api.Module {
	ctl := &AudioController{cache: cache}
	return api.ModuleFunc(func(c *api.Controller) {
		c.RAW(http.MethodGet, "/audio/download/:reciter", 			ctl.downloadAll)
		c.RAW(http.MethodGet, "/audio/download/:reciter/:surah", 	ctl.downloadSurah)
	})
}

// DownloadFilename names a saved recitation {sss}_{reciter}.mp3.
func DownloadFilename(reciterID string, surah int) string {
	return fmt.Sprintf("%s_%s.mp3", reciters.FormatSurah(surah), reciterID)
}

func cacheState(hit bool) string {
	if hit {
		return "HIT"
	}
	return "MISS"
}

// GET /api/audio/download/:reciter/:surah
func (a *AudioController) downloadSurah(ctx *gin.Context) {
	surah, err := strconv.Atoi(ctx.Param("surah"))
	if err != nil || surah < 1 || surah > quran.SurahCount {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid surah"})
		return
	}
	r, ok := reciters.Lookup(ctx.Param("reciter"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "القارئ غير موجود"})
		return
	}

	candidates := append([]string{reciters.BuildPrimaryURL(r, surah)}, reciters.BuildFallbackURLs(r, surah)...)
	seen := make(map[string]bool, len(candidates))
	var res audiocache.Result
	for _, u := range candidates {
		if seen[u] {
			continue
		}
		seen[u] = true
		if res, err = a.cache.Fetch(ctx.Request.Context(), u); err == nil {
			break
		}
		log.Debug().Err(err).Str("url", u).Msg("[audio] download candidate failed")
	}
	if err != nil {
		log.Warn().Err(err).Str("reciter", r.ID).Int("surah", surah).Msg("[audio] download failed")
		ctx.JSON(http.StatusBadGateway, gin.H{"error": "فشل في تحميل السورة"})
		return
	}
	defer closeQuietly(res.Body)

	contentType := res.ContentType
	if contentType == "" {
		contentType = "audio/mpeg"
	}
	ctx.DataFromReader(http.StatusOK, res.ContentLength, contentType, res.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, DownloadFilename(r.ID, surah)),
		"X-Audio-Cache":       cacheState(res.FromCache),
	})
}

// GET /api/audio/download/:reciter
func (a *AudioController) downloadAll(ctx *gin.Context) {
	r, ok := reciters.Lookup(ctx.Param("reciter"))
	if !ok {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "القارئ غير موجود"})
		return
	}
	if r.ZipURL == "" {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "التحميل الكامل غير متوفر لهذا القارئ"})
		return
	}
	ctx.Redirect(http.StatusFound, r.ZipURL)
}
