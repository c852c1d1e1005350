package endpoints

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/arabic"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/listing"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
	"github.com/Nixie-Tech-LLC/islampath/internal/quran"
)

// QuranSource is the content client surface the reader needs.
type QuranSource interface {
	Page(ctx context.Context, page int) (model.PageData, quran.Source)
	Surahs(ctx context.Context) ([]model.Surah, error)
	Ayah(ctx context.Context, surah, ayah int) (model.Ayah, error)
	Tafseer(ctx context.Context, surah, ayah int) (model.Tafseer, error)
}

type QuranController struct {
	source QuranSource
}

func QuranModule(source QuranSource) api.Module {
	ctl := &QuranController{source: source}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/quran/surahs", 					ctl.listSurahs)
		c.PUBLIC_GET("/quran/pages/:page", 				ctl.getPage)
		c.PUBLIC_GET("/quran/ayahs/:surah/:ayah", 		ctl.getAyah)
		c.PUBLIC_GET("/quran/tafseer/:surah/:ayah", 	ctl.getTafseer)
	})
}

// GET /api/quran/surahs?q=&page=&size=
func (q *QuranController) listSurahs(ctx *gin.Context) (any, *api.APIError) {
	all, err := q.source.Surahs(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("[quran] surah list unavailable")
		return nil, unavailable(err)
	}

	term := strings.TrimSpace(ctx.Query("q"))
	matched := all
	if term != "" {
		lower := strings.ToLower(term)
		matched = listing.Filter(all, func(s model.Surah) bool {
			return arabic.Contains(s.Name, term) ||
				strings.Contains(strings.ToLower(s.EnglishName), lower) ||
				strconv.Itoa(s.Number) == term
		})
	}

	page := queryInt(ctx, "page", 1)
	size := queryInt(ctx, "size", quran.SurahCount)
	p := listing.Paginate(matched, page, size)
	return packets.SurahListResponse{
		Items:      p.Items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
	}, nil
}

// GET /api/quran/pages/:page
//
// Never fails: out of range numbers are clamped and an unreachable
// upstream falls back to the bundled pages.
func (q *QuranController) getPage(ctx *gin.Context) (any, *api.APIError) {
	n, err := strconv.Atoi(ctx.Param("page"))
	if err != nil {
		n = quran.FirstPage
	}
	data, source := q.source.Page(ctx.Request.Context(), quran.ClampPage(n))
	return packets.PageResponse{PageData: data, Source: string(source)}, nil
}

// GET /api/quran/ayahs/:surah/:ayah
func (q *QuranController) getAyah(ctx *gin.Context) (any, *api.APIError) {
	surah, ayah, apiErr := ayahParams(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	a, err := q.source.Ayah(ctx.Request.Context(), surah, ayah)
	if err != nil {
		return nil, unavailable(err)
	}
	return a, nil
}

// GET /api/quran/tafseer/:surah/:ayah
func (q *QuranController) getTafseer(ctx *gin.Context) (any, *api.APIError) {
	surah, ayah, apiErr := ayahParams(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	t, err := q.source.Tafseer(ctx.Request.Context(), surah, ayah)
	if err != nil {
		return nil, unavailable(err)
	}
	return t, nil
}

func ayahParams(ctx *gin.Context) (int, int, *api.APIError) {
	surah, err := strconv.Atoi(ctx.Param("surah"))
	if err != nil || surah < 1 || surah > quran.SurahCount {
		return 0, 0, api.BadRequest("invalid surah")
	}
	ayah, err := strconv.Atoi(ctx.Param("ayah"))
	if err != nil || ayah < 1 {
		return 0, 0, api.BadRequest("invalid ayah")
	}
	return surah, ayah, nil
}

func queryInt(ctx *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(ctx.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func unavailable(err error) *api.APIError {
	if errors.Is(err, quran.ErrUnavailable) {
		return &api.APIError{Code: http.StatusBadGateway, Message: "المحتوى غير متوفر حالياً"}
	}
	return &api.APIError{Code: http.StatusInternalServerError, Message: "حدث خطأ غير متوقع"}
}
