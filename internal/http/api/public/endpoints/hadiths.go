package endpoints

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/db"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/http/api/public/packets"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

const (
	hadithShareTitle = "حديث شريف"
	defaultIcon      = "📖"
)

var categoryIcons = map[string]string{
	"الإيمان والعقيدة": "☪️",
	"الطهارة والصلاة":  "🕌",
	"الزكاة والصدقة":   "💰",
	"الصيام":           "🌙",
	"الحج والعمرة":     "🕋",
	"الأخلاق":          "❤️",
	"العلم":            "📚",
	"النساء والأسرة":   "👨‍👩‍👧‍👦",
	"الذكر والدعاء":    "🤲",
	"الجنة والنار":     "🌟",
	"العدل والإنصاف":   "⚖️",
	"الصبر والابتلاء":  "💪",
	"التوبة":           "🤲",
	"الرحمة":           "💝",
}

func CategoryIcon(name string) string {
	if icon, ok := categoryIcons[name]; ok {
		return icon
	}
	return defaultIcon
}

type HadithController struct {
	store db.Store
}

func HadithModule(store db.Store) api.Module {
	ctl := &HadithController{store: store}
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/hadiths", 				ctl.listHadiths)
		c.PUBLIC_GET("/hadiths/categories", 	ctl.listCategories)
		c.PUBLIC_GET("/hadiths/:id", 			ctl.getHadith)
		c.PUBLIC_GET("/hadiths/:id/share", 	ctl.shareHadith)
	})
}

// GET /api/hadiths?page=&category=&q=
func (h *HadithController) listHadiths(ctx *gin.Context) (any, *api.APIError) {
	page, err := h.store.SearchHadiths(model.HadithFilter{
		Category: ctx.DefaultQuery("category", db.AllCategories),
		Query:    strings.TrimSpace(ctx.Query("q")),
		Page:     queryInt(ctx, "page", 1),
		PageSize: db.DefaultHadithPageSize,
	})
	if err != nil {
		log.Error().Err(err).Msg("[hadiths] search failed")
		return nil, api.FromDBError(err)
	}
	return packets.HadithListResponse{
		Items:      page.Items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages(),
	}, nil
}

// GET /api/hadiths/categories
//
// The "all" entry always comes first, followed by the distinct categories
// present in the table.
func (h *HadithController) listCategories(ctx *gin.Context) (any, *api.APIError) {
	names, err := h.store.HadithCategories()
	if err != nil {
		log.Error().Err(err).Msg("[hadiths] categories failed")
		return nil, api.FromDBError(err)
	}
	out := make([]packets.CategoryResponse, 0, len(names)+1)
	out = append(out, packets.CategoryResponse{
		ID:          db.AllCategories,
		Name:        "جميع الفئات",
		Description: "جميع الأحاديث النبوية",
		Icon:        defaultIcon,
	})
	for _, name := range names {
		out = append(out, packets.CategoryResponse{
			ID:          name,
			Name:        name,
			Description: "أحاديث في " + name,
			Icon:        CategoryIcon(name),
		})
	}
	return out, nil
}

// GET /api/hadiths/:id
func (h *HadithController) getHadith(ctx *gin.Context) (any, *api.APIError) {
	hadith, err := h.store.GetHadith(ctx.Param("id"))
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return hadith, nil
}

// GET /api/hadiths/:id/share
func (h *HadithController) shareHadith(ctx *gin.Context) (any, *api.APIError) {
	hadith, err := h.store.GetHadith(ctx.Param("id"))
	if err != nil {
		return nil, api.FromDBError(err)
	}
	return packets.ShareResponse{
		Title: hadithShareTitle,
		Text:  HadithShareText(hadith),
		Copy:  HadithCopyText(hadith),
	}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// HadithCopyText is the clipboard form, grade included.
func HadithCopyText(h model.Hadith) string {
	return fmt.Sprintf("%s\n\nالراوي: %s\nالمصدر: %s\nالدرجة: %s",
		h.Text, deref(h.Narrator), deref(h.BookName), deref(h.Grade))
}

func HadithShareText(h model.Hadith) string {
	return fmt.Sprintf("%s\n\nالراوي: %s\nالمصدر: %s", h.Text, deref(h.Narrator), deref(h.BookName))
}
