package endpoints

import (
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/Nixie-Tech-LLC/islampath/internal/http/api"
	"github.com/Nixie-Tech-LLC/islampath/internal/quran"
	"github.com/Nixie-Tech-LLC/islampath/internal/seo"
	"github.com/Nixie-Tech-LLC/islampath/internal/stories"
)

type PageController struct {
	site seo.Site
	tmpl *template.Template
}

// PagesModule renders the HTML shells that carry each route's head tags.
// It is mounted at the root, outside /api.
func PagesModule(site seo.Site, tmpl *template.Template) api.Module {
	ctl := &PageController{site: site, tmpl: tmpl}
	return api.ModuleFunc(func(c *api.Controller) {
		for path, meta := range seo.Pages {
			if path == "/quran" {
				continue
			}
			c.RAW(http.MethodGet, path, ctl.static(meta))
		}
		c.RAW(http.MethodGet, "/quran", ctl.quran)
		c.RAW(http.MethodGet, "/prophets-stories/:id", ctl.story)
	})
}

func (p *PageController) render(ctx *gin.Context, status int, m seo.Meta) {
	ctx.Render(status, render.HTML{
		Template: p.tmpl,
		Name:     seo.TemplateName,
		Data:     p.site.Resolve(m, ctx.Request.URL.Path),
	})
}

func (p *PageController) static(m seo.Meta) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		p.render(ctx, http.StatusOK, m)
	}
}

// GET /quran?page=N
func (p *PageController) quran(ctx *gin.Context) {
	n, err := strconv.Atoi(ctx.Query("page"))
	if err != nil {
		n = quran.FirstPage
	}
	p.render(ctx, http.StatusOK, seo.QuranPage(quran.ClampPage(n)))
}

// GET /prophets-stories/:id
func (p *PageController) story(ctx *gin.Context) {
	s, ok := stories.Lookup(ctx.Param("id"))
	if !ok {
		p.render(ctx, http.StatusNotFound, seo.Pages["/prophets-stories"])
		return
	}
	p.render(ctx, http.StatusOK, seo.StoryPage(s.ID, s.ArabicName, s.ShortDescription))
}
