// Package seo builds the head metadata for the server-rendered page shells.
package seo

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"
)

const (
	SiteTitle          = "Islamic Website"
	DefaultDescription = "موقع إسلامي شامل للقرآن الكريم والأحاديث والأذكار وقصص الأنبياء"
	DefaultImage       = "/icon.svg"
	DefaultSiteURL     = "https://www.islampath.site"

	// TemplateName is the shell every page renders through.
	TemplateName = "seo.html"
)

// Meta is what a page declares about itself. Empty fields take the site
// defaults.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Image       string
}

// Head is the fully resolved data handed to the template.
type Head struct {
	Title       string
	Heading     string
	Description string
	URL         string
	Image       string
	JSONLD      template.JS
}

type Site struct {
	URL string
}

func NewSite(url string) Site {
	if url == "" {
		url = DefaultSiteURL
	}
	return Site{URL: strings.TrimSuffix(url, "/")}
}

func (s Site) absolute(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return s.URL + path
}

// Resolve fills defaults. requestPath is used as the canonical URL when
// the page does not set one.
func (s Site) Resolve(m Meta, requestPath string) Head {
	title := SiteTitle
	if m.Title != "" {
		title = m.Title + " | " + SiteTitle
	}
	desc := m.Description
	if desc == "" {
		desc = DefaultDescription
	}
	canonical := m.Canonical
	if canonical == "" {
		canonical = requestPath
	}
	image := m.Image
	if image == "" {
		image = DefaultImage
	}
	return Head{
		Title:       title,
		Heading:     m.Title,
		Description: desc,
		URL:         s.absolute(canonical),
		Image:       image,
		JSONLD:      s.organization(),
	}
}

func (s Site) organization() template.JS {
	raw, _ := json.Marshal(map[string]string{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"url":      s.URL,
		"name":     SiteTitle,
		"logo":     s.URL + DefaultImage,
	})
	return template.JS(raw)
}

// Static page metadata keyed by route.
var Pages = map[string]Meta{
	"/": {},
	"/quran": {
		Title:       "القرآن الكريم",
		Description: "اقرأ القرآن الكريم كاملاً مع التفسير واستمع للتلاوات.",
	},
	"/audio-quran": {
		Title:       "المصحف المسموع",
		Description: "استمع إلى القرآن الكريم بأصوات مجموعة من القراء مع إمكانية التحميل.",
	},
	"/hadith": {
		Title:       "الأحاديث النبوية",
		Description: "تصفح الأحاديث النبوية الشريفة مع البحث حسب التصنيف والراوي.",
	},
	"/prophets-stories": {
		Title:       "قصص الأنبياء",
		Description: "قصص الأنبياء والرسل كما وردت في القرآن الكريم مع الدروس والعبر.",
	},
	"/adhkar": {
		Title:       "الأذكار",
		Description: "أذكار الصباح والمساء وأذكار اليوم والليلة.",
	},
	"/ruqyah": {
		Title:       "الرقية الشرعية",
		Description: "آيات وأدعية الرقية الشرعية من القرآن والسنة.",
	},
	"/children-education": {
		Title:       "تعليم الأطفال",
		Description: "محتوى إسلامي مبسط لتعليم الأطفال.",
	},
}

// QuranPage is the mushaf shell for one page number. The number is
// expected to be clamped already.
func QuranPage(page int) Meta {
	m := Pages["/quran"]
	m.Title = fmt.Sprintf("%s - صفحة %d", m.Title, page)
	m.Canonical = fmt.Sprintf("/quran?page=%d", page)
	return m
}

// StoryPage is the detail shell for one prophet story.
func StoryPage(id, arabicName, description string) Meta {
	return Meta{
		Title:       "قصة " + arabicName,
		Description: description,
		Canonical:   "/prophets-stories/" + id,
	}
}
