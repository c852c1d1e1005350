package main

import (
	"html/template"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// LoadTemplates parses the page shell templates under dir.
func LoadTemplates(dir string) *template.Template {
	files, err := filepath.Glob(filepath.Join(dir, "*.html"))
	if err != nil || len(files) == 0 {
		log.Fatal().Err(err).Str("dir", dir).Msg("no templates found")
	}
	return template.Must(template.New("").ParseFiles(files...))
}
