package model

import (
	"time"

	"github.com/lib/pq"
)

// Reciter is a row of the reciters table. The static catalog in
// internal/reciters carries its own copy of the same shape.
type Reciter struct {
	ID           string         `db:"id"            json:"id"`
	Name         string         `db:"name"          json:"name"`
	ArabicName   string         `db:"arabic_name"   json:"arabic_name"`
	AudioBaseURL string         `db:"audio_base_url" json:"audio_base_url"`
	FallbackURLs pq.StringArray `db:"fallback_urls" json:"fallback_urls"`
	Description  *string        `db:"description"   json:"description,omitempty"`
	Country      *string        `db:"country"       json:"country,omitempty"`
	ZipURL       *string        `db:"zip_url"       json:"zip_url,omitempty"`
	CreatedAt    time.Time      `db:"created_at"    json:"created_at"`
}

type ReciterPatch struct {
	Name         *string   `json:"name"`
	ArabicName   *string   `json:"arabic_name"`
	AudioBaseURL *string   `json:"audio_base_url"`
	FallbackURLs *[]string `json:"fallback_urls"`
	Description  *string   `json:"description"`
	Country      *string   `json:"country"`
	ZipURL       *string   `json:"zip_url"`
}
