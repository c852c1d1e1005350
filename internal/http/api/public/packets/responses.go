package packets

import (
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

type PageResponse struct {
	model.PageData
	Source string `json:"source"`
}

type SurahListResponse struct {
	Items      []model.Surah `json:"items"`
	Total      int           `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

type ReciterResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ArabicName   string   `json:"arabic_name"`
	AudioBaseURL string   `json:"audio_base_url"`
	FallbackURLs []string `json:"fallback_urls"`
	Description  string   `json:"description"`
	Country      string   `json:"country"`
	ZipURL       string   `json:"zip_url"`
}

type SurahAudioResponse struct {
	ReciterID string `json:"reciter_id"`
	Surah     int    `json:"surah"`
	URL       string `json:"url"`
	Validated bool   `json:"validated"`
	Attempt   int    `json:"attempt"`
}

type AyahAudioResponse struct {
	Surah   int      `json:"surah"`
	Ayah    int      `json:"ayah"`
	Sources []string `json:"sources"`
}

type HadithListResponse struct {
	Items      []model.Hadith `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type ShareResponse struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	Copy  string `json:"copy"`
}

type FavoritesResponse struct {
	Kind string   `json:"kind"`
	IDs  []string `json:"ids"`
}

type ToggleResponse struct {
	Added   bool     `json:"added"`
	IDs     []string `json:"ids"`
	Message string   `json:"message"`
}

type VolumeResponse struct {
	Volume float64 `json:"volume"`
}

type SeenResponse struct {
	Flag string `json:"flag"`
	Seen bool   `json:"seen"`
}
