package model

import "fmt"

// Surah is one of the 114 chapters, as served by the content API.
type Surah struct {
	Number         int    `json:"number"`
	Name           string `json:"name"`
	EnglishName    string `json:"englishName"`
	NumberOfAyahs  int    `json:"numberOfAyahs"`
	RevelationType string `json:"revelationType"` // "Meccan" or "Medinan"
}

type Ayah struct {
	Text  string `json:"text"`
	Surah int    `json:"surah"`
	Ayah  int    `json:"ayah"`
	Key   string `json:"key"`
}

// AyahKey builds the composite "surah:ayah" key.
func AyahKey(surah, ayah int) string {
	return fmt.Sprintf("%d:%d", surah, ayah)
}

// PageData is one mushaf page worth of ayahs.
type PageData struct {
	Page      int    `json:"page"`
	SurahName string `json:"surah_name"`
	Juz       int    `json:"juz"`
	Ayahs     []Ayah `json:"ayahs"`
}

type Tafseer struct {
	TafseerID   int    `json:"tafseer_id"`
	TafseerName string `json:"tafseer_name"`
	AyahURL     string `json:"ayah_url"`
	AyahNumber  int    `json:"ayah_number"`
	Text        string `json:"text"`
}
