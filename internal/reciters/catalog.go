// Package reciters holds the static reciter table and the surah-level
// audio URL templates built from it.
package reciters

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	// DefaultReciterID is substituted when a reciter is unknown or every
	// candidate URL for it failed.
	DefaultReciterID = "husary"
	defaultBaseURL   = "https://server13.mp3quran.net/husr"
)

type Reciter struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ArabicName   string   `json:"arabic_name"`
	AudioBaseURL string   `json:"audio_base_url"`
	FallbackURLs []string `json:"fallback_urls"`
	Description  string   `json:"description"`
	Country      string   `json:"country"`
	ZipURL       string   `json:"zip_url"`
}

var catalog = []Reciter{
	{
		ID:           "abdul_basit",
		Name:         "Abdul Basit Abdul Samad",
		ArabicName:   "الشيخ عبد الباسط عبد الصمد",
		AudioBaseURL: "https://server7.mp3quran.net/basit",
		FallbackURLs: []string{
			"https://server7.mp3quran.net/basit",
			"https://server8.mp3quran.net/abdul_basit",
			"https://archive.org/download/AbdulBasit/001",
		},
		Description: "صوت من السماء - مصر",
		Country:     "مصر",
		ZipURL:      "https://mp3quran.net/download/basit",
	},
	{
		ID:           "minshawi",
		Name:         "Mohamed Siddiq Al-Minshawi",
		ArabicName:   "الشيخ محمد صديق المنشاوي",
		AudioBaseURL: "https://server10.mp3quran.net/minsh",
		FallbackURLs: []string{
			"https://server10.mp3quran.net/minsh",
			"https://server12.mp3quran.net/minsh",
			"https://server6.mp3quran.net/minsh",
		},
		Description: "صاحب الصوت الذهبي - مصر",
		Country:     "مصر",
		ZipURL:      "https://mp3quran.net/download/minsh",
	},
	{
		ID:           "husary",
		Name:         "Mahmoud Khalil Al-Husary",
		ArabicName:   "الشيخ محمود خليل الحصري",
		AudioBaseURL: "https://server13.mp3quran.net/husr",
		FallbackURLs: []string{
			"https://server13.mp3quran.net/husr",
			"https://server14.mp3quran.net/husary",
			"https://server6.mp3quran.net/husary",
		},
		Description: "شيخ المقرئين وأستاذ الجيل - مصر",
		Country:     "مصر",
		ZipURL:      "https://mp3quran.net/download/husr",
	},
	{
		ID:           "mustafa_ismail",
		Name:         "Mustafa Ismail",
		ArabicName:   "الشيخ مصطفى إسماعيل",
		AudioBaseURL: "https://server8.mp3quran.net/mustafa",
		FallbackURLs: []string{
			"https://server8.mp3quran.net/mustafa",
			"https://server9.mp3quran.net/mustafa",
			"https://server10.mp3quran.net/mustafa",
		},
		Description: "صاحب النبرة الحزينة - مصر",
		Country:     "مصر",
		ZipURL:      "https://mp3quran.net/download/mustafa",
	},
	{
		ID:           "saad_alghamdi",
		Name:         "Saad Al-Ghamdi",
		ArabicName:   "الشيخ سعد بن سعيد الغامدي",
		AudioBaseURL: "https://server7.mp3quran.net/s_gmd",
		FallbackURLs: []string{
			"https://server7.mp3quran.net/s_gmd",
			"https://server8.mp3quran.net/ghamdi",
			"https://server10.mp3quran.net/saad_ghamdi",
		},
		Description: "صوت هادئ وجميل - السعودية",
		Country:     "السعودية",
		ZipURL:      "https://mp3quran.net/download/s_gmd",
	},
	{
		ID:           "maher_almuaiqly",
		Name:         "Maher Al-Muaiqly",
		ArabicName:   "الشيخ ماهر بن حمد المعيقلي",
		AudioBaseURL: "https://server12.mp3quran.net/maher",
		FallbackURLs: []string{
			"https://server12.mp3quran.net/maher",
			"https://server13.mp3quran.net/maher",
			"https://server8.mp3quran.net/maher",
		},
		Description: "إمام المسجد النبوي - السعودية",
		Country:     "السعودية",
		ZipURL:      "https://mp3quran.net/download/maher",
	},
	{
		ID:           "abdurrahman_sudais",
		Name:         "Abdurrahman Al-Sudais",
		ArabicName:   "الشيخ عبد الرحمن بن عبد العزيز السديس",
		AudioBaseURL: "https://server11.mp3quran.net/sds",
		FallbackURLs: []string{
			"https://server11.mp3quran.net/sds",
			"https://server12.mp3quran.net/sudais",
			"https://server6.mp3quran.net/sudais",
		},
		Description: "إمام الحرم المكي الشريف - السعودية",
		Country:     "السعودية",
		ZipURL:      "https://mp3quran.net/download/sds",
	},
	{
		ID:           "mishari_alafasy",
		Name:         "Mishari Rashid Al-Afasy",
		ArabicName:   "الشيخ مشاري بن راشد العفاسي",
		AudioBaseURL: "https://server8.mp3quran.net/afs",
		FallbackURLs: []string{
			"https://server8.mp3quran.net/afs",
			"https://server9.mp3quran.net/afasy",
			"https://server10.mp3quran.net/mishari",
		},
		Description: "صوت جميل ومؤثر - الكويت",
		Country:     "الكويت",
		ZipURL:      "https://mp3quran.net/download/afs",
	},
	{
		ID:           "yasser_aldosari",
		Name:         "Yasser Al-Dosari",
		ArabicName:   "الشيخ ياسر بن راشد الدوسري",
		AudioBaseURL: "https://server11.mp3quran.net/yasser",
		FallbackURLs: []string{
			"https://server11.mp3quran.net/yasser",
			"https://server12.mp3quran.net/dosari",
			"https://server8.mp3quran.net/yasser",
		},
		Description: "قراءة خاشعة ومبكية - السعودية",
		Country:     "السعودية",
		ZipURL:      "https://mp3quran.net/download/yasser",
	},
	{
		ID:           "ali_jaber",
		Name:         "Ali Abdullah Jaber",
		ArabicName:   "الشيخ علي بن عبد الله جابر",
		AudioBaseURL: "https://server13.mp3quran.net/jaber",
		FallbackURLs: []string{
			"https://server13.mp3quran.net/jaber",
			"https://server12.mp3quran.net/ali_jaber",
			"https://archive.org/download/Ali_Jaber_MP3_Quran_347",
			"https://server8.mp3quran.net/jaber",
		},
		Description: "إمام المسجد النبوي - السعودية",
		Country:     "السعودية",
		ZipURL:      "https://mp3quran.net/download/jaber",
	},
	{
		ID:           "muhammad_ayyub",
		Name:         "Muhammad Ayyub",
		ArabicName:   "الشيخ محمد أيوب",
		AudioBaseURL: "https://server10.mp3quran.net/ayyub",
		FallbackURLs: []string{
			"https://server10.mp3quran.net/ayyub",
			"https://server11.mp3quran.net/muhammad_ayyub",
			"https://server8.mp3quran.net/ayyub",
			"https://archive.org/download/muhammad_ayyub_quran",
		},
		Description: "إمام المسجد النبوي - السعودية",
		Country:     "السعودية",
		ZipURL:      "https://mp3quran.net/download/ayyub",
	},
	{
		ID:           "nasser_alqatami",
		Name:         "Nasser Al-Qatami",
		ArabicName:   "الشيخ ناصر بن راشد القطامي",
		AudioBaseURL: "https://server6.mp3quran.net/qtm",
		FallbackURLs: []string{
			"https://server6.mp3quran.net/qtm",
			"https://server7.mp3quran.net/qatami",
			"https://server11.mp3quran.net/nasser_qatami",
		},
		Description: "صوت مؤثر وجميل - السعودية",
		Country:     "السعودية",
		ZipURL:      "https://mp3quran.net/download/qtm",
	},
}

// All returns a copy of the catalog in table order.
func All() []Reciter {
	out := make([]Reciter, len(catalog))
	copy(out, catalog)
	return out
}

// SortedByArabicName returns the catalog ordered by Arabic display name
// using Arabic collation.
func SortedByArabicName() []Reciter {
	out := All()
	col := collate.New(language.Arabic)
	sort.SliceStable(out, func(i, j int) bool {
		return col.CompareString(out[i].ArabicName, out[j].ArabicName) < 0
	})
	return out
}

func Lookup(id string) (Reciter, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r, true
		}
	}
	return Reciter{}, false
}

func LookupByArabicName(name string) (Reciter, bool) {
	for _, r := range catalog {
		if r.ArabicName == name {
			return r, true
		}
	}
	return Reciter{}, false
}

// FormatSurah zero-pads a surah number to three digits.
func FormatSurah(surah int) string {
	return fmt.Sprintf("%03d", surah)
}

func surahURL(base string, surah int) string {
	return fmt.Sprintf("%s/%s.mp3", strings.TrimSuffix(base, "/"), FormatSurah(surah))
}

// BuildPrimaryURL applies the {base}/{surah:03d}.mp3 template to the
// reciter's primary base.
func BuildPrimaryURL(r Reciter, surah int) string {
	return surahURL(r.AudioBaseURL, surah)
}

// BuildFallbackURLs applies the same template to every fallback base, in order.
func BuildFallbackURLs(r Reciter, surah int) []string {
	out := make([]string, 0, len(r.FallbackURLs))
	for _, base := range r.FallbackURLs {
		out = append(out, surahURL(base, surah))
	}
	return out
}

// DefaultURL is the unvalidated last resort: Al-Husary on server13.
func DefaultURL(surah int) string {
	return surahURL(defaultBaseURL, surah)
}

// PrimaryURL resolves by id; unknown ids get DefaultURL.
func PrimaryURL(id string, surah int) string {
	r, ok := Lookup(id)
	if !ok {
		return DefaultURL(surah)
	}
	return BuildPrimaryURL(r, surah)
}

// FallbackURLs resolves by id; unknown ids or reciters without fallbacks
// get a single DefaultURL entry.
func FallbackURLs(id string, surah int) []string {
	r, ok := Lookup(id)
	if !ok || len(r.FallbackURLs) == 0 {
		return []string{DefaultURL(surah)}
	}
	return BuildFallbackURLs(r, surah)
}
