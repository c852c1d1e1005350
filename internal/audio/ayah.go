package audio

import (
	"fmt"
	"strings"
)

// AyahSources lists the verse-level CDN candidates in priority order:
// Alafasy, then Husary, Abdul Basit and Minshawi.
func AyahSources(surah, ayah int) []string {
	s := fmt.Sprintf("%03d", surah)
	a := fmt.Sprintf("%03d", ayah)
	return []string{
		fmt.Sprintf("https://cdn.islamic.network/quran/audio/128/ar.alafasy/%d/%d.mp3", surah, ayah),
		fmt.Sprintf("https://audio.qurancdn.com/Alafasy_128kbps/%s%s.mp3", s, a),
		fmt.Sprintf("https://everyayah.com/data/Alafasy_128kbps/%s%s.mp3", s, a),

		fmt.Sprintf("https://cdn.islamic.network/quran/audio/128/ar.husary/%d/%d.mp3", surah, ayah),
		fmt.Sprintf("https://audio.qurancdn.com/Husary_128kbps/%s%s.mp3", s, a),
		fmt.Sprintf("https://everyayah.com/data/Husary_64kbps/%s%s.mp3", s, a),

		fmt.Sprintf("https://audio.qurancdn.com/Abdul_Basit_Murattal_192kbps/%s%s.mp3", s, a),
		fmt.Sprintf("https://cdn.islamic.network/quran/audio/128/ar.abdulbasitmurattal/%d/%d.mp3", surah, ayah),

		fmt.Sprintf("https://audio.qurancdn.com/Minshawi_Murattal_128kbps/%s%s.mp3", s, a),
		fmt.Sprintf("https://everyayah.com/data/Minshawi_Murattal_128kbps/%s%s.mp3", s, a),
	}
}

// ReciterNameForURL guesses the Arabic display name announced when a verse
// starts playing.
func ReciterNameForURL(url string) string {
	lower := strings.ToLower(url)
	switch {
	case strings.Contains(lower, "alafasy"):
		return "الشيخ مشاري العفاسي"
	case strings.Contains(lower, "husary"):
		return "الشيخ محمود الحصري"
	case strings.Contains(lower, "abdul_basit"), strings.Contains(lower, "abdulbasit"):
		return "الشيخ عبد الباسط عبد الصمد"
	case strings.Contains(lower, "minshawi"):
		return "الشيخ محمد صديق المنشاوي"
	}
	return "القارئ"
}
