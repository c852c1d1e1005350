package quran

import "github.com/Nixie-Tech-LLC/islampath/internal/model"

type fallbackPage struct {
	surahName string
	ayahs     []model.Ayah
}

func ayah(surah, n int, text string) model.Ayah {
	return model.Ayah{Text: text, Surah: surah, Ayah: n, Key: model.AyahKey(surah, n)}
}

// Offline copy of the first two pages, served when both content APIs fail.
var fallbackPages = map[int]fallbackPage{
	1: {
		surahName: "الفاتحة",
		ayahs: []model.Ayah{
			ayah(1, 1, "بِسْمِ اللَّهِ الرَّحْمَٰنِ الرَّحِيمِ"),
			ayah(1, 2, "الْحَمْدُ لِلَّهِ رَبِّ الْعَالَمِينَ"),
			ayah(1, 3, "الرَّحْمَٰنِ الرَّحِيمِ"),
			ayah(1, 4, "مَالِكِ يَوْمِ الدِّينِ"),
			ayah(1, 5, "إِيَّاكَ نَعْبُدُ وَإِيَّاكَ نَسْتَعِينُ"),
			ayah(1, 6, "اهْدِنَا الصِّرَاطَ الْمُسْتَقِيمَ"),
			ayah(1, 7, "صِرَاطَ الَّذِينَ أَنْعَمْتَ عَلَيْهِمْ غَيْرِ الْمَغْضُوبِ عَلَيْهِمْ وَلَا الضَّالِّينَ"),
		},
	},
	2: {
		surahName: "البقرة",
		ayahs: []model.Ayah{
			ayah(2, 1, "الم"),
			ayah(2, 2, "ذَٰلِكَ الْكِتَابُ لَا رَيْبَ ۛ فِيهِ ۛ هُدًى لِّلْمُتَّقِينَ"),
			ayah(2, 3, "الَّذِينَ يُؤْمِنُونَ بِالْغَيْبِ وَيُقِيمُونَ الصَّلَاةَ وَمِمَّا رَزَقْنَاهُمْ يُنفِقُونَ"),
			ayah(2, 4, "وَالَّذِينَ يُؤْمِنُونَ بِمَا أُنزِلَ إِلَيْكَ وَمَا أُنزِلَ مِن قَبْلِكَ وَبِالْآخِرَةِ هُمْ يُوقِنُونَ"),
			ayah(2, 5, "أُولَٰئِكَ عَلَىٰ هُدًى مِّن رَّبِّهِمْ ۖ وَأُولَٰئِكَ هُمُ الْمُفْلِحُونَ"),
		},
	},
}

// FallbackPage never fails: pages without offline data get page one's
// ayahs under their own page number.
func FallbackPage(page int) model.PageData {
	fp, ok := fallbackPages[page]
	if !ok {
		fp = fallbackPages[1]
	}
	ayahs := make([]model.Ayah, len(fp.ayahs))
	copy(ayahs, fp.ayahs)
	return model.PageData{
		Page:      page,
		SurahName: fp.surahName,
		Juz:       juzForPage(page),
		Ayahs:     ayahs,
	}
}
