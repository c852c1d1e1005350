// Package stories holds the prophet stories shown on the site. The
// prophet_stories table is an admin-side mirror; this dataset is what the
// public pages read.
package stories

import (
	"fmt"
	"strings"

	"github.com/Nixie-Tech-LLC/islampath/internal/arabic"
)

type Story struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	ArabicName       string   `json:"arabic_name"`
	ShortDescription string   `json:"short_description"`
	FullStory        string   `json:"full_story"`
	Lessons          []string `json:"lessons"`
	QuranReferences  []string `json:"quran_references"`
}

var dataset = []Story{
	{
		ID:               "adam",
		Name:             "Adam",
		ArabicName:       "آدم عليه السلام",
		ShortDescription: "أبو البشر وأول الأنبياء، خلقه الله بيده ونفخ فيه من روحه.",
		FullStory: "خلق الله آدم من تراب ونفخ فيه من روحه، وعلّمه الأسماء كلها، وأمر الملائكة بالسجود له فسجدوا إلا إبليس أبى واستكبر. " +
			"أسكنه الله الجنة مع زوجه حواء ونهاهما عن شجرة واحدة، فوسوس لهما الشيطان فأكلا منها، فأهبطهما الله إلى الأرض. " +
			"تاب آدم إلى ربه فتاب عليه، وكان أول خليفة في الأرض.",
		Lessons: []string{
			"التوبة باب مفتوح لمن أخطأ",
			"الكبر أصل المعصية الأولى",
			"العلم سبب تكريم الإنسان",
		},
		QuranReferences: []string{"البقرة: 30-39", "الأعراف: 11-25", "طه: 115-123"},
	},
	{
		ID:               "nuh",
		Name:             "Noah",
		ArabicName:       "نوح عليه السلام",
		ShortDescription: "أول الرسل إلى أهل الأرض، دعا قومه ألف سنة إلا خمسين عاماً.",
		FullStory: "بعث الله نوحاً إلى قوم عبدوا الأصنام، فدعاهم ليلاً ونهاراً سراً وجهاراً، فلم يؤمن معه إلا قليل. " +
			"أمره الله بصنع السفينة فسخر منه قومه، ثم جاء الطوفان فحمل فيها من كل زوجين اثنين ومن آمن، وأغرق الله الكافرين ومنهم ابنه.",
		Lessons: []string{
			"الصبر على الدعوة مهما طال الزمن",
			"النجاة بالإيمان لا بالنسب",
		},
		QuranReferences: []string{"هود: 25-49", "نوح: 1-28", "المؤمنون: 23-30"},
	},
	{
		ID:               "ibrahim",
		Name:             "Abraham",
		ArabicName:       "إبراهيم عليه السلام",
		ShortDescription: "خليل الرحمن وأبو الأنبياء، حطّم الأصنام ونجّاه الله من النار.",
		FullStory: "نشأ إبراهيم في قوم يعبدون الأصنام والكواكب، فحاجّهم بالحجة وكسر أصنامهم، فألقوه في النار فجعلها الله برداً وسلاماً عليه. " +
			"هاجر إلى الشام ثم إلى مكة حيث ترك هاجر وإسماعيل، ثم رفع مع ابنه قواعد البيت الحرام. " +
			"وابتلاه الله بذبح ابنه فامتثل، ففداه الله بذبح عظيم.",
		Lessons: []string{
			"التوحيد الخالص أساس الدين",
			"التسليم لأمر الله يورث الفرج",
			"بر الوالدين مع الثبات على الحق",
		},
		QuranReferences: []string{"الأنعام: 74-83", "الأنبياء: 51-70", "الصافات: 83-113"},
	},
	{
		ID:               "yusuf",
		Name:             "Joseph",
		ArabicName:       "يوسف عليه السلام",
		ShortDescription: "الصديق الذي صبر على كيد إخوته وفتنة السجن حتى صار عزيز مصر.",
		FullStory: "رأى يوسف في صغره أحد عشر كوكباً والشمس والقمر له ساجدين، فحسده إخوته وألقوه في البئر، ثم بيع في مصر. " +
			"راودته امرأة العزيز فاستعصم، فدخل السجن بضع سنين، ثم فسّر رؤيا الملك فخرج وولي خزائن الأرض. " +
			"جاءه إخوته في سنوات القحط فعرفهم وعفا عنهم، ثم جمع الله شمله بأبيه يعقوب.",
		Lessons: []string{
			"العفة عند الفتنة",
			"العفو عند المقدرة",
			"حسن الظن بالله في الشدائد",
		},
		QuranReferences: []string{"يوسف: 1-111"},
	},
	{
		ID:               "musa",
		Name:             "Moses",
		ArabicName:       "موسى عليه السلام",
		ShortDescription: "كليم الله، أرسله إلى فرعون وأنجى به بني إسرائيل.",
		FullStory: "وُلد موسى في عام كان فرعون يقتل فيه المواليد، فألقته أمه في اليم فالتقطه آل فرعون وتربى في قصره. " +
			"خرج إلى مدين ثم عاد نبياً بعد أن كلمه الله عند الطور، فدعا فرعون بالآيات فكذّب. " +
			"أمره الله أن يسري ببني إسرائيل، فضرب البحر بعصاه فانفلق، وأغرق الله فرعون وجنوده.",
		Lessons: []string{
			"الله يحفظ من يشاء بأسباب لا يتوقعها أحد",
			"الحق يعلو على الطغيان",
		},
		QuranReferences: []string{"طه: 9-98", "القصص: 3-46", "الشعراء: 10-68"},
	},
	{
		ID:               "isa",
		Name:             "Jesus",
		ArabicName:       "عيسى عليه السلام",
		ShortDescription: "روح الله وكلمته، وُلد من غير أب وأيّده الله بالمعجزات.",
		FullStory: "بشّرت الملائكة مريم بغلام من غير أب، فولدته وتكلم في المهد مبرئاً أمه. " +
			"أيّده الله بالمعجزات فكان يبرئ الأكمه والأبرص ويحيي الموتى بإذن الله، ودعا بني إسرائيل إلى عبادة الله وحده. " +
			"مكر به أعداؤه فرفعه الله إليه.",
		Lessons: []string{
			"قدرة الله لا تحدها الأسباب",
			"الطهر والعبادة طريق الاصطفاء",
		},
		QuranReferences: []string{"آل عمران: 42-59", "مريم: 16-36", "المائدة: 110-118"},
	},
	{
		ID:               "muhammad",
		Name:             "Muhammad",
		ArabicName:       "محمد صلى الله عليه وسلم",
		ShortDescription: "خاتم الأنبياء والمرسلين، أرسله الله رحمة للعالمين.",
		FullStory: "وُلد في مكة يتيماً، وعُرف بالصادق الأمين، ونزل عليه الوحي في غار حراء وهو في الأربعين. " +
			"دعا قومه إلى التوحيد فلقي الأذى، ثم هاجر إلى المدينة فأقام دولة الإسلام. " +
			"فتح الله له مكة، وأتم به الدين قبل أن يلحق بالرفيق الأعلى.",
		Lessons: []string{
			"الرحمة أساس الدعوة",
			"الصبر واليقين طريق النصر",
		},
		QuranReferences: []string{"الفتح: 29", "الأحزاب: 40", "الأنبياء: 107"},
	},
}

// All returns a copy of the dataset in display order.
func All() []Story {
	out := make([]Story, len(dataset))
	copy(out, dataset)
	return out
}

func Lookup(id string) (Story, bool) {
	for _, s := range dataset {
		if s.ID == id {
			return s, true
		}
	}
	return Story{}, false
}

// Search matches the query against both names and the short description,
// ignoring diacritics. An empty query matches everything.
func Search(q string) []Story {
	out := make([]Story, 0, len(dataset))
	lower := strings.ToLower(strings.TrimSpace(q))
	for _, s := range dataset {
		if arabic.Contains(s.ArabicName, q) ||
			arabic.Contains(s.ShortDescription, q) ||
			strings.Contains(strings.ToLower(s.Name), lower) {
			out = append(out, s)
		}
	}
	return out
}

// ShareText is the copy/share body for a story.
func ShareText(s Story) string {
	return fmt.Sprintf("قصة النبي %s\n\n%s", s.ArabicName, s.FullStory)
}
