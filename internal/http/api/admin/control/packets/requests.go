package packets

// bodies for /api/admin/*

type CreateHadithRequest struct {
	Text         string  `json:"hadith_text" binding:"required"`
	BookName     *string `json:"book_name"`
	Narrator     *string `json:"narrator"`
	Category     *string `json:"category"`
	BookNumber   *string `json:"book_number"`
	HadithNumber *string `json:"hadith_number"`
	Grade        *string `json:"grade"`
}

type CreateStoryRequest struct {
	Name             string   `json:"name" binding:"required"`
	ArabicName       string   `json:"arabic_name" binding:"required"`
	ShortDescription string   `json:"short_description" binding:"required"`
	FullStory        string   `json:"full_story" binding:"required"`
	QuranReferences  []string `json:"quran_references"`
}

type CreateDhikrRequest struct {
	Text        string  `json:"text" binding:"required"`
	Category    *string `json:"category"`
	Count       int     `json:"count" binding:"omitempty,min=1"`
	Reference   *string `json:"reference"`
	Description *string `json:"description"`
}

type CreateReciterRequest struct {
	Name         string   `json:"name" binding:"required"`
	ArabicName   string   `json:"arabic_name" binding:"required"`
	AudioBaseURL string   `json:"audio_base_url" binding:"required,url"`
	FallbackURLs []string `json:"fallback_urls" binding:"omitempty,dive,url"`
	Description  *string  `json:"description"`
	Country      *string  `json:"country"`
	ZipURL       *string  `json:"zip_url" binding:"omitempty,url"`
}
