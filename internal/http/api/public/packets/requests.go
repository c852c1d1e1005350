package packets

// bodies for /api/player/:device/*

type PlayRequest struct {
	ReciterID string `json:"reciter_id"`
	Surah     int    `json:"surah" binding:"required,min=1,max=114"`
}

type AyahRequest struct {
	Surah int `json:"surah" binding:"required,min=1,max=114"`
	Ayah  int `json:"ayah" binding:"required,min=1"`
}

type JumpRequest struct {
	Surah int `json:"surah" binding:"required"`
}

type SeekRequest struct {
	Seconds float64 `json:"seconds" binding:"min=0"`
}

type VolumeRequest struct {
	Volume *float64 `json:"volume" binding:"required"`
}

type ReciterRequest struct {
	ReciterID string `json:"reciter_id" binding:"required"`
}

type AutoplayRequest struct {
	Enabled bool `json:"enabled"`
}

type KeyRequest struct {
	Code string `json:"code" binding:"required"`
	Ctrl bool   `json:"ctrl"`
}
