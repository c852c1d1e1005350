package packets

type DedupeResponse struct {
	Removed int `json:"removed"`
}

type TableCountResponse struct {
	Table string `json:"table"`
	Count int    `json:"count"`
}
