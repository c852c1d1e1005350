package model

import "time"

type Hadith struct {
	ID           string     `db:"id"            json:"id"`
	Text         string     `db:"hadith_text"   json:"hadith_text"`
	BookName     *string    `db:"book_name"     json:"book_name"`
	Narrator     *string    `db:"narrator"      json:"narrator"`
	Category     *string    `db:"category"      json:"category"`
	BookNumber   *string    `db:"book_number"   json:"book_number"`
	HadithNumber *string    `db:"hadith_number" json:"hadith_number"`
	Grade        *string    `db:"grade"         json:"grade"`
	CreatedAt    time.Time  `db:"created_at"    json:"created_at"`
	UpdatedAt    *time.Time `db:"updated_at"    json:"updated_at,omitempty"`
}

// HadithFilter narrows a paged hadith listing. An empty or "all" Category
// means no category restriction.
type HadithFilter struct {
	Category string
	Query    string
	Page     int
	PageSize int
}

type HadithPage struct {
	Items    []Hadith `json:"items"`
	Total    int      `json:"total"`
	Page     int      `json:"page"`
	PageSize int      `json:"page_size"`
}

// TotalPages rounds up.
func (p HadithPage) TotalPages() int {
	if p.PageSize <= 0 {
		return 0
	}
	return (p.Total + p.PageSize - 1) / p.PageSize
}

// HadithPatch carries a partial update; nil fields are left untouched.
type HadithPatch struct {
	Text         *string `json:"hadith_text"`
	BookName     *string `json:"book_name"`
	Narrator     *string `json:"narrator"`
	Category     *string `json:"category"`
	BookNumber   *string `json:"book_number"`
	HadithNumber *string `json:"hadith_number"`
	Grade        *string `json:"grade"`
}
