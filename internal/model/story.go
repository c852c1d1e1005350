package model

import (
	"time"

	"github.com/lib/pq"
)

// ProphetStory is the database mirror of a story.
type ProphetStory struct {
	ID               string         `db:"id"                json:"id"`
	Name             string         `db:"name"              json:"name"`
	ArabicName       string         `db:"arabic_name"       json:"arabic_name"`
	ShortDescription string         `db:"short_description" json:"short_description"`
	FullStory        string         `db:"full_story"        json:"full_story"`
	QuranReferences  pq.StringArray `db:"quran_references"  json:"quran_references"`
	CreatedAt        time.Time      `db:"created_at"        json:"created_at"`
}

type Dhikr struct {
	ID          string     `db:"id"          json:"id"`
	Text        string     `db:"text"        json:"text"`
	Category    *string    `db:"category"    json:"category"`
	Count       int        `db:"count"       json:"count"`
	Reference   *string    `db:"reference"   json:"reference"`
	Description *string    `db:"description" json:"description"`
	CreatedAt   time.Time  `db:"created_at"  json:"created_at"`
	UpdatedAt   *time.Time `db:"updated_at"  json:"updated_at,omitempty"`
}

type StoryPatch struct {
	Name             *string   `json:"name"`
	ArabicName       *string   `json:"arabic_name"`
	ShortDescription *string   `json:"short_description"`
	FullStory        *string   `json:"full_story"`
	QuranReferences  *[]string `json:"quran_references"`
}

type DhikrPatch struct {
	Text        *string `json:"text"`
	Category    *string `json:"category"`
	Count       *int    `json:"count"`
	Reference   *string `json:"reference"`
	Description *string `json:"description"`
}
