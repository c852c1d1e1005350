package db

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

// Store is the database surface handed to the HTTP modules.
type Store interface {
	// users
	CreateUser(email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(email string) (*model.User, error)
	GetUserByID(id int) (*model.User, error)
	UpdateUserProfile(id int, email string, name *string) error

	// hadiths
	CreateHadith(h model.Hadith) (model.Hadith, error)
	GetHadith(id string) (model.Hadith, error)
	ListHadiths() ([]model.Hadith, error)
	UpdateHadith(id string, patch model.HadithPatch) (model.Hadith, error)
	DeleteHadith(id string) error
	SearchHadiths(filter model.HadithFilter) (model.HadithPage, error)
	HadithCategories() ([]string, error)

	// prophet stories
	CreateStory(s model.ProphetStory) (model.ProphetStory, error)
	ListStories() ([]model.ProphetStory, error)
	UpdateStory(id string, patch model.StoryPatch) (model.ProphetStory, error)
	DeleteStory(id string) error

	// adhkar
	CreateDhikr(d model.Dhikr) (model.Dhikr, error)
	ListAdhkar() ([]model.Dhikr, error)
	UpdateDhikr(id string, patch model.DhikrPatch) (model.Dhikr, error)
	DeleteDhikr(id string) error

	// reciters
	CreateReciter(r model.Reciter) (model.Reciter, error)
	ListReciters() ([]model.Reciter, error)
	UpdateReciter(id string, patch model.ReciterPatch) (model.Reciter, error)
	DeleteReciter(id string) error
	ReciterByArabicName(name string) (*model.Reciter, error)
	CleanDuplicateReciters() (int, error)

	// health
	Ping(ctx context.Context) error
	TableCount(table string) (int, error)
	Diagnose(ctx context.Context) Diagnosis
}

type pgStore struct {
	db *sqlx.DB
}

// compile-time check that pgStore implements Store
var _ Store = (*pgStore)(nil)

// NewStore wraps conn; pass DB after Init.
func NewStore(conn *sqlx.DB) Store {
	return &pgStore{db: conn}
}
