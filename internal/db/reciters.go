package db

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

const reciterColumns = `id, name, arabic_name, audio_base_url, fallback_urls, description, country, zip_url, created_at`

func (s *pgStore) CreateReciter(r model.Reciter) (model.Reciter, error) {
	fallbacks := r.FallbackURLs
	if fallbacks == nil {
		fallbacks = pq.StringArray{}
	}
	var out model.Reciter
	err := s.db.Get(&out, `
	INSERT INTO reciters (name, arabic_name, audio_base_url, fallback_urls, description, country, zip_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING `+reciterColumns,
		r.Name, r.ArabicName, r.AudioBaseURL, fallbacks, r.Description, r.Country, r.ZipURL)
	if err != nil {
		log.Error().Err(err).Msg("[db] failed to create reciter")
		return model.Reciter{}, Classify(err)
	}
	return out, nil
}

// ListReciters orders by Arabic name.
func (s *pgStore) ListReciters() ([]model.Reciter, error) {
	out := []model.Reciter{}
	if err := s.db.Select(&out, `SELECT `+reciterColumns+` FROM reciters ORDER BY arabic_name ASC`); err != nil {
		return nil, Classify(err)
	}
	return out, nil
}

func (s *pgStore) UpdateReciter(id string, p model.ReciterPatch) (model.Reciter, error) {
	var sl setList
	set(&sl, "name", p.Name)
	set(&sl, "arabic_name", p.ArabicName)
	set(&sl, "audio_base_url", p.AudioBaseURL)
	if p.FallbackURLs != nil {
		urls := pq.StringArray(*p.FallbackURLs)
		set(&sl, "fallback_urls", &urls)
	}
	set(&sl, "description", p.Description)
	set(&sl, "country", p.Country)
	set(&sl, "zip_url", p.ZipURL)

	var out model.Reciter
	if sl.empty() {
		if err := s.db.Get(&out, `SELECT `+reciterColumns+` FROM reciters WHERE id = $1`, id); err != nil {
			return model.Reciter{}, Classify(err)
		}
		return out, nil
	}
	q, args := sl.query("reciters", id, reciterColumns, false)
	if err := s.db.Get(&out, q, args...); err != nil {
		return model.Reciter{}, Classify(err)
	}
	return out, nil
}

func (s *pgStore) DeleteReciter(id string) error {
	return s.deleteByID("reciters", id)
}

// ReciterByArabicName returns nil, nil when no row matches.
func (s *pgStore) ReciterByArabicName(name string) (*model.Reciter, error) {
	var out model.Reciter
	err := s.db.Get(&out, `SELECT `+reciterColumns+` FROM reciters WHERE arabic_name = $1 ORDER BY created_at LIMIT 1`, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, Classify(err)
	}
	return &out, nil
}

// CleanDuplicateReciters keeps the oldest row per Arabic name and deletes
// the rest, returning how many were removed.
func (s *pgStore) CleanDuplicateReciters() (int, error) {
	var rows []struct {
		ID         string `db:"id"`
		ArabicName string `db:"arabic_name"`
	}
	if err := s.db.Select(&rows, `SELECT id, arabic_name FROM reciters ORDER BY created_at, id`); err != nil {
		return 0, Classify(err)
	}

	seen := make(map[string]bool, len(rows))
	var dupes []string
	for _, r := range rows {
		if seen[r.ArabicName] {
			dupes = append(dupes, r.ID)
			continue
		}
		seen[r.ArabicName] = true
	}
	if len(dupes) == 0 {
		return 0, nil
	}

	res, err := s.db.Exec(`DELETE FROM reciters WHERE id = ANY($1)`, pq.Array(dupes))
	if err != nil {
		log.Error().Err(err).Int("duplicates", len(dupes)).Msg("[db] failed to delete duplicate reciters")
		return 0, Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return len(dupes), nil
	}
	log.Info().Int64("removed", n).Msg("[db] duplicate reciters removed")
	return int(n), nil
}
