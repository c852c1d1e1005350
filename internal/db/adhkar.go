package db

import (
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

const dhikrColumns = `id, text, category, count, reference, description, created_at, updated_at`

func (s *pgStore) CreateDhikr(d model.Dhikr) (model.Dhikr, error) {
	if d.Count <= 0 {
		d.Count = 1
	}
	var out model.Dhikr
	err := s.db.Get(&out, `
	INSERT INTO adhkar (text, category, count, reference, description)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING `+dhikrColumns,
		d.Text, d.Category, d.Count, d.Reference, d.Description)
	if err != nil {
		return model.Dhikr{}, Classify(err)
	}
	return out, nil
}

func (s *pgStore) ListAdhkar() ([]model.Dhikr, error) {
	out := []model.Dhikr{}
	if err := s.db.Select(&out, `SELECT `+dhikrColumns+` FROM adhkar ORDER BY created_at DESC`); err != nil {
		return nil, Classify(err)
	}
	return out, nil
}

func (s *pgStore) UpdateDhikr(id string, p model.DhikrPatch) (model.Dhikr, error) {
	var sl setList
	set(&sl, "text", p.Text)
	set(&sl, "category", p.Category)
	set(&sl, "count", p.Count)
	set(&sl, "reference", p.Reference)
	set(&sl, "description", p.Description)

	var out model.Dhikr
	if sl.empty() {
		if err := s.db.Get(&out, `SELECT `+dhikrColumns+` FROM adhkar WHERE id = $1`, id); err != nil {
			return model.Dhikr{}, Classify(err)
		}
		return out, nil
	}
	q, args := sl.query("adhkar", id, dhikrColumns, true)
	if err := s.db.Get(&out, q, args...); err != nil {
		return model.Dhikr{}, Classify(err)
	}
	return out, nil
}

func (s *pgStore) DeleteDhikr(id string) error {
	return s.deleteByID("adhkar", id)
}
