package db

import (
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

const storyColumns = `id, name, arabic_name, short_description, full_story, quran_references, created_at`

func (s *pgStore) CreateStory(st model.ProphetStory) (model.ProphetStory, error) {
	refs := st.QuranReferences
	if refs == nil {
		refs = pq.StringArray{}
	}
	var out model.ProphetStory
	err := s.db.Get(&out, `
	INSERT INTO prophet_stories (name, arabic_name, short_description, full_story, quran_references)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING `+storyColumns,
		st.Name, st.ArabicName, st.ShortDescription, st.FullStory, refs)
	if err != nil {
		log.Error().Err(err).Msg("[db] failed to create story")
		return model.ProphetStory{}, Classify(err)
	}
	return out, nil
}

func (s *pgStore) ListStories() ([]model.ProphetStory, error) {
	out := []model.ProphetStory{}
	if err := s.db.Select(&out, `SELECT `+storyColumns+` FROM prophet_stories ORDER BY created_at DESC`); err != nil {
		return nil, Classify(err)
	}
	return out, nil
}

func (s *pgStore) UpdateStory(id string, p model.StoryPatch) (model.ProphetStory, error) {
	var sl setList
	set(&sl, "name", p.Name)
	set(&sl, "arabic_name", p.ArabicName)
	set(&sl, "short_description", p.ShortDescription)
	set(&sl, "full_story", p.FullStory)
	if p.QuranReferences != nil {
		refs := pq.StringArray(*p.QuranReferences)
		set(&sl, "quran_references", &refs)
	}

	var out model.ProphetStory
	if sl.empty() {
		if err := s.db.Get(&out, `SELECT `+storyColumns+` FROM prophet_stories WHERE id = $1`, id); err != nil {
			return model.ProphetStory{}, Classify(err)
		}
		return out, nil
	}
	q, args := sl.query("prophet_stories", id, storyColumns, false)
	if err := s.db.Get(&out, q, args...); err != nil {
		return model.ProphetStory{}, Classify(err)
	}
	return out, nil
}

func (s *pgStore) DeleteStory(id string) error {
	return s.deleteByID("prophet_stories", id)
}
