package db

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/islampath/internal/listing"
	"github.com/Nixie-Tech-LLC/islampath/internal/model"
)

const (
	hadithColumns = `id, hadith_text, book_name, narrator, category, book_number, hadith_number, grade, created_at, updated_at`

	DefaultHadithPageSize = 10
	AllCategories         = "all"
)

func (s *pgStore) CreateHadith(h model.Hadith) (model.Hadith, error) {
	var out model.Hadith
	err := s.db.Get(&out, `
	INSERT INTO hadiths (hadith_text, book_name, narrator, category, book_number, hadith_number, grade)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING `+hadithColumns,
		h.Text, h.BookName, h.Narrator, h.Category, h.BookNumber, h.HadithNumber, h.Grade)
	if err != nil {
		log.Error().Err(err).Msg("[db] failed to create hadith")
		return model.Hadith{}, Classify(err)
	}
	return out, nil
}

func (s *pgStore) GetHadith(id string) (model.Hadith, error) {
	var out model.Hadith
	if err := s.db.Get(&out, `SELECT `+hadithColumns+` FROM hadiths WHERE id = $1`, id); err != nil {
		return model.Hadith{}, Classify(err)
	}
	return out, nil
}

// ListHadiths returns every hadith, newest first.
func (s *pgStore) ListHadiths() ([]model.Hadith, error) {
	out := []model.Hadith{}
	if err := s.db.Select(&out, `SELECT `+hadithColumns+` FROM hadiths ORDER BY created_at DESC`); err != nil {
		log.Error().Err(err).Msg("[db] failed to list hadiths")
		return nil, Classify(err)
	}
	return out, nil
}

func (s *pgStore) UpdateHadith(id string, p model.HadithPatch) (model.Hadith, error) {
	var sl setList
	set(&sl, "hadith_text", p.Text)
	set(&sl, "book_name", p.BookName)
	set(&sl, "narrator", p.Narrator)
	set(&sl, "category", p.Category)
	set(&sl, "book_number", p.BookNumber)
	set(&sl, "hadith_number", p.HadithNumber)
	set(&sl, "grade", p.Grade)
	if sl.empty() {
		return s.GetHadith(id)
	}

	q, args := sl.query("hadiths", id, hadithColumns, true)
	var out model.Hadith
	if err := s.db.Get(&out, q, args...); err != nil {
		log.Error().Err(err).Str("id", id).Msg("[db] failed to update hadith")
		return model.Hadith{}, Classify(err)
	}
	return out, nil
}

func (s *pgStore) DeleteHadith(id string) error {
	return s.deleteByID("hadiths", id)
}

// likeEscaper makes user input match literally inside an ILIKE pattern,
// with backslash as the escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// hadithWhere renders the filter as a WHERE clause (possibly empty) and
// its positional arguments.
func hadithWhere(f model.HadithFilter) (string, []any) {
	var conds []string
	var args []any

	if c := strings.TrimSpace(f.Category); c != "" && c != AllCategories {
		args = append(args, c)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+likeEscaper.Replace(q)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(hadith_text ILIKE $%d OR narrator ILIKE $%d OR book_name ILIKE $%d)", n, n, n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// SearchHadiths returns one page of hadiths matching the filter, newest
// first, with the exact count of matching rows.
func (s *pgStore) SearchHadiths(f model.HadithFilter) (model.HadithPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = DefaultHadithPageSize
	}
	where, args := hadithWhere(f)

	var total int
	if err := s.db.Get(&total, `SELECT COUNT(*) FROM hadiths`+where, args...); err != nil {
		log.Error().Err(err).Msg("[db] failed to count hadiths")
		return model.HadithPage{}, Classify(err)
	}

	n := len(args)
	query := fmt.Sprintf(`SELECT %s FROM hadiths%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		hadithColumns, where, n+1, n+2)
	items := []model.Hadith{}
	pageArgs := append(args, f.PageSize, listing.Offset(f.Page, f.PageSize))
	if err := s.db.Select(&items, query, pageArgs...); err != nil {
		log.Error().Err(err).Msg("[db] failed to page hadiths")
		return model.HadithPage{}, Classify(err)
	}

	return model.HadithPage{Items: items, Total: total, Page: f.Page, PageSize: f.PageSize}, nil
}

// HadithCategories lists the distinct non-empty categories in use.
func (s *pgStore) HadithCategories() ([]string, error) {
	out := []string{}
	err := s.db.Select(&out, `
	SELECT DISTINCT category FROM hadiths
	WHERE category IS NOT NULL AND category <> ''
	ORDER BY category`)
	if err != nil {
		return nil, Classify(err)
	}
	return out, nil
}

// deleteByID removes one row; a missing row is ErrNotFound.
func (s *pgStore) deleteByID(table, id string) error {
	res, err := s.db.Exec(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, table), id)
	if err != nil {
		log.Error().Err(err).Str("table", table).Str("id", id).Msg("[db] delete failed")
		return Classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ErrNotFound, table, id)
	}
	return nil
}
