package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// tables that may be counted from the admin panel.
var countable = map[string]bool{
	"hadiths":         true,
	"prophet_stories": true,
	"adhkar":          true,
	"reciters":        true,
	"users":           true,
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// TableCount returns the exact row count of a whitelisted table.
func (s *pgStore) TableCount(table string) (int, error) {
	if !countable[table] {
		return 0, fmt.Errorf("%w: %q", ErrUnknownTable, table)
	}
	var n int
	if err := s.db.Get(&n, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)); err != nil {
		return 0, Classify(err)
	}
	return n, nil
}

// Step is one stage of a diagnosis.
type Step struct {
	Name    string `json:"name"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type Diagnosis struct {
	Healthy     bool   `json:"healthy"`
	HadithCount int    `json:"hadith_count"`
	Empty       bool   `json:"empty"`
	Steps       []Step `json:"steps"`
	ElapsedMs   int64  `json:"elapsed_ms"`
}

// Diagnose checks connectivity, then the hadiths table, its row count and
// a sample read, stopping at the first failure.
func (s *pgStore) Diagnose(ctx context.Context) Diagnosis {
	start := time.Now()
	var d Diagnosis
	fail := func(name string, err error) Diagnosis {
		d.Steps = append(d.Steps, Step{Name: name, Message: UserMessage(err)})
		d.ElapsedMs = time.Since(start).Milliseconds()
		log.Warn().Err(err).Str("step", name).Msg("[db] diagnosis failed")
		return d
	}
	pass := func(name, msg string) {
		d.Steps = append(d.Steps, Step{Name: name, OK: true, Message: msg})
	}

	if err := s.db.PingContext(ctx); err != nil {
		return fail("connection", err)
	}
	pass("connection", "")

	var one int
	if err := s.db.GetContext(ctx, &one, `SELECT 1 FROM hadiths LIMIT 1`); err != nil && !isNoRows(err) {
		return fail("hadiths_table", err)
	}
	pass("hadiths_table", "")

	if err := s.db.GetContext(ctx, &d.HadithCount, `SELECT COUNT(*) FROM hadiths`); err != nil {
		return fail("hadiths_count", err)
	}
	pass("hadiths_count", fmt.Sprintf("يوجد %d حديث في قاعدة البيانات", d.HadithCount))

	var id string
	err := s.db.GetContext(ctx, &id, `SELECT id FROM hadiths LIMIT 1`)
	switch {
	case isNoRows(err):
		d.Empty = true
		pass("sample", "الجدول فارغ - لا توجد أحاديث")
	case err != nil:
		return fail("sample", err)
	default:
		pass("sample", "")
	}

	d.Healthy = true
	d.ElapsedMs = time.Since(start).Milliseconds()
	return d
}
