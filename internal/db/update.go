package db

import (
	"fmt"
	"strings"
)

// setList accumulates "col = $n" assignments for partial updates.
type setList struct {
	cols []string
	args []any
}

func set[T any](s *setList, col string, v *T) {
	if v == nil {
		return
	}
	s.args = append(s.args, *v)
	s.cols = append(s.cols, fmt.Sprintf("%s = $%d", col, len(s.args)))
}

func (s *setList) empty() bool { return len(s.cols) == 0 }

// query renders UPDATE ... RETURNING for the row with the given id, which
// becomes the last positional argument.
func (s *setList) query(table, id, returning string, touch bool) (string, []any) {
	cols := s.cols
	if touch {
		cols = append(cols[:len(cols):len(cols)], "updated_at = now()")
	}
	args := append(s.args[:len(s.args):len(s.args)], id)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		table, strings.Join(cols, ", "), len(args), returning)
	return q, args
}
