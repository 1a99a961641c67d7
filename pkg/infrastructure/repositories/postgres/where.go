package postgres

import (
	"fmt"
	"strings"
	"time"

	"github.com/vsinha/itam/pkg/domain/entities"
	"github.com/vsinha/itam/pkg/domain/repositories"
)

// where accumulates AND-ed conditions with positional arguments
type where struct {
	conds []string
	args  []any
}

// arg registers a value and returns its placeholder
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

// add appends a condition. Each %s in cond is replaced by the placeholder of
// the matching value.
func (w *where) add(cond string, values ...any) {
	placeholders := make([]any, len(values))
	for i, v := range values {
		placeholders[i] = w.arg(v)
	}
	w.conds = append(w.conds, fmt.Sprintf(cond, placeholders...))
}

// contains adds a case-insensitive substring match unless the filter is empty
func (w *where) contains(column string, f repositories.TextFilter) {
	if f.Empty() {
		return
	}
	w.add(column+" ILIKE %s ESCAPE '\\'", "%"+escapeLike(string(f))+"%")
}

// between adds inclusive date bounds for the set ends of r
func (w *where) between(column string, r repositories.DateRange) {
	if r.From != nil {
		w.add(column+" >= %s", dateOnly(*r.From))
	}
	if r.To != nil {
		w.add(column+" <= %s", dateOnly(*r.To))
	}
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// limit appends LIMIT and OFFSET placeholders for page
func (w *where) limit(page repositories.Page) string {
	page = page.Normalize()
	return fmt.Sprintf(" LIMIT %s OFFSET %s", w.arg(page.Size), w.arg(page.Offset()))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(strings.TrimSpace(s))
}

func dateOnly(t time.Time) time.Time {
	return entities.DateOf(t)
}
