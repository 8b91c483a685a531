package repo

import (
	"fmt"
	"strconv"
	"strings"

	"marketingetl/internal/core/fact"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/store"
)

// Statement renders the multi-row write for n rows of dest in dialect
//
// postgres upsert: INSERT ... ON CONFLICT (key) DO UPDATE SET c = EXCLUDED.c
// mysql upsert:    INSERT ... ON DUPLICATE KEY UPDATE c = VALUES(c)
// insert mode:     plain INSERT
func Statement(d store.Dialect, dest fact.Destination, n int) (string, error) {
	if n <= 0 {
		return "", perr.InvalidArgf("statement needs at least one row")
	}
	if d != store.DialectPostgres && d != store.DialectMySQL {
		return "", perr.Configf("no sql rendering for dialect %q", d)
	}
	q := quoter(d)

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(q(dest.Table))
	b.WriteString(" (")
	for i, c := range dest.Columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(q(c))
	}
	b.WriteString(") VALUES ")

	width := len(dest.Columns)
	for r := range n {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range width {
			if c > 0 {
				b.WriteString(", ")
			}
			if d == store.DialectPostgres {
				b.WriteByte('$')
				b.WriteString(strconv.Itoa(r*width + c + 1))
			} else {
				b.WriteByte('?')
			}
		}
		b.WriteByte(')')
	}

	if dest.Mode == fact.ModeUpsert {
		b.WriteString(conflictClause(d, dest, q))
	}
	return b.String(), nil
}

func conflictClause(d store.Dialect, dest fact.Destination, q func(string) string) string {
	upd := dest.UpdateColumns()
	sets := make([]string, 0, len(upd))
	switch d {
	case store.DialectPostgres:
		keys := make([]string, len(dest.Key))
		for i, k := range dest.Key {
			keys[i] = q(k)
		}
		if len(upd) == 0 {
			return " ON CONFLICT (" + strings.Join(keys, ", ") + ") DO NOTHING"
		}
		for _, c := range upd {
			sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", q(c), q(c)))
		}
		return " ON CONFLICT (" + strings.Join(keys, ", ") + ") DO UPDATE SET " + strings.Join(sets, ", ")
	default:
		if len(upd) == 0 {
			k := q(dest.Key[0])
			return " ON DUPLICATE KEY UPDATE " + k + " = " + k
		}
		for _, c := range upd {
			sets = append(sets, fmt.Sprintf("%s = VALUES(%s)", q(c), q(c)))
		}
		return " ON DUPLICATE KEY UPDATE " + strings.Join(sets, ", ")
	}
}

// quoter returns the identifier quoting for d; dotted names quote each part
func quoter(d store.Dialect) func(string) string {
	mark := `"`
	if d == store.DialectMySQL {
		mark = "`"
	}
	return func(id string) string {
		parts := strings.Split(id, ".")
		for i, p := range parts {
			parts[i] = mark + p + mark
		}
		return strings.Join(parts, ".")
	}
}

// Collapse keeps one row per natural key: the first position, the last values
func Collapse(dest fact.Destination, rows [][]any) [][]any {
	if len(dest.Key) == 0 || len(rows) < 2 {
		return rows
	}
	idx := dest.KeyIndexes()
	seen := make(map[string]int, len(rows))
	out := make([][]any, 0, len(rows))
	for _, r := range rows {
		k := keyOf(r, idx)
		if at, dup := seen[k]; dup {
			out[at] = r
			continue
		}
		seen[k] = len(out)
		out = append(out, r)
	}
	return out
}

func keyOf(row []any, idx []int) string {
	var b strings.Builder
	for i, at := range idx {
		if i > 0 {
			b.WriteByte(0x1f)
		}
		fmt.Fprintf(&b, "%v", row[at])
	}
	return b.String()
}

// flatten lays rows out as one positional argument list
func flatten(rows [][]any) []any {
	if len(rows) == 0 {
		return nil
	}
	out := make([]any, 0, len(rows)*len(rows[0]))
	for _, r := range rows {
		out = append(out, r...)
	}
	return out
}
