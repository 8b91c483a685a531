// Package fact describes warehouse-ready rows and the tables they land in
package fact

import (
	"regexp"
	"slices"
	"strings"

	perr "marketingetl/internal/platform/errors"
)

// Sentinels for missing descriptive text
const (
	MissingName   = "MISSING_NAME"
	MissingStatus = "MISSING_STATUS"
	Unknown       = "UNKNOWN"
)

// Missing returns the sentinel for a missing descriptive field, e.g. MISSING_SHIPPING_CITY
func Missing(field string) string {
	return "MISSING_" + strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(field), " ", "_"))
}

// Row is one normalized fact; Values is aligned to its Destination's Columns
type Row interface {
	Values() []any
}

// WriteMode is how a destination absorbs re-runs
type WriteMode string

// Write modes; the zero value is invalid and must be declared in configuration
const (
	// ModeUpsert inserts or, on natural key conflict, overwrites every non-key column
	ModeUpsert WriteMode = "upsert"
	// ModeInsert appends; re-running a period duplicates rows
	ModeInsert WriteMode = "insert"
)

// WriteModes lists the accepted spellings for configuration
var WriteModes = []string{string(ModeUpsert), string(ModeInsert)}

// Destination is a fact table, its column order and natural key
type Destination struct {
	Table   string
	Columns []string
	Key     []string
	Mode    WriteMode
}

var ident = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// Validate checks identifiers, key membership and the declared mode
func (d Destination) Validate() error {
	if !ident.MatchString(d.Table) {
		return perr.Configf("invalid table name %q", d.Table)
	}
	if len(d.Columns) == 0 {
		return perr.Configf("%s: no columns", d.Table)
	}
	seen := make(map[string]struct{}, len(d.Columns))
	for _, c := range d.Columns {
		if !ident.MatchString(c) || strings.Contains(c, ".") {
			return perr.Configf("%s: invalid column name %q", d.Table, c)
		}
		if _, dup := seen[c]; dup {
			return perr.Configf("%s: duplicate column %q", d.Table, c)
		}
		seen[c] = struct{}{}
	}
	for _, k := range d.Key {
		if _, ok := seen[k]; !ok {
			return perr.Configf("%s: key column %q is not a column", d.Table, k)
		}
	}
	switch d.Mode {
	case ModeUpsert:
		if len(d.Key) == 0 {
			return perr.Configf("%s: upsert requires a natural key", d.Table)
		}
	case ModeInsert:
	default:
		return perr.Configf("%s: write mode %q not declared (upsert|insert)", d.Table, d.Mode)
	}
	return nil
}

// IsKey reports whether column is part of the natural key
func (d Destination) IsKey(column string) bool { return slices.Contains(d.Key, column) }

// UpdateColumns are the non-key columns an upsert overwrites, in column order
func (d Destination) UpdateColumns() []string {
	out := make([]string, 0, len(d.Columns))
	for _, c := range d.Columns {
		if !d.IsKey(c) {
			out = append(out, c)
		}
	}
	return out
}

// KeyIndexes returns the positions of the key columns within Columns
func (d Destination) KeyIndexes() []int {
	out := make([]int, 0, len(d.Key))
	for _, k := range d.Key {
		out = append(out, slices.Index(d.Columns, k))
	}
	return out
}

// WithTable returns a copy of d writing to table, or d itself when table is empty
func (d Destination) WithTable(table string) Destination {
	if table != "" {
		d.Table = table
	}
	return d
}
