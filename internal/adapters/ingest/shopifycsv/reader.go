package shopifycsv

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"os"
	"slices"
	"strings"

	"marketingetl/internal/core/normalize"
	"marketingetl/internal/core/pipeline"
	perr "marketingetl/internal/platform/errors"
	"marketingetl/internal/platform/logger"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// CheckHeader compares a header line against the expected column set;
// order is free, names are cleaned with normalize.Label, and a missing,
// unexpected or repeated column is a SchemaValidation error
func CheckHeader(header, want []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	var dup []string
	for i, h := range header {
		h = normalize.Label(h)
		if _, seen := idx[h]; seen {
			dup = append(dup, h)
			continue
		}
		idx[h] = i
	}
	var missing, extra []string
	for _, c := range want {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	for h := range idx {
		if !slices.Contains(want, h) {
			extra = append(extra, h)
		}
	}
	if len(missing)+len(extra)+len(dup) == 0 {
		return idx, nil
	}
	slices.Sort(extra)
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+quoteAll(missing))
	}
	if len(extra) > 0 {
		parts = append(parts, "unexpected "+quoteAll(extra))
	}
	if len(dup) > 0 {
		parts = append(parts, "repeated "+quoteAll(dup))
	}
	return nil, perr.SchemaValidationf("header mismatch: %s", strings.Join(parts, "; "))
}

func quoteAll(ss []string) string {
	q := make([]string, len(ss))
	for i, s := range ss {
		q[i] = `"` + s + `"`
	}
	return strings.Join(q, ", ")
}

// Read validates the header of r and then yields one decoded record per
// line. A UTF-8 (or UTF-16) byte order mark is consumed. A header mismatch
// fails before any line is yielded; a malformed line ends the sequence with
// a SourceSchema error naming the line.
func Read[R any](r io.Reader, x Export[R]) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		var zero R
		cr := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
		cr.ReuseRecord = true

		header, err := cr.Read()
		if errors.Is(err, io.EOF) {
			yield(zero, perr.SchemaValidationf("%s: empty file, expected header %s", x.Name, quoteAll(x.Columns)))
			return
		}
		if err != nil {
			yield(zero, perr.Wrapf(err, perr.ErrorCodeSourceSchema, "%s: read header", x.Name))
			return
		}
		idx, err := CheckHeader(header, x.Columns)
		if err != nil {
			yield(zero, perr.WithOp(err, x.Name))
			return
		}

		for {
			rec, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(zero, perr.Wrapf(err, perr.ErrorCodeSourceSchema, "%s: malformed csv", x.Name))
				return
			}
			line, _ := cr.FieldPos(0)
			get := func(col string) string { return rec[idx[col]] }
			if !yield(x.decode(line, get), nil) {
				return
			}
		}
	}
}

// Extractor implements pipeline.Extractor over one export file. Exports are
// produced for a chosen period upstream, so lines are not filtered by the
// scope; exports without a date column get the scope period stamped on.
type Extractor[R any] struct {
	export Export[R]
	path   string
	log    logger.Logger
}

// NewExtractor reads export from path
func NewExtractor[R any](log logger.Logger, export Export[R], path string) *Extractor[R] {
	if path == "" {
		panic("shopifycsv.NewExtractor requires a file path")
	}
	return &Extractor[R]{export: export, path: path, log: logger.Named(log, "shopifycsv")}
}

// Extract implements pipeline.Extractor
func (e *Extractor[R]) Extract(ctx context.Context, scope pipeline.Scope) iter.Seq2[R, error] {
	return func(yield func(R, error) bool) {
		var zero R
		f, err := os.Open(e.path)
		if err != nil {
			yield(zero, perr.WithField(perr.Wrapf(err, perr.ErrorCodeSourceUnavailable, "%s: open export", e.export.Name), e.path))
			return
		}
		defer func() { _ = f.Close() }()

		e.log.Info().Str("export", e.export.Name).Str("file", e.path).Str("period", scope.Period.String()).Msg("reading export")
		n := 0
		for rec, err := range Read(f, e.export) {
			if err == nil {
				err = ctx.Err()
			}
			if err != nil {
				yield(zero, err)
				return
			}
			n++
			if e.export.inPeriod != nil {
				rec = e.export.inPeriod(rec, scope.Period)
			}
			if !yield(rec, nil) {
				return
			}
		}
		e.log.Info().Str("export", e.export.Name).Int("lines", n).Msg("export read")
	}
}
