package pipeline

import (
	"strings"
	"time"

	perr "marketingetl/internal/platform/errors"
)

// DateLayout is the wire format for period bounds
const DateLayout = "2006-01-02"

// DefaultDays is the length of the default reporting window
const DefaultDays = 7

// Period is a closed interval of UTC calendar days
type Period struct {
	Start time.Time
	End   time.Time
}

// NewPeriod truncates start and end to UTC days and checks their order
func NewPeriod(start, end time.Time) (Period, error) {
	p := Period{Start: day(start), End: day(end)}
	if p.Start.IsZero() || p.End.IsZero() {
		return Period{}, perr.Configf("period bounds are required")
	}
	if p.End.Before(p.Start) {
		return Period{}, perr.Configf("period end %s is before start %s", p.EndDate(), p.StartDate())
	}
	return p, nil
}

// DefaultPeriod is the DefaultDays full days ending yesterday, relative to now
func DefaultPeriod(now time.Time) Period {
	end := day(now).AddDate(0, 0, -1)
	return Period{Start: end.AddDate(0, 0, -(DefaultDays - 1)), End: end}
}

// ParsePeriod reads YYYY-MM-DD bounds; a blank bound takes its default
// from DefaultPeriod(now), and a lone start runs through yesterday
func ParsePeriod(start, end string, now time.Time) (Period, error) {
	def := DefaultPeriod(now)
	s, err := parseDay(start, def.Start)
	if err != nil {
		return Period{}, perr.WithField(err, "start")
	}
	e, err := parseDay(end, def.End)
	if err != nil {
		return Period{}, perr.WithField(err, "end")
	}
	return NewPeriod(s, e)
}

// StartDate renders Start as YYYY-MM-DD
func (p Period) StartDate() string { return p.Start.Format(DateLayout) }

// EndDate renders End as YYYY-MM-DD
func (p Period) EndDate() string { return p.End.Format(DateLayout) }

// Days is the inclusive number of days covered
func (p Period) Days() int { return int(p.End.Sub(p.Start).Hours()/24) + 1 }

// Contains reports whether t falls on a day inside the period
func (p Period) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(p.Start) && !d.After(p.End)
}

func (p Period) String() string { return p.StartDate() + ".." + p.EndDate() }

// Scope is the account and period one run covers
type Scope struct {
	Account string
	Period  Period
}

func parseDay(s string, def time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, perr.Wrapf(err, perr.ErrorCodeConfig, "invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}

func day(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
