package envelope

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// PeriodKind defines the shape of a budget period.
type PeriodKind int

const (
	// Monthly periods follow the calendar month ("2025-01").
	Monthly PeriodKind = iota
	// Weekly periods follow the ISO-8601 week, Monday to Sunday ("2025-W03").
	Weekly
	// Biweekly periods are fourteen day spans counted from the epoch Monday
	// 2024-01-01 ("BW-26").
	Biweekly
	// Custom periods are arbitrary inclusive date spans
	// ("2025-01-01..2025-01-14"). They do not tile, so they have no
	// successor or predecessor.
	Custom
)

func (k PeriodKind) String() string {
	switch k {
	case Monthly:
		return "monthly"
	case Weekly:
		return "weekly"
	case Biweekly:
		return "biweekly"
	case Custom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParsePeriodKind parses a string into a PeriodKind.
func ParsePeriodKind(s string) (PeriodKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly", "month":
		return Monthly, nil
	case "weekly", "week":
		return Weekly, nil
	case "biweekly":
		return Biweekly, nil
	case "custom":
		return Custom, nil
	default:
		return 0, fmt.Errorf("unknown period kind: %q", s)
	}
}

// biweekEpoch is the Monday that biweekly period index 0 starts on.
var biweekEpoch = NewDate(2024, time.January, 1)

// Period is a temporal key for budget allocations: one calendar month, one
// ISO week, one fourteen-day biweekly span, or a custom inclusive range.
// Periods of every kind are ordered chronologically by start date, and the
// zero value is not a valid period (use the constructors).
type Period struct {
	kind       PeriodKind
	start, end Date
}

// MonthlyPeriod returns the monthly period for the given year and month.
func MonthlyPeriod(year int, month time.Month) Period {
	start := NewDate(year, month, 1)
	return Period{kind: Monthly, start: start, end: start.EndOfMonth()}
}

// WeeklyPeriod returns the ISO weekly period for the given ISO year and week.
// Weeks outside the year's ISO range are normalized forward ("2025-W60"
// lands in 2026), matching the lenient date constructors.
func WeeklyPeriod(year, week int) Period {
	// Jan 4 is always in ISO week 1.
	jan4 := NewDate(year, time.January, 4)
	start := jan4.StartOfWeek().Add((week - 1) * 7)
	return Period{kind: Weekly, start: start, end: start.Add(6)}
}

// BiweeklyPeriod returns the fourteen-day period with the given index from
// the biweekly epoch. Negative indexes address spans before the epoch.
func BiweeklyPeriod(index int) Period {
	start := biweekEpoch.Add(index * 14)
	return Period{kind: Biweekly, start: start, end: start.Add(13)}
}

// CustomPeriod returns the custom period spanning from 'from' to 'to'
// inclusive. The boundaries are swapped when reversed.
func CustomPeriod(from, to Date) Period {
	if from.After(to) {
		from, to = to, from
	}
	return Period{kind: Custom, start: from, end: to}
}

// PeriodOf returns the period of the given kind containing the date. For
// Custom the single-day period is returned, since arbitrary ranges carry no
// tiling to locate the date in.
func PeriodOf(kind PeriodKind, on Date) Period {
	switch kind {
	case Monthly:
		return MonthlyPeriod(on.Year(), on.Month())
	case Weekly:
		y, w := on.ISOWeek()
		return WeeklyPeriod(y, w)
	case Biweekly:
		days := biweekEpoch.DaysUntil(on)
		index := days / 14
		if days < 0 && days%14 != 0 {
			index--
		}
		return BiweeklyPeriod(index)
	default:
		return CustomPeriod(on, on)
	}
}

// CurrentPeriod returns the period of the given kind containing today.
func CurrentPeriod(kind PeriodKind) Period { return PeriodOf(kind, Today()) }

// Kind returns the period's kind.
func (p Period) Kind() PeriodKind { return p.kind }

// Start returns the first day of the period.
func (p Period) Start() Date { return p.start }

// End returns the last day of the period (inclusive).
func (p Period) End() Date { return p.end }

// Days returns the number of days in the period.
func (p Period) Days() int { return p.start.DaysUntil(p.end) + 1 }

// Contains reports whether the date falls inside the period.
func (p Period) Contains(on Date) bool { return !on.Before(p.start) && !on.After(p.end) }

// Range returns the period's span as a date range.
func (p Period) Range() Range { return Range{From: p.start, To: p.end} }

// Compare orders periods chronologically by start date, then end date.
func (p Period) Compare(q Period) int {
	if c := p.start.Compare(q.start); c != 0 {
		return c
	}
	return p.end.Compare(q.end)
}

// Before reports whether p starts strictly before q.
func (p Period) Before(q Period) bool { return p.Compare(q) < 0 }

// IsZero reports whether p is the zero value rather than a constructed period.
func (p Period) IsZero() bool { return p.start.IsZero() && p.end.IsZero() }

// Next returns the period immediately after p. Custom periods do not tile
// and return a validation error.
func (p Period) Next() (Period, error) {
	switch p.kind {
	case Monthly:
		return MonthlyPeriod(p.start.Year(), p.start.Month()+1), nil
	case Weekly, Biweekly:
		start := p.end.Add(1)
		return Period{kind: p.kind, start: start, end: start.Add(p.Days() - 1)}, nil
	default:
		return Period{}, Validationf("custom period %s has no successor", p)
	}
}

// Prev returns the period immediately before p. Custom periods do not tile
// and return a validation error.
func (p Period) Prev() (Period, error) {
	switch p.kind {
	case Monthly:
		return MonthlyPeriod(p.start.Year(), p.start.Month()-1), nil
	case Weekly, Biweekly:
		end := p.start.Add(-1)
		return Period{kind: p.kind, start: end.Add(-(p.Days() - 1)), end: end}, nil
	default:
		return Period{}, Validationf("custom period %s has no predecessor", p)
	}
}

// Index returns the biweekly index of p, meaningful for Biweekly periods only.
func (p Period) Index() int { return biweekEpoch.DaysUntil(p.start) / 14 }

// String returns the canonical identifier: "2025-01", "2025-W03", "BW-26" or
// "2025-01-01..2025-01-14".
func (p Period) String() string {
	switch p.kind {
	case Monthly:
		return p.start.Format("2006-01")
	case Weekly:
		y, w := p.start.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w)
	case Biweekly:
		return fmt.Sprintf("BW-%d", p.Index())
	default:
		return fmt.Sprintf("%s..%s", p.start, p.end)
	}
}

// Label returns a human readable name for the period.
func (p Period) Label() string {
	switch p.kind {
	case Monthly:
		return p.start.Format("January 2006")
	case Weekly:
		y, w := p.start.ISOWeek()
		return fmt.Sprintf("Week %d, %d", w, y)
	case Biweekly:
		return fmt.Sprintf("%s - %s", p.start.Format("Jan 2"), p.end.Format("Jan 2, 2006"))
	default:
		return fmt.Sprintf("%s to %s", p.start.Format("Jan 2, 2006"), p.end.Format("Jan 2, 2006"))
	}
}

var (
	monthlyPeriodRE  = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	weeklyPeriodRE   = regexp.MustCompile(`^(\d{4})-[Ww](\d{1,2})$`)
	biweeklyPeriodRE = regexp.MustCompile(`^[Bb][Ww]-(-?\d+)$`)
)

// ParsePeriod parses a period identifier. Beyond the canonical forms it
// resolves the keywords "current", "last" and "next" against today and the
// given default kind.
func ParsePeriod(str string, kind PeriodKind) (Period, error) {
	s := strings.TrimSpace(str)

	switch strings.ToLower(s) {
	case "current", "this", "":
		return CurrentPeriod(kind), nil
	case "last", "prev", "previous":
		return CurrentPeriod(kind).Prev()
	case "next":
		return CurrentPeriod(kind).Next()
	}

	if m := monthlyPeriodRE.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 {
			return Period{}, Validationf("invalid period %q: month out of range", str)
		}
		return MonthlyPeriod(year, time.Month(month)), nil
	}

	if m := weeklyPeriodRE.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		week, _ := strconv.Atoi(m[2])
		if week < 1 || week > isoWeeksIn(year) {
			return Period{}, Validationf("invalid period %q: year %s has %d ISO weeks", str, m[1], isoWeeksIn(year))
		}
		return WeeklyPeriod(year, week), nil
	}

	if m := biweeklyPeriodRE.FindStringSubmatch(s); m != nil {
		index, _ := strconv.Atoi(m[1])
		return BiweeklyPeriod(index), nil
	}

	if from, to, ok := strings.Cut(s, ".."); ok {
		start, err := ParseDate(from)
		if err != nil {
			return Period{}, Validationf("invalid period %q: %v", str, err)
		}
		end, err := ParseDate(to)
		if err != nil {
			return Period{}, Validationf("invalid period %q: %v", str, err)
		}
		return CustomPeriod(start, end), nil
	}

	return Period{}, Validationf("invalid period %q: want 2025-01, 2025-W03, BW-26 or 2025-01-01..2025-01-31", str)
}

// MustPeriod is like ParsePeriod with a Monthly default but panics on error.
func MustPeriod(str string) Period {
	p, err := ParsePeriod(str, Monthly)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// isoWeeksIn returns the number of ISO weeks in a year: Dec 28 is always in
// the year's last week.
func isoWeeksIn(year int) int {
	_, w := NewDate(year, time.December, 28).ISOWeek()
	return w
}

// Periods persist as their canonical identifier.

func (p Period) MarshalJSON() ([]byte, error) {
	s := p.String()
	return json.Marshal(&s)
}

func (p *Period) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParsePeriod(s, Monthly)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

var _ json.Marshaler = (*Period)(nil)
var _ json.Unmarshaler = (*Period)(nil)
